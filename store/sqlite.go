// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS rows (
	kind       INTEGER NOT NULL,
	id         INTEGER NOT NULL,
	owner_kind INTEGER NOT NULL,
	owner_id   INTEGER NOT NULL,
	seq        INTEGER NOT NULL DEFAULT 0,
	fields     BLOB NOT NULL DEFAULT x'',
	PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS rows_owner ON rows (kind, owner_kind, owner_id, seq);

CREATE TABLE IF NOT EXISTS lowest (
	kind INTEGER PRIMARY KEY,
	id   INTEGER NOT NULL
);
`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens, creating when needed, the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection serializes writers; the store has one writer anyway
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Debug("store opened", "path", path)

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(kind Kind, id int64) (*Row, error) {
	r := Row{Kind: kind, ID: id}

	var fields []byte

	err := s.db.QueryRow(
		"SELECT owner_kind, owner_id, seq, fields FROM rows WHERE kind = ? AND id = ?", kind, id).
		Scan(&r.Owner.Kind, &r.Owner.ID, &r.Seq, &fields)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.Ref(), err)
	}

	if r.Fields, err = decodeFields(fields); err != nil {
		return nil, fmt.Errorf("get %s: %w", r.Ref(), err)
	}

	return &r, nil
}

func (s *SQLite) GetByOwner(kind Kind, owner Ref) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT id, seq, fields FROM rows
		WHERE kind = ? AND owner_kind = ? AND owner_id = ?
		ORDER BY seq, id DESC
	`, kind, owner.Kind, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("get %s by owner %s: %w", kind, owner, err)
	}
	defer rows.Close()

	var result []Row

	for rows.Next() {
		r := Row{Kind: kind, Owner: owner}

		var fields []byte
		if err := rows.Scan(&r.ID, &r.Seq, &fields); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}

		if r.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.Ref(), err)
		}

		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *SQLite) Insert(row Row) (int64, error) {
	fields, err := encodeFields(row.Fields)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", row.Ref(), err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO rows (kind, id, owner_kind, owner_id, seq, fields) VALUES (?, ?, ?, ?, ?, ?)",
		row.Kind, row.ID, row.Owner.Kind, row.Owner.ID, row.Seq, fields)
	if err != nil {
		_ = tx.Rollback()

		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, fmt.Errorf("insert %s: %w", row.Ref(), ErrDuplicate)
		}

		return 0, fmt.Errorf("insert %s: %w", row.Ref(), err)
	}

	_, err = tx.Exec(`
		INSERT INTO lowest (kind, id) VALUES (?, ?)
		ON CONFLICT(kind) DO UPDATE SET id = MIN(id, excluded.id)
	`, row.Kind, row.ID)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert %s: %w", row.Ref(), err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return row.ID, nil
}

func (s *SQLite) Update(row Row) error {
	fields, err := encodeFields(row.Fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", row.Ref(), err)
	}

	res, err := s.db.Exec(
		"UPDATE rows SET owner_kind = ?, owner_id = ?, seq = ?, fields = ? WHERE kind = ? AND id = ?",
		row.Owner.Kind, row.Owner.ID, row.Seq, fields, row.Kind, row.ID)
	if err != nil {
		return fmt.Errorf("update %s: %w", row.Ref(), err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("update %s: %w", row.Ref(), err)
	} else if n == 0 {
		return fmt.Errorf("update %s: %w", row.Ref(), ErrNotFound)
	}

	return nil
}

func (s *SQLite) Delete(kind Kind, id int64) error {
	if _, err := s.db.Exec("DELETE FROM rows WHERE kind = ? AND id = ?", kind, id); err != nil {
		return fmt.Errorf("delete %s: %w", Ref{Kind: kind, ID: id}, err)
	}

	return nil
}

func (s *SQLite) Lowest(kind Kind) (int64, error) {
	var id int64

	err := s.db.QueryRow("SELECT id FROM lowest WHERE kind = ?", kind).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("lowest %s: %w", kind, err)
	}

	return id, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// encodeFields marshals fields as a protobuf Struct of string values.
func encodeFields(fields map[string]string) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	st := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}

	for k, v := range fields {
		st.Fields[k] = structpb.NewStringValue(v)
	}

	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

func decodeFields(b []byte) (map[string]string, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("corrupt fields: %w", err)
	}

	fields := make(map[string]string, len(st.GetFields()))

	for k, v := range st.GetFields() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("corrupt fields: %q is not a string", k)
		}

		fields[k] = s.StringValue
	}

	return fields, nil
}
