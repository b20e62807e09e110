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

// Package store is the narrow row-oriented persistence interface used to
// materialize tracks lazily, together with an in-memory and a SQLite
// implementation.
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned when inserting a row whose key already exists.
	ErrDuplicate = errors.New("row already exists")

	// ErrNotFound is returned when updating a row that does not exist.
	ErrNotFound = errors.New("row not found")
)

// Kind is an enumeration of the persisted entity kinds.
type Kind int32

const (
	// TRACK denotes a recording session.
	TRACK Kind = iota

	// NODE denotes a POI or way vertex.
	NODE

	// WAY denotes a way or area.
	WAY

	// TAG denotes a single key/value pair.
	TAG

	// MEDIA denotes a media file reference.
	MEDIA
)

// Kinds lists every Kind, in declaration order.
var Kinds = []Kind{TRACK, NODE, WAY, TAG, MEDIA}

func (k Kind) String() string {
	switch k {
	case TRACK:
		return "TRACK"
	case NODE:
		return "NODE"
	case WAY:
		return "WAY"
	case TAG:
		return "TAG"
	case MEDIA:
		return "MEDIA"
	default:
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
}

// Ref identifies a row by kind and id. The zero Ref (a TRACK with id 0) is
// used as the owner of rows that have none.
type Ref struct {
	Kind Kind
	ID   int64
}

// NoOwner is the owner of top level rows.
var NoOwner = Ref{}

// IsZero reports whether r is NoOwner.
func (r Ref) IsZero() bool {
	return r == NoOwner
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// Row is a single persisted entity. Seq orders rows sharing an owner.
type Row struct {
	Kind   Kind
	ID     int64
	Owner  Ref
	Seq    int
	Fields map[string]string
}

// Ref returns the reference of the row itself.
func (r Row) Ref() Ref {
	return Ref{Kind: r.Kind, ID: r.ID}
}

// Field returns the named field, or the empty string.
func (r Row) Field(name string) string {
	return r.Fields[name]
}

// clone returns a copy of the row that shares no map with r.
func (r Row) clone() Row {
	c := r
	if r.Fields != nil {
		c.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			c.Fields[k] = v
		}
	}

	return c
}

// Store is a synchronous row store, crash consistent at the single row
// level. Implementations must allow concurrent readers.
type Store interface {
	// Get returns the row, or nil when it does not exist.
	Get(kind Kind, id int64) (*Row, error)

	// GetByOwner returns every row of kind owned by owner, ordered by Seq.
	GetByOwner(kind Kind, owner Ref) ([]Row, error)

	// Insert stores a new row and returns its id.
	Insert(row Row) (int64, error)

	// Update replaces an existing row.
	Update(row Row) error

	// Delete removes a row. Deleting a missing row is not an error.
	Delete(kind Kind, id int64) error

	// Lowest returns the smallest id ever stored for kind, or 0.
	Lowest(kind Kind) (int64, error)

	Close() error
}
