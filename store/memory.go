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
	"fmt"
	"sort"
	"sync"
)

// Memory is a Store held entirely in memory.
type Memory struct {
	mu     sync.RWMutex
	rows   map[Ref]Row
	lowest map[Kind]int64
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		rows:   make(map[Ref]Row),
		lowest: make(map[Kind]int64),
	}
}

func (m *Memory) Get(kind Kind, id int64) (*Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rows[Ref{Kind: kind, ID: id}]
	if !ok {
		return nil, nil
	}

	c := r.clone()

	return &c, nil
}

func (m *Memory) GetByOwner(kind Kind, owner Ref) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []Row

	for ref, r := range m.rows {
		if ref.Kind == kind && r.Owner == owner {
			rows = append(rows, r.clone())
		}
	}

	sortRows(rows)

	return rows, nil
}

func (m *Memory) Insert(row Row) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref := row.Ref()
	if _, ok := m.rows[ref]; ok {
		return 0, fmt.Errorf("insert %s: %w", ref, ErrDuplicate)
	}

	m.rows[ref] = row.clone()

	if row.ID < m.lowest[row.Kind] {
		m.lowest[row.Kind] = row.ID
	}

	return row.ID, nil
}

func (m *Memory) Update(row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref := row.Ref()
	if _, ok := m.rows[ref]; !ok {
		return fmt.Errorf("update %s: %w", ref, ErrNotFound)
	}

	m.rows[ref] = row.clone()

	return nil
}

func (m *Memory) Delete(kind Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rows, Ref{Kind: kind, ID: id})

	return nil
}

func (m *Memory) Lowest(kind Kind) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lowest[kind], nil
}

// Len returns the number of rows of kind.
func (m *Memory) Len(kind Kind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int

	for ref := range m.rows {
		if ref.Kind == kind {
			n++
		}
	}

	return n
}

func (m *Memory) Close() error {
	return nil
}

// sortRows orders rows by Seq, then by creation order. Ids are allocated
// downwards from -1, so a larger id was created earlier.
func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Seq != rows[j].Seq {
			return rows[i].Seq < rows[j].Seq
		}

		return rows[i].ID > rows[j].ID
	})
}
