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

package model

import (
	"sync"

	"golang.org/x/exp/constraints"

	"m4o.io/osmtrack/store"
)

// InternalID is the process-local working id of an entity. Internal ids are
// negative and never written into an exported document.
type InternalID int64

// OutputID is the positive id an entity carries inside one exported
// document. It is only meaningful for the export pass that assigned it.
type OutputID int64

// Sequence hands out values start, start+step, start+2*step and so on.
// It is not safe for concurrent use.
type Sequence[T constraints.Integer] struct {
	next T
	step T
}

// NewSequence returns a sequence whose first value is start.
func NewSequence[T constraints.Integer](start, step T) *Sequence[T] {
	return &Sequence[T]{next: start, step: step}
}

// Next returns the next value.
func (s *Sequence[T]) Next() T {
	v := s.next
	s.next += s.step

	return v
}

// Peek returns the value Next would return, without consuming it.
func (s *Sequence[T]) Peek() T {
	return s.next
}

// SkipPast moves the sequence so that no value it returns from now on is
// at or before seen, in the direction of the sequence.
func (s *Sequence[T]) SkipPast(seen T) {
	if s.step < 0 && s.next >= seen {
		s.next = seen + s.step
	} else if s.step > 0 && s.next <= seen {
		s.next = seen + s.step
	}
}

// Allocator issues internal ids, one decreasing sequence per entity kind,
// starting at -1. It is safe for concurrent use.
type Allocator struct {
	mu   sync.Mutex
	seqs map[store.Kind]*Sequence[InternalID]
}

// NewAllocator returns an allocator that has issued nothing.
func NewAllocator() *Allocator {
	return &Allocator{seqs: make(map[store.Kind]*Sequence[InternalID])}
}

// Next returns a fresh internal id for kind.
func (a *Allocator) Next(kind store.Kind) InternalID {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.sequence(kind).Next()
}

// Seed guarantees that ids issued for kind from now on are below lowest,
// typically the lowest id found in a persistent store.
func (a *Allocator) Seed(kind store.Kind, lowest InternalID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sequence(kind).SkipPast(lowest)
}

func (a *Allocator) sequence(kind store.Kind) *Sequence[InternalID] {
	s, ok := a.seqs[kind]
	if !ok {
		s = NewSequence[InternalID](-1, -1)
		a.seqs[kind] = s
	}

	return s
}
