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

package model_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/osmtrack/model"
	"m4o.io/osmtrack/store"
)

func TestSequence(t *testing.T) {
	up := model.NewSequence[model.OutputID](1, 1)
	assert.Equal(t, model.OutputID(1), up.Next())
	assert.Equal(t, model.OutputID(2), up.Next())
	assert.Equal(t, model.OutputID(3), up.Peek())

	up.SkipPast(10)
	assert.Equal(t, model.OutputID(11), up.Next())

	up.SkipPast(5)
	assert.Equal(t, model.OutputID(12), up.Next())

	down := model.NewSequence[model.InternalID](-1, -1)
	down.SkipPast(-7)
	assert.Equal(t, model.InternalID(-8), down.Next())

	down.SkipPast(-2)
	assert.Equal(t, model.InternalID(-9), down.Next())
}

func TestAllocator(t *testing.T) {
	a := model.NewAllocator()

	assert.Equal(t, model.InternalID(-1), a.Next(store.NODE))
	assert.Equal(t, model.InternalID(-2), a.Next(store.NODE))
	assert.Equal(t, model.InternalID(-1), a.Next(store.WAY))

	a.Seed(store.WAY, -40)
	assert.Equal(t, model.InternalID(-41), a.Next(store.WAY))

	a.Seed(store.TAG, 0)
	assert.Equal(t, model.InternalID(-1), a.Next(store.TAG))
}

func TestAllocatorConcurrent(t *testing.T) {
	const (
		workers   = 8
		perWorker = 500
	)

	a := model.NewAllocator()

	var (
		mu   sync.Mutex
		seen = make(map[model.InternalID]bool)
		wg   sync.WaitGroup
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ids := make([]model.InternalID, 0, perWorker)
			for range perWorker {
				ids = append(ids, a.Next(store.NODE))
			}

			mu.Lock()
			defer mu.Unlock()

			for _, id := range ids {
				seen[id] = true
			}
		}()
	}

	wg.Wait()

	assert.Len(t, seen, workers*perWorker)

	for id := range seen {
		assert.Less(t, int64(id), int64(0))
	}
}
