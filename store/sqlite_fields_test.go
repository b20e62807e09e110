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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestFieldsEncoding(t *testing.T) {
	for name, fields := range map[string]map[string]string{
		"empty":   {},
		"plain":   {"lat": "-338000000", "lon": "1512000000"},
		"markup":  {"k": `a<b & "c"`, "v": "line\nbreak"},
		"unicode": {"name": "Café Ōsaka", "": "empty key"},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := encodeFields(fields)
			require.NoError(t, err)

			got, err := decodeFields(b)
			require.NoError(t, err)
			assert.Equal(t, fields, got)
		})
	}
}

func TestFieldsEncodingDeterministic(t *testing.T) {
	fields := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}

	first, err := encodeFields(fields)
	require.NoError(t, err)

	for range 10 {
		b, err := encodeFields(fields)
		require.NoError(t, err)
		assert.Equal(t, first, b)
	}
}

func TestDecodeFieldsCorrupt(t *testing.T) {
	_, err := decodeFields([]byte{0xff, 0xff, 0xff})
	assert.ErrorContains(t, err, "corrupt fields")

	st, err := structpb.NewStruct(map[string]any{"lat": 12.5})
	require.NoError(t, err)

	b, err := proto.Marshal(st)
	require.NoError(t, err)

	_, err = decodeFields(b)
	assert.ErrorContains(t, err, "not a string")
}

func TestSQLiteFieldsRoundTrip(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "track.db"))
	require.NoError(t, err)

	t.Cleanup(func() { s.Close() })

	owner := Ref{Kind: TRACK, ID: -1}
	fields := map[string]string{"k": "name", "v": `Ünïcode & <xml> "quoted"`}

	_, err = s.Insert(Row{Kind: TAG, ID: -1, Owner: owner, Fields: fields})
	require.NoError(t, err)

	_, err = s.Insert(Row{Kind: TAG, ID: -2, Owner: owner})
	require.NoError(t, err)

	r, err := s.Get(TAG, -1)
	require.NoError(t, err)
	assert.Equal(t, fields, r.Fields)

	rows, err := s.GetByOwner(TAG, owner)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[1].Fields)
}
