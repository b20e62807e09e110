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

package info

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmtrack"
	"m4o.io/osmtrack/model"
)

var created = time.Date(2024, 10, 28, 14, 21, 30, 0, time.UTC)

func newTrack(t *testing.T) *model.Library {
	t.Helper()

	lib, err := model.OpenLibrary(t.TempDir(), model.WithClock(func() time.Time { return created }))
	require.NoError(t, err)

	tr, err := lib.NewTrack("walk")
	require.NoError(t, err)
	require.NoError(t, tr.SetComment("around the lake"))

	_, err = tr.NewNode(model.NewCoordinate(46.5, 6.6))
	require.NoError(t, err)

	w, err := tr.NewWay()
	require.NoError(t, err)

	_, err = w.NewNode(model.NewCoordinate(46.50, 6.60))
	require.NoError(t, err)
	_, err = w.NewNode(model.NewCoordinate(46.51, 6.60))
	require.NoError(t, err)

	return lib
}

func TestRunInfo(t *testing.T) {
	lib := newTrack(t)

	info, err := runInfo(lib, "walk")
	require.NoError(t, err)

	assert.Equal(t, "walk", info.Name)
	assert.Equal(t, "around the lake", info.Comment)
	assert.Equal(t, model.New, info.State)
	assert.Equal(t, 1, info.POIs)
	assert.Equal(t, 1, info.Ways)
	assert.Equal(t, 3, info.Nodes)
	assert.InDelta(t, 1112, info.Length, 1)
	assert.Empty(t, info.Export)

	tr, err := lib.OpenTrack("walk")
	require.NoError(t, err)

	path, err := osmtrack.Export(tr)
	require.NoError(t, err)

	info, err = runInfo(lib, "walk")
	require.NoError(t, err)
	assert.Equal(t, path, info.Export)
	assert.Positive(t, info.ExportSize)

	_, err = runInfo(lib, "missing")
	assert.ErrorIs(t, err, model.ErrTrackNotFound)
}

func TestRenderJSON(t *testing.T) {
	lib := newTrack(t)

	info, err := runInfo(lib, "walk")
	require.NoError(t, err)

	// mock out to collect JSON output
	buf := &bytes.Buffer{}

	saved := out

	defer func() { out = saved }()

	out = buf

	require.NoError(t, renderJSON(info))

	decoded := &trackInfo{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), decoded))

	assert.Equal(t, info.Name, decoded.Name)
	assert.Equal(t, info.Nodes, decoded.Nodes)
	assert.True(t, info.Bounds.EqualWithin(decoded.Bounds, model.E6))
}

func TestRenderText(t *testing.T) {
	info := &trackInfo{
		Summary: model.Summary{
			Name:    "walk",
			Created: created,
			Comment: "around the lake",
			State:   model.Persisted,
			POIs:    1,
			Ways:    2,
			Nodes:   1234,
			Media:   3,
			Length:  12345,
			Bounds:  &model.BoundingBox{Top: 46.51, Left: 6.6, Bottom: 46.5, Right: 6.61},
		},
		Export:     "/tracks/walk/walk.osm.gz",
		ExportSize: 42_000,
	}

	// mock out to collect text output
	buf := &bytes.Buffer{}

	saved := out

	defer func() { out = saved }()

	out = buf

	renderTxt(info)

	assert.Equal(t, `Name: walk
Created: 2024-10-28T14:21:30Z
Comment: around the lake
State: persisted
POIs: 1
Ways: 2
Nodes: 1,234
Media: 3
Length: 12.3 km
BoundingBox: [(46.51, 6.6) (46.5, 6.61)]
Export: /tracks/walk/walk.osm.gz (42 kB)
`, buf.String())
}
