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

package encoder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmtrack/internal/encoder"
	"m4o.io/osmtrack/model"
)

var epoch = time.Date(2024, 10, 28, 14, 21, 30, 0, time.UTC)

func newTrack(t *testing.T) *model.Track {
	t.Helper()

	lib, err := model.OpenLibrary(t.TempDir(), model.WithClock(func() time.Time { return epoch }))
	require.NoError(t, err)

	tr, err := lib.NewTrack("T")
	require.NoError(t, err)

	return tr
}

// exampleTrack holds a tagged POI and a two node area.
func exampleTrack(t *testing.T) *model.Track {
	t.Helper()

	tr := newTrack(t)

	poi, err := tr.NewNode(model.NewCoordinate(52.5, 13.4))
	require.NoError(t, err)
	require.NoError(t, poi.AddTag("amenity", "cafe"))

	w, err := tr.NewWay()
	require.NoError(t, err)

	_, err = w.NewNode(model.NewCoordinate(52.50, 13.40))
	require.NoError(t, err)
	_, err = w.NewNode(model.NewCoordinate(52.51, 13.41))
	require.NoError(t, err)
	require.NoError(t, w.SetArea(true))

	return tr
}

func TestWrite(t *testing.T) {
	tr := exampleTrack(t)

	var buf bytes.Buffer
	require.NoError(t, encoder.Write(&buf, tr, encoder.Options{Generator: "test", Indent: "  "}))

	expected := `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node lat="52.5000000" lon="13.4000000" id="1" timestamp="2024-10-28T14:21:30Z" version="1">
    <tag k="amenity" v="cafe"/>
  </node>
  <node lat="52.5000000" lon="13.4000000" id="2" timestamp="2024-10-28T14:21:30Z" version="1"/>
  <node lat="52.5100000" lon="13.4100000" id="3" timestamp="2024-10-28T14:21:30Z" version="1"/>
  <way id="1" timestamp="2024-10-28T14:21:30Z" version="1">
    <nd ref="2"/>
    <nd ref="3"/>
    <nd ref="2"/>
    <tag k="area" v="yes"/>
  </way>
</osm>
`

	assert.Equal(t, expected, buf.String())
}

func TestWriteTwiceIsStable(t *testing.T) {
	tr := exampleTrack(t)

	var first, second bytes.Buffer
	require.NoError(t, encoder.Write(&first, tr, encoder.Options{}))
	require.NoError(t, encoder.Write(&second, tr, encoder.Options{}))

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, 3, strings.Count(first.String(), "<nd "))
	assert.Contains(t, first.String(), `generator="osmtrack"`)
}

func TestWriteSkipsEmptyWays(t *testing.T) {
	tr := newTrack(t)

	_, err := tr.NewWay()
	require.NoError(t, err)

	area, err := tr.NewWay()
	require.NoError(t, err)
	require.NoError(t, area.SetArea(true))

	var buf bytes.Buffer
	require.NoError(t, encoder.Write(&buf, tr, encoder.Options{}))

	assert.NotContains(t, buf.String(), "<way")
	assert.NotContains(t, buf.String(), "<nd")
}

func TestWriteMedia(t *testing.T) {
	tr := newTrack(t)

	src := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg"), 0o600))

	tm, err := tr.AttachFile(model.PICTURE, src)
	require.NoError(t, err)

	n, err := tr.NewNode(model.NewCoordinate(1, 2))
	require.NoError(t, err)

	nm, err := n.AddMedia(model.AUDIO, "memo.m4a")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, encoder.Write(&buf, tr, encoder.Options{Media: true}))

	out := buf.String()
	assert.Contains(t, out, `<link href="`+tm.File+`"/>`)
	assert.Contains(t, out, `<link href="`+nm.File+`"/>`)
	assert.Less(t, strings.Index(out, tm.File), strings.Index(out, "<node"))

	buf.Reset()
	require.NoError(t, encoder.Write(&buf, tr, encoder.Options{}))
	assert.NotContains(t, buf.String(), "<link")
}

func TestWriteIgnoresLocale(t *testing.T) {
	t.Setenv("LANG", "de_DE.UTF-8")
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	t.Setenv("LC_NUMERIC", "de_DE.UTF-8")

	tr := newTrack(t)

	_, err := tr.NewNode(model.NewCoordinate(-33.856784, 151.215297))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, encoder.Write(&buf, tr, encoder.Options{}))

	assert.Contains(t, buf.String(), `lat="-33.8567840" lon="151.2152970"`)
}

func TestTable(t *testing.T) {
	tr := exampleTrack(t)

	lone, err := tr.NewNode(model.NewCoordinate(1, 1))
	require.NoError(t, err)

	empty, err := tr.NewWay()
	require.NoError(t, err)

	tbl, err := encoder.NewTable(tr)
	require.NoError(t, err)

	nodes := tbl.Nodes()
	require.Len(t, nodes, 4)
	assert.Equal(t, lone, nodes[1])

	for i, n := range nodes {
		assert.Equal(t, model.OutputID(i+1), tbl.NodeID(n.ID))
	}

	require.Len(t, tbl.Ways(), 1)
	assert.Equal(t, model.OutputID(1), tbl.WayID(tbl.Ways()[0].ID))
	assert.Panics(t, func() { tbl.WayID(empty.ID) })

	tbl.Discard()
	assert.Panics(t, func() { tbl.NodeID(lone.ID) })
}
