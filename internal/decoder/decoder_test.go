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

package decoder_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmtrack/internal/decoder"
	"m4o.io/osmtrack/internal/encoder"
	"m4o.io/osmtrack/model"
)

const example = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <link href="track.jpg"/>
  <node lat="52.5000000" lon="13.4000000" id="1" timestamp="2024-10-28T14:21:30Z" version="1">
    <tag k="amenity" v="cafe"/>
    <link href="cafe.jpg"/>
  </node>
  <node lat="52.5000000" lon="13.4000000" id="2" timestamp="2024-10-28T14:21:30Z" version="1"/>
  <node lat="52.5100000" lon="13.4100000" id="3" timestamp="2024-10-28T14:21:30Z" version="1"/>
  <way id="1" timestamp="2024-10-28T14:21:30Z" version="1">
    <nd ref="2"/>
    <nd ref="3"/>
    <nd ref="2"/>
    <tag k="area" v="yes"/>
    <tag k="building" v="yes"/>
  </way>
</osm>
`

func TestParse(t *testing.T) {
	doc, err := decoder.Parse(strings.NewReader(example))
	require.NoError(t, err)

	assert.Equal(t, model.Header{Version: "0.6", Generator: "test"}, doc.Header)
	assert.Equal(t, []string{"track.jpg"}, doc.Links)
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Ways, 1)

	n := doc.Nodes[0]
	assert.Equal(t, int64(1), n.ID)
	assert.Equal(t, model.NewCoordinate(52.5, 13.4), n.Coord)
	assert.Equal(t, time.Date(2024, 10, 28, 14, 21, 30, 0, time.UTC), n.Timestamp)
	assert.Equal(t, map[string]string{"amenity": "cafe"}, n.Tags)
	assert.Equal(t, []string{"cafe.jpg"}, n.Links)

	w := doc.Ways[0]
	assert.Equal(t, []int64{2, 3, 2}, w.Refs)
	assert.Equal(t, map[string]string{"area": "yes", "building": "yes"}, w.Tags)
}

func TestParseCompressed(t *testing.T) {
	for _, c := range encoder.Compressions {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer

			p, err := encoder.NewPacker(&buf, c)
			require.NoError(t, err)

			_, err = p.Write([]byte(example))
			require.NoError(t, err)
			require.NoError(t, p.Close())

			doc, err := decoder.Parse(&buf)
			require.NoError(t, err)
			assert.Len(t, doc.Nodes, 3)
			assert.Len(t, doc.Ways, 1)
		})
	}
}

func TestParseLenient(t *testing.T) {
	doc, err := decoder.Parse(strings.NewReader(`<osm>
  <node id="-5" lat="1.5" lon="-2.25"/>
  <node id="7" lat="1" lon="2" timestamp="2024-10-28T16:21:30+02:00"/>
  <way id="-1"/>
</osm>`))
	require.NoError(t, err)

	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, int64(-5), doc.Nodes[0].ID)
	assert.True(t, doc.Nodes[0].Timestamp.IsZero())
	assert.Equal(t, model.Coordinate{Lat: 1_500_000, Lon: -2_250_000}, doc.Nodes[0].Coord)
	assert.Equal(t, time.Date(2024, 10, 28, 14, 21, 30, 0, time.UTC), doc.Nodes[1].Timestamp)

	require.Len(t, doc.Ways, 1)
	assert.Empty(t, doc.Ways[0].Refs)
}

func TestParseDropsLinksOutsideTrack(t *testing.T) {
	doc, err := decoder.Parse(strings.NewReader(`<osm>
  <link href="../notes.txt"/>
  <link href="notes.txt"/>
  <node id="1" lat="1" lon="1">
    <link href="../../victim.txt"/>
    <link href="/etc/passwd"/>
    <link href="photo.jpg"/>
  </node>
  <way id="2"><link href=".."/><link href="sub/clip.mp4"/></way>
</osm>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.txt"}, doc.Links)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, []string{"photo.jpg"}, doc.Nodes[0].Links)
	require.Len(t, doc.Ways, 1)
	assert.Empty(t, doc.Ways[0].Links)
}

func TestParseCorrupt(t *testing.T) {
	test_cases := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"not xml", `{"osm": true}`},
		{"truncated", `<osm><node id="1" lat="1" lon="1">`},
		{"wrong root", `<gpx/>`},
		{"node without id", `<osm><node lat="1" lon="1"/></osm>`},
		{"node without lat", `<osm><node id="1" lon="1"/></osm>`},
		{"node without lon", `<osm><node id="1" lat="1"/></osm>`},
		{"bad id", `<osm><node id="x" lat="1" lon="1"/></osm>`},
		{"comma decimal", `<osm><node id="1" lat="52,5" lon="1"/></osm>`},
		{"latitude out of range", `<osm><node id="1" lat="91" lon="1"/></osm>`},
		{"bad timestamp", `<osm><node id="1" lat="1" lon="1" timestamp="yesterday"/></osm>`},
		{"tag without key", `<osm><node id="1" lat="1" lon="1"><tag v="x"/></node></osm>`},
		{"link without href", `<osm><link/></osm>`},
		{"way without id", `<osm><way/></osm>`},
		{"nd without ref", `<osm><way id="1"><nd/></way></osm>`},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decoder.Parse(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, decoder.ErrCorrupt)
		})
	}
}

func TestResolve(t *testing.T) {
	doc, err := decoder.Parse(strings.NewReader(example))
	require.NoError(t, err)

	res, err := decoder.Resolve(doc)
	require.NoError(t, err)

	require.Len(t, res.POIs, 1)
	assert.Equal(t, int64(1), res.POIs[0].ID)

	require.Len(t, res.Ways, 1)
	w := res.Ways[0]
	assert.True(t, w.Area)
	assert.Equal(t, map[string]string{"building": "yes"}, w.Tags)
	require.Len(t, w.Members, 2)
	assert.Equal(t, int64(2), w.Members[0].ID)
	assert.Equal(t, int64(3), w.Members[1].ID)
}

func TestResolvePermissive(t *testing.T) {
	doc, err := decoder.Parse(strings.NewReader(`<osm>
  <node id="1" lat="1" lon="1"/>
  <node id="2" lat="2" lon="2"/>
  <node id="3" lat="3" lon="3"/>
  <node id="4" lat="4" lon="4"/>
  <way id="10"><nd ref="2"/><nd ref="99"/><nd ref="3"/><nd ref="2"/></way>
  <way id="11"><nd ref="3"/><nd ref="4"/><tag k="area" v="no"/></way>
  <way id="12"/>
</osm>`))
	require.NoError(t, err)

	res, err := decoder.Resolve(doc)
	require.NoError(t, err)

	ids := func(nodes []*decoder.Node) []int64 {
		var out []int64
		for _, n := range nodes {
			out = append(out, n.ID)
		}

		return out
	}

	require.Len(t, res.Ways, 3)
	assert.Equal(t, []int64{2, 3}, ids(res.Ways[0].Members))
	assert.Equal(t, []int64{4}, ids(res.Ways[1].Members))
	assert.False(t, res.Ways[1].Area)
	assert.Equal(t, map[string]string{"area": "no"}, res.Ways[1].Tags)
	assert.Empty(t, res.Ways[2].Members)
	assert.Equal(t, []int64{1}, ids(res.POIs))
}

func TestResolveDuplicateNode(t *testing.T) {
	doc, err := decoder.Parse(strings.NewReader(`<osm>
  <node id="1" lat="1" lon="1"/>
  <node id="1" lat="2" lon="2"/>
</osm>`))
	require.NoError(t, err)

	_, err = decoder.Resolve(doc)
	assert.ErrorIs(t, err, decoder.ErrCorrupt)
}
