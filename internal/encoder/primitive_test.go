package encoder

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmtrack/model"
)

func TestFormatTimestamp(t *testing.T) {
	ts, _ := time.Parse(time.RFC3339, "2022-02-13T20:40:22Z")

	assert.Equal(t, "2022-02-13T20:40:22Z", formatTimestamp(ts))
	assert.Equal(t, "2022-02-13T20:40:22Z", formatTimestamp(ts.In(time.FixedZone("CET", 3600))))
	assert.Equal(t, "", formatTimestamp(time.Time{}))
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "1", formatID(model.OutputID(1)))
	assert.Equal(t, "4294967296", formatID(model.OutputID(1<<32)))
}

func TestXMLWriter(t *testing.T) {
	var buf bytes.Buffer

	x := newXMLWriter(&buf, "\t")
	x.open("a", false, attr("k", `x "y" & <z>`))
	x.open("b", true)
	x.close("a")

	require.NoError(t, x.flush())
	assert.Equal(t, "\n<a k=\"x &#34;y&#34; &amp; &lt;z&gt;\">\n\t<b/>\n</a>", buf.String())
}

func TestWriteTagsSorted(t *testing.T) {
	var buf bytes.Buffer

	x := newXMLWriter(&buf, "")
	ec := &elementContext{x: x}
	ec.writeTags(map[string]string{"name": "n", "amenity": "cafe", "cuisine": "coffee"})

	require.NoError(t, x.flush())
	assert.Equal(t, "\n<tag k=\"amenity\" v=\"cafe\"/>\n<tag k=\"cuisine\" v=\"coffee\"/>\n<tag k=\"name\" v=\"n\"/>", buf.String())
}

func TestParseCompression(t *testing.T) {
	for _, c := range Compressions {
		parsed, err := ParseCompression(c.String())
		assert.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	c, err := ParseCompression("none")
	assert.NoError(t, err)
	assert.Equal(t, RAW, c)

	_, err = ParseCompression("brotli")
	assert.Error(t, err)

	assert.Equal(t, ".osm.zst", ZSTD.Extension())
	assert.Equal(t, ".osm", RAW.Extension())
}
