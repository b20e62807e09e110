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

package encoder

import (
	"encoding/xml"
	"sort"
	"strconv"
	"time"

	"m4o.io/osmtrack/model"
)

const (
	// TimestampLayout formats the timestamp attribute of nodes and ways.
	TimestampLayout = "2006-01-02T15:04:05Z"

	// EntityVersion is written as the version attribute of every entity.
	EntityVersion = "1"
)

// elementContext carries what the element writers of one pass share.
type elementContext struct {
	x     *xmlWriter
	table *Table
	media bool
}

func (ec *elementContext) writeNode(n *model.Node) {
	c := n.Coordinate()
	attrs := []xml.Attr{
		attr("lat", c.Lat.Format7()),
		attr("lon", c.Lon.Format7()),
		attr("id", formatID(ec.table.NodeID(n.ID))),
	}

	if ts := formatTimestamp(n.Timestamp()); ts != "" {
		attrs = append(attrs, attr("timestamp", ts))
	}

	attrs = append(attrs, attr("version", EntityVersion))

	tags, media := n.Tags(), ec.links(n)
	if len(tags) == 0 && len(media) == 0 {
		ec.x.open("node", true, attrs...)
		return
	}

	ec.x.open("node", false, attrs...)
	ec.writeTags(tags)
	ec.writeLinks(media)
	ec.x.close("node")
}

func (ec *elementContext) writeWay(w *model.Way) error {
	members, err := w.Nodes()
	if err != nil {
		return err
	}

	attrs := []xml.Attr{attr("id", formatID(ec.table.WayID(w.ID)))}

	if ts := formatTimestamp(w.Timestamp()); ts != "" {
		attrs = append(attrs, attr("timestamp", ts))
	}

	attrs = append(attrs, attr("version", EntityVersion))

	ec.x.open("way", false, attrs...)

	for _, n := range members {
		ec.writeRef(n)
	}

	if w.IsArea() && len(members) > 0 {
		ec.writeRef(members[0])
		ec.writeTag(model.AreaKey, model.AreaYes)
	}

	ec.writeTags(w.Tags())
	ec.writeLinks(ec.links(w))
	ec.x.close("way")

	return nil
}

func (ec *elementContext) writeRef(n *model.Node) {
	ec.x.open("nd", true, attr("ref", formatID(ec.table.NodeID(n.ID))))
}

// writeTags writes the tags sorted by key. area=yes never appears here;
// ways carry it as a flag.
func (ec *elementContext) writeTags(tags map[string]string) {
	keys := make([]string, 0, len(tags))

	for k := range tags {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		ec.writeTag(k, tags[k])
	}
}

func (ec *elementContext) writeTag(k, v string) {
	ec.x.open("tag", true, attr("k", k), attr("v", v))
}

func (ec *elementContext) writeLinks(media []model.Media) {
	for _, m := range media {
		ec.x.open("link", true, attr("href", m.File))
	}
}

// links returns the media of e to be written as links, none when media
// emission is off.
func (ec *elementContext) links(e model.Entity) []model.Media {
	if !ec.media {
		return nil
	}

	return e.Media()
}

func formatID(id model.OutputID) string {
	return strconv.FormatInt(int64(id), 10)
}

// formatTimestamp renders ts in UTC, or returns the empty string for the
// zero time.
func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}

	return ts.UTC().Format(TimestampLayout)
}
