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
	"fmt"
	"time"

	"m4o.io/osmtrack/store"
)

const (
	// AreaKey is the tag key reserved for the area flag of ways.
	AreaKey = "area"

	// AreaYes is the only value of AreaKey that marks a way as an area.
	AreaYes = "yes"

	fieldArea = "area"
)

// Way is an ordered sequence of nodes. An area is a way whose sequence is
// treated as a closed ring.
type Way struct {
	attachments

	ID InternalID

	area      bool
	timestamp time.Time

	loaded  bool
	nodes   []*Node
	nextSeq int
}

func (w *Way) isEntity() {}

// Timestamp returns when the way was created.
func (w *Way) Timestamp() time.Time {
	return w.timestamp
}

// Track returns the owning track.
func (w *Way) Track() *Track {
	return w.track
}

// IsArea reports whether the way is closed into a polygon.
func (w *Way) IsArea() bool {
	return w.area
}

// SetArea sets or clears the area flag. Setting it drops any area tag the
// way carries.
func (w *Way) SetArea(area bool) error {
	if area {
		if err := w.attachments.DeleteTag(AreaKey); err != nil {
			return err
		}
	}

	if w.area == area {
		return nil
	}

	c := *w
	c.area = area

	if err := w.lib.store.Update(c.row()); err != nil {
		return fmt.Errorf("cannot update way %d: %w", w.ID, err)
	}

	w.area = area

	return nil
}

// AddTag adds or replaces a tag. area=yes sets the area flag instead of
// being stored as a tag; any other area value clears the flag and is kept
// as an ordinary tag.
func (w *Way) AddTag(key, value string) error {
	if key != AreaKey {
		return w.attachments.AddTag(key, value)
	}

	if value == AreaYes {
		return w.SetArea(true)
	}

	if err := w.SetArea(false); err != nil {
		return err
	}

	return w.attachments.AddTag(key, value)
}

// DeleteTag deletes a tag. Deleting the area key also clears the area flag.
func (w *Way) DeleteTag(key string) error {
	if key == AreaKey {
		if err := w.SetArea(false); err != nil {
			return err
		}
	}

	return w.attachments.DeleteTag(key)
}

func (w *Way) row() store.Row {
	area := ""
	if w.area {
		area = AreaYes
	}

	return store.Row{
		Kind:  store.WAY,
		ID:    int64(w.ID),
		Owner: w.track.self,
		Fields: map[string]string{
			fieldArea: area,
			fieldTime: formatTime(w.timestamp),
		},
	}
}

// load reads the members.
func (w *Way) load() error {
	if w.loaded {
		return nil
	}

	rows, err := w.lib.store.GetByOwner(store.NODE, w.self)
	if err != nil {
		return fmt.Errorf("cannot load nodes of way %d: %w", w.ID, err)
	}

	nodes := make([]*Node, 0, len(rows))
	next := 0

	for _, r := range rows {
		n, err := w.lib.nodeFromRow(w.track, w, r)
		if err != nil {
			return err
		}

		nodes = append(nodes, n)
		next = r.Seq + 1
	}

	w.nodes, w.nextSeq, w.loaded = nodes, next, true

	return nil
}

// Nodes returns the members, in order.
func (w *Way) Nodes() ([]*Node, error) {
	if err := w.load(); err != nil {
		return nil, err
	}

	return append([]*Node(nil), w.nodes...), nil
}

// NewNode appends a new member at c, timestamped now.
func (w *Way) NewNode(c Coordinate) (*Node, error) {
	return w.NewNodeAt(c, w.lib.clock())
}

// NewNodeAt appends a new member at c with the given timestamp.
func (w *Way) NewNodeAt(c Coordinate, ts time.Time) (*Node, error) {
	if err := w.load(); err != nil {
		return nil, err
	}

	n, err := w.lib.createNode(w.track, w, c, ts, w.nextSeq)
	if err != nil {
		return nil, err
	}

	w.nextSeq++
	w.nodes = append(w.nodes, n)

	return n, nil
}

// AppendNode moves an existing node of the same track, a POI or a member of
// another way, to the end of w. The store sees a single row update.
func (w *Way) AppendNode(n *Node) error {
	if n.track != w.track {
		return fmt.Errorf("%w: node %d", ErrForeignNode, n.ID)
	}

	if err := w.load(); err != nil {
		return err
	}

	if n.way == w || indexOf(w.nodes, n.ID) >= 0 {
		return fmt.Errorf("%w: node %d", ErrDuplicateNode, n.ID)
	}

	if err := w.track.load(); err != nil {
		return err
	}

	if n.way != nil {
		if err := n.way.load(); err != nil {
			return err
		}
	}

	row, err := w.lib.store.Get(store.NODE, int64(n.ID))
	if err != nil {
		return fmt.Errorf("cannot read node %d: %w", n.ID, err)
	} else if row == nil {
		return fmt.Errorf("node %d: %w", n.ID, store.ErrNotFound)
	}

	row.Owner = w.self
	row.Seq = w.nextSeq

	if err := w.lib.store.Update(*row); err != nil {
		return fmt.Errorf("cannot move node %d: %w", n.ID, err)
	}

	if n.way != nil {
		n.way.detach(n.ID)
	} else if i := indexOf(w.track.pois, n.ID); i >= 0 {
		w.track.pois = append(w.track.pois[:i], w.track.pois[i+1:]...)
	}

	n.way = w
	w.nextSeq++
	w.nodes = append(w.nodes, n)

	return nil
}

// RemoveNode deletes a member with its tags and media. Removing a node that
// is not a member is a no-op.
func (w *Way) RemoveNode(id InternalID) error {
	if err := w.load(); err != nil {
		return err
	}

	i := indexOf(w.nodes, id)
	if i < 0 {
		return nil
	}

	if err := w.nodes[i].delete(true); err != nil {
		return err
	}

	w.detach(id)

	return nil
}

func (w *Way) detach(id InternalID) {
	if i := indexOf(w.nodes, id); i >= 0 {
		w.nodes = append(w.nodes[:i], w.nodes[i+1:]...)
	}
}

// ToCoordinateArray returns the path of the way, followed by extra when
// given, and closed back to its first point when the way is an area.
func (w *Way) ToCoordinateArray(extra *Coordinate) ([]Coordinate, error) {
	if err := w.load(); err != nil {
		return nil, err
	}

	return w.coordinates(extra), nil
}

func (w *Way) coordinates(extra *Coordinate) []Coordinate {
	coords := make([]Coordinate, 0, len(w.nodes)+2)
	for _, n := range w.nodes {
		coords = append(coords, n.coord)
	}

	if extra != nil {
		coords = append(coords, *extra)
	}

	if w.area && len(coords) > 0 {
		coords = append(coords, coords[0])
	}

	return coords
}

// Length returns the length of the path in metres, including the closing
// segment of an area.
func (w *Way) Length() (float64, error) {
	if err := w.load(); err != nil {
		return 0, err
	}

	return w.length(), nil
}

func (w *Way) length() float64 {
	coords := w.coordinates(nil)

	var length float64
	for i := 1; i < len(coords); i++ {
		length += coords[i-1].Distance(coords[i])
	}

	return length
}

// delete removes the members, the tags, the media and the way row.
func (w *Way) delete(files bool) error {
	if err := w.load(); err != nil {
		return err
	}

	for len(w.nodes) > 0 {
		if err := w.nodes[0].delete(files); err != nil {
			return err
		}

		w.nodes = w.nodes[1:]
	}

	if err := w.deleteAll(files); err != nil {
		return err
	}

	if err := w.lib.store.Delete(store.WAY, int64(w.ID)); err != nil {
		return fmt.Errorf("cannot delete way %d: %w", w.ID, err)
	}

	return nil
}

func (l *Library) wayFromRow(t *Track, row store.Row) (*Way, error) {
	ts, err := parseTime(row.Field(fieldTime))
	if err != nil {
		return nil, fmt.Errorf("way %d: %w", row.ID, err)
	}

	w := &Way{
		ID:        InternalID(row.ID),
		area:      row.Field(fieldArea) == AreaYes,
		timestamp: ts,
	}
	w.attachments = newAttachments(l, t, row.Ref())

	if err := w.attachments.load(); err != nil {
		return nil, err
	}

	return w, nil
}
