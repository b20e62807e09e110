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
	"strconv"
	"time"

	"m4o.io/osmtrack/store"
)

// Field names of node rows.
const (
	fieldLat = "lat"
	fieldLon = "lon"
)

// Node is a single fix, owned either directly by a track (a POI) or by one
// of its ways (a vertex).
type Node struct {
	attachments

	ID InternalID

	coord     Coordinate
	timestamp time.Time
	way       *Way // nil for a POI
}

func (n *Node) isEntity() {}

// Coordinate returns the position of the node.
func (n *Node) Coordinate() Coordinate {
	return n.coord
}

// Timestamp returns when the node was recorded.
func (n *Node) Timestamp() time.Time {
	return n.timestamp
}

// Valid reports whether the node has a fix.
func (n *Node) Valid() bool {
	return n.coord.Valid()
}

// Track returns the track owning the node, directly or through a way.
func (n *Node) Track() *Track {
	return n.track
}

// Way returns the way owning the node, or nil for a POI.
func (n *Node) Way() *Way {
	return n.way
}

// IsPOI reports whether the node is owned directly by its track.
func (n *Node) IsPOI() bool {
	return n.way == nil
}

// Owner returns the store reference of the owning track or way.
func (n *Node) Owner() store.Ref {
	if n.way != nil {
		return n.way.self
	}

	return n.track.self
}

// SetCoordinate moves the node, typically once a GPS fix arrives.
func (n *Node) SetCoordinate(c Coordinate) error {
	row, err := n.lib.store.Get(store.NODE, int64(n.ID))
	if err != nil {
		return fmt.Errorf("cannot read node %d: %w", n.ID, err)
	} else if row == nil {
		return fmt.Errorf("node %d: %w", n.ID, store.ErrNotFound)
	}

	row.Fields[fieldLat] = strconv.Itoa(int(c.Lat))
	row.Fields[fieldLon] = strconv.Itoa(int(c.Lon))

	if err := n.lib.store.Update(*row); err != nil {
		return fmt.Errorf("cannot move node %d: %w", n.ID, err)
	}

	n.coord = c

	return nil
}

func (n *Node) row(seq int) store.Row {
	return store.Row{
		Kind:  store.NODE,
		ID:    int64(n.ID),
		Owner: n.Owner(),
		Seq:   seq,
		Fields: map[string]string{
			fieldLat:  strconv.Itoa(int(n.coord.Lat)),
			fieldLon:  strconv.Itoa(int(n.coord.Lon)),
			fieldTime: formatTime(n.timestamp),
		},
	}
}

// delete removes the node's tags, media and row.
func (n *Node) delete(files bool) error {
	if err := n.deleteAll(files); err != nil {
		return err
	}

	if err := n.lib.store.Delete(store.NODE, int64(n.ID)); err != nil {
		return fmt.Errorf("cannot delete node %d: %w", n.ID, err)
	}

	return nil
}

func (l *Library) createNode(t *Track, w *Way, c Coordinate, ts time.Time, seq int) (*Node, error) {
	n := &Node{
		ID:        l.ids.Next(store.NODE),
		coord:     c,
		timestamp: ts,
		way:       w,
	}
	n.attachments = newAttachments(l, t, store.Ref{Kind: store.NODE, ID: int64(n.ID)})

	if _, err := l.store.Insert(n.row(seq)); err != nil {
		return nil, fmt.Errorf("cannot create node: %w", err)
	}

	return n, nil
}

func (l *Library) nodeFromRow(t *Track, w *Way, row store.Row) (*Node, error) {
	lat, err := strconv.Atoi(row.Field(fieldLat))
	if err != nil {
		return nil, fmt.Errorf("node %d: invalid latitude: %w", row.ID, err)
	}

	lon, err := strconv.Atoi(row.Field(fieldLon))
	if err != nil {
		return nil, fmt.Errorf("node %d: invalid longitude: %w", row.ID, err)
	}

	ts, err := parseTime(row.Field(fieldTime))
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", row.ID, err)
	}

	n := &Node{
		ID:        InternalID(row.ID),
		coord:     Coordinate{Lat: Microdegrees(lat), Lon: Microdegrees(lon)},
		timestamp: ts,
		way:       w,
	}
	n.attachments = newAttachments(l, t, row.Ref())

	if err := n.attachments.load(); err != nil {
		return nil, err
	}

	return n, nil
}
