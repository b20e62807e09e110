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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/destel/rill"

	"m4o.io/osmtrack/store"
)

// Field names of track rows.
const (
	fieldName    = "name"
	fieldComment = "comment"
	fieldNew     = "new"
	fieldTime    = "time"
)

// Track is a named recording session owning POIs and ways.
type Track struct {
	attachments

	ID InternalID

	name    string
	created time.Time
	comment string
	isNew   bool
	deleted bool

	loaded bool
	pois   []*Node
	ways   []*Way
}

func (t *Track) isEntity() {}

// Name returns the track name, which is also its directory name.
func (t *Track) Name() string {
	return t.name
}

// Created returns the creation time.
func (t *Track) Created() time.Time {
	return t.created
}

// Comment returns the free-text comment.
func (t *Track) Comment() string {
	return t.comment
}

// IsNew reports whether the track has not been kept yet.
func (t *Track) IsNew() bool {
	return t.isNew
}

// State returns New, Persisted or Deleted. Only a session knows whether a
// track is Active.
func (t *Track) State() TrackState {
	switch {
	case t.deleted:
		return Deleted
	case t.isNew:
		return New
	default:
		return Persisted
	}
}

// Dir returns the directory holding the track's export and media files.
func (t *Track) Dir() string {
	return t.lib.Dir(t.name)
}

// Library returns the library the track belongs to.
func (t *Track) Library() *Library {
	return t.lib
}

// SetComment replaces the comment.
func (t *Track) SetComment(comment string) error {
	return t.update(func(tr *Track) { tr.comment = comment })
}

// MarkPersisted clears the new flag.
func (t *Track) MarkPersisted() error {
	if !t.isNew {
		return nil
	}

	return t.update(func(tr *Track) { tr.isNew = false })
}

// update applies change to a copy of the track's persisted fields, writes
// the copy and only then applies change to t.
func (t *Track) update(change func(*Track)) error {
	if t.deleted {
		return ErrTrackDeleted
	}

	c := *t
	change(&c)

	if err := t.lib.store.Update(c.row()); err != nil {
		return fmt.Errorf("cannot update track %q: %w", t.name, err)
	}

	change(t)

	return nil
}

func (t *Track) row() store.Row {
	isNew := "0"
	if t.isNew {
		isNew = "1"
	}

	return store.Row{
		Kind:  store.TRACK,
		ID:    int64(t.ID),
		Owner: store.NoOwner,
		Fields: map[string]string{
			fieldName:    t.name,
			fieldTime:    formatTime(t.created),
			fieldComment: t.comment,
			fieldNew:     isNew,
		},
	}
}

// load reads the POIs and ways, but not the way members.
func (t *Track) load() error {
	if t.deleted {
		return ErrTrackDeleted
	}

	if t.loaded {
		return nil
	}

	nodes, err := t.lib.store.GetByOwner(store.NODE, t.self)
	if err != nil {
		return fmt.Errorf("cannot load nodes of track %q: %w", t.name, err)
	}

	pois := make([]*Node, 0, len(nodes))

	for _, r := range nodes {
		n, err := t.lib.nodeFromRow(t, nil, r)
		if err != nil {
			return err
		}

		pois = append(pois, n)
	}

	rows, err := t.lib.store.GetByOwner(store.WAY, t.self)
	if err != nil {
		return fmt.Errorf("cannot load ways of track %q: %w", t.name, err)
	}

	ways := make([]*Way, 0, len(rows))

	for _, r := range rows {
		w, err := t.lib.wayFromRow(t, r)
		if err != nil {
			return err
		}

		ways = append(ways, w)
	}

	t.pois, t.ways, t.loaded = pois, ways, true

	return nil
}

// Materialize reads everything the track owns into memory. Way members are
// read concurrently.
func (t *Track) Materialize() error {
	if err := t.load(); err != nil {
		return err
	}

	return rill.ForEach(rill.FromSlice(t.ways, nil), t.lib.workers, func(w *Way) error {
		return w.load()
	})
}

// Nodes returns the POIs, in creation order.
func (t *Track) Nodes() ([]*Node, error) {
	if err := t.load(); err != nil {
		return nil, err
	}

	return append([]*Node(nil), t.pois...), nil
}

// Ways returns the ways, in creation order.
func (t *Track) Ways() ([]*Way, error) {
	if err := t.load(); err != nil {
		return nil, err
	}

	return append([]*Way(nil), t.ways...), nil
}

// Node returns the node with the given id, whether a POI or a way member,
// or nil.
func (t *Track) Node(id InternalID) (*Node, error) {
	if err := t.Materialize(); err != nil {
		return nil, err
	}

	if i := indexOf(t.pois, id); i >= 0 {
		return t.pois[i], nil
	}

	for _, w := range t.ways {
		if i := indexOf(w.nodes, id); i >= 0 {
			return w.nodes[i], nil
		}
	}

	return nil, nil
}

// Way returns the way with the given id, or nil.
func (t *Track) Way(id InternalID) (*Way, error) {
	if err := t.load(); err != nil {
		return nil, err
	}

	for _, w := range t.ways {
		if w.ID == id {
			return w, nil
		}
	}

	return nil, nil
}

// NewNode creates a POI at c, timestamped now.
func (t *Track) NewNode(c Coordinate) (*Node, error) {
	return t.NewNodeAt(c, t.lib.clock())
}

// NewNodeAt creates a POI at c with the given timestamp.
func (t *Track) NewNodeAt(c Coordinate, ts time.Time) (*Node, error) {
	if err := t.load(); err != nil {
		return nil, err
	}

	n, err := t.lib.createNode(t, nil, c, ts, 0)
	if err != nil {
		return nil, err
	}

	t.pois = append(t.pois, n)

	return n, nil
}

// NewWay creates an empty way, timestamped now.
func (t *Track) NewWay() (*Way, error) {
	return t.NewWayAt(t.lib.clock())
}

// NewWayAt creates an empty way with the given timestamp.
func (t *Track) NewWayAt(ts time.Time) (*Way, error) {
	if err := t.load(); err != nil {
		return nil, err
	}

	w := &Way{
		ID:        t.lib.ids.Next(store.WAY),
		timestamp: ts,
		loaded:    true,
	}
	w.attachments = newAttachments(t.lib, t, store.Ref{Kind: store.WAY, ID: int64(w.ID)})

	if _, err := t.lib.store.Insert(w.row()); err != nil {
		return nil, fmt.Errorf("cannot create way: %w", err)
	}

	t.ways = append(t.ways, w)

	return w, nil
}

// DeleteNode deletes a POI or way member with its tags and media. Deleting
// a node that does not exist is a no-op.
func (t *Track) DeleteNode(id InternalID) error {
	if err := t.load(); err != nil {
		return err
	}

	if i := indexOf(t.pois, id); i >= 0 {
		if err := t.pois[i].delete(true); err != nil {
			return err
		}

		t.pois = append(t.pois[:i], t.pois[i+1:]...)

		return nil
	}

	for _, w := range t.ways {
		if err := w.load(); err != nil {
			return err
		}

		if i := indexOf(w.nodes, id); i >= 0 {
			return w.RemoveNode(id)
		}
	}

	return nil
}

// DeleteWay deletes a way with its members, tags and media. Deleting a way
// that does not exist is a no-op.
func (t *Track) DeleteWay(id InternalID) error {
	if err := t.load(); err != nil {
		return err
	}

	for i, w := range t.ways {
		if w.ID != id {
			continue
		}

		if err := w.delete(true); err != nil {
			return err
		}

		t.ways = append(t.ways[:i], t.ways[i+1:]...)

		return nil
	}

	return nil
}

// SetName renames the track and its directory. The directory is renamed
// first; if that fails nothing else is changed.
func (t *Track) SetName(name string) RenameResult {
	log := t.lib.logger.With("from", t.name, "to", name)

	if t.deleted {
		return RenameNotFound
	}

	if row, err := t.lib.store.Get(store.TRACK, int64(t.ID)); err != nil {
		log.Error("cannot read track", "error", err)
		return RenameFailed
	} else if row == nil {
		return RenameNotFound
	}

	if name == t.name {
		return RenameOK
	}

	if !ValidName(name) {
		log.Debug("invalid track name")
		return RenameFailed
	}

	if row, err := t.lib.find(name); err != nil {
		log.Error("cannot look up track", "error", err)
		return RenameFailed
	} else if row != nil {
		return RenameExists
	}

	from, to := t.Dir(), t.lib.Dir(name)

	if _, err := os.Stat(to); err == nil {
		return RenameExists
	}

	moved := false

	if _, err := os.Stat(from); err == nil {
		if err := os.Rename(from, to); err != nil {
			log.Error("cannot rename track directory", "error", err)
			return RenameFailed
		}

		moved = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Error("cannot stat track directory", "error", err)
		return RenameFailed
	}

	if err := t.update(func(tr *Track) { tr.name = name }); err != nil {
		log.Error("cannot rename track", "error", err)

		if moved {
			if err := os.Rename(to, from); err != nil {
				log.Error("cannot restore track directory", "error", err)
			}
		}

		return RenameFailed
	}

	return RenameOK
}

// Delete removes the track directory and then every row the track owns.
// When the directory cannot be removed nothing is changed.
func (t *Track) Delete() error {
	if t.deleted {
		return nil
	}

	if err := os.RemoveAll(t.Dir()); err != nil {
		return fmt.Errorf("cannot remove directory of track %q: %w", t.name, err)
	}

	return t.Forget()
}

// Forget removes every row the track owns, and the track row last, but
// leaves the track directory alone.
func (t *Track) Forget() error {
	if t.deleted {
		return nil
	}

	if err := t.Materialize(); err != nil {
		return err
	}

	for len(t.pois) > 0 {
		if err := t.pois[0].delete(false); err != nil {
			return err
		}

		t.pois = t.pois[1:]
	}

	for len(t.ways) > 0 {
		if err := t.ways[0].delete(false); err != nil {
			return err
		}

		t.ways = t.ways[1:]
	}

	if err := t.deleteAll(false); err != nil {
		return err
	}

	if err := t.lib.store.Delete(store.TRACK, int64(t.ID)); err != nil {
		return fmt.Errorf("cannot delete track %q: %w", t.name, err)
	}

	t.deleted = true

	t.lib.logger.Debug("track deleted", "name", t.name)

	return nil
}

// Bounds returns the bounding box of every node with a fix.
func (t *Track) Bounds() (*BoundingBox, error) {
	if err := t.Materialize(); err != nil {
		return nil, err
	}

	bbox := InitialBoundingBox()

	for _, n := range t.pois {
		bbox.ExpandWithCoordinate(n.coord)
	}

	for _, w := range t.ways {
		for _, n := range w.nodes {
			bbox.ExpandWithCoordinate(n.coord)
		}
	}

	return bbox, nil
}

// Summary materializes the track and describes it.
func (t *Track) Summary() (Summary, error) {
	bbox, err := t.Bounds()
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Name:    t.name,
		Created: t.created,
		Comment: t.comment,
		State:   t.State(),
		POIs:    len(t.pois),
		Ways:    len(t.ways),
		Nodes:   len(t.pois),
		Media:   len(t.media),
		Bounds:  bbox,
	}

	for _, n := range t.pois {
		s.Media += len(n.media)
	}

	for _, w := range t.ways {
		s.Nodes += len(w.nodes)
		s.Media += len(w.media)
		s.Length += w.length()

		for _, n := range w.nodes {
			s.Media += len(n.media)
		}
	}

	return s, nil
}

func indexOf(nodes []*Node, id InternalID) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}

	return -1
}
