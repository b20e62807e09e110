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

// Package model contains the track entity graph: tracks, their POIs and
// ways, tags and media, and the library that persists them.
package model

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"m4o.io/osmtrack/store"
)

// Entity is implemented by Track, Node and Way.
type Entity interface {
	isEntity() // prevents extensions

	// Ref returns the store reference of the entity.
	Ref() store.Ref

	// Tags returns a copy of the entity's tags.
	Tags() map[string]string

	Tag(key string) (string, bool)

	AddTag(key, value string) error

	DeleteTag(key string) error

	// Media returns a copy of the entity's media references.
	Media() []Media

	AddMedia(t MediaType, file string) (Media, error)

	AttachFile(t MediaType, src string) (Media, error)

	DeleteMedia(id InternalID) error
}

var (
	_ Entity = (*Track)(nil)
	_ Entity = (*Node)(nil)
	_ Entity = (*Way)(nil)
)

// Field names of tag and media rows.
const (
	fieldKey   = "k"
	fieldValue = "v"
	fieldType  = "type"
	fieldFile  = "file"
)

// attachments holds the tags and media owned by one entity.
type attachments struct {
	lib   *Library
	track *Track // owning track; the track itself for a Track
	self  store.Ref

	tags   map[string]string
	tagIDs map[string]InternalID
	media  []Media
}

func newAttachments(lib *Library, track *Track, self store.Ref) attachments {
	return attachments{
		lib:    lib,
		track:  track,
		self:   self,
		tags:   make(map[string]string),
		tagIDs: make(map[string]InternalID),
	}
}

// load reads the tags and media owned by a.self from the store.
func (a *attachments) load() error {
	tags, err := a.lib.store.GetByOwner(store.TAG, a.self)
	if err != nil {
		return fmt.Errorf("load tags of %s: %w", a.self, err)
	}

	for _, r := range tags {
		k := r.Field(fieldKey)
		a.tags[k] = r.Field(fieldValue)
		a.tagIDs[k] = InternalID(r.ID)
	}

	media, err := a.lib.store.GetByOwner(store.MEDIA, a.self)
	if err != nil {
		return fmt.Errorf("load media of %s: %w", a.self, err)
	}

	for _, r := range media {
		t, err := strconv.Atoi(r.Field(fieldType))
		if err != nil {
			return fmt.Errorf("load media %d of %s: %w", r.ID, a.self, err)
		}

		a.media = append(a.media, Media{ID: InternalID(r.ID), Type: MediaType(t), File: r.Field(fieldFile)})
	}

	return nil
}

func (a *attachments) Ref() store.Ref {
	return a.self
}

func (a *attachments) Tags() map[string]string {
	return maps.Clone(a.tags)
}

func (a *attachments) Tag(key string) (string, bool) {
	v, ok := a.tags[key]

	return v, ok
}

func (a *attachments) AddTag(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	row := store.Row{
		Kind:   store.TAG,
		Owner:  a.self,
		Fields: map[string]string{fieldKey: key, fieldValue: value},
	}

	if id, ok := a.tagIDs[key]; ok {
		row.ID = int64(id)
		if err := a.lib.store.Update(row); err != nil {
			return fmt.Errorf("update tag %q of %s: %w", key, a.self, err)
		}
	} else {
		row.ID = int64(a.lib.ids.Next(store.TAG))
		if _, err := a.lib.store.Insert(row); err != nil {
			return fmt.Errorf("insert tag %q of %s: %w", key, a.self, err)
		}

		a.tagIDs[key] = InternalID(row.ID)
	}

	a.tags[key] = value

	return nil
}

func (a *attachments) DeleteTag(key string) error {
	id, ok := a.tagIDs[key]
	if !ok {
		return nil
	}

	if err := a.lib.store.Delete(store.TAG, int64(id)); err != nil {
		return fmt.Errorf("delete tag %q of %s: %w", key, a.self, err)
	}

	delete(a.tags, key)
	delete(a.tagIDs, key)

	return nil
}

func (a *attachments) Media() []Media {
	return append([]Media(nil), a.media...)
}

func (a *attachments) AddMedia(t MediaType, file string) (Media, error) {
	if !ValidMediaFile(file) {
		return Media{}, fmt.Errorf("%w: %q", ErrInvalidMedia, file)
	}

	m := Media{ID: a.lib.ids.Next(store.MEDIA), Type: t, File: file}

	row := store.Row{
		Kind:   store.MEDIA,
		ID:     int64(m.ID),
		Owner:  a.self,
		Fields: map[string]string{fieldType: strconv.Itoa(int(t)), fieldFile: file},
	}

	if _, err := a.lib.store.Insert(row); err != nil {
		return Media{}, fmt.Errorf("insert media %q of %s: %w", file, a.self, err)
	}

	a.media = append(a.media, m)

	return m, nil
}

// AttachFile copies src into the track directory under a fresh unique name
// and records it as media of the entity.
func (a *attachments) AttachFile(t MediaType, src string) (Media, error) {
	dir := a.track.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Media{}, fmt.Errorf("cannot create track directory: %w", err)
	}

	name := uuid.NewString() + filepath.Ext(src)
	dst := filepath.Join(dir, name)

	if err := copyFile(dst, src); err != nil {
		return Media{}, err
	}

	m, err := a.AddMedia(t, name)
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			a.lib.logger.Error("cannot remove copied media file", "file", dst, "error", rmErr)
		}

		return Media{}, err
	}

	return m, nil
}

// DeleteMedia removes the media reference and its file. A file that cannot
// be removed is logged and the reference is removed regardless.
func (a *attachments) DeleteMedia(id InternalID) error {
	for i, m := range a.media {
		if m.ID != id {
			continue
		}

		a.removeFile(m)

		if err := a.lib.store.Delete(store.MEDIA, int64(id)); err != nil {
			return fmt.Errorf("delete media %d of %s: %w", id, a.self, err)
		}

		a.media = append(a.media[:i], a.media[i+1:]...)

		return nil
	}

	return nil
}

// MediaPath returns where the file of m is kept.
func (a *attachments) MediaPath(m Media) string {
	return filepath.Join(a.track.Dir(), m.File)
}

// removeFile removes the file of m. Only files inside the track directory
// are ever removed.
func (a *attachments) removeFile(m Media) {
	if !ValidMediaFile(m.File) {
		a.lib.logger.Warn("not removing media file outside the track directory", "file", m.File)
		return
	}

	path := a.MediaPath(m)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.lib.logger.Warn("cannot remove media file", "file", path, "error", err)
	}
}

// deleteAll removes every tag and media reference, and the media files
// too when files is true.
func (a *attachments) deleteAll(files bool) error {
	for len(a.media) > 0 {
		m := a.media[0]

		if files {
			a.removeFile(m)
		}

		if err := a.lib.store.Delete(store.MEDIA, int64(m.ID)); err != nil {
			return fmt.Errorf("delete media %d of %s: %w", m.ID, a.self, err)
		}

		a.media = a.media[1:]
	}

	for k := range a.tagIDs {
		if err := a.DeleteTag(k); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open media file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("cannot create media file: %w", err)
	}

	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cannot close media file: %w", cerr)
		}

		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("cannot copy media file: %w", err)
	}

	return nil
}
