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
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/destel/rill"

	"m4o.io/osmtrack/store"
)

const (
	// DefaultWorkers is the default number of concurrent store readers used
	// when materializing tracks.
	DefaultWorkers = 4

	// DefaultNameLayout formats the timestamp of tracks created without
	// a name.
	DefaultNameLayout = "2006-01-02_15-04-05"

	maxNameLength = 255
)

// libraryOptions provides optional configuration parameters for Library construction.
type libraryOptions struct {
	store   store.Store
	logger  *slog.Logger
	clock   func() time.Time
	workers int
}

// Option configures how we set up the library.
type Option func(*libraryOptions)

// WithStore sets the backing store. The default is an empty in-memory
// store.
func WithStore(s store.Store) Option {
	return func(o *libraryOptions) {
		o.store = s
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *libraryOptions) {
		o.logger = l
	}
}

// WithClock sets the source of creation timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *libraryOptions) {
		o.clock = clock
	}
}

// WithWorkers sets the number of concurrent store readers.
func WithWorkers(n int) Option {
	return func(o *libraryOptions) {
		o.workers = max(n, 1)
	}
}

// defaultLibraryConfig provides a default configuration for libraries.
var defaultLibraryConfig = libraryOptions{
	clock:   time.Now,
	workers: DefaultWorkers,
}

// Library is the set of tracks kept under one root directory, one
// directory per track, with their entities in one store.
type Library struct {
	root    string
	store   store.Store
	ids     *Allocator
	logger  *slog.Logger
	clock   func() time.Time
	workers int
}

// OpenLibrary opens the library rooted at root, creating the directory if
// needed. The id allocator is seeded from the store so that ids issued
// before are never reused.
func OpenLibrary(root string, opts ...Option) (*Library, error) {
	cfg := defaultLibraryConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.store == nil {
		cfg.store = store.NewMemory()
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create library directory: %w", err)
	}

	l := &Library{
		root:    root,
		store:   cfg.store,
		ids:     NewAllocator(),
		logger:  cfg.logger,
		clock:   cfg.clock,
		workers: cfg.workers,
	}

	for _, kind := range store.Kinds {
		lowest, err := l.store.Lowest(kind)
		if err != nil {
			return nil, fmt.Errorf("cannot seed id allocator: %w", err)
		}

		l.ids.Seed(kind, InternalID(lowest))
	}

	return l, nil
}

// Root returns the library directory.
func (l *Library) Root() string {
	return l.root
}

// Store returns the backing store.
func (l *Library) Store() store.Store {
	return l.store
}

// Logger returns the library logger.
func (l *Library) Logger() *slog.Logger {
	return l.logger
}

// Close closes the backing store.
func (l *Library) Close() error {
	return l.store.Close()
}

// Dir returns the directory of the track called name.
func (l *Library) Dir(name string) string {
	return filepath.Join(l.root, name)
}

// ValidName reports whether name can be used as a track name, and so as a
// directory name on any common file system.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > maxNameLength {
		return false
	}

	if strings.HasPrefix(name, ".") || strings.TrimSpace(name) != name {
		return false
	}

	for _, r := range name {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return false
		}
	}

	return true
}

// DefaultName derives a track name from t.
func DefaultName(t time.Time) string {
	return t.Format(DefaultNameLayout)
}

// NewTrack creates a new track. An empty name is replaced by one derived
// from the current time.
func (l *Library) NewTrack(name string) (*Track, error) {
	now := l.clock()
	if name == "" {
		name = DefaultName(now)
	}

	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if row, err := l.find(name); err != nil {
		return nil, err
	} else if row != nil {
		return nil, fmt.Errorf("%w: %q", ErrTrackExists, name)
	}

	t := &Track{
		ID:      l.ids.Next(store.TRACK),
		name:    name,
		created: now,
		isNew:   true,
		loaded:  true,
	}
	t.attachments = newAttachments(l, t, store.Ref{Kind: store.TRACK, ID: int64(t.ID)})

	if _, err := l.store.Insert(t.row()); err != nil {
		return nil, fmt.Errorf("cannot create track %q: %w", name, err)
	}

	l.logger.Debug("track created", "name", name, "id", t.ID)

	return t, nil
}

// OpenTrack loads the track called name. Only the track itself, its tags
// and media are read; POIs and ways are read on first use.
func (l *Library) OpenTrack(name string) (*Track, error) {
	row, err := l.find(name)
	if err != nil {
		return nil, err
	} else if row == nil {
		return nil, fmt.Errorf("%w: %q", ErrTrackNotFound, name)
	}

	return l.trackFromRow(*row)
}

// DeleteTrack deletes the track called name with everything it owns.
// Deleting a track that does not exist is a no-op.
func (l *Library) DeleteTrack(name string) error {
	row, err := l.find(name)
	if err != nil {
		return err
	} else if row == nil {
		return nil
	}

	t, err := l.trackFromRow(*row)
	if err != nil {
		return err
	}

	return t.Delete()
}

// RenameTrack renames the track called from.
func (l *Library) RenameTrack(from, to string) RenameResult {
	t, err := l.OpenTrack(from)
	if err != nil {
		l.logger.Debug("cannot open track for rename", "name", from, "error", err)
		return RenameNotFound
	}

	return t.SetName(to)
}

// Tracks returns the names of all tracks, sorted.
func (l *Library) Tracks() ([]string, error) {
	rows, err := l.store.GetByOwner(store.TRACK, store.NoOwner)
	if err != nil {
		return nil, fmt.Errorf("cannot list tracks: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Field(fieldName))
	}

	sort.Strings(names)

	return names, nil
}

// Summary describes a track without holding on to its entities.
type Summary struct {
	Name    string
	Created time.Time
	Comment string
	State   TrackState
	POIs    int
	Ways    int
	Nodes   int
	Media   int
	Length  float64
	Bounds  *BoundingBox
}

// Summaries summarizes every track, reading tracks concurrently.
func (l *Library) Summaries() ([]Summary, error) {
	names, err := l.Tracks()
	if err != nil {
		return nil, err
	}

	summaries := rill.OrderedMap(rill.FromSlice(names, nil), l.workers, func(name string) (Summary, error) {
		t, err := l.OpenTrack(name)
		if err != nil {
			return Summary{}, err
		}

		return t.Summary()
	})

	return rill.ToSlice(summaries)
}

func (l *Library) find(name string) (*store.Row, error) {
	rows, err := l.store.GetByOwner(store.TRACK, store.NoOwner)
	if err != nil {
		return nil, fmt.Errorf("cannot look up track %q: %w", name, err)
	}

	for _, r := range rows {
		if r.Field(fieldName) == name {
			return &r, nil
		}
	}

	return nil, nil
}

func (l *Library) trackFromRow(row store.Row) (*Track, error) {
	t := &Track{
		ID:      InternalID(row.ID),
		name:    row.Field(fieldName),
		comment: row.Field(fieldComment),
		isNew:   row.Field(fieldNew) == "1",
	}
	t.attachments = newAttachments(l, t, row.Ref())

	created, err := parseTime(row.Field(fieldTime))
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", t.name, err)
	}

	t.created = created

	if err := t.attachments.load(); err != nil {
		return nil, err
	}

	return t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}

	return t, nil
}
