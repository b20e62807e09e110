// Copyright 2017 the original author or authors.
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

package osmtrack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"m4o.io/osmtrack/internal/decoder"
	"m4o.io/osmtrack/internal/encoder"
	"m4o.io/osmtrack/model"
)

// ErrNotFound is returned by Load when a track directory holds no export.
var ErrNotFound = errors.New("no export found")

// ErrCorrupt is returned when a document cannot be read as a track.
var ErrCorrupt = decoder.ErrCorrupt

// Decode reads a document, compressed or not, and attributes each of its
// nodes to a way or to the track. Nothing is written anywhere.
func Decode(r io.Reader) (*decoder.Resolved, error) {
	doc, err := decoder.Parse(r)
	if err != nil {
		return nil, err
	}

	return decoder.Resolve(doc)
}

// Import reads a document into a new track called name. The document is
// fully read and resolved before anything is written; if building the
// track fails afterwards, the partially built track is removed from the
// store again.
func Import(ctx context.Context, lib *model.Library, name string, r io.Reader, opts ...DecoderOption) (*model.Track, error) {
	cfg := defaultDecoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	res, err := Decode(r)
	if err != nil {
		return nil, err
	}

	t, err := lib.NewTrack(name)
	if err != nil {
		return nil, err
	}

	if err = build(ctx, t, res, &cfg); err != nil {
		if ferr := t.Forget(); ferr != nil {
			lib.Logger().Error("cannot remove partially imported track", "name", t.Name(), "error", ferr)
		}

		return nil, fmt.Errorf("cannot import track %q: %w", t.Name(), err)
	}

	lib.Logger().Debug("track imported", "name", t.Name(), "pois", len(res.POIs), "ways", len(res.Ways))

	return t, nil
}

// Load rebuilds the track called name from the export kept in its
// directory.
func Load(ctx context.Context, lib *model.Library, name string, opts ...DecoderOption) (*model.Track, error) {
	path, err := FindExport(lib.Dir(name), name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open export of track %q: %w", name, err)
	}
	defer f.Close()

	return Import(ctx, lib, name, f, opts...)
}

// FindExport returns the export of the track called name kept in dir.
func FindExport(dir, name string) (string, error) {
	for _, c := range encoder.Compressions {
		path := filepath.Join(dir, name+c.Extension())

		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("cannot stat %s: %w", path, err)
		}
	}

	return "", fmt.Errorf("%w: track %q", ErrNotFound, name)
}

func build(ctx context.Context, t *model.Track, res *decoder.Resolved, cfg *decoderOptions) error {
	if cfg.comment != "" {
		if err := t.SetComment(cfg.comment); err != nil {
			return err
		}
	}

	if err := addLinks(t, res.Links, cfg); err != nil {
		return err
	}

	for _, n := range res.POIs {
		if err := ctx.Err(); err != nil {
			return err
		}

		node, err := t.NewNodeAt(n.Coord, n.Timestamp)
		if err != nil {
			return err
		}

		if err := addAttachments(node, n.Tags, n.Links, cfg); err != nil {
			return err
		}
	}

	for _, w := range res.Ways {
		if err := ctx.Err(); err != nil {
			return err
		}

		way, err := t.NewWayAt(w.Timestamp)
		if err != nil {
			return err
		}

		if err := way.SetArea(w.Area); err != nil {
			return err
		}

		for _, n := range w.Members {
			node, err := way.NewNodeAt(n.Coord, n.Timestamp)
			if err != nil {
				return err
			}

			if err := addAttachments(node, n.Tags, n.Links, cfg); err != nil {
				return err
			}
		}

		if err := addAttachments(way, w.Tags, w.Links, cfg); err != nil {
			return err
		}
	}

	return t.MarkPersisted()
}

func addAttachments(e model.Entity, tags map[string]string, links []string, cfg *decoderOptions) error {
	for k, v := range tags {
		if err := e.AddTag(k, v); err != nil {
			return err
		}
	}

	return addLinks(e, links, cfg)
}

func addLinks(e model.Entity, links []string, cfg *decoderOptions) error {
	if !cfg.links {
		return nil
	}

	for _, l := range links {
		if _, err := e.AddMedia(model.MediaTypeOf(l), l); err != nil {
			return err
		}
	}

	return nil
}
