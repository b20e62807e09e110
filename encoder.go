// Copyright 2025 the original author or authors.
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

// Package osmtrack records survey tracks and exchanges them as OSM XML
// documents.
package osmtrack

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"m4o.io/osmtrack/internal/encoder"
	"m4o.io/osmtrack/model"
)

// ErrExport is returned when a track could not be exported.
var ErrExport = errors.New("export failed")

// Encode writes the track as a document into w, compressed as configured.
func Encode(w io.Writer, t *model.Track, opts ...EncoderOption) error {
	cfg := newEncoderConfig(opts)

	return encode(w, t, &cfg)
}

func encode(w io.Writer, t *model.Track, cfg *encoderOptions) error {
	p, err := encoder.NewPacker(w, cfg.compression)
	if err != nil {
		return err
	}

	err = encoder.Write(p, t, encoder.Options{
		Generator: cfg.generator,
		Media:     cfg.media,
		Indent:    cfg.indent,
	})

	if cerr := p.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("cannot close %s stream: %w", cfg.compression, cerr)
	}

	return err
}

// ExportPath returns where a track exported with compression c is kept.
func ExportPath(t *model.Track, c encoder.Compression) string {
	return filepath.Join(t.Dir(), t.Name()+c.Extension())
}

// Export writes the track into its directory and returns the path of the
// written file. Any earlier export of the track is removed first, whatever
// its compression. On failure no partial file is left behind.
func Export(t *model.Track, opts ...EncoderOption) (path string, err error) {
	if t.State() == model.Deleted {
		return "", fmt.Errorf("%w: track %q: %w", ErrExport, t.Name(), model.ErrTrackDeleted)
	}

	cfg := newEncoderConfig(opts)
	out := ExportPath(t, cfg.compression)

	if err = os.MkdirAll(t.Dir(), 0o755); err != nil {
		return "", fmt.Errorf("%w: cannot create track directory: %w", ErrExport, err)
	}

	for _, c := range encoder.Compressions {
		if err = os.Remove(ExportPath(t, c)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: cannot remove previous export: %w", ErrExport, err)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", ErrExport, cerr)
		}

		if err != nil {
			if rerr := os.Remove(out); rerr != nil {
				t.Library().Logger().Error("cannot remove partial export", "path", out, "error", rerr)
			}

			path = ""
		}
	}()

	if err = encode(f, t, &cfg); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}

	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}

	t.Library().Logger().Debug("track exported", "name", t.Name(), "path", out)

	return out, nil
}
