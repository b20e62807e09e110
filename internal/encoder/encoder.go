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

// Package encoder writes a track as an OSM XML document.
package encoder

import (
	"fmt"
	"io"

	"m4o.io/osmtrack/model"
)

// Options controls how a document is written.
type Options struct {
	// Generator is the generator attribute of the document element.
	Generator string

	// Media enables the non-standard link elements referencing media.
	Media bool

	// Indent is repeated once per nesting level at the start of each line.
	Indent string
}

// Write serializes the track into w. Output ids are assigned for this call
// only and discarded afterwards.
func Write(w io.Writer, t *model.Track, opts Options) error {
	if err := t.Materialize(); err != nil {
		return fmt.Errorf("cannot read track %q: %w", t.Name(), err)
	}

	table, err := NewTable(t)
	if err != nil {
		return fmt.Errorf("cannot number track %q: %w", t.Name(), err)
	}
	defer table.Discard()

	generator := opts.Generator
	if generator == "" {
		generator = model.DefaultGenerator
	}

	x := newXMLWriter(w, opts.Indent)
	ec := &elementContext{x: x, table: table, media: opts.Media}

	writeHeader(x, model.Header{Version: model.Version, Generator: generator})
	ec.writeLinks(ec.links(t))

	for _, n := range table.Nodes() {
		ec.writeNode(n)
	}

	for _, way := range table.Ways() {
		if err := ec.writeWay(way); err != nil {
			return fmt.Errorf("cannot write way %d: %w", way.ID, err)
		}
	}

	writeTrailer(x)

	if err := x.flush(); err != nil {
		return fmt.Errorf("cannot write track %q: %w", t.Name(), err)
	}

	return nil
}
