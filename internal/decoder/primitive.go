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

// Package decoder reads OSM XML documents back into track entities.
package decoder

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"m4o.io/osmtrack/model"
)

// ErrCorrupt is returned when a document cannot be read as a track.
var ErrCorrupt = errors.New("corrupt document")

// Accepted layouts of the timestamp attribute, tried in order.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

// Node is a node element as declared in a document.
type Node struct {
	ID        int64
	Coord     model.Coordinate
	Timestamp time.Time
	Tags      map[string]string
	Links     []string
}

// Way is a way element as declared in a document. Refs may name nodes that
// do not exist.
type Way struct {
	ID        int64
	Timestamp time.Time
	Refs      []int64
	Tags      map[string]string
	Links     []string
}

// Document is the flat content of a document, in document order.
type Document struct {
	Header model.Header
	Links  []string
	Nodes  []Node
	Ways   []Way
}

// Parse reads a document, decompressing it first if needed.
func Parse(r io.Reader) (*Document, error) {
	rc, err := unpack(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer rc.Close()

	var doc xmlDocument
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return convert(&doc)
}

func convert(doc *xmlDocument) (*Document, error) {
	d := &Document{
		Header: model.Header{Version: doc.Version, Generator: doc.Generator},
		Nodes:  make([]Node, 0, len(doc.Nodes)),
		Ways:   make([]Way, 0, len(doc.Ways)),
	}

	links, err := decodeLinks(doc.Links)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	d.Links = links

	for i := range doc.Nodes {
		n, err := decodeNode(&doc.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", ErrCorrupt, i+1, err)
		}

		d.Nodes = append(d.Nodes, n)
	}

	for i := range doc.Ways {
		w, err := decodeWay(&doc.Ways[i])
		if err != nil {
			return nil, fmt.Errorf("%w: way %d: %w", ErrCorrupt, i+1, err)
		}

		d.Ways = append(d.Ways, w)
	}

	return d, nil
}

func decodeNode(x *xmlNode) (Node, error) {
	id, err := parseID("id", x.ID)
	if err != nil {
		return Node{}, err
	}

	lat, err := parseCoordinate("lat", x.Lat)
	if err != nil {
		return Node{}, err
	}

	lon, err := parseCoordinate("lon", x.Lon)
	if err != nil {
		return Node{}, err
	}

	c := model.Coordinate{Lat: lat, Lon: lon}
	if !c.InRange() {
		return Node{}, fmt.Errorf("coordinate %s out of range", c)
	}

	ts, err := parseTimestamp(x.Timestamp)
	if err != nil {
		return Node{}, err
	}

	tags, err := decodeTags(x.Tags)
	if err != nil {
		return Node{}, err
	}

	links, err := decodeLinks(x.Links)
	if err != nil {
		return Node{}, err
	}

	return Node{ID: id, Coord: c, Timestamp: ts, Tags: tags, Links: links}, nil
}

func decodeWay(x *xmlWay) (Way, error) {
	id, err := parseID("id", x.ID)
	if err != nil {
		return Way{}, err
	}

	ts, err := parseTimestamp(x.Timestamp)
	if err != nil {
		return Way{}, err
	}

	refs := make([]int64, 0, len(x.Refs))

	for _, r := range x.Refs {
		ref, err := parseID("ref", r.Ref)
		if err != nil {
			return Way{}, err
		}

		refs = append(refs, ref)
	}

	tags, err := decodeTags(x.Tags)
	if err != nil {
		return Way{}, err
	}

	links, err := decodeLinks(x.Links)
	if err != nil {
		return Way{}, err
	}

	return Way{ID: id, Timestamp: ts, Refs: refs, Tags: tags, Links: links}, nil
}

// decodeTags collects the tags of an element. A repeated key keeps the last
// value.
func decodeTags(xs []xmlTag) (map[string]string, error) {
	tags := make(map[string]string, len(xs))

	for _, t := range xs {
		if t.Key == nil || *t.Key == "" {
			return nil, errors.New("tag without key")
		}

		tags[*t.Key] = t.Value
	}

	return tags, nil
}

// decodeLinks collects the link targets of an element. Links must name a
// file of the track directory; any other target is dropped.
func decodeLinks(xs []xmlLink) ([]string, error) {
	var links []string

	for _, l := range xs {
		if l.Href == nil || *l.Href == "" {
			return nil, errors.New("link without href")
		}

		if !model.ValidMediaFile(*l.Href) {
			slog.Warn("dropping link outside the track directory", "href", *l.Href)
			continue
		}

		links = append(links, *l.Href)
	}

	return links, nil
}

// parseID parses an id attribute. Negative ids, as written by editors for
// entities not uploaded yet, are accepted.
func parseID(name string, s *string) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("missing %s attribute", name)
	}

	id, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute %q", name, *s)
	}

	return id, nil
}

func parseCoordinate(name string, s *string) (model.Microdegrees, error) {
	if s == nil {
		return 0, fmt.Errorf("missing %s attribute", name)
	}

	m, err := model.ParseMicrodegrees(*s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute %q", name, *s)
	}

	return m, nil
}

// parseTimestamp parses an optional timestamp attribute.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp attribute %q", s)
}
