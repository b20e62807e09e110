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

package decoder

import (
	"fmt"
	"log/slog"

	"m4o.io/osmtrack/model"
)

// ResolvedWay is a way whose members are nodes of the same document.
type ResolvedWay struct {
	Way
	Area    bool
	Members []*Node
}

// Resolved is a document split into POIs and ways.
type Resolved struct {
	Header model.Header
	Links  []string
	POIs   []*Node
	Ways   []*ResolvedWay
}

// Resolve attributes every node either to exactly one way or to the track.
//
// Nodes are indexed first. Each way then looks its references up; a
// reference to an unknown node, or to a node an earlier reference already
// claimed, is dropped. The POIs are the nodes no way claimed, in document
// order.
func Resolve(doc *Document) (*Resolved, error) {
	index := make(map[int64]*Node, len(doc.Nodes))

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if _, ok := index[n.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate node id %d", ErrCorrupt, n.ID)
		}

		index[n.ID] = n
	}

	res := &Resolved{
		Header: doc.Header,
		Links:  doc.Links,
		Ways:   make([]*ResolvedWay, 0, len(doc.Ways)),
	}

	claimed := make(map[int64]int64, len(doc.Nodes))

	for _, w := range doc.Ways {
		rw := &ResolvedWay{Way: w}

		refs := w.Refs

		if w.Tags[model.AreaKey] == model.AreaYes {
			rw.Area = true
			rw.Tags = withoutKey(w.Tags, model.AreaKey)
		}

		if rw.Area && len(refs) > 1 && refs[0] == refs[len(refs)-1] {
			refs = refs[:len(refs)-1]
		}

		rw.Members = make([]*Node, 0, len(refs))

		for _, ref := range refs {
			n, ok := index[ref]
			if !ok {
				slog.Warn("dropping reference to unknown node", "way", w.ID, "ref", ref)
				continue
			}

			if owner, ok := claimed[ref]; ok {
				slog.Warn("dropping reference to claimed node", "way", w.ID, "ref", ref, "owner", owner)
				continue
			}

			claimed[ref] = w.ID
			rw.Members = append(rw.Members, n)
		}

		res.Ways = append(res.Ways, rw)
	}

	for i := range doc.Nodes {
		if _, ok := claimed[doc.Nodes[i].ID]; !ok {
			res.POIs = append(res.POIs, &doc.Nodes[i])
		}
	}

	return res, nil
}

func withoutKey(tags map[string]string, key string) map[string]string {
	out := make(map[string]string, len(tags))

	for k, v := range tags {
		if k != key {
			out[k] = v
		}
	}

	return out
}
