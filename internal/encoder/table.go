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

package encoder

import (
	"fmt"

	"m4o.io/osmtrack/model"
)

// Table maps the internal ids of one track to the output ids of one export.
// Nodes are numbered first the POIs, then the members of each way in way
// order; ways are numbered separately. Empty ways get no id.
type Table struct {
	valid bool
	nodes map[model.InternalID]model.OutputID
	ways  map[model.InternalID]model.OutputID

	nodeOrder []*model.Node
	wayOrder  []*model.Way
}

// NewTable numbers the entities of a track.
func NewTable(t *model.Track) (*Table, error) {
	pois, err := t.Nodes()
	if err != nil {
		return nil, err
	}

	ways, err := t.Ways()
	if err != nil {
		return nil, err
	}

	tbl := &Table{
		valid: true,
		nodes: make(map[model.InternalID]model.OutputID),
		ways:  make(map[model.InternalID]model.OutputID),
	}

	nodeIDs := model.NewSequence[model.OutputID](1, 1)
	wayIDs := model.NewSequence[model.OutputID](1, 1)

	for _, n := range pois {
		tbl.addNode(nodeIDs, n)
	}

	for _, w := range ways {
		members, err := w.Nodes()
		if err != nil {
			return nil, err
		}

		if len(members) == 0 {
			continue
		}

		for _, n := range members {
			tbl.addNode(nodeIDs, n)
		}

		tbl.ways[w.ID] = wayIDs.Next()
		tbl.wayOrder = append(tbl.wayOrder, w)
	}

	return tbl, nil
}

func (t *Table) addNode(seq *model.Sequence[model.OutputID], n *model.Node) {
	if _, ok := t.nodes[n.ID]; ok {
		return
	}

	t.nodes[n.ID] = seq.Next()
	t.nodeOrder = append(t.nodeOrder, n)
}

// NodeID returns the output id of the node.
func (t *Table) NodeID(id model.InternalID) model.OutputID {
	if !t.valid {
		panic("Table is in an invalid state")
	}

	out, ok := t.nodes[id]
	if !ok {
		panic(fmt.Sprintf("node %d has no output id", id))
	}

	return out
}

// WayID returns the output id of the way.
func (t *Table) WayID(id model.InternalID) model.OutputID {
	if !t.valid {
		panic("Table is in an invalid state")
	}

	out, ok := t.ways[id]
	if !ok {
		panic(fmt.Sprintf("way %d has no output id", id))
	}

	return out
}

// Nodes returns every node to be written, in output id order.
func (t *Table) Nodes() []*model.Node {
	return t.nodeOrder
}

// Ways returns every way to be written, in output id order.
func (t *Table) Ways() []*model.Way {
	return t.wayOrder
}

// Discard invalidates the table once the export pass is over.
func (t *Table) Discard() {
	t.valid = false
	t.nodes = nil
	t.ways = nil
	t.nodeOrder = nil
	t.wayOrder = nil
}
