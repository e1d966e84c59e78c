// Package workflow provides the node-graph data model consumed by the
// canvas geometry engine: nodes, directed edges, and the derived counts
// (outgoing branches, parallel-edge groups) the engine expects as input.
package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// NodeKind identifies what a node does in the workflow.
type NodeKind string

const (
	KindTrigger   NodeKind = "trigger"
	KindAction    NodeKind = "action"
	KindCondition NodeKind = "condition"
	KindDelay     NodeKind = "delay"
	KindLoop      NodeKind = "loop"
	KindSwitch    NodeKind = "switch"
	KindFilter    NodeKind = "filter"
	KindTransform NodeKind = "transform"
)

// Kinds lists every valid NodeKind.
var Kinds = []NodeKind{
	KindTrigger, KindAction, KindCondition, KindDelay,
	KindLoop, KindSwitch, KindFilter, KindTransform,
}

// Valid reports whether k is one of the known node kinds.
func (k NodeKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Node is a box on the canvas.
type Node struct {
	ID     string   `json:"id"`
	Kind   NodeKind `json:"kind"`
	Label  string   `json:"label,omitempty"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Workflow is a complete node graph.
type Workflow struct {
	Name  string `json:"name,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// New creates an empty workflow.
func New(name string) *Workflow {
	return &Workflow{
		Name:  name,
		Nodes: make([]Node, 0),
		Edges: make([]Edge, 0),
	}
}

// NewNode creates a node with a generated ID.
func NewNode(kind NodeKind, label string, x, y, w, h float64) Node {
	return Node{
		ID:     uuid.NewString(),
		Kind:   kind,
		Label:  label,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
}

// NewEdge creates an edge with a generated ID.
func NewEdge(from, to string) Edge {
	return Edge{ID: uuid.NewString(), From: from, To: to}
}

// AddNode appends a node, ignoring duplicates by ID.
func (w *Workflow) AddNode(n Node) {
	for _, existing := range w.Nodes {
		if existing.ID == n.ID {
			return
		}
	}
	w.Nodes = append(w.Nodes, n)
}

// AddEdge appends an edge, ignoring duplicates by ID.
func (w *Workflow) AddEdge(e Edge) {
	for _, existing := range w.Edges {
		if existing.ID == e.ID {
			return
		}
	}
	w.Edges = append(w.Edges, e)
}

// Node returns the node with the given ID.
func (w *Workflow) Node(id string) (Node, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// OutgoingEdges returns the edges leaving a node, in edge-list order.
func (w *Workflow) OutgoingEdges(nodeID string) []Edge {
	var out []Edge
	for _, e := range w.Edges {
		if e.From == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// BranchCount returns the number of edges leaving a node.
func (w *Workflow) BranchCount(nodeID string) int {
	count := 0
	for _, e := range w.Edges {
		if e.From == nodeID {
			count++
		}
	}
	return count
}

// BranchIndex returns the position of an edge among its source node's
// outgoing edges, or -1 if the edge is unknown. The index selects which
// anchor of the source node's distribution the edge attaches to.
func (w *Workflow) BranchIndex(edgeID string) int {
	var target Edge
	found := false
	for _, e := range w.Edges {
		if e.ID == edgeID {
			target = e
			found = true
			break
		}
	}
	if !found {
		return -1
	}

	idx := 0
	for _, e := range w.Edges {
		if e.From != target.From {
			continue
		}
		if e.ID == target.ID {
			return idx
		}
		idx++
	}
	return -1
}

// ParallelGroup returns the size of the parallel-edge group an edge belongs
// to (edges sharing the same From and To) and the edge's index within it,
// counted in edge-list order. Returns (0, -1) for an unknown edge.
func (w *Workflow) ParallelGroup(edgeID string) (count, index int) {
	var target Edge
	found := false
	for _, e := range w.Edges {
		if e.ID == edgeID {
			target = e
			found = true
			break
		}
	}
	if !found {
		return 0, -1
	}

	index = -1
	for _, e := range w.Edges {
		if e.From == target.From && e.To == target.To {
			if e.ID == target.ID {
				index = count
			}
			count++
		}
	}
	return count, index
}

// Validate checks referential integrity: every edge must join two known
// nodes, and every node kind must be valid. Graph semantics (cycles,
// reachability, execution order) are not this package's concern.
func (w *Workflow) Validate() error {
	ids := make(map[string]bool, len(w.Nodes))
	for _, n := range w.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty ID")
		}
		if ids[n.ID] {
			return fmt.Errorf("duplicate node ID %q", n.ID)
		}
		if !n.Kind.Valid() {
			return fmt.Errorf("node %q has unknown kind %q", n.ID, n.Kind)
		}
		ids[n.ID] = true
	}

	for _, e := range w.Edges {
		if !ids[e.From] {
			return fmt.Errorf("edge %q references unknown source node %q", e.ID, e.From)
		}
		if !ids[e.To] {
			return fmt.Errorf("edge %q references unknown target node %q", e.ID, e.To)
		}
	}

	return nil
}
