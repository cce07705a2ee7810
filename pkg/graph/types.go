package graph

import (
	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// =============================================================================
// Node
// =============================================================================

// Node is a single entity in the diagram.
//
// X/Y and VX/VY are owned by the simulation once a view is running. FX/FY,
// when both set, pin the node: the simulation places it at the pin every
// tick and skips force integration for it.
type Node struct {
	ID       string
	Label    string
	Category Category
	Value    *float64 // optional caller weight, unused by layout

	X, Y   float64
	VX, VY float64
	FX, FY *float64

	Color  string  // overrides the category color when non-empty
	Radius float64 // overrides the category radius when > 0
	Meta   map[string]any

	// Placed reports that X/Y were supplied by the caller. The engine
	// replaces the coordinates of unplaced nodes with jitter around the
	// canvas center. Documents set it from the presence of x/y, and
	// view.New sets it for any node with a non-zero coordinate, so a
	// caller-built node at exactly (0, 0) must set it explicitly.
	Placed bool
}

// Pinned reports whether the node is pinned.
func (n *Node) Pinned() bool { return n.FX != nil && n.FY != nil }

// Pin fixes the node at (x, y) and moves it there.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
	n.X, n.Y = x, y
}

// Unpin releases the node back to free simulation.
func (n *Node) Unpin() { n.FX, n.FY = nil, nil }

// EffectiveColor returns the override color or the category default.
func (n *Node) EffectiveColor() string {
	if n.Color != "" {
		return n.Color
	}
	return StyleOf(n.Category).Color
}

// EffectiveRadius returns the override radius or the category default.
func (n *Node) EffectiveRadius() float64 {
	if n.Radius > 0 {
		return n.Radius
	}
	return StyleOf(n.Category).Radius
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge links two nodes by id. Source and Target may name missing nodes.
type Edge struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"` // 0 means 1
	Type   string  `json:"type,omitempty" yaml:"type,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// EffectiveWeight returns the weight, defaulting to 1.
func (e Edge) EffectiveWeight() float64 {
	if e.Weight == 0 {
		return 1
	}
	return e.Weight
}

// =============================================================================
// Graph
// =============================================================================

// Graph is an ordered node list plus edges. The node slice is shared with
// its owner; positions are mutated in place for the lifetime of a view.
type Graph struct {
	nodes []Node
	edges []Edge
	index map[string]int
}

// New builds a graph from caller-supplied records. Node ids must be valid
// and unique. Edges are not checked against the node list.
func New(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: make([]Node, len(nodes)),
		edges: make([]Edge, len(edges)),
		index: make(map[string]int, len(nodes)),
	}
	copy(g.nodes, nodes)
	copy(g.edges, edges)

	for i := range g.nodes {
		id := g.nodes[i].ID
		if err := errs.ValidateNodeID(id); err != nil {
			return nil, err
		}
		if _, dup := g.index[id]; dup {
			return nil, errs.New(errs.ErrCodeInvalidInput, "duplicate node id %q", id)
		}
		g.index[id] = i
	}
	return g, nil
}

// Clone returns a deep copy of g that shares no state with it.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]Node, len(g.nodes)),
		edges: append([]Edge(nil), g.edges...),
		index: make(map[string]int, len(g.index)),
	}
	for i, n := range g.nodes {
		if n.FX != nil {
			fx := *n.FX
			n.FX = &fx
		}
		if n.FY != nil {
			fy := *n.FY
			n.FY = &fy
		}
		n.Meta = copyMeta(n.Meta)
		c.nodes[i] = n
	}
	for id, i := range g.index {
		c.index[id] = i
	}
	return c
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the node slice in draw order. Callers may mutate positions.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edge slice.
func (g *Graph) Edges() []Edge { return g.edges }

// At returns the node at draw index i.
func (g *Graph) At(i int) *Node { return &g.nodes[i] }

// Index returns the draw index of id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	if i, ok := g.index[id]; ok {
		return &g.nodes[i]
	}
	return nil
}

// Endpoints resolves an edge to node indices. ok is false for dangling edges.
func (g *Graph) Endpoints(e Edge) (src, dst int, ok bool) {
	src, ok1 := g.index[e.Source]
	dst, ok2 := g.index[e.Target]
	return src, dst, ok1 && ok2
}
