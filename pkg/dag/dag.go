package dag

import (
	"errors"
	"maps"
	"slices"
)

// Errors reported while building or validating a graph.
var (
	ErrInvalidNodeID       = errors.New("node ID must not be empty")
	ErrDuplicateNodeID     = errors.New("duplicate node ID")
	ErrUnknownSourceNode   = errors.New("unknown source node")
	ErrUnknownTargetNode   = errors.New("unknown target node")
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
	ErrNonConsecutiveRows  = errors.New("edges must connect consecutive rows")
	ErrGraphHasCycle       = errors.New("graph contains a cycle")
)

// Metadata is free-form data attached to a graph, node or edge.
type Metadata map[string]any

// NodeKind tells projected nodes apart from layout bend points.
type NodeKind int

const (
	NodeKindRegular NodeKind = iota
	// NodeKindVirtual is a bend point on an edge spanning several rows.
	NodeKindVirtual
)

// Node is a vertex placed in a row. ID must be non-empty.
type Node struct {
	ID   string
	Row  int
	Meta Metadata

	Kind NodeKind
	// MasterID and EdgeIndex are set on virtual nodes: the source node of
	// the subdivided edge and the caller's index for that edge.
	MasterID  string
	EdgeIndex int
}

// IsVirtual reports whether n is a bend point.
func (n Node) IsVirtual() bool { return n.Kind == NodeKindVirtual }

// Edge points From one node To another.
type Edge struct {
	From string
	To   string
	Meta Metadata
}

// DAG is a row-indexed directed graph. Node listings follow insertion
// order. It may hold cycles until the transform package breaks them.
// A DAG is not safe for concurrent use.
type DAG struct {
	meta  Metadata
	index map[string]*Node
	order []*Node
	edges []Edge
	out   map[string][]string
	in    map[string][]string
	rows  map[int][]*Node
}

// New returns an empty graph. meta may be nil.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		meta:  meta,
		index: map[string]*Node{},
		out:   map[string][]string{},
		in:    map[string][]string{},
		rows:  map[int][]*Node{},
	}
}

// Meta returns the graph's own metadata.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode inserts n into its row.
func (d *DAG) AddNode(n Node) error {
	switch {
	case n.ID == "":
		return ErrInvalidNodeID
	case d.index[n.ID] != nil:
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	p := &n
	d.index[n.ID] = p
	d.order = append(d.order, p)
	d.rows[n.Row] = append(d.rows[n.Row], p)
	return nil
}

// SetRows moves the listed nodes to new rows and rebuilds the row index.
// Unlisted nodes stay put.
func (d *DAG) SetRows(rows map[string]int) {
	clear(d.rows)
	for _, n := range d.order {
		if r, ok := rows[n.ID]; ok {
			n.Row = r
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// AddEdge links two existing nodes. Parallel edges are kept.
func (d *DAG) AddEdge(e Edge) error {
	if d.index[e.From] == nil {
		return ErrUnknownSourceNode
	}
	if d.index[e.To] == nil {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.out[e.From] = append(d.out[e.From], e.To)
	d.in[e.To] = append(d.in[e.To], e.From)
	return nil
}

// RemoveEdge drops every edge from→to, if any.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.out[from] = slices.DeleteFunc(d.out[from], func(id string) bool { return id == to })
	d.in[to] = slices.DeleteFunc(d.in[to], func(id string) bool { return id == from })
}

// Nodes lists the nodes in insertion order. The pointers are live.
func (d *DAG) Nodes() []*Node { return slices.Clone(d.order) }

// Edges lists the edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

func (d *DAG) NodeCount() int { return len(d.order) }
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children and Parents return shared slices; do not modify them.
func (d *DAG) Children(id string) []string { return d.out[id] }
func (d *DAG) Parents(id string) []string  { return d.in[id] }

func (d *DAG) OutDegree(id string) int { return len(d.out[id]) }
func (d *DAG) InDegree(id string) int  { return len(d.in[id]) }

// Node looks up a node by ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.index[id]
	return n, ok
}

// NodesInRow lists a row's nodes in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowCount is the number of non-empty rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs lists the row indexes in ascending order.
func (d *DAG) RowIDs() []int { return slices.Sorted(maps.Keys(d.rows)) }

// MaxRow is the deepest row index, 0 for an empty graph.
func (d *DAG) MaxRow() int {
	top := 0
	for r := range d.rows {
		top = max(top, r)
	}
	return top
}

// Sources lists the nodes without incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var out []*Node
	for _, n := range d.order {
		if len(d.in[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks that every edge joins known nodes one row apart and
// that no cycle remains.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		from, to := d.index[e.From], d.index[e.To]
		if from == nil || to == nil {
			return ErrInvalidEdgeEndpoint
		}
		if to.Row-from.Row != 1 {
			return ErrNonConsecutiveRows
		}
	}
	if !d.acyclic() {
		return ErrGraphHasCycle
	}
	return nil
}

// acyclic peels off zero in-degree nodes; anything left sits on a cycle.
func (d *DAG) acyclic() bool {
	pending := make(map[string]int, len(d.order))
	var ready []string
	for _, n := range d.order {
		pending[n.ID] = len(d.in[n.ID])
		if pending[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}
	seen := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		seen++
		for _, child := range d.out[id] {
			if pending[child]--; pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}
	return seen == len(d.order)
}

// PosMap inverts an ordering: id to index.
func PosMap(ids []string) map[string]int {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	return pos
}

// NodeIDs returns the IDs of nodes.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
