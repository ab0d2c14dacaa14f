package model

import (
	"github.com/graphspec/graphspec/pkg/spec"
)

// Config carries the per-parse defaults. Each parse owns its own Config so
// concurrent parses never share state.
type Config struct {
	// IncludeEverything keeps nodes with no edges and no explicit
	// attributes or label in the rendered model.
	IncludeEverything bool
}

// Attrs is an ordered attribute list. Set is last-write-wins per key while
// keeping first-insertion order, so merged output stays deterministic.
type Attrs []spec.Pair

// Get returns the value for key and whether it is present.
func (a Attrs) Get(key string) (string, bool) {
	for _, p := range a {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Set stores value under key, overwriting an earlier value in place.
func (a *Attrs) Set(key, value string) {
	for i, p := range *a {
		if p.Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, spec.Pair{Key: key, Value: value})
}

// Merge applies pairs in order with Set semantics.
func (a *Attrs) Merge(pairs []spec.Pair) {
	for _, p := range pairs {
		a.Set(p.Key, p.Value)
	}
}

// Clone returns an independent copy.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

// Node is a vertex of the graph model. The ID doubles as the stable element
// id in rendered output.
type Node struct {
	ID      string
	Label   string
	Comment string
	Attrs   Attrs
}

// Decorated reports whether the node carries explicit presentation data.
// Undecorated, unconnected nodes are dropped from rendering unless the
// model was built with IncludeEverything.
func (n *Node) Decorated() bool {
	return n.Label != "" || n.Comment != "" || len(n.Attrs) > 0
}

// Edge is a directed edge. Identity is the ordered (From, To) pair;
// repeated declarations merge onto one logical edge.
type Edge struct {
	From    string
	To      string
	Label   string
	Comment string
	Attrs   Attrs
}

// ID returns the stable composite identifier used to address the edge in
// rendered output.
func (e *Edge) ID() string { return EdgeID(e.From, e.To) }

// EdgeID builds the composite edge identifier for a (from, to) pair.
func EdgeID(from, to string) string { return from + "/" + to }

// Subgraph is a named grouping of nodes and other subgraphs. Membership
// forms a rooted forest: every id has at most one parent.
type Subgraph struct {
	ID       string
	Label    string
	Comment  string
	Attrs    Attrs
	Children []string // declaration order, deduplicated
}

// StyleRule decorates a reachability set at render time. Exactly one of
// Node or (From, To) is set, depending on Kind.
type StyleRule struct {
	Kind spec.StyleKind
	Node string // ancestors / descendants target
	From string // allPaths endpoints
	To   string
	Spec string // named shortcut or raw key=value attributes
}

// Graph is the complete model built from one text payload. It is immutable
// once the builder returns it.
type Graph struct {
	Config     Config
	GraphAttrs Attrs       // attributes targeted at the reserved id "graph"
	Styles     []StyleRule // reachability style rules, declaration order
	Report     Report      // structural problems, advisory only

	nodes     map[string]*Node
	nodeOrder []string

	edges     map[string]*Edge
	edgeOrder []string

	subgraphs     map[string]*Subgraph
	subgraphOrder []string

	parent    map[string]string // child id -> subgraph id
	connected map[string]bool   // ids that appear as an edge endpoint
}

// Nodes returns all nodes in first-declaration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in first-declaration order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// Subgraphs returns all subgraphs in first-declaration order.
func (g *Graph) Subgraphs() []*Subgraph {
	out := make([]*Subgraph, 0, len(g.subgraphOrder))
	for _, id := range g.subgraphOrder {
		out = append(out, g.subgraphs[id])
	}
	return out
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Edge returns the edge for the ordered (from, to) pair, or nil.
func (g *Graph) Edge(from, to string) *Edge { return g.edges[EdgeID(from, to)] }

// Subgraph returns the subgraph with the given id, or nil.
func (g *Graph) Subgraph(id string) *Subgraph { return g.subgraphs[id] }

// IsSubgraph reports whether id names a subgraph.
func (g *Graph) IsSubgraph(id string) bool {
	_, ok := g.subgraphs[id]
	return ok
}

// Parent returns the subgraph containing id, if any. Ids without a parent
// are root-level members.
func (g *Graph) Parent(id string) (string, bool) {
	p, ok := g.parent[id]
	return p, ok
}

// Connected reports whether id appears as an endpoint of at least one edge.
func (g *Graph) Connected(id string) bool { return g.connected[id] }

// Include reports whether the node should appear in rendered output:
// it is connected, decorated, or the model includes everything.
func (g *Graph) Include(id string) bool {
	if g.Config.IncludeEverything || g.connected[id] {
		return true
	}
	if n := g.nodes[id]; n != nil {
		return n.Decorated()
	}
	return false
}
