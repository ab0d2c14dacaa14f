package spec

import "fmt"

// Statement is a single parsed statement found in a line of input.
// The concrete types are [Edge], [Attr], [Subgraph], and [Style].
type Statement interface {
	isStatement()
}

// Edge declares a directed edge between two identifiers, with an optional
// trailing comment. Edge chains (a --> b --> c) produce one Edge per hop;
// the chain's trailing comment attaches to the last hop only.
type Edge struct {
	Start   string
	End     string
	Comment string
}

func (Edge) isStatement() {}

// Target addresses either a single identifier or an edge pattern in a
// directive. Exactly one form is populated.
type Target struct {
	Node  string // single identifier, empty for edge targets
	Start string // edge source, empty for node targets
	End   string // edge target, empty for node targets
}

// IsEdge reports whether the target addresses an edge pattern.
func (t Target) IsEdge() bool { return t.Node == "" }

func (t Target) String() string {
	if t.IsEdge() {
		return t.Start + " --> " + t.End
	}
	return t.Node
}

// Pair is a single key=value attribute. Pairs keep declaration order so
// serialized output stays deterministic.
type Pair struct {
	Key   string
	Value string
}

// Attr merges attributes, a label, and a comment onto a node, subgraph,
// or edge.
type Attr struct {
	Target  Target
	Label   string
	Attrs   []Pair
	Comment string
}

func (Attr) isStatement() {}

// Subgraph declares a grouping and appends children to it. Children may be
// node ids or other subgraph ids and are resolved lazily by the builder.
type Subgraph struct {
	ID       string
	Label    string
	Children []string
	Comment  string
}

func (Subgraph) isStatement() {}

// StyleKind selects which reachability set a Style statement decorates.
type StyleKind int

const (
	// StyleAncestors decorates every node that can reach the target.
	StyleAncestors StyleKind = iota
	// StyleDescendants decorates every node reachable from the target.
	StyleDescendants
	// StyleAllPaths decorates every node on any shortest path between the
	// edge target's endpoints.
	StyleAllPaths
)

func (k StyleKind) String() string {
	switch k {
	case StyleAncestors:
		return "ancestors"
	case StyleDescendants:
		return "descendants"
	case StyleAllPaths:
		return "allPaths"
	}
	return fmt.Sprintf("StyleKind(%d)", int(k))
}

// Style applies a visual style to a reachability set. Spec is either a
// named shortcut (highlight, pink, green) or raw key=value attributes.
type Style struct {
	Kind   StyleKind
	Target Target
	Spec   string
}

func (Style) isStatement() {}

// Error is a recoverable, line-scoped scan problem. The offending statement
// is skipped; scanning of the rest of the input continues.
type Error struct {
	Fragment string // the text that failed to parse
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Fragment, e.Reason)
}

func scanError(fragment, format string, args ...any) *Error {
	return &Error{Fragment: fragment, Reason: fmt.Sprintf(format, args...)}
}
