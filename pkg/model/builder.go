package model

import (
	"fmt"
	"strings"

	"github.com/graphspec/graphspec/pkg/spec"
)

// GraphID is the reserved identifier for graph-level attributes:
// "..attr: graph: ratio=compress" configures the whole diagram.
const GraphID = "graph"

// FromString builds a graph model from a full text payload.
func FromString(text string, cfg Config) *Graph {
	return FromLines(strings.Split(text, "\n"), cfg)
}

// FromLines folds every statement found in lines, in input order, into a
// fresh graph model. The returned graph is complete and immutable; all
// structural problems are collected in its Report.
func FromLines(lines []string, cfg Config) *Graph {
	b := newBuilder(cfg)
	for i, line := range lines {
		stmts, errs := spec.ScanLine(line)
		for _, err := range errs {
			b.problem(i+1, ProblemParse, "%s", err)
		}
		for _, stmt := range stmts {
			b.apply(i+1, stmt)
		}
	}
	return b.finish()
}

// origin tracks why a node id exists, so unresolved references can be
// reported after the fold.
type origin int

const (
	originEdge      origin = 1 << iota // appeared as an edge endpoint
	originDirective                    // targeted by an attr or subgraph directive
)

type builder struct {
	g      *Graph
	origin map[string]origin
}

func newBuilder(cfg Config) *builder {
	return &builder{
		g: &Graph{
			Config:    cfg,
			nodes:     make(map[string]*Node),
			edges:     make(map[string]*Edge),
			subgraphs: make(map[string]*Subgraph),
			parent:    make(map[string]string),
			connected: make(map[string]bool),
		},
		origin: make(map[string]origin),
	}
}

func (b *builder) problem(line int, kind ProblemKind, format string, args ...any) {
	b.g.Report = append(b.g.Report, Problem{
		Line:    line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

func (b *builder) apply(line int, stmt spec.Statement) {
	switch s := stmt.(type) {
	case spec.Edge:
		e := b.ensureEdge(s.Start, s.End)
		if s.Comment != "" {
			e.Comment = s.Comment
		}

	case spec.Attr:
		b.applyAttr(s)

	case spec.Subgraph:
		b.applySubgraph(line, s)

	case spec.Style:
		rule := StyleRule{Kind: s.Kind, Spec: s.Spec}
		if s.Target.IsEdge() {
			rule.From, rule.To = s.Target.Start, s.Target.End
		} else {
			rule.Node = s.Target.Node
			b.ensureNode(s.Target.Node, originDirective)
		}
		b.g.Styles = append(b.g.Styles, rule)
	}
}

func (b *builder) applyAttr(s spec.Attr) {
	if s.Target.IsEdge() {
		e := b.ensureEdge(s.Target.Start, s.Target.End)
		e.Attrs.Merge(s.Attrs)
		if s.Label != "" {
			e.Label = s.Label
		}
		if s.Comment != "" {
			e.Comment = s.Comment
		}
		return
	}

	if s.Target.Node == GraphID {
		b.g.GraphAttrs.Merge(s.Attrs)
		return
	}

	n := b.ensureNode(s.Target.Node, originDirective)
	n.Attrs.Merge(s.Attrs)
	if s.Label != "" {
		n.Label = s.Label
	}
	if s.Comment != "" {
		n.Comment = s.Comment
	}
}

func (b *builder) applySubgraph(line int, s spec.Subgraph) {
	sg := b.g.subgraphs[s.ID]
	if sg == nil {
		sg = &Subgraph{ID: s.ID}
		b.g.subgraphs[s.ID] = sg
		b.g.subgraphOrder = append(b.g.subgraphOrder, s.ID)
	}
	if s.Label != "" {
		sg.Label = s.Label
	}
	if s.Comment != "" {
		sg.Comment = s.Comment
	}

	for _, child := range s.Children {
		if child == s.ID {
			b.problem(line, ProblemTreeViolation, "subgraph %q cannot contain itself", s.ID)
			continue
		}
		if parent, ok := b.g.parent[child]; ok {
			if parent == s.ID {
				continue // duplicate child declaration, deduplicated
			}
			b.problem(line, ProblemTreeViolation,
				"%q already belongs to subgraph %q, cannot join %q", child, parent, s.ID)
			continue
		}
		b.g.parent[child] = s.ID
		sg.Children = append(sg.Children, child)
		b.origin[child] |= originDirective
	}
}

// ensureEdge creates the edge for the ordered pair if absent, creating both
// endpoint nodes as needed.
func (b *builder) ensureEdge(from, to string) *Edge {
	b.ensureNode(from, originEdge)
	b.ensureNode(to, originEdge)
	b.g.connected[from] = true
	b.g.connected[to] = true

	id := EdgeID(from, to)
	e := b.g.edges[id]
	if e == nil {
		e = &Edge{From: from, To: to}
		b.g.edges[id] = e
		b.g.edgeOrder = append(b.g.edgeOrder, id)
	}
	return e
}

func (b *builder) ensureNode(id string, o origin) *Node {
	b.origin[id] |= o
	n := b.g.nodes[id]
	if n == nil {
		n = &Node{ID: id}
		b.g.nodes[id] = n
		b.g.nodeOrder = append(b.g.nodeOrder, id)
	}
	return n
}

// finish resolves lazy references and enforces the forest invariant before
// handing the model out.
func (b *builder) finish() *Graph {
	g := b.g

	b.breakContainmentCycles()

	// Ids declared as subgraphs may have been decorated through node attr
	// statements (declaration order is free). Fold that entity data into
	// the subgraph and drop the node entry.
	for _, id := range g.subgraphOrder {
		sg := g.subgraphs[id]
		n := g.nodes[id]
		if n == nil {
			continue
		}
		if sg.Label == "" {
			sg.Label = n.Label
		}
		if sg.Comment == "" {
			sg.Comment = n.Comment
		}
		sg.Attrs.Merge(n.Attrs)
		delete(g.nodes, id)
		g.nodeOrder = remove(g.nodeOrder, id)
	}

	// Subgraph children are resolved lazily; anything still unknown
	// becomes a default node.
	for _, id := range g.subgraphOrder {
		for _, child := range g.subgraphs[id].Children {
			if !g.IsSubgraph(child) {
				b.ensureNode(child, originDirective)
			}
		}
	}

	// Ids that only ever appeared as directive targets were never really
	// declared. They exist with defaults; flag them as advisory findings.
	for _, id := range g.nodeOrder {
		if b.origin[id]&originEdge == 0 {
			b.problem(0, ProblemUnresolvedRef,
				"%q is referenced by a directive but never appears in an edge; created with defaults", id)
		}
	}

	return g
}

// breakContainmentCycles detaches subgraph parent links that close a cycle.
// The forest invariant guarantees at most one parent per id, but mutually
// containing subgraphs can still form a ring; rendering needs real trees.
func (b *builder) breakContainmentCycles() {
	g := b.g
	for _, id := range g.subgraphOrder {
		seen := map[string]bool{id: true}
		cur := id
		for {
			parent, ok := g.parent[cur]
			if !ok {
				break
			}
			if seen[parent] {
				b.problem(0, ProblemTreeViolation,
					"subgraph containment cycle: detaching %q from %q", cur, parent)
				delete(g.parent, cur)
				sg := g.subgraphs[parent]
				sg.Children = remove(sg.Children, cur)
				break
			}
			seen[parent] = true
			cur = parent
		}
	}
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
