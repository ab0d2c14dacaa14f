// Package dot serializes a graph model to Graphviz DOT and lays it out
// in-process. Every vertex and edge carries a stable element id (the node
// id, "from/to" for edges) so client-side code can correlate rendered
// elements back to model data, and comments surface as hover tooltips.
package dot

import (
	"fmt"
	"strings"

	"github.com/graphspec/graphspec/pkg/closure"
	"github.com/graphspec/graphspec/pkg/model"
	"github.com/graphspec/graphspec/pkg/spec"
)

// namedStyles are the shortcuts accepted by the reachability style
// directives.
var namedStyles = map[string]string{
	"highlight": "style=filled; fillcolor=pink",
	"pink":      "style=filled; fillcolor=pink",
	"green":     "style=filled; fillcolor=green",
}

// Options configures DOT serialization.
type Options struct {
	// Edges overrides the edge set to draw, typically the transitively
	// reduced set. Nil draws every edge of the model.
	Edges []*model.Edge

	// Closure is the forward closure of the full edge set, used to resolve
	// reachability style rules. Computed on demand when nil.
	Closure closure.Table
}

// Marshal serializes the model to DOT. Subgraphs become nested dashed
// clusters, edge comments become tooltips, and unconnected, undecorated
// nodes are dropped unless the model includes everything.
func Marshal(g *model.Graph, opts Options) string {
	edges := opts.Edges
	if edges == nil {
		edges = g.Edges()
	}

	styled := styleOverlays(g, opts.Closure)

	var b strings.Builder
	b.WriteString("digraph G {\n")

	if len(g.GraphAttrs) > 0 {
		b.WriteString(formatAttrs(g.GraphAttrs, ";") + ";\n")
	}

	inCluster := make(map[string]bool)
	for _, sg := range g.Subgraphs() {
		if _, hasParent := g.Parent(sg.ID); !hasParent {
			writeCluster(&b, g, sg, styled, inCluster)
		}
	}

	for _, e := range edges {
		writeEdge(&b, e)
	}

	for _, n := range g.Nodes() {
		if inCluster[n.ID] || !g.Include(n.ID) {
			continue
		}
		writeNode(&b, n, styled)
	}

	b.WriteString("}\n")
	return b.String()
}

// writeCluster emits one subgraph as a Graphviz cluster, recursing into
// child subgraphs. Cluster names must carry the "cluster_" prefix to be
// drawn as boundaries and cannot contain dots.
func writeCluster(b *strings.Builder, g *model.Graph, sg *model.Subgraph, styled map[string]model.Attrs, inCluster map[string]bool) {
	fmt.Fprintf(b, "subgraph cluster_%s {\n", strings.ReplaceAll(sg.ID, ".", "_"))
	fmt.Fprintf(b, "id=%q;\n", sg.ID)
	if len(sg.Attrs) > 0 {
		b.WriteString(formatAttrs(sg.Attrs, ";") + ";\n")
	}
	if sg.Comment != "" {
		fmt.Fprintf(b, "tooltip=%q;\n", sg.Comment)
	}
	fmt.Fprintf(b, "label=%q; style=dashed;\n", sg.Label)

	for _, child := range sg.Children {
		inCluster[child] = true
		if sub := g.Subgraph(child); sub != nil {
			writeCluster(b, g, sub, styled, inCluster)
			continue
		}
		if n := g.Node(child); n != nil && g.Include(child) {
			writeNode(b, n, styled)
		}
	}

	b.WriteString("}\n")
}

func writeEdge(b *strings.Builder, e *model.Edge) {
	attrs := []string{fmt.Sprintf("id=%q", e.ID())}
	if s := formatAttrs(e.Attrs, ";"); s != "" {
		attrs = append(attrs, s)
	}
	if e.Comment != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Comment))
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	fmt.Fprintf(b, "%q -> %q [%s]\n", e.From, e.To, strings.Join(attrs, "; "))
}

func writeNode(b *strings.Builder, n *model.Node, styled map[string]model.Attrs) {
	attrs := n.Attrs
	if overlay, ok := styled[n.ID]; ok {
		attrs = attrs.Clone()
		attrs.Merge(overlay)
	}

	parts := []string{fmt.Sprintf("id=%q", n.ID)}
	if s := formatAttrs(attrs, ";"); s != "" {
		parts = append(parts, s)
	}
	if n.Label != "" {
		parts = append(parts, fmt.Sprintf("label=%q", n.Label))
	}
	if n.Comment != "" {
		parts = append(parts, fmt.Sprintf("tooltip=%q", n.Comment))
	}
	fmt.Fprintf(b, "%q [%s];\n", n.ID, strings.Join(parts, "; "))
}

// styleOverlays resolves every style rule into per-node attribute overlays.
// Ancestor and descendant sets come from the closure table, path membership
// from BFS over the full edge set. The decorated node set excludes the rule
// target itself.
func styleOverlays(g *model.Graph, table closure.Table) map[string]model.Attrs {
	if len(g.Styles) == 0 {
		return nil
	}

	edges := closureEdges(g)
	if table == nil {
		table = closure.Compute(nodeIDs(g), edges)
	}

	overlays := make(map[string]model.Attrs)
	apply := func(id string, pairs []spec.Pair) {
		a := overlays[id]
		a.Merge(pairs)
		overlays[id] = a
	}

	for _, rule := range g.Styles {
		pairs := parseStyle(rule.Spec)

		switch rule.Kind {
		case spec.StyleDescendants:
			for id := range table[rule.Node] {
				apply(id, pairs)
			}
		case spec.StyleAncestors:
			for id, reachable := range table {
				if id != rule.Node && reachable.Contains(rule.Node) {
					apply(id, pairs)
				}
			}
		case spec.StyleAllPaths:
			for id := range closure.PathNodes(edges, rule.From, rule.To) {
				apply(id, pairs)
			}
		}
	}
	return overlays
}

// parseStyle interprets a style spec: a named shortcut or a raw key=value
// list. Items without '=' are ignored; style specs were scanned from free
// text and best effort matches the rest of the notation.
func parseStyle(specText string) []spec.Pair {
	if named, ok := namedStyles[specText]; ok {
		specText = named
	}
	var pairs []spec.Pair
	for _, item := range strings.Split(specText, ";") {
		item = strings.TrimSpace(item)
		eq := strings.IndexByte(item, '=')
		if eq <= 0 {
			continue
		}
		pairs = append(pairs, spec.Pair{
			Key:   strings.TrimSpace(item[:eq]),
			Value: strings.TrimSpace(item[eq+1:]),
		})
	}
	return pairs
}

func formatAttrs(attrs model.Attrs, sep string) string {
	parts := make([]string, 0, len(attrs))
	for _, p := range attrs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.Key, p.Value))
	}
	return strings.Join(parts, sep+" ")
}

// closureEdges converts the model's edge set for the closure package.
func closureEdges(g *model.Graph) []closure.Edge {
	edges := make([]closure.Edge, 0, len(g.Edges()))
	for _, e := range g.Edges() {
		edges = append(edges, closure.Edge{From: e.From, To: e.To})
	}
	return edges
}

func nodeIDs(g *model.Graph) []string {
	ids := make([]string, 0, len(g.Nodes()))
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}
