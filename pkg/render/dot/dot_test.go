package dot

import (
	"strings"
	"testing"

	"github.com/graphspec/graphspec/pkg/closure"
	"github.com/graphspec/graphspec/pkg/model"
)

func marshal(t *testing.T, text string, cfg model.Config) string {
	t.Helper()
	g := model.FromString(text, cfg)
	if errs := g.Report.Errors(); len(errs) != 0 {
		t.Fatalf("build errors: %v", errs)
	}
	return Marshal(g, Options{})
}

func TestMarshal_Edges(t *testing.T) {
	out := marshal(t, "a --> b :: important link", model.Config{})

	if !strings.HasPrefix(out, "digraph G {\n") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("output not wrapped in digraph: %q", out)
	}
	if !strings.Contains(out, `"a" -> "b" [id="a/b"; tooltip="important link"]`) {
		t.Errorf("edge line missing tooltip:\n%s", out)
	}
}

func TestMarshal_GraphAttrs(t *testing.T) {
	out := marshal(t, "a --> b\n..attr: graph: rankdir=LR", model.Config{})

	if !strings.Contains(out, `rankdir="LR";`) {
		t.Errorf("graph attrs missing:\n%s", out)
	}
}

func TestMarshal_NodeDecoration(t *testing.T) {
	out := marshal(t, "a --> b\n..attr: a, Service A: shape=box :: the entrypoint", model.Config{})

	if !strings.Contains(out, `"a" [id="a"; shape="box"; label="Service A"; tooltip="the entrypoint"];`) {
		t.Errorf("node line wrong:\n%s", out)
	}
}

func TestMarshal_ClusterNesting(t *testing.T) {
	out := marshal(t, strings.Join([]string{
		"a --> b",
		"b --> c",
		"..subgraph: outer, Outer: inner, a",
		"..subgraph: inner, Inner: b",
	}, "\n"), model.Config{})

	outerAt := strings.Index(out, "subgraph cluster_outer {")
	innerAt := strings.Index(out, "subgraph cluster_inner {")
	if outerAt < 0 || innerAt < 0 || innerAt < outerAt {
		t.Fatalf("clusters missing or not nested:\n%s", out)
	}
	if !strings.Contains(out, `id="outer";`) {
		t.Errorf("cluster element id missing:\n%s", out)
	}
	if !strings.Contains(out, `label="Outer"; style=dashed;`) {
		t.Errorf("cluster label line missing:\n%s", out)
	}
	// Members render inside their cluster, not at top level again.
	if strings.Count(out, `"b" [id="b"`) != 1 {
		t.Errorf("node b rendered more than once:\n%s", out)
	}
}

func TestMarshal_DottedClusterName(t *testing.T) {
	out := marshal(t, "a --> b\n..subgraph: svc.backend: a", model.Config{})

	// Graphviz cluster names cannot contain dots; the element id keeps them.
	if !strings.Contains(out, "subgraph cluster_svc_backend {") {
		t.Errorf("cluster name not sanitized:\n%s", out)
	}
	if !strings.Contains(out, `id="svc.backend";`) {
		t.Errorf("element id lost the dot:\n%s", out)
	}
}

func TestMarshal_IncludeRule(t *testing.T) {
	text := "a --> b\n..subgraph: grp: ghost"
	g := model.FromString(text, model.Config{})
	out := Marshal(g, Options{})
	if strings.Contains(out, `"ghost"`) {
		t.Errorf("undecorated unconnected node should be dropped:\n%s", out)
	}

	g = model.FromString(text, model.Config{IncludeEverything: true})
	out = Marshal(g, Options{})
	if !strings.Contains(out, `"ghost"`) {
		t.Errorf("IncludeEverything should keep the node:\n%s", out)
	}
}

func TestMarshal_ReducedEdgeSet(t *testing.T) {
	g := model.FromString("a --> b\nb --> c\na --> c", model.Config{})
	table := closure.Compute(nil, modelEdges(g))
	reduced, err := closure.Reduce(modelEdges(g), table)
	if err != nil {
		t.Fatalf("Reduce() error: %v", err)
	}

	var keep []*model.Edge
	for _, e := range reduced {
		keep = append(keep, g.Edge(e.From, e.To))
	}
	out := Marshal(g, Options{Edges: keep, Closure: table})

	if strings.Contains(out, `"a" -> "c"`) {
		t.Errorf("shortcut edge should not be drawn:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "b"`) || !strings.Contains(out, `"b" -> "c"`) {
		t.Errorf("reduced edges missing:\n%s", out)
	}
}

func TestMarshal_DescendantsStyle(t *testing.T) {
	out := marshal(t, "foo --> bar\nbar --> baz\n..descendants: foo: highlight", model.Config{})

	for _, id := range []string{"bar", "baz"} {
		if !strings.Contains(out, `"`+id+`" [id="`+id+`"; style="filled"; fillcolor="pink"];`) {
			t.Errorf("descendant %s not styled:\n%s", id, out)
		}
	}
	// The target itself stays unstyled.
	if !strings.Contains(out, `"foo" [id="foo"];`) {
		t.Errorf("style leaked onto target:\n%s", out)
	}
}

func TestMarshal_AncestorsStyle(t *testing.T) {
	out := marshal(t, "a --> b\nb --> c\n..ancestors: c: green", model.Config{})

	for _, id := range []string{"a", "b"} {
		if !strings.Contains(out, `"`+id+`" [id="`+id+`"; style="filled"; fillcolor="green"];`) {
			t.Errorf("ancestor %s not styled:\n%s", id, out)
		}
	}
	if !strings.Contains(out, `"c" [id="c"];`) {
		t.Errorf("style leaked onto target:\n%s", out)
	}
}

func TestMarshal_AllPathsStyle(t *testing.T) {
	out := marshal(t, strings.Join([]string{
		"a --> b",
		"b --> d",
		"a --> x",
		"x --> y",
		"y --> d",
		"..allPaths: a --> d: fillcolor=orange",
	}, "\n"), model.Config{})

	for _, id := range []string{"a", "b", "d"} {
		if !strings.Contains(out, `"`+id+`" [id="`+id+`"; fillcolor="orange"];`) {
			t.Errorf("path node %s not styled:\n%s", id, out)
		}
	}
	// The longer detour stays unstyled.
	if !strings.Contains(out, `"x" [id="x"];`) {
		t.Errorf("non-shortest path node styled:\n%s", out)
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineDot, false},
		{"dot", EngineDot, false},
		{"neato", EngineNeato, false},
		{"fdp", EngineFDP, false},
		{"circo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEngine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func modelEdges(g *model.Graph) []closure.Edge {
	var out []closure.Edge
	for _, e := range g.Edges() {
		out = append(out, closure.Edge{From: e.From, To: e.To})
	}
	return out
}
