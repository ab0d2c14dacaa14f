package pipeline

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/graphspec/graphspec/pkg/closure"
	"github.com/graphspec/graphspec/pkg/model"
	"github.com/graphspec/graphspec/pkg/render/page"
)

func execute(t *testing.T, text string, opts Options) *Result {
	t.Helper()
	lines := strings.Split(text, "\n")
	result, err := NewRunner(nil, nil).Execute(context.Background(), lines, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	return result
}

func TestExecute_DOTArtifact(t *testing.T) {
	result := execute(t, "a --> b\nb --> c", Options{Formats: []string{FormatDOT}})

	out := string(result.Artifacts[FormatDOT])
	if !strings.Contains(out, `"a" -> "b"`) || !strings.Contains(out, `"b" -> "c"`) {
		t.Errorf("DOT artifact missing edges:\n%s", out)
	}
}

func TestExecute_ReduceDropsShortcut(t *testing.T) {
	result := execute(t, "a --> b\nb --> c\na --> c", Options{
		Reduce:  true,
		Formats: []string{FormatDOT},
	})

	out := string(result.Artifacts[FormatDOT])
	if strings.Contains(out, `"a" -> "c"`) {
		t.Errorf("shortcut edge drawn despite reduction:\n%s", out)
	}
	// Reduction changes what is drawn, never what is reachable.
	if !result.Closure.Reachable("a", "c") {
		t.Error("closure lost reachability")
	}
	if got := result.Data.Edges["a"]; !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("payload edges = %v, want full set", got)
	}
}

func TestExecute_JSONArtifact(t *testing.T) {
	result := execute(t, "foo --> bar :: over http\nbar --> baz", Options{
		Formats: []string{FormatJSON},
	})

	var payload page.Payload
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &payload); err != nil {
		t.Fatalf("invalid JSON artifact: %v", err)
	}
	if got := payload.Closure["foo"]; !reflect.DeepEqual(got, []string{"bar", "baz"}) {
		t.Errorf("transitive_closure[foo] = %v, want [bar baz]", got)
	}
	if payload.Descriptions["foo/bar"] != "over http" {
		t.Errorf("Descriptions = %v", payload.Descriptions)
	}
}

func TestExecute_UnknownFormat(t *testing.T) {
	_, err := NewRunner(nil, nil).Execute(context.Background(), []string{"a --> b"}, Options{
		Formats: []string{"gif"},
	})
	if err == nil {
		t.Fatal("Execute() should reject unknown formats")
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{FormatDOT, FormatSVG, FormatHTML}); err != nil {
		t.Errorf("ValidateFormats() error: %v", err)
	}
	if err := ValidateFormats([]string{"gif"}); err == nil {
		t.Error("ValidateFormats() should reject gif")
	}
}

func TestBuildPayload(t *testing.T) {
	g := model.FromString("a --> b :: main path\nb --> c\n..attr: a::: source of truth", model.Config{})
	table := closure.Compute(nil, []closure.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}})

	payload := BuildPayload(g, table)

	if !reflect.DeepEqual(payload.Edges["a"], []string{"b"}) {
		t.Errorf("Edges[a] = %v", payload.Edges["a"])
	}
	if !reflect.DeepEqual(payload.Edges["c"], []string{}) {
		t.Errorf("Edges[c] = %v, want empty list not nil", payload.Edges["c"])
	}
	if !reflect.DeepEqual(payload.Closure["a"], []string{"b", "c"}) {
		t.Errorf("Closure[a] = %v", payload.Closure["a"])
	}
	if payload.Descriptions["a"] != "source of truth" {
		t.Errorf("Descriptions[a] = %q", payload.Descriptions["a"])
	}
	if payload.Descriptions["a/b"] != "main path" {
		t.Errorf("Descriptions[a/b] = %q", payload.Descriptions["a/b"])
	}
}

func TestBuildPayload_NoDescriptions(t *testing.T) {
	g := model.FromString("a --> b", model.Config{})
	payload := BuildPayload(g, closure.Compute(nil, []closure.Edge{{From: "a", To: "b"}}))

	if payload.Descriptions != nil {
		t.Errorf("Descriptions = %v, want nil for omitempty", payload.Descriptions)
	}
}
