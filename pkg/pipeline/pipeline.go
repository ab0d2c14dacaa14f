// Package pipeline runs the parse → closure → render pipeline shared by
// the CLI and the HTTP server. Centralizing the flow keeps both entry
// points behaving identically: same merge semantics, same reduction
// policy, same artifact formats.
//
// Each Execute call owns its own model instance, so concurrent executions
// need no locking.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphspec/graphspec/pkg/cache"
	"github.com/graphspec/graphspec/pkg/closure"
	gserrors "github.com/graphspec/graphspec/pkg/errors"
	"github.com/graphspec/graphspec/pkg/model"
	"github.com/graphspec/graphspec/pkg/render/dot"
	"github.com/graphspec/graphspec/pkg/render/page"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatHTML = "html"
)

// DefaultCacheTTL bounds how long rendered artifacts stay valid; profile
// inputs can change underneath the server without notification.
const DefaultCacheTTL = 5 * time.Minute

// ValidFormats lists every renderable format, in canonical order.
var ValidFormats = []string{FormatDOT, FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatHTML}

// Options controls one pipeline execution.
type Options struct {
	// Reduce applies transitive reduction to the drawn edge set.
	Reduce bool
	// IncludeEverything keeps unconnected, undecorated nodes.
	IncludeEverything bool
	// Engine selects the layout algorithm.
	Engine dot.Engine
	// Formats are the artifacts to produce.
	Formats []string
	// Title labels HTML output.
	Title string
	// TTL overrides the artifact cache lifetime. Zero means DefaultCacheTTL.
	TTL time.Duration
}

// String renders options for log lines.
func (o Options) String() string {
	return fmt.Sprintf("engine=%s reduce=%t everything=%t formats=%v",
		o.Engine, o.Reduce, o.IncludeEverything, o.Formats)
}

// ValidateFormats rejects unknown output formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		valid := false
		for _, v := range ValidFormats {
			if f == v {
				valid = true
				break
			}
		}
		if !valid {
			return gserrors.New(gserrors.ErrCodeInvalidFormat, "unknown format %q (want one of %v)", f, ValidFormats)
		}
	}
	return nil
}

// Result is the outcome of one execution.
type Result struct {
	Graph     *model.Graph
	Closure   closure.Table
	Data      page.Payload
	Artifacts map[string][]byte // format -> rendered bytes
}

// Runner executes pipelines against a shared artifact cache.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a Runner. A nil cache disables caching; a nil logger
// falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cache: c, logger: logger}
}

// Execute parses lines into a model, computes the closure, optionally
// reduces the edge set, and renders every requested format.
func (r *Runner) Execute(ctx context.Context, lines []string, opts Options) (*Result, error) {
	start := time.Now()

	g := model.FromLines(lines, model.Config{IncludeEverything: opts.IncludeEverything})

	table := closure.Compute(nodeIDs(g), closureEdges(g))
	r.logger.Debug("model built",
		"nodes", len(g.Nodes()), "edges", len(g.Edges()),
		"subgraphs", len(g.Subgraphs()), "problems", len(g.Report))

	drawn := g.Edges()
	if opts.Reduce {
		reduced, err := reduceEdges(g, table)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("reduced edge set", "from", len(drawn), "to", len(reduced))
		drawn = reduced
	}

	result := &Result{
		Graph:     g,
		Closure:   table,
		Data:      BuildPayload(g, table),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	dotSrc := dot.Marshal(g, dot.Options{Edges: drawn, Closure: table})
	for _, format := range opts.Formats {
		artifact, err := r.renderFormat(ctx, dotSrc, result, format, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = artifact
	}

	r.logger.Info("pipeline complete",
		"formats", opts.Formats, "elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// renderFormat produces one artifact, consulting the cache for the
// layout-heavy formats.
func (r *Runner) renderFormat(ctx context.Context, dotSrc string, result *Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dotSrc), nil
	case FormatJSON:
		return json.MarshalIndent(result.Data, "", "  ")
	}

	key := cache.Key("render", dotSrc, string(opts.Engine), format, opts.Title)
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		r.logger.Debug("artifact cache hit", "format", format)
		return data, nil
	}

	var artifact []byte
	var err error
	switch format {
	case FormatSVG:
		artifact, err = dot.RenderSVG(ctx, dotSrc, opts.Engine)
	case FormatPNG:
		artifact, err = dot.RenderPNG(ctx, dotSrc, opts.Engine)
	case FormatPDF:
		artifact, err = dot.RenderPDF(ctx, dotSrc, opts.Engine)
	case FormatHTML:
		artifact, err = r.renderHTML(ctx, dotSrc, result, opts)
	default:
		return nil, gserrors.New(gserrors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if err := r.cache.Set(ctx, key, artifact, ttl); err != nil {
		r.logger.Warn("artifact cache write failed", "err", err)
	}
	return artifact, nil
}

func (r *Runner) renderHTML(ctx context.Context, dotSrc string, result *Result, opts Options) ([]byte, error) {
	svg, err := dot.RenderSVG(ctx, dotSrc, opts.Engine)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = "graphspec"
	}

	var problems []string
	for _, p := range result.Graph.Report {
		problems = append(problems, p.String())
	}

	return page.Render(page.Doc{
		Title:    title,
		SVG:      svg,
		Data:     result.Data,
		Problems: problems,
	})
}

// BuildPayload assembles the graph data embedded with rendered diagrams:
// the adjacency lists, the forward closure, and hover descriptions for
// every commented node and edge. The payload always reflects the full edge
// set; reduction only changes what is drawn, not what is reachable.
func BuildPayload(g *model.Graph, table closure.Table) page.Payload {
	payload := page.Payload{
		Edges:        make(map[string][]string, len(g.Nodes())),
		Closure:      make(map[string][]string, len(table)),
		Descriptions: make(map[string]string),
	}

	for _, n := range g.Nodes() {
		payload.Edges[n.ID] = []string{}
		if n.Comment != "" {
			payload.Descriptions[n.ID] = n.Comment
		}
	}
	for _, e := range g.Edges() {
		payload.Edges[e.From] = append(payload.Edges[e.From], e.To)
		if e.Comment != "" {
			payload.Descriptions[e.ID()] = e.Comment
		}
	}
	for id, reachable := range table {
		payload.Closure[id] = reachable.Sorted()
	}
	if len(payload.Descriptions) == 0 {
		payload.Descriptions = nil
	}
	return payload
}

// reduceEdges maps the model's edges through the closure package and back,
// preserving edge identity so attributes and comments survive.
func reduceEdges(g *model.Graph, table closure.Table) ([]*model.Edge, error) {
	reduced, err := closure.Reduce(closureEdges(g), table)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInternal, err, "transitive reduction")
	}

	out := make([]*model.Edge, 0, len(reduced))
	for _, e := range reduced {
		out = append(out, g.Edge(e.From, e.To))
	}
	return out, nil
}

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
