package dot

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	gserrors "github.com/graphspec/graphspec/pkg/errors"
)

// Engine selects the Graphviz layout algorithm.
type Engine string

const (
	// EngineDot is the hierarchical layout, the default.
	EngineDot Engine = "dot"
	// EngineNeato is the spring-model layout.
	EngineNeato Engine = "neato"
	// EngineFDP is the force-directed layout.
	EngineFDP Engine = "fdp"
)

// ParseEngine validates a layout engine name. The empty string selects the
// default engine.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case "":
		return EngineDot, nil
	case EngineDot, EngineNeato, EngineFDP:
		return Engine(name), nil
	}
	return "", gserrors.New(gserrors.ErrCodeInvalidEngine, "unknown layout engine %q (want dot, neato, or fdp)", name)
}

func (e Engine) layout() graphviz.Layout {
	switch e {
	case EngineNeato:
		return graphviz.NEATO
	case EngineFDP:
		return graphviz.FDP
	}
	return graphviz.DOT
}

// RenderSVG lays out a DOT graph and returns SVG bytes with a normalized
// viewBox, ready for embedding.
func RenderSVG(ctx context.Context, dotSrc string, engine Engine) ([]byte, error) {
	svg, err := render(ctx, dotSrc, engine, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG lays out a DOT graph and returns PNG bytes.
func RenderPNG(ctx context.Context, dotSrc string, engine Engine) ([]byte, error) {
	return render(ctx, dotSrc, engine, graphviz.PNG)
}

// RenderPDF lays out a DOT graph and converts the SVG to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dotSrc string, engine Engine) ([]byte, error) {
	svg, err := RenderSVG(ctx, dotSrc, engine)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeRender, err, "rsvg-convert (is librsvg installed?)")
	}
	return out.Bytes(), nil
}

func render(ctx context.Context, dotSrc string, engine Engine, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(engine.layout())

	g, err := graphviz.ParseBytes([]byte(dotSrc))
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeRender, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the diagram scales to
// its viewBox instead of a fixed point size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
