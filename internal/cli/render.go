package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphspec/graphspec/pkg/cache"
	gserrors "github.com/graphspec/graphspec/pkg/errors"
	"github.com/graphspec/graphspec/pkg/pipeline"
	"github.com/graphspec/graphspec/pkg/render/dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output            string   // output file (single format) or base path
	formats           []string // dot, svg, png, pdf, json, html
	engine            string   // layout engine: dot, neato, fdp
	reduce            bool     // apply transitive reduction before drawing
	includeEverything bool     // keep unconnected, undecorated nodes
	title             string   // title for HTML output
}

// newRenderCmd creates the render command. Input comes from a file
// argument or stdin; output goes to --output or stdout.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{engine: string(dot.EngineDot)}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render graph text to a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json, html (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "layout engine: dot (default), neato, fdp")
	cmd.Flags().BoolVar(&opts.reduce, "reduce", false, "apply transitive reduction before drawing")
	cmd.Flags().BoolVar(&opts.includeEverything, "include-everything", false, "keep nodes with no edges and no attributes")
	cmd.Flags().StringVar(&opts.title, "title", "", "title for HTML output")

	return cmd
}

func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	lines, err := readInput(input)
	if err != nil {
		return err
	}

	engine, err := dot.ParseEngine(opts.engine)
	if err != nil {
		return err
	}

	p := newProgress(logger)
	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
	result, err := runner.Execute(ctx, lines, pipeline.Options{
		Reduce:            opts.reduce,
		IncludeEverything: opts.includeEverything,
		Engine:            engine,
		Formats:           opts.formats,
		Title:             opts.title,
	})
	if err != nil {
		return err
	}

	for _, problem := range result.Graph.Report {
		logger.Warn(problem.String())
	}

	if err := writeArtifacts(result, opts); err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d node(s), %d edge(s)", len(result.Graph.Nodes()), len(result.Graph.Edges())))
	return nil
}

func readInput(input string) ([]string, error) {
	var data []byte
	var err error
	if input == "" || input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "read input")
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}

func writeArtifacts(result *pipeline.Result, opts *renderOpts) error {
	if opts.output == "" {
		if len(opts.formats) > 1 {
			return gserrors.New(gserrors.ErrCodeInvalidInput, "multiple formats need --output as a base path")
		}
		_, err := os.Stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	for _, format := range opts.formats {
		path := opts.output
		if len(opts.formats) > 1 {
			path = opts.output + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
