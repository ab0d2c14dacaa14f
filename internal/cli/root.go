package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version,
// typically injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the graphspec CLI and returns an error if any command
// fails. Logging defaults to info level; --verbose (-v) enables debug.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:   "graphspec",
		Short: "graphspec turns textual definitions of graphs into diagrams",
		Long: `graphspec scans text for edge statements (a --> b) and directives
(..attr:, ..subgraph:) and renders the resulting graph as an interactive
diagram. Statements can live inside arbitrary prose or code; everything
else is ignored.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("graphspec %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newExploreCmd())

	return root.ExecuteContext(ctx)
}
