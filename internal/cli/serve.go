package cli

import (
	"github.com/spf13/cobra"

	"github.com/graphspec/graphspec/internal/server"
	"github.com/graphspec/graphspec/pkg/pipeline"
	"github.com/graphspec/graphspec/pkg/profile"
)

// newServeCmd creates the serve command, which runs the HTTP server
// over the profiles defined in a TOML config file.
func newServeCmd() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive graph pages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := profile.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			c, err := server.NewCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer c.Close()

			runner := pipeline.NewRunner(c, logger)
			return server.New(cfg, runner, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "graphspec.toml", "path to the TOML profile config")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config)")

	return cmd
}
