package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layerviz/layerviz/internal/server"
)

// serveCommand creates the serve command for running the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

The service exposes:

  POST /api/render        render a model (single format per request)
  GET  /api/renders       list archived renders
  GET  /api/renders/{id}  fetch an archived render
  GET  /healthz           health check

Configuration is read from a TOML file (--config) and covers the listen
address, the artifact cache backend (file, redis, or none), and the
optional MongoDB render archive. Without MongoDB the archive is held in
memory and lost on restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML server config file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides config)")

	return cmd
}

// runServe starts the service and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg server.Config) error {
	srv, err := server.New(ctx, cfg, c.Logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer func() {
		if err := srv.Close(context.Background()); err != nil {
			c.Logger.Warn("close server", "error", err)
		}
	}()

	printInfo("Listening on %s", cfg.Addr)
	return srv.ListenAndServe(ctx)
}
