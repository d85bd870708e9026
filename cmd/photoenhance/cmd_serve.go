package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vearutop/photoenhance"
	"github.com/vearutop/photoenhance/internal/config"
	"github.com/vearutop/photoenhance/internal/logging"
	"github.com/vearutop/photoenhance/internal/metrics"
	"github.com/vearutop/photoenhance/internal/server"
)

// getServeCmd returns the definition of the serve command.
func getServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI and API.",
		Long: `
Settings are read from flags, PHOTOENHANCE_* environment variables
(e.g. PHOTOENHANCE_MAX_UPLOAD) and an optional config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}

			photoenhance.SetMaxWorkers(cfg.Workers)
			log := logging.New(os.Stderr, cfg.Debug)

			srv, err := server.New(cfg, log, metrics.New())
			if err != nil {
				return err
			}

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	config.RegisterFlags(cmd.Flags())

	return cmd
}
