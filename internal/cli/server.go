// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of databox.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anisafifi/databox/internal/config"
	"github.com/anisafifi/databox/internal/server"
)

// serverCmd runs the REST API server in the foreground.
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the databox API server",
	Long: `Run the databox REST API server in the foreground. The server
reads its configuration from the file given with --config, falling
back to built-in defaults, and shuts down gracefully on SIGINT or
SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getConfig().ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		srv, err := server.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		ctx := server.SetupSignalHandler()
		<-ctx.Done()

		return srv.Shutdown()
	},
}
