package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wrtgvr/rimdash-connect/internal/app"
	"github.com/wrtgvr/rimdash-connect/internal/config"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the connection form and monitor the active endpoint",
		Example: `  # Serve on :8080 with SQLite storage
  connect serve

  # Keep the endpoint in Redis and probe it every 10 seconds
  connect serve --storage redis://localhost:6379/0 --monitor-interval 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App, v *viper.Viper, logger *slog.Logger) error {
				return a.Run(cmd.Context(), config.GetServerConfig(v).Addr)
			})
		},
	}

	cmd.Flags().StringP(config.KeyListen, "l", ":8080", "listen address")
	cmd.Flags().Duration(config.KeyMonitorInterval, 0, "interval between liveness probes of the active endpoint (default 5s)")
	return cmd
}
