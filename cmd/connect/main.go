package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wrtgvr/rimdash-connect/internal/app"
	"github.com/wrtgvr/rimdash-connect/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "connect",
		Short: "Configure and validate the RimWorld API endpoint",
		Long: `connect validates the base URL of a RimWorld REST API, checks that it is
reachable with a liveness probe and stores it for the dashboard.

Configuration is read from flags, RIMDASH_* environment variables and a .env
file in the working directory.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyStorage, "sqlite://rimdash.db", "storage URL (memory://, redis://host:port/db, sqlite://path)")
	flags.Duration(config.KeyProbeTimeout, 0, "liveness probe timeout (0 keeps the transport default)")
	flags.BoolP(config.KeyVerbose, "v", false, "verbose output")
	flags.BoolP(config.KeyJSONLog, "j", false, "log output as JSON to stdout")

	root.AddCommand(
		newServeCommand(),
		newCheckCommand(),
		newDefaultCommand(),
		newShowCommand(),
		newTipCommand(),
	)
	return root
}

// loadConfig binds the command's flags and sets the default logger.
func loadConfig(cmd *cobra.Command) (*viper.Viper, *slog.Logger, error) {
	v, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogging(config.GetLogConfig(v))
	slog.SetDefault(logger)
	return v, logger, nil
}

func setupLogging(cfg *config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:   level,
			NoColor: os.Getenv("NO_COLOR") != "",
		})
	}

	return slog.New(handler)
}

// withApp loads config, builds the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, fn func(a *app.App, v *viper.Viper, logger *slog.Logger) error) error {
	v, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := app.InitApp(cmd.Context(), v, logger)
	if err != nil {
		logger.Error("failed to initialize", "err", err)
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
	}()

	return fn(a, v, logger)
}
