package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wrtgvr/rimdash-connect/internal/app"
	errs "github.com/wrtgvr/rimdash-connect/internal/errors"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "check <url>",
		Short:   "Validate, probe and save an API URL",
		Example: `  connect check http://localhost:8765/api/v1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App, _ *viper.Viper, _ *slog.Logger) error {
				f := a.Form()
				f.InputChange(args[0])
				return report(cmd, a, f.Submit(cmd.Context()))
			})
		},
	}
}

func newDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Probe and save the default API URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App, _ *viper.Viper, _ *slog.Logger) error {
				return report(cmd, a, a.Form().UseDefault(cmd.Context()))
			})
		},
	}
}

func report(cmd *cobra.Command, a *app.App, err error) error {
	out := cmd.OutOrStdout()
	if err != nil {
		if appErr, ok := errs.As(err); ok && appErr.Type != errs.TypeInternal {
			fmt.Fprintf(out, "%s (%s)\n", appErr.Msg, appErr.Type)
		}
		return err
	}
	fmt.Fprintf(out, "connected to %s\n", a.ActiveURL())
	return nil
}

