package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wrtgvr/rimdash-connect/internal/app"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
	"github.com/wrtgvr/rimdash-connect/internal/storage"
	"github.com/wrtgvr/rimdash-connect/internal/tips"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved API URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App, _ *viper.Viper, _ *slog.Logger) error {
				out := cmd.OutOrStdout()

				url, at, err := a.Stored(cmd.Context())
				switch {
				case errors.Is(err, storage.ErrNotFound):
					fmt.Fprintf(out, "%s (default, nothing saved)\n", domain.DefaultURL)
					return nil
				case err != nil:
					return err
				}

				if at.IsZero() {
					fmt.Fprintln(out, url)
				} else {
					fmt.Fprintf(out, "%s (saved %s)\n", url, at.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newTipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print a random tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed := uint64(time.Now().UnixNano())
			fmt.Fprintln(cmd.OutOrStdout(), tips.Pick(rand.New(rand.NewPCG(seed, seed>>32))))
			return nil
		},
	}
}
