// Package main is the ShopKeeper command-line client: an interactive shell
// over a local store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/atinyakov/ShopKeeper/internal/app"
	"github.com/atinyakov/ShopKeeper/internal/client/shell"
	"github.com/atinyakov/ShopKeeper/internal/config"
	"github.com/atinyakov/ShopKeeper/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

func newRootCmd() *cobra.Command {
	opts := &config.Options{}

	root := &cobra.Command{
		Use:           "shopkeeper",
		Short:         "Manage shopping lists from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.Storage, "storage", config.StorageFile, "storage backend: memory | file | sqlite | postgres")
	root.PersistentFlags().StringVar(&opts.StoragePath, "path", "shopkeeper.json", "storage file for the file and sqlite backends")
	root.PersistentFlags().StringVar(&opts.DatabaseDSN, "dsn", "", "PostgreSQL connection string")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "error", "log level")

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New()
			if err := log.Init(opts.LogLevel); err != nil {
				return err
			}
			defer func() { _ = log.Log.Sync() }()

			a, err := app.New(opts, log.Log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Log.Warn("failed to close storage", zap.Error(err))
				}
			}()

			shell.New(a.Auth, a.Lists, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show build version and date",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ShopKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		},
	}

	root.AddCommand(shellCmd, versionCmd)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
