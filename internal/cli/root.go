// Package cli is the storectl admin tool: it bootstraps, inspects, exports,
// imports and resets the persisted storefront document.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/core/config"
	"storefront/internal/core/logger"
)

type RootOptions struct {
	ConfigPath string
	Verbose    bool

	// Open builds the application; tests swap it for an in-memory one.
	Open func(ctx context.Context, o *RootOptions) (*app.App, error)
}

func NewRootCommand() *cobra.Command {
	return newRoot(&RootOptions{Open: openFromConfig})
}

func newRoot(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "storectl",
		Short:        "Administer the storefront data store",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log store activity to stdout")

	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newResetCommand(opts))
	return cmd
}

func openFromConfig(ctx context.Context, o *RootOptions) (*app.App, error) {
	cfg, err := config.LoadFrom(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := zap.NewNop()
	if o.Verbose {
		log, _ = logger.FromConfig(cfg.Log)
	}
	return app.New(ctx, cfg, log)
}

// withApp opens the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := opts.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(ctx, a)
}
