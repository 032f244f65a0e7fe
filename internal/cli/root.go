// Package cli implements cleanctl, the operator tool for the document store.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homeclean/internal/app"
	"homeclean/internal/config"
	"homeclean/internal/docstore"
	"homeclean/internal/pkg/logger"
)

// Env is what every command runs against.
type Env struct {
	Config *config.Config
	Log    *zap.Logger
	Store  *docstore.Store
}

// Opener prepares an Env. The returned func releases it.
type Opener func(ctx context.Context) (*Env, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	open    Opener
}

// NewRootCommand creates the cleanctl command tree. A nil open uses OpenFromConfig.
func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = OpenFromConfig
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "cleanctl",
		Short:         "Operate the homeclean document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewPruneCommand(opts))
	cmd.AddCommand(NewSimulateTripCommand(opts))
	return cmd
}

// OpenFromConfig loads the environment configuration and connects the store
// exactly as the API server does.
func OpenFromConfig(ctx context.Context) (*Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return &Env{Config: cfg, Log: log, Store: store}, func() {
		closeStore()
		_ = log.Sync()
	}, nil
}

func (o *RootOptions) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, release, err := o.open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer release()
	return fn(ctx, env)
}

func (o *RootOptions) logf(cmd *cobra.Command, format string, args ...any) {
	if o.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
