package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"homeclean/internal/repository"
)

type PruneOptions struct {
	*RootOptions
	OlderThan time.Duration
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete read notifications older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.OlderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			return opts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				cutoff := time.Now().Add(-opts.OlderThan)
				n, err := repository.NewNotificationRepository(env.Store).DeleteReadBefore(ctx, cutoff)
				if err != nil {
					return fmt.Errorf("prune notifications: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d notifications\n", n)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&opts.OlderThan, "older-than", 30*24*time.Hour, "age of the oldest read notification to keep")
	return cmd
}
