package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"homeclean/internal/docstore"
)

type ExportOptions struct {
	*RootOptions
	Out string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to a JSON snapshot",
		Long:  `Export the whole database as a JSON snapshot.

Examples:
  cleanctl export --out backup.json
  cleanctl export > backup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				return runExport(ctx, opts, env, cmd)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func runExport(ctx context.Context, opts *ExportOptions, env *Env, cmd *cobra.Command) error {
	snap, err := env.Store.ExportDatabase(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if opts.Out == "-" {
		if err := docstore.WriteSnapshot(cmd.OutOrStdout(), snap); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	} else if err := writeSnapshotFile(opts.Out, snap); err != nil {
		return err
	}
	opts.logf(cmd, "exported %d documents", countDocs(snap))
	return nil
}

// writeSnapshotFile reports a failed flush on close, so a truncated backup is an
// error.
func writeSnapshotFile(path string, snap *docstore.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := docstore.WriteSnapshot(f, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return f.Sync()
}

type ImportOptions struct {
	*RootOptions
	In string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON snapshot",
		Long:  `Import a snapshot written by export. Each collection present in the
snapshot is replaced; collections it does not mention are kept.

Examples:
  cleanctl import --in backup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				return runImport(ctx, opts, env, cmd)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.In, "in", "i", "", "snapshot file (required)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runImport(ctx context.Context, opts *ImportOptions, env *Env, cmd *cobra.Command) error {
	f, err := os.Open(opts.In)
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := docstore.ReadSnapshot(f)
	if err != nil {
		return err
	}
	if err := env.Store.ImportDatabase(ctx, snap); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents into %d collections\n", countDocs(snap), len(snap.Collections))
	return nil
}

type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every document in every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes {
				return fmt.Errorf("refusing to clear the database without --yes")
			}
			return opts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				if err := env.Store.ClearDatabase(ctx); err != nil {
					return fmt.Errorf("clear: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "database cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deletion")
	return cmd
}

func countDocs(snap *docstore.Snapshot) int {
	n := 0
	for _, docs := range snap.Collections {
		n += len(docs)
	}
	return n
}
