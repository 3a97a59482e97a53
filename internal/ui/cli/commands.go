package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codecorrect/internal/core/ports"
	"codecorrect/internal/shared/version"

	"github.com/spf13/cobra"
)

func newDestructorsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destructors",
		Short: "Rewrite trivial destructors flagged by clang-tidy to = default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			warnings, err := cmd.Flags().GetString("warnings")
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				report, err := rt.app.CorrectDestructors(ctx, warnings)
				renderDestructorReport(cmd.OutOrStdout(), report, opts.dryRun)
				return err
			})
		},
	}
	cmd.Flags().String("warnings", "", "clang-tidy output to read (default diagnostics.path)")
	return cmd
}

func newIncludesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "includes",
		Short: "Replace forward declarations in headers with includes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watch, err := cmd.Flags().GetBool("watch")
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				out := cmd.OutOrStdout()
				report, err := rt.app.ResolveIncludes(ctx)
				renderIncludeReport(out, report, opts.dryRun)
				if err != nil || !watch {
					return err
				}
				slog.Info("watching headers", "roots", rt.paths.Roots)
				err = rt.app.WatchIncludes(ctx, func(batch ports.IncludeReport) {
					renderIncludeReport(out, batch, opts.dryRun)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
	cmd.Flags().Bool("watch", false, "keep running and re-resolve headers as they change")
	return cmd
}

func newIndexCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Print the symbol index built from all headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ambiguousOnly, err := cmd.Flags().GetBool("ambiguous")
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				report, err := rt.app.DescribeIndex(ctx)
				if err != nil {
					return err
				}
				renderIndexReport(cmd.OutOrStdout(), report, ambiguousOnly)
				return nil
			})
		},
	}
	cmd.Flags().Bool("ambiguous", false, "only list names defined in more than one header")
	return cmd
}

func newRunsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List journaled runs, or the outcomes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			return withRuntime(cmd, opts, func(_ context.Context, rt *runtime) error {
				store, err := openJournalForRead(rt)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					outcomes, err := store.LoadOutcomes(args[0])
					if err != nil {
						return err
					}
					renderOutcomes(out, args[0], outcomes)
					return nil
				}
				runs, err := store.LoadRuns(limit)
				if err != nil {
					return err
				}
				renderRuns(out, runs)
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of runs to list")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codecorrect %s\n", version.String())
		},
	}
}

func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := setupRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(ctx, rt)
}
