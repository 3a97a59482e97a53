package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codecorrect/internal/core/config"
	"codecorrect/internal/shared/version"

	"github.com/spf13/cobra"
)

const defaultConfigPath = config.DefaultConfigFile

type rootOptions struct {
	configPath     string
	configExplicit bool
	verbose        bool
	dryRun         bool
	metricsFile    string
	noJournal      bool
}

// Run executes the command line and returns the process exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(os.Stdout)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "codecorrect",
		Short:         "Mechanical corrections for paired header/implementation trees",
		Long:          "codecorrect applies clang-tidy driven destructor fixes and replaces forward declarations with includes.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.configExplicit = cmd.Flags().Changed("config")
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", defaultConfigPath, "path to config file")
	pf.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "report edits without writing any file")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here after the run")
	pf.BoolVar(&opts.noJournal, "no-journal", false, "do not record this run in the journal database")

	root.AddCommand(
		newDestructorsCommand(opts),
		newIncludesCommand(opts),
		newIndexCommand(opts),
		newRunsCommand(opts),
		newVersionCommand(),
	)
	return root
}
