package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/store"
)

// ControllerRuns is the run history of one controller.
type ControllerRuns struct {
	Controller string          `json:"controller"`
	Runs       []engine.Report `json:"runs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "runs [controller]",
		Short: "Show committed injection runs",
		Long: `Show the committed injection runs of a controller, oldest first.
Without an argument, list the controllers in the store.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(rootOpts, args, cmd)
		},
	}
}

func runRuns(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	ctx := cmd.Context()

	s, err := store.Open(rootOpts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer s.Close()

	if len(args) == 0 {
		names, err := s.ListControllers(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "list controllers", err)
		}
		if formatter.Format == "json" {
			return formatter.Success(names)
		}
		for _, name := range names {
			fmt.Fprintln(formatter.Writer, name)
		}
		return nil
	}

	reports, err := s.Runs(ctx, args[0])
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load runs", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(ControllerRuns{Controller: args[0], Runs: reports})
	}
	if len(reports) == 0 {
		fmt.Fprintf(formatter.Writer, "• no runs for %s\n", args[0])
		return nil
	}
	for _, r := range reports {
		fmt.Fprintf(formatter.Writer, "%s: %d layer(s), %d clip(s), %d warning(s)\n",
			r.RunID, len(r.Layers), len(r.Clips), len(r.Warnings))
	}
	return nil
}
