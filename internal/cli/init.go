package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/toerig/internal/store"
)

// InitOptions holds init command flags.
type InitOptions struct {
	ExpressionParameters string
}

// InitResult reports what init created.
type InitResult struct {
	Controller           string `json:"controller"`
	Created              bool   `json:"created"`
	ExpressionParameters string `json:"expression_parameters,omitempty"`
	ParametersCreated    bool   `json:"parameters_created,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init <controller>",
		Short: "Create an empty controller in the asset store",
		Long: `Create an empty controller, and optionally an empty expression
parameter list, in the asset store. Existing assets are left untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ExpressionParameters, "expression-params", "", "also create an expression parameter list with this name")
	return cmd
}

func runInit(rootOpts *RootOptions, opts *InitOptions, controller string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	ctx := cmd.Context()

	s, err := store.Open(rootOpts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer s.Close()

	result := InitResult{Controller: controller, ExpressionParameters: opts.ExpressionParameters}
	result.Created, err = s.CreateController(ctx, controller)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "create controller", err)
	}
	if opts.ExpressionParameters != "" {
		result.ParametersCreated, err = s.CreateExpressionParameters(ctx, opts.ExpressionParameters)
		if err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "create expression parameters", err)
		}
	}
	formatter.VerboseLog("Store: %s", rootOpts.DB)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, createdLine("controller", controller, result.Created))
	if opts.ExpressionParameters != "" {
		fmt.Fprintln(formatter.Writer, createdLine("expression parameters", opts.ExpressionParameters, result.ParametersCreated))
	}
	return nil
}

func createdLine(kind, name string, created bool) string {
	if created {
		return fmt.Sprintf("✓ Created %s %s", kind, name)
	}
	return fmt.Sprintf("• %s %s already exists", kind, name)
}
