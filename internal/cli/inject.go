package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/toerig/internal/clips"
	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/offsets"
	"github.com/roach88/toerig/internal/skeleton"
	"github.com/roach88/toerig/internal/store"
)

// InjectOptions holds inject command flags.
type InjectOptions struct {
	Controller           string
	Rig                  string
	Skeleton             string
	ExpressionParameters string
	Container            string
	DryRun               bool
}

// NewInjectCommand creates the inject command.
func NewInjectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InjectOptions{}

	cmd := &cobra.Command{
		Use:   "inject <config.json>",
		Short: "Inject toe layers into a controller",
		Long: `Inject the layers of a layer document into a controller.

Generates the bent, neutral and tip clips of every toe the document uses,
replaces same-named layers, declares parameters and commits everything
to the asset store in one transaction.

With --dry-run the run happens against an in-memory copy of the store and
nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInject(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Controller, "controller", "", "target controller name (required)")
	cmd.Flags().StringVar(&opts.Rig, "rig", "", "rig profile YAML (defaults apply when omitted)")
	cmd.Flags().StringVar(&opts.Skeleton, "skeleton", "", "skeleton hierarchy YAML (required)")
	cmd.Flags().StringVar(&opts.ExpressionParameters, "expression-params", "", "expression parameter list to sync")
	cmd.Flags().StringVar(&opts.Container, "container", rootOpts.Env.OutputContainer, "output container for generated clips")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "run without writing to the store")
	_ = cmd.MarkFlagRequired("controller")
	_ = cmd.MarkFlagRequired("skeleton")

	return cmd
}

func runInject(rootOpts *RootOptions, opts *InjectOptions, configPath string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := readDocument(configPath)
	if err != nil {
		return outputDocumentError(formatter, configPath, err)
	}

	profile := offsets.DefaultProfile()
	if opts.Rig != "" {
		if profile, err = offsets.LoadProfile(opts.Rig); err != nil {
			_ = formatter.Error(ErrCodeProfile, err.Error(), nil)
			return WrapExitError(ExitCommandError, "load rig profile", err)
		}
	}
	root, err := skeleton.Load(opts.Skeleton)
	if err != nil {
		_ = formatter.Error(ErrCodeSkeleton, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load skeleton", err)
	}
	left, right := profile.BonePaths()
	rig := skeleton.NewRig(root, profile.Chain, left, right)

	s, err := store.Open(rootOpts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer s.Close()

	var host engine.Host = s
	if opts.DryRun {
		dry, err := newDryRunHost(ctx, s, opts)
		if err != nil {
			return outputRunError(formatter, err)
		}
		host = dry
		formatter.VerboseLog("Dry run: nothing will be written to %s", rootOpts.DB)
	}

	e := engine.New(host, engine.WithLogger(newLogger(formatter.GetErrWriter(), rootOpts.Verbose)))
	report, err := e.Run(ctx, engine.Request{
		Document:             doc,
		Controller:           opts.Controller,
		ExpressionParameters: opts.ExpressionParameters,
		Container:            opts.Container,
		Profile:              profile,
		Bones:                rig,
	})
	if err != nil {
		return outputRunError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Encode(CLIResponse{Status: "ok", Data: report, RunID: report.RunID})
	}
	printReport(formatter, report, opts.DryRun)
	return nil
}

// dryRunHost stages a run in memory. The controller and expression list
// are copied up front; clip lookups fall through to the store.
type dryRunHost struct {
	*engine.MemoryHost
	store *store.Store
}

func newDryRunHost(ctx context.Context, s *store.Store, opts *InjectOptions) (*dryRunHost, error) {
	mem := engine.NewMemoryHost()
	c, err := s.LoadController(ctx, opts.Controller)
	if err != nil {
		return nil, &engine.AssetIOError{Op: "load_controller", Err: err}
	}
	if err := mem.PutController(c); err != nil {
		return nil, &engine.AssetIOError{Op: "load_controller", Err: err}
	}
	if opts.ExpressionParameters != "" {
		l, err := s.LoadExpressionParameters(ctx, opts.ExpressionParameters)
		if err != nil {
			return nil, &engine.AssetIOError{Op: "load_expression_parameters", Err: err}
		}
		mem.PutExpressionParameters(l)
	}
	return &dryRunHost{MemoryHost: mem, store: s}, nil
}

// LoadClip prefers clips staged in memory over stored ones.
func (h *dryRunHost) LoadClip(ctx context.Context, name, path string) (clips.Ref, bool, error) {
	ref, ok, err := h.MemoryHost.LoadClip(ctx, name, path)
	if err != nil || ok {
		return ref, ok, err
	}
	return h.store.LoadClip(ctx, name, path)
}

func outputRunError(formatter *OutputFormatter, err error) error {
	code := string(engine.CodeOf(err))
	if code == "" {
		code = string(engine.ErrCodeAssetIO)
		if !engine.IsAssetIO(err) {
			code = ErrCodeGeneric
		}
	}
	var details interface{}
	var re *engine.RunError
	if errors.As(err, &re) && re.Layer != "" {
		details = map[string]string{"layer": re.Layer}
	}
	_ = formatter.Error(code, err.Error(), details)
	return WrapExitError(ExitFailure, "injection failed", err)
}

func printReport(formatter *OutputFormatter, r *engine.Report, dryRun bool) {
	w := formatter.Writer
	verb := "Injected"
	if dryRun {
		verb = "Would inject"
	}
	fmt.Fprintf(w, "✓ %s %d layer(s) into %s\n", verb, len(r.Layers), r.Controller)
	for _, l := range r.Layers {
		replaced := ""
		if l.Replaced {
			replaced = fmt.Sprintf(", replaced %d object(s)", l.Destroyed)
		}
		fmt.Fprintf(w, "  %s (%s): %d state(s), %d transition(s)%s\n",
			l.Name, l.Toe, l.States, l.Transitions.Ordinary+l.Transitions.AnyState, replaced)
	}
	fmt.Fprintf(w, "  clips: %d in %s\n", len(r.Clips), r.Container)
	if len(r.Parameters) > 0 {
		fmt.Fprintf(w, "  parameters: %s\n", strings.Join(r.Parameters, ", "))
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	formatter.VerboseLog("Run %s", r.RunID)
}
