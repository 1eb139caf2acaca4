package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/store"
)

// ControllerView is the inspect output.
type ControllerView struct {
	Name       string               `json:"name"`
	Parameters []animator.Parameter `json:"parameters"`
	Layers     []LayerView          `json:"layers"`
	Objects    int                  `json:"objects"`
	Orphans    int                  `json:"orphans"`
}

// LayerView summarizes one layer.
type LayerView struct {
	Name          string      `json:"name"`
	DefaultWeight float64     `json:"default_weight"`
	DefaultState  string      `json:"default_state,omitempty"`
	States        []StateView `json:"states"`
	AnyState      []string    `json:"any_state,omitempty"` // destination names
}

// StateView summarizes one state.
type StateView struct {
	Name        string   `json:"name"`
	Motion      string   `json:"motion,omitempty"`
	Transitions []string `json:"transitions,omitempty"` // destination names
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inspect <controller>",
		Short:         "Show a controller's layers, states and parameters",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(rootOpts *RootOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	s, err := store.Open(rootOpts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer s.Close()

	c, err := s.LoadController(cmd.Context(), name)
	if err != nil {
		code := ErrCodeStore
		if errors.Is(err, store.ErrNotFound) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load controller", err)
	}

	view := viewController(c)
	if formatter.Format == "json" {
		return formatter.Success(view)
	}
	printController(formatter, view)
	return nil
}

func viewController(c *animator.Controller) ControllerView {
	v := ControllerView{
		Name:       c.Name,
		Parameters: c.Parameters,
		Layers:     make([]LayerView, 0, len(c.Layers)),
		Objects:    c.Objects.Len(),
		Orphans:    len(animator.Orphans(c)),
	}
	if v.Parameters == nil {
		v.Parameters = []animator.Parameter{}
	}

	for _, l := range c.Layers {
		lv := LayerView{Name: l.Name, DefaultWeight: l.DefaultWeight, States: []StateView{}}
		sm := l.StateMachine
		if sm == nil {
			v.Layers = append(v.Layers, lv)
			continue
		}
		stateName := func(id animator.ObjectID) string {
			if st := sm.StateByID(id); st != nil {
				return st.Name
			}
			return fmt.Sprintf("#%d", id)
		}
		if sm.DefaultState != 0 {
			lv.DefaultState = stateName(sm.DefaultState)
		}
		for _, st := range sm.States {
			sv := StateView{Name: st.Name, Motion: describeMotion(st.Motion)}
			for _, t := range st.Transitions {
				sv.Transitions = append(sv.Transitions, stateName(t.Destination))
			}
			lv.States = append(lv.States, sv)
		}
		for _, t := range sm.AnyStateTransitions {
			lv.AnyState = append(lv.AnyState, stateName(t.Destination))
		}
		v.Layers = append(v.Layers, lv)
	}
	return v
}

func describeMotion(m *animator.Motion) string {
	if m == nil {
		return ""
	}
	switch m.Kind {
	case animator.MotionBlendTree:
		if m.BlendTree == nil {
			return "blend tree"
		}
		return fmt.Sprintf("blend tree %s (%d children)", m.BlendTree.Parameter, len(m.BlendTree.Children))
	case animator.MotionClip:
		if m.Clip == nil {
			return "clip"
		}
		return "clip " + m.Clip.Name
	default:
		return string(m.Kind)
	}
}

func printController(formatter *OutputFormatter, v ControllerView) {
	w := formatter.Writer
	fmt.Fprintf(w, "Controller %s (%d objects)\n", v.Name, v.Objects)
	if len(v.Parameters) > 0 {
		fmt.Fprintln(w, "parameters:")
		for _, p := range v.Parameters {
			fmt.Fprintf(w, "  %s (%s)\n", p.Name, p.Type)
		}
	}
	fmt.Fprintln(w, "layers:")
	for _, l := range v.Layers {
		fmt.Fprintf(w, "  %s weight=%g default=%s\n", l.Name, l.DefaultWeight, l.DefaultState)
		for _, st := range l.States {
			if st.Motion != "" {
				fmt.Fprintf(w, "    state %s: %s\n", st.Name, st.Motion)
			} else {
				fmt.Fprintf(w, "    state %s\n", st.Name)
			}
			for _, dest := range st.Transitions {
				fmt.Fprintf(w, "      -> %s\n", dest)
			}
		}
		for _, dest := range l.AnyState {
			fmt.Fprintf(w, "    any -> %s\n", dest)
		}
	}
	if v.Orphans > 0 {
		fmt.Fprintf(w, "warning: %d orphaned object(s)\n", v.Orphans)
	}
}
