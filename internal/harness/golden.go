package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/toerig/internal/animator"
)

// Snapshot renders a result as deterministic text: every run report, the
// run error code, and the final controller. Clip hashes are left out so
// the snapshot stays readable.
func Snapshot(ctx context.Context, scenario *Scenario, result *Result) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)

	for _, r := range result.Reports {
		fmt.Fprintf(&b, "run %s into %s\n", r.RunID, r.Container)
		for _, l := range r.Layers {
			fmt.Fprintf(&b, "  layer %s (%s): %d state(s), default %s, transitions %d/%d/%d",
				l.Name, l.Toe, l.States, l.DefaultState,
				l.Transitions.Ordinary, l.Transitions.AnyState, l.Transitions.Dropped)
			if l.Replaced {
				fmt.Fprintf(&b, ", replaced %d object(s)", l.Destroyed)
			}
			b.WriteString("\n")
		}
		for _, c := range r.Clips {
			fmt.Fprintf(&b, "  clip %s\n", c.Path)
		}
		for _, p := range r.Parameters {
			fmt.Fprintf(&b, "  parameter %s\n", p)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  warning %s\n", w)
		}
	}
	if result.ErrorCode != "" {
		fmt.Fprintf(&b, "error %s\n", result.ErrorCode)
	}

	ctrl, err := result.Host.LoadController(ctx, scenario.Controller)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&b, "controller %s\n", ctrl.Name)
	for _, p := range ctrl.Parameters {
		fmt.Fprintf(&b, "  parameter %s %s\n", p.Name, p.Type)
	}
	for _, l := range ctrl.Layers {
		fmt.Fprintf(&b, "  layer %s weight=%g\n", l.Name, l.DefaultWeight)
		for _, st := range l.StateMachine.States {
			fmt.Fprintf(&b, "    state %s: %s\n", st.Name, motionLabel(st.Motion))
		}
	}
	return []byte(b.String()), nil
}

func motionLabel(m *animator.Motion) string {
	switch {
	case m == nil:
		return "none"
	case m.Kind == animator.MotionBlendTree:
		return fmt.Sprintf("blend tree on %q with %d child(ren)", m.BlendTree.Parameter, len(m.BlendTree.Children))
	default:
		return "clip " + m.Clip.Name
	}
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be loaded or executed. Test
// failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	snap, err := Snapshot(context.Background(), scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snap)
	return result, nil
}
