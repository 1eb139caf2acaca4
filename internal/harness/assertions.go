package harness

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/engine"
)

// valueTolerance absorbs float noise in clip values.
const valueTolerance = 1e-9

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions runs every assertion against result and the
// controller named controller, and returns the failure messages. It never
// stops early, so one execution reports all problems.
func EvaluateAssertions(ctx context.Context, result *Result, controller string, assertions []Assertion) []string {
	var ctrl *animator.Controller
	var ctrlErr error
	if result.Host != nil {
		ctrl, ctrlErr = result.Host.LoadController(ctx, controller)
	}

	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertLayer:
			err = withController(ctrl, ctrlErr, func(c *animator.Controller) error { return assertLayer(c, result.LastReport(), a) })
		case AssertLayerOrder:
			err = withController(ctrl, ctrlErr, func(c *animator.Controller) error { return assertLayerOrder(c, a) })
		case AssertLayerCount:
			err = withController(ctrl, ctrlErr, func(c *animator.Controller) error { return assertLayerCount(c, a) })
		case AssertParameter:
			err = withController(ctrl, ctrlErr, func(c *animator.Controller) error { return assertParameter(c, a) })
		case AssertClipValue:
			err = assertClipValue(ctx, result.Host, a)
		case AssertClipCount:
			err = assertClipCount(result.Host, a)
		case AssertWarningCount:
			err = assertWarningCount(result.LastReport(), a)
		case AssertWarningContains:
			err = assertWarningContains(result.LastReport(), a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return failures
}

func withController(c *animator.Controller, err error, fn func(*animator.Controller) error) error {
	if err != nil {
		return fmt.Errorf("load controller: %w", err)
	}
	if c == nil {
		return fmt.Errorf("no controller to check")
	}
	return fn(c)
}

func assertLayer(c *animator.Controller, report *engine.Report, a Assertion) error {
	layer := c.Layer(a.Layer)
	if layer == nil {
		return &AssertionError{Type: AssertLayer, Expected: "layer " + a.Layer, Actual: fmt.Sprintf("layers %v", c.LayerNames())}
	}
	if a.States != nil && len(layer.StateMachine.States) != *a.States {
		return &AssertionError{
			Type:     AssertLayer,
			Expected: fmt.Sprintf("%d state(s) in %s", *a.States, a.Layer),
			Actual:   fmt.Sprintf("%d", len(layer.StateMachine.States)),
		}
	}
	if a.DefaultState != "" {
		got := ""
		for _, st := range layer.StateMachine.States {
			if st.ID == layer.StateMachine.DefaultState {
				got = st.Name
			}
		}
		if got != a.DefaultState {
			return &AssertionError{Type: AssertLayer, Expected: "default state " + a.DefaultState, Actual: fmt.Sprintf("%q", got)}
		}
	}
	if a.Replaced != nil {
		if report == nil {
			return fmt.Errorf("no report to check replaced against")
		}
		for _, lr := range report.Layers {
			if lr.Name == a.Layer {
				if lr.Replaced != *a.Replaced {
					return &AssertionError{Type: AssertLayer, Expected: fmt.Sprintf("replaced=%t", *a.Replaced), Actual: fmt.Sprintf("replaced=%t", lr.Replaced)}
				}
				return nil
			}
		}
		return fmt.Errorf("layer %s missing from the last report", a.Layer)
	}
	return nil
}

func assertLayerOrder(c *animator.Controller, a Assertion) error {
	if got := c.LayerNames(); !slices.Equal(got, a.Layers) {
		return &AssertionError{Type: AssertLayerOrder, Expected: fmt.Sprintf("%v", a.Layers), Actual: fmt.Sprintf("%v", got)}
	}
	return nil
}

func assertLayerCount(c *animator.Controller, a Assertion) error {
	if len(c.Layers) != a.Count {
		return &AssertionError{Type: AssertLayerCount, Expected: fmt.Sprintf("%d", a.Count), Actual: fmt.Sprintf("%d %v", len(c.Layers), c.LayerNames())}
	}
	return nil
}

func assertParameter(c *animator.Controller, a Assertion) error {
	p, ok := c.Parameter(a.Name)
	if !ok {
		return &AssertionError{Type: AssertParameter, Expected: "parameter " + a.Name, Actual: "not declared"}
	}
	if a.ParamType != "" && p.Type.String() != a.ParamType {
		return &AssertionError{Type: AssertParameter, Expected: a.Name + " of type " + a.ParamType, Actual: p.Type.String()}
	}
	return nil
}

func assertClipValue(ctx context.Context, host *engine.MemoryHost, a Assertion) error {
	if host == nil {
		return fmt.Errorf("no host")
	}
	ref, ok, err := host.LoadClip(ctx, a.Clip, "")
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{Type: AssertClipValue, Expected: "clip " + a.Clip, Actual: "not stored"}
	}
	clip, _ := host.Clip(ref.Path)
	axis, err := parseAxis(a.Axis)
	if err != nil {
		return err
	}
	got, ok := clip.Value(a.Path, axis)
	if !ok {
		return &AssertionError{Type: AssertClipValue, Expected: fmt.Sprintf("curve %s %s", a.Path, a.Axis), Actual: "no such curve"}
	}
	if math.Abs(got-a.Value) > valueTolerance {
		return &AssertionError{
			Type:     AssertClipValue,
			Expected: fmt.Sprintf("%s %s.%s = %g", a.Clip, a.Path, a.Axis, a.Value),
			Actual:   fmt.Sprintf("%g", got),
		}
	}
	return nil
}

func assertClipCount(host *engine.MemoryHost, a Assertion) error {
	if host == nil {
		return fmt.Errorf("no host")
	}
	if n := host.ClipCount(); n != a.Count {
		return &AssertionError{Type: AssertClipCount, Expected: fmt.Sprintf("%d", a.Count), Actual: fmt.Sprintf("%d", n)}
	}
	return nil
}

func assertWarningCount(report *engine.Report, a Assertion) error {
	if report == nil {
		return fmt.Errorf("no successful run")
	}
	if len(report.Warnings) != a.Count {
		return &AssertionError{Type: AssertWarningCount, Expected: fmt.Sprintf("%d", a.Count), Actual: fmt.Sprintf("%d %q", len(report.Warnings), report.Warnings)}
	}
	return nil
}

func assertWarningContains(report *engine.Report, a Assertion) error {
	if report == nil {
		return fmt.Errorf("no successful run")
	}
	for _, w := range report.Warnings {
		if strings.Contains(w, a.Text) {
			return nil
		}
	}
	return &AssertionError{Type: AssertWarningContains, Expected: fmt.Sprintf("a warning containing %q", a.Text), Actual: fmt.Sprintf("%q", report.Warnings)}
}
