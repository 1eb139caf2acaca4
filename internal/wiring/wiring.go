// Package wiring turns declarative transition records into controller
// transitions between the states of one freshly built layer.
package wiring

import (
	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/ir"
)

// Result counts what Wire emitted.
type Result struct {
	Ordinary int      `json:"ordinary"`
	AnyState int      `json:"any_state"`
	Dropped  int      `json:"dropped"`
	Skipped  []string `json:"skipped,omitempty"` // "from -> to" of dropped records
}

// Wire resolves each record against sm's states by exact name, first match
// winning, and adds transitions:
//
//	from found, to found   ordinary from -> to, all fields copied
//	from missing, to found any-state -> to, exit time off, duration copied
//	to missing             dropped
//
// Conditions are copied in order for both emitted kinds.
func Wire(reg *animator.Registry, sm *animator.StateMachine, specs []ir.TransitionSpec) Result {
	var res Result
	for _, spec := range specs {
		from := sm.FindState(spec.From)
		to := sm.FindState(spec.To)

		var t *animator.Transition
		switch {
		case to == nil:
			res.Dropped++
			res.Skipped = append(res.Skipped, spec.From+" -> "+spec.To)
			continue
		case from != nil:
			t = from.AddTransition(reg, to)
			t.HasExitTime = spec.HasExitTime
			t.ExitTime = spec.ExitTime
			t.Duration = spec.Duration
			t.HasFixedDuration = spec.FixedDuration
			t.InterruptionSource = spec.InterruptionSource
			res.Ordinary++
		default:
			t = sm.AddAnyStateTransition(reg, to)
			t.HasExitTime = false
			t.Duration = spec.Duration
			res.AnyState++
		}

		for _, c := range spec.Conditions {
			t.AddCondition(c.Mode, c.Threshold, c.Parameter)
		}
	}
	return res
}
