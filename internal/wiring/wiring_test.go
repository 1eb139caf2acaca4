package wiring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/ir"
)

func machine(t *testing.T) (*animator.Registry, *animator.StateMachine) {
	t.Helper()
	reg := animator.NewRegistry()
	sm := animator.NewStateMachine(reg, "Toes")
	sm.AddState(reg, "A")
	sm.AddState(reg, "B")
	return reg, sm
}

func conds() []ir.ConditionSpec {
	return []ir.ConditionSpec{
		{Parameter: "Splay", Mode: ir.ConditionIf},
		{Parameter: "Curl", Mode: ir.ConditionGreater, Threshold: 0.5},
	}
}

func TestWire_PolicyTable(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		ordinary int
		anyState int
		dropped  int
	}{
		{"both resolve", "A", "B", 1, 0, 0},
		{"from missing", "Missing", "B", 0, 1, 0},
		{"from empty", "", "B", 0, 1, 0},
		{"to missing", "A", "Missing", 0, 0, 1},
		{"neither resolves", "Missing", "Missing", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, sm := machine(t)
			before := reg.Len()

			res := Wire(reg, sm, []ir.TransitionSpec{{
				From: tt.from, To: tt.to,
				HasExitTime: true, ExitTime: 0.75, Duration: 0.2,
				FixedDuration: true, InterruptionSource: ir.InterruptDestination,
				Conditions: conds(),
			}})

			assert.Equal(t, tt.ordinary, res.Ordinary)
			assert.Equal(t, tt.anyState, res.AnyState)
			assert.Equal(t, tt.dropped, res.Dropped)
			assert.Equal(t, before+tt.ordinary+tt.anyState, reg.Len())
			assert.Len(t, sm.FindState("A").Transitions, tt.ordinary)
			assert.Len(t, sm.AnyStateTransitions, tt.anyState)
		})
	}
}

func TestWire_OrdinaryCopiesFields(t *testing.T) {
	reg, sm := machine(t)
	Wire(reg, sm, []ir.TransitionSpec{{
		From: "A", To: "B",
		HasExitTime: true, ExitTime: 0.75, Duration: 0.2,
		FixedDuration: true, InterruptionSource: ir.InterruptDestination,
		Conditions: conds(),
	}})

	tr := sm.FindState("A").Transitions[0]
	assert.Equal(t, animator.TransitionState, tr.Kind)
	assert.Equal(t, sm.FindState("B").ID, tr.Destination)
	assert.True(t, tr.HasExitTime)
	assert.Equal(t, 0.75, tr.ExitTime)
	assert.Equal(t, 0.2, tr.Duration)
	assert.True(t, tr.HasFixedDuration)
	assert.Equal(t, ir.InterruptDestination, tr.InterruptionSource)
	assert.Equal(t, []animator.Condition{
		{Mode: ir.ConditionIf, Parameter: "Splay"},
		{Mode: ir.ConditionGreater, Threshold: 0.5, Parameter: "Curl"},
	}, tr.Conditions)
}

func TestWire_AnyStateForcesExitTimeOff(t *testing.T) {
	reg, sm := machine(t)
	Wire(reg, sm, []ir.TransitionSpec{{
		From: "Missing", To: "B",
		HasExitTime: true, ExitTime: 0.75, Duration: 0.3,
		FixedDuration: true, InterruptionSource: ir.InterruptSource,
		Conditions: conds(),
	}})

	require.Len(t, sm.AnyStateTransitions, 1)
	tr := sm.AnyStateTransitions[0]
	assert.Equal(t, animator.TransitionAnyState, tr.Kind)
	assert.Equal(t, sm.FindState("B").ID, tr.Destination)
	assert.False(t, tr.HasExitTime)
	assert.Equal(t, 0.3, tr.Duration)
	assert.Len(t, tr.Conditions, 2)
}

func TestWire_FirstMatchWins(t *testing.T) {
	reg, sm := machine(t)
	dup := sm.AddState(reg, "B")

	Wire(reg, sm, []ir.TransitionSpec{{From: "A", To: "B"}})
	tr := sm.FindState("A").Transitions[0]
	assert.NotEqual(t, dup.ID, tr.Destination)
	assert.Equal(t, sm.States[1].ID, tr.Destination)
}

func TestWire_RecordsSkipped(t *testing.T) {
	reg, sm := machine(t)
	res := Wire(reg, sm, []ir.TransitionSpec{
		{From: "A", To: "Nowhere"},
		{From: "A", To: "B"},
	})
	assert.Equal(t, []string{"A -> Nowhere"}, res.Skipped)
	assert.Equal(t, 1, res.Ordinary)
}
