package animator

import "github.com/roach88/toerig/internal/ir"

// StateMachine holds the states and transitions of a layer or of a nested
// sub-state machine.
type StateMachine struct {
	ID                  ObjectID        `json:"id"`
	Name                string          `json:"name"`
	States              []*State        `json:"states"`
	AnyStateTransitions []*Transition   `json:"any_state_transitions,omitempty"`
	EntryTransitions    []*Transition   `json:"entry_transitions,omitempty"`
	StateMachines       []*StateMachine `json:"state_machines,omitempty"`
	DefaultState        ObjectID        `json:"default_state,omitempty"`
}

// State is one node of a state machine.
type State struct {
	ID          ObjectID      `json:"id"`
	Name        string        `json:"name"`
	Motion      *Motion       `json:"motion,omitempty"`
	Transitions []*Transition `json:"transitions,omitempty"`
}

// TransitionKind distinguishes where a transition starts.
type TransitionKind string

const (
	TransitionState    TransitionKind = "state"
	TransitionAnyState TransitionKind = "any_state"
	TransitionEntry    TransitionKind = "entry"
)

// Transition connects a source (a state, any state, or entry) to a
// destination state.
type Transition struct {
	ID                 ObjectID              `json:"id"`
	Kind               TransitionKind        `json:"kind"`
	Destination        ObjectID              `json:"destination"`
	HasExitTime        bool                  `json:"has_exit_time"`
	ExitTime           float64               `json:"exit_time"`
	Duration           float64               `json:"duration"`
	HasFixedDuration   bool                  `json:"has_fixed_duration"`
	InterruptionSource ir.InterruptionSource `json:"interruption_source"`
	Conditions         []Condition           `json:"conditions,omitempty"`
}

// Condition is a predicate a transition waits for.
type Condition struct {
	Mode      ir.ConditionMode `json:"mode"`
	Threshold float64          `json:"threshold"`
	Parameter string           `json:"parameter"`
}

// NewStateMachine registers an empty state machine.
func NewStateMachine(reg *Registry, name string) *StateMachine {
	return &StateMachine{ID: reg.Add(KindStateMachine), Name: name}
}

// AddState appends a new state.
func (sm *StateMachine) AddState(reg *Registry, name string) *State {
	st := &State{ID: reg.Add(KindState), Name: name}
	sm.States = append(sm.States, st)
	return st
}

// AddStateMachine appends a nested state machine.
func (sm *StateMachine) AddStateMachine(reg *Registry, name string) *StateMachine {
	sub := NewStateMachine(reg, name)
	sm.StateMachines = append(sm.StateMachines, sub)
	return sub
}

// AddAnyStateTransition adds a transition reachable from every state.
func (sm *StateMachine) AddAnyStateTransition(reg *Registry, dest *State) *Transition {
	t := newTransition(reg, TransitionAnyState, dest)
	sm.AnyStateTransitions = append(sm.AnyStateTransitions, t)
	return t
}

// AddEntryTransition adds a transition taken when the machine is entered.
func (sm *StateMachine) AddEntryTransition(reg *Registry, dest *State) *Transition {
	t := newTransition(reg, TransitionEntry, dest)
	sm.EntryTransitions = append(sm.EntryTransitions, t)
	return t
}

// FindState returns the first state named name, or nil.
func (sm *StateMachine) FindState(name string) *State {
	for _, st := range sm.States {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// StateByID returns the state with the given ID, or nil.
func (sm *StateMachine) StateByID(id ObjectID) *State {
	for _, st := range sm.States {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// AddTransition adds an outgoing transition to dest.
func (s *State) AddTransition(reg *Registry, dest *State) *Transition {
	t := newTransition(reg, TransitionState, dest)
	s.Transitions = append(s.Transitions, t)
	return t
}

// AddCondition appends a condition.
func (t *Transition) AddCondition(mode ir.ConditionMode, threshold float64, parameter string) {
	t.Conditions = append(t.Conditions, Condition{Mode: mode, Threshold: threshold, Parameter: parameter})
}

func newTransition(reg *Registry, kind TransitionKind, dest *State) *Transition {
	t := &Transition{ID: reg.Add(KindTransition), Kind: kind}
	if dest != nil {
		t.Destination = dest.ID
	}
	return t
}
