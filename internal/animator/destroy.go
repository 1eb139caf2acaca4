package animator

// DestroyStateMachine unregisters sm and everything it owns and returns
// the number of objects removed.
//
// Order: for each state its motion (nested blend trees depth first,
// embedded clips only), then its outgoing transitions, then the state;
// then any-state and entry transitions; then child machines depth first;
// finally sm itself.
func DestroyStateMachine(reg *Registry, sm *StateMachine) int {
	if sm == nil {
		return 0
	}

	removed := 0
	remove := func(id ObjectID) {
		if reg.Remove(id) {
			removed++
		}
	}

	for _, st := range sm.States {
		removed += destroyMotion(reg, st.Motion)
		for _, t := range st.Transitions {
			remove(t.ID)
		}
		remove(st.ID)
	}
	for _, t := range sm.AnyStateTransitions {
		remove(t.ID)
	}
	for _, t := range sm.EntryTransitions {
		remove(t.ID)
	}
	for _, sub := range sm.StateMachines {
		removed += DestroyStateMachine(reg, sub)
	}
	remove(sm.ID)

	sm.States = nil
	sm.AnyStateTransitions = nil
	sm.EntryTransitions = nil
	sm.StateMachines = nil
	sm.DefaultState = 0
	return removed
}

func destroyMotion(reg *Registry, m *Motion) int {
	if m == nil {
		return 0
	}

	removed := 0
	switch m.Kind {
	case MotionBlendTree:
		if m.BlendTree == nil {
			return 0
		}
		for _, child := range m.BlendTree.Children {
			removed += destroyMotion(reg, child.Motion)
		}
		if reg.Remove(m.BlendTree.ID) {
			removed++
		}
	case MotionClip:
		// Standalone clips belong to the asset store, not the controller
		if m.Clip != nil && m.Clip.Embedded() && reg.Remove(m.Clip.ID) {
			removed++
		}
	}
	return removed
}
