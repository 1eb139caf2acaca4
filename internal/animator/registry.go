package animator

import "sort"

// ObjectID identifies a sub-object of a controller. Zero means none.
type ObjectID int64

// ObjectKind names what a registered object is.
type ObjectKind string

const (
	KindStateMachine ObjectKind = "state_machine"
	KindState        ObjectKind = "state"
	KindBlendTree    ObjectKind = "blend_tree"
	KindTransition   ObjectKind = "transition"
	KindClip         ObjectKind = "clip"
)

// Registry tracks the controller's owned objects.
type Registry struct {
	NextID ObjectID                `json:"next_id"`
	Kinds  map[ObjectID]ObjectKind `json:"kinds"`

	// OnRemove, when set, observes every removal in order.
	OnRemove func(id ObjectID, kind ObjectKind) `json:"-"`
}

// NewRegistry returns an empty registry. IDs start at 1.
func NewRegistry() *Registry {
	return &Registry{Kinds: make(map[ObjectID]ObjectKind)}
}

// Add registers a new object and returns its ID.
// IDs are never reused.
func (r *Registry) Add(kind ObjectKind) ObjectID {
	if r.Kinds == nil {
		r.Kinds = make(map[ObjectID]ObjectKind)
	}
	r.NextID++
	r.Kinds[r.NextID] = kind
	return r.NextID
}

// Remove unregisters id. It reports whether id was registered.
func (r *Registry) Remove(id ObjectID) bool {
	kind, ok := r.Kinds[id]
	if !ok {
		return false
	}
	delete(r.Kinds, id)
	if r.OnRemove != nil {
		r.OnRemove(id, kind)
	}
	return true
}

// Kind returns the kind registered under id.
func (r *Registry) Kind(id ObjectID) (ObjectKind, bool) {
	kind, ok := r.Kinds[id]
	return kind, ok
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.Kinds)
}

// CountByKind tallies registered objects per kind.
func (r *Registry) CountByKind() map[ObjectKind]int {
	counts := make(map[ObjectKind]int)
	for _, kind := range r.Kinds {
		counts[kind]++
	}
	return counts
}

// Orphans returns registered objects that no layer of c reaches, sorted.
func Orphans(c *Controller) []ObjectID {
	reachable := make(map[ObjectID]bool)
	for _, layer := range c.Layers {
		collectMachine(layer.StateMachine, reachable)
	}

	var orphans []ObjectID
	for id := range c.Objects.Kinds {
		if !reachable[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	return orphans
}

func collectMachine(sm *StateMachine, seen map[ObjectID]bool) {
	if sm == nil {
		return
	}
	seen[sm.ID] = true
	for _, st := range sm.States {
		seen[st.ID] = true
		collectMotion(st.Motion, seen)
		for _, t := range st.Transitions {
			seen[t.ID] = true
		}
	}
	for _, t := range sm.AnyStateTransitions {
		seen[t.ID] = true
	}
	for _, t := range sm.EntryTransitions {
		seen[t.ID] = true
	}
	for _, sub := range sm.StateMachines {
		collectMachine(sub, seen)
	}
}

func collectMotion(m *Motion, seen map[ObjectID]bool) {
	if m == nil {
		return
	}
	switch m.Kind {
	case MotionClip:
		if m.Clip != nil && m.Clip.Embedded() {
			seen[m.Clip.ID] = true
		}
	case MotionBlendTree:
		if m.BlendTree == nil {
			return
		}
		seen[m.BlendTree.ID] = true
		for _, child := range m.BlendTree.Children {
			collectMotion(child.Motion, seen)
		}
	}
}
