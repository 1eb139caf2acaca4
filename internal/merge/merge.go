// Package merge replaces and appends layers on a controller.
//
// Replacing a layer is two steps so that callers can finish tearing the
// old layer down before they register any object of its replacement:
// Evict first, build the new layer, then Append.
package merge

import "github.com/roach88/toerig/internal/animator"

// Eviction describes a removed layer.
type Eviction struct {
	Name      string
	Index     int // position the layer held
	Destroyed int // objects unregistered
}

// Evict removes the first layer named name after destroying everything
// its state machine owns. ok is false when no layer had that name.
func Evict(c *animator.Controller, name string) (ev Eviction, ok bool) {
	for i, layer := range c.Layers {
		if layer.Name != name {
			continue
		}
		c.Layers = append(c.Layers[:i:i], c.Layers[i+1:]...)
		return Eviction{
			Name:      name,
			Index:     i,
			Destroyed: animator.DestroyStateMachine(c.Objects, layer.StateMachine),
		}, true
	}
	return Eviction{}, false
}

// Append adds layer at the end of the layer list with the fixed default
// weight.
func Append(c *animator.Controller, layer *animator.Layer) {
	layer.DefaultWeight = animator.DefaultLayerWeight
	c.Layers = append(c.Layers, layer)
}
