// Package animator models a layered animation controller as an arena of
// owned sub-objects.
//
// A Controller is the asset container. Every state machine, state, blend
// tree, transition and embedded clip it owns is registered in its Registry
// under a stable ObjectID. Clips referenced by path from the host asset
// store are standalone: they carry no ID and are never destroyed here.
//
// Ownership is structural: a layer owns its state machine, which owns its
// states, transitions and child machines, and a state owns its motion.
// DestroyStateMachine tears a subtree down and unregisters every object in
// it, so Orphans on a consistent controller is always empty.
package animator
