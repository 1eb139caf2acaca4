// Package blendtree assembles the one-dimensional toe blend trees.
package blendtree

import (
	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/clips"
)

// Fixed thresholds of the curl axis.
const (
	ThresholdBent    = -1.0
	ThresholdNeutral = 0.0
	ThresholdTip     = 1.0
)

// Lookup resolves a clip name to a handle.
type Lookup interface {
	Get(name string) (clips.Ref, bool)
}

// Assemble builds a Simple1D tree with bent, neutral and tip children at
// -1, 0 and 1. Children whose clip lookup misses are left out.
func Assemble(reg *animator.Registry, name string, lookup Lookup, names clips.Names) *animator.BlendTree {
	bt := animator.NewBlendTree(reg, name)

	for _, child := range []struct {
		clip      string
		threshold float64
	}{
		{names.Bent, ThresholdBent},
		{names.Neutral, ThresholdNeutral},
		{names.Tip, ThresholdTip},
	} {
		ref, ok := lookup.Get(child.clip)
		if !ok {
			continue
		}
		bt.AddChild(animator.ClipRef(ref.Name, ref.Path), child.threshold)
	}
	return bt
}

// BindParameter sets the parameter driving bt. When smooth is set the
// host-side name is namespaced with prefix.
func BindParameter(bt *animator.BlendTree, parameter string, smooth bool, prefix string) {
	if smooth {
		parameter = prefix + parameter
	}
	bt.Parameter = parameter
}
