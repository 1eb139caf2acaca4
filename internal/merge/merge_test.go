package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/ir"
)

func newLayer(c *animator.Controller, name string) *animator.Layer {
	reg := c.Objects
	sm := animator.NewStateMachine(reg, name)
	a := sm.AddState(reg, "A")
	bt := animator.NewBlendTree(reg, "Curl")
	bt.AddChild(animator.ClipRef("Clip", "Out/Clip.anim"), 0)
	a.Motion = bt.Motion()
	b := sm.AddState(reg, "B")
	a.AddTransition(reg, b).AddCondition(ir.ConditionIf, 0, "P")
	sm.AddAnyStateTransition(reg, a)
	sm.DefaultState = a.ID
	return &animator.Layer{Name: name, StateMachine: sm}
}

func TestEvict_DestroysOwnedObjects(t *testing.T) {
	c := animator.NewController("Avatar")
	c.Layers = append(c.Layers, newLayer(c, "Base"))
	baseline := c.Objects.Len()
	c.Layers = append(c.Layers, newLayer(c, "LeftToe1"), newLayer(c, "Other"))

	ev, ok := Evict(c, "LeftToe1")
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)
	assert.Equal(t, 6, ev.Destroyed)
	assert.Equal(t, []string{"Base", "Other"}, c.LayerNames())
	assert.Equal(t, baseline*2, c.Objects.Len())
	assert.Empty(t, animator.Orphans(c))
}

func TestEvict_Missing(t *testing.T) {
	c := animator.NewController("Avatar")
	c.Layers = append(c.Layers, newLayer(c, "Base"))

	_, ok := Evict(c, "Nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"Base"}, c.LayerNames())
}

func TestEvict_FirstOfDuplicates(t *testing.T) {
	c := animator.NewController("Avatar")
	first := newLayer(c, "Dup")
	second := newLayer(c, "Dup")
	c.Layers = append(c.Layers, first, second)

	_, ok := Evict(c, "Dup")
	require.True(t, ok)
	require.Len(t, c.Layers, 1)
	assert.Same(t, second, c.Layers[0])
}

func TestEvictThenAppend_MovesLayerToEnd(t *testing.T) {
	c := animator.NewController("Avatar")
	c.Layers = append(c.Layers, newLayer(c, "A"), newLayer(c, "Toe"), newLayer(c, "B"))

	ev, ok := Evict(c, "Toe")
	require.True(t, ok)
	assert.Equal(t, 1, ev.Index)

	replacement := newLayer(c, "Toe")
	Append(c, replacement)

	assert.Equal(t, []string{"A", "B", "Toe"}, c.LayerNames())
	assert.Same(t, replacement, c.Layers[2])
	assert.Equal(t, animator.DefaultLayerWeight, replacement.DefaultWeight)
	assert.Empty(t, animator.Orphans(c))
}

func TestAppend_NewName(t *testing.T) {
	c := animator.NewController("Avatar")
	layer := newLayer(c, "Fresh")
	layer.DefaultWeight = 0.3

	Append(c, layer)
	assert.Equal(t, []string{"Fresh"}, c.LayerNames())
	assert.Equal(t, 1.0, layer.DefaultWeight)
}

func TestEvict_DoesNotAliasOriginalSlice(t *testing.T) {
	c := animator.NewController("Avatar")
	a, b, d := newLayer(c, "A"), newLayer(c, "B"), newLayer(c, "D")
	layers := []*animator.Layer{a, b, d}
	c.Layers = layers

	Evict(c, "A")
	assert.Same(t, a, layers[0])
	assert.Equal(t, []string{"B", "D"}, c.LayerNames())
}
