package blendtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/clips"
)

func cacheWith(names ...string) *clips.Cache {
	cache := clips.NewCache()
	for _, n := range names {
		cache.Put(clips.Ref{Name: n, Path: clips.AssetPath("Out", n)})
	}
	return cache
}

func thresholds(bt *animator.BlendTree) []float64 {
	out := make([]float64, len(bt.Children))
	for i, c := range bt.Children {
		out[i] = c.Threshold
	}
	return out
}

func TestAssemble_AllChildren(t *testing.T) {
	const x = "AvatarLeftToe1"
	names := clips.Names{Bent: x + "Bent", Neutral: x + "Neutral", Tip: x + "Tip"}
	reg := animator.NewRegistry()

	bt := Assemble(reg, "Curl", cacheWith(names.All()...), names)

	assert.Equal(t, []float64{-1, 0, 1}, thresholds(bt))
	assert.Equal(t, animator.BlendType1D, bt.BlendType)
	assert.False(t, bt.UseAutomaticThresholds)
	assert.Equal(t, "Curl", bt.Name)

	require.Len(t, bt.Children, 3)
	assert.Equal(t, names.Bent, bt.Children[0].Motion.Clip.Name)
	assert.Equal(t, names.Tip, bt.Children[2].Motion.Clip.Name)
	assert.False(t, bt.Children[1].Motion.Clip.Embedded())

	kind, ok := reg.Kind(bt.ID)
	require.True(t, ok)
	assert.Equal(t, animator.KindBlendTree, kind)
	assert.Equal(t, 1, reg.Len(), "referenced clips are standalone")
}

func TestAssemble_PartialTree(t *testing.T) {
	const x = "AvatarLeftToe1"
	names := clips.Names{Bent: x + "Bent", Neutral: x + "Neutral", Tip: x + "Tip"}

	bt := Assemble(animator.NewRegistry(), "Curl", cacheWith(names.Neutral), names)
	assert.Equal(t, []float64{0}, thresholds(bt))

	bt = Assemble(animator.NewRegistry(), "Curl", cacheWith(), names)
	assert.Empty(t, bt.Children)
}

func TestBindParameter(t *testing.T) {
	bt := &animator.BlendTree{}

	BindParameter(bt, "LeftToe1Curl", false, "OSCm/Proxy/")
	assert.Equal(t, "LeftToe1Curl", bt.Parameter)

	BindParameter(bt, "LeftToe1Curl", true, "OSCm/Proxy/")
	assert.Equal(t, "OSCm/Proxy/LeftToe1Curl", bt.Parameter)
}
