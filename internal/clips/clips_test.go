package clips

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/toerig/internal/offsets"
)

func stdOffsets(curlMin, curlMax, splay float64) offsets.Offsets {
	return offsets.Offsets{
		CurlMin:   curlMin,
		CurlMax:   curlMax,
		Splay:     splay,
		CurlAxis:  offsets.AxisX,
		SplayAxis: offsets.AxisZ,
	}
}

func value(t *testing.T, c *Clip, path string, axis offsets.Axis) float64 {
	t.Helper()
	v, ok := c.Value(path, axis)
	require.True(t, ok, "%s has no %s curve for %s", c.Name, axis, path)
	return v
}

func TestNamesFor(t *testing.T) {
	assert.Equal(t, Names{
		Bent:    "AvatarSplayedLeftToe1Bent",
		Neutral: "AvatarSplayedLeftToe1Neutral",
		Tip:     "AvatarSplayedTipLeftToe1",
	}, NamesFor("Avatar", "LeftToe1", true))

	assert.Equal(t, Names{
		Bent:    "AvatarLeftToe1Bent",
		Neutral: "AvatarLeftToe1Neutral",
		Tip:     "AvatarTipToesLeftToe1",
	}, NamesFor("Avatar", "LeftToe1", false))
}

func TestSynthesize_SingleBone(t *testing.T) {
	const path = "Armature/LeftFoot/LeftToe1"
	set := Synthesize(Input{
		Names:   NamesFor("Avatar", "LeftToe1", true),
		Chain:   []Segment{{Path: path, Euler: [3]float64{0, 5, 2}}},
		Offsets: stdOffsets(-60, 60, 30),
	})

	assert.Equal(t, -60.0, value(t, set.Bent, path, offsets.AxisX))
	assert.Equal(t, 0.0, value(t, set.Neutral, path, offsets.AxisX))
	assert.Equal(t, 60.0, value(t, set.Tip, path, offsets.AxisX))

	for _, c := range set.All() {
		assert.Equal(t, 5.0, value(t, c, path, offsets.AxisY), c.Name)
		assert.Equal(t, 32.0, value(t, c, path, offsets.AxisZ), c.Name)
		assert.Len(t, c.Curves, 3)
		assert.Equal(t, FrameRate, c.FrameRate)
		assert.Equal(t, WrapMode, c.WrapMode)
		for _, curve := range c.Curves {
			require.Len(t, curve.Keys, 2)
			assert.Equal(t, 0.0, curve.Keys[0].Time)
			assert.Equal(t, 1.0, curve.Keys[1].Time)
			assert.Equal(t, curve.Keys[0].Value, curve.Keys[1].Value)
		}
	}
}

func TestSynthesize_ChainEvenDistribution(t *testing.T) {
	chain := []Segment{
		{Path: "A/Toe", Euler: [3]float64{10, 0, 0}},
		{Path: "A/Toe/Tip", Euler: [3]float64{4, 0, 1}},
	}
	set := Synthesize(Input{
		Names:        NamesFor("C", "RightToe2", false),
		Chain:        chain,
		Offsets:      stdOffsets(-90, 80, 0),
		Distribution: offsets.DistributeEven,
	})

	assert.Equal(t, 10.0-45, value(t, set.Bent, "A/Toe", offsets.AxisX))
	assert.Equal(t, 4.0-45, value(t, set.Bent, "A/Toe/Tip", offsets.AxisX))

	// Tip extends the root only.
	assert.Equal(t, 90.0, value(t, set.Tip, "A/Toe", offsets.AxisX))
	assert.Equal(t, 4.0, value(t, set.Tip, "A/Toe/Tip", offsets.AxisX))

	assert.Equal(t, 1.0, value(t, set.Neutral, "A/Toe/Tip", offsets.AxisZ))
	assert.Len(t, set.Bent.Curves, 6)
}

func TestSynthesize_ChainRootDistribution(t *testing.T) {
	chain := []Segment{
		{Path: "A/Toe", Euler: [3]float64{10, 0, 0}},
		{Path: "A/Toe/Tip", Euler: [3]float64{4, 0, 0}},
	}
	set := Synthesize(Input{
		Names:        NamesFor("C", "RightToe2", false),
		Chain:        chain,
		Offsets:      stdOffsets(-90, 80, 0),
		Distribution: offsets.DistributeRoot,
	})

	assert.Equal(t, -80.0, value(t, set.Bent, "A/Toe", offsets.AxisX))
	assert.Equal(t, 4.0, value(t, set.Bent, "A/Toe/Tip", offsets.AxisX))
}

func TestSynthesize_SwappedAxes(t *testing.T) {
	o := stdOffsets(-60, 60, 20)
	o.CurlAxis, o.SplayAxis = offsets.AxisZ, offsets.AxisX

	set := Synthesize(Input{
		Names:   NamesFor("C", "LeftToe3", true),
		Chain:   []Segment{{Path: "T", Euler: [3]float64{1, 2, 3}}},
		Offsets: o,
	})

	assert.Equal(t, 3.0-60, value(t, set.Bent, "T", offsets.AxisZ))
	assert.Equal(t, 3.0+60, value(t, set.Tip, "T", offsets.AxisZ))
	assert.Equal(t, 21.0, value(t, set.Bent, "T", offsets.AxisX))
	assert.Equal(t, 21.0, value(t, set.Tip, "T", offsets.AxisX))
	assert.Equal(t, 2.0, value(t, set.Neutral, "T", offsets.AxisY))
}

func TestCache_EnsureBuildsOnce(t *testing.T) {
	cache := NewCache()
	names := NamesFor("Avatar", "LeftToe1", true)

	builds := 0
	build := func() ([]Ref, error) {
		builds++
		refs := make([]Ref, 0, 3)
		for _, n := range names.All() {
			refs = append(refs, Ref{Name: n, Path: AssetPath("Out", n)})
		}
		return refs, nil
	}

	ran, err := cache.Ensure(names, build)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = cache.Ensure(names, build)
	require.NoError(t, err)
	assert.False(t, ran)

	assert.Equal(t, 1, builds)
	assert.Equal(t, 3, cache.Len())

	ref, ok := cache.Get(names.Tip)
	require.True(t, ok)
	assert.Equal(t, "Out/AvatarSplayedTipLeftToe1.anim", ref.Path)
}

func TestCache_EnsureBuildError(t *testing.T) {
	cache := NewCache()
	names := NamesFor("Avatar", "LeftToe1", false)
	boom := errors.New("boom")

	_, err := cache.Ensure(names, func() ([]Ref, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, cache.Has(names.Bent))
}

func TestContentHash_StableAndNormalized(t *testing.T) {
	mk := func(path string) *Clip {
		return Synthesize(Input{
			Names:   NamesFor("Avatar", "LeftToe1", false),
			Chain:   []Segment{{Path: path}},
			Offsets: stdOffsets(-90, 90, 0),
		}).Bent
	}

	// "é" precomposed vs. e + combining acute
	h1, err := ContentHash(mk("Armature/Z\u00e9h"))
	require.NoError(t, err)
	h2, err := ContentHash(mk("Armature/Ze\u0301h"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	h3, err := ContentHash(mk("Armature/Other"))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestAssetPath(t *testing.T) {
	assert.Equal(t, "Assets/Out/Clip.anim", AssetPath("Assets/Out", "Clip"))
	assert.Equal(t, "Clip.anim", AssetPath("", "Clip"))
}
