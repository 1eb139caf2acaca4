package offsets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/toerig/internal/ir"
)

func TestSplay_AlwaysWithinRange(t *testing.T) {
	p := DefaultProfile()
	p.Left.Splay = []float64{720, -1e9, 179.5, -180, 45}
	p.Right.Splay = []float64{-361, 181, 0, 12, 1e9}
	r := NewResolver(p)

	for _, side := range []ir.Side{ir.Left, ir.Right} {
		for toe := -3; toe < 9; toe++ {
			got := r.Splay(side, toe)
			assert.GreaterOrEqual(t, got, -180.0, "side=%s toe=%d", side, toe)
			assert.LessOrEqual(t, got, 180.0, "side=%s toe=%d", side, toe)
		}
	}

	assert.Equal(t, 180.0, r.Splay(ir.Left, 0))
	assert.Equal(t, -180.0, r.Splay(ir.Left, 1))
	assert.Equal(t, 179.5, r.Splay(ir.Left, 2))
	assert.Equal(t, 180.0, r.Splay(ir.Right, 1))
}

func TestSplay_ClampsToeIndex(t *testing.T) {
	r := NewResolver(DefaultProfile())

	assert.Equal(t, 15.0, r.Splay(ir.Left, -1))
	assert.Equal(t, -30.0, r.Splay(ir.Left, 12))
	assert.Equal(t, 30.0, r.Splay(ir.Right, 4))
}

func TestSplay_ShortArray(t *testing.T) {
	p := DefaultProfile()
	p.Right.Splay = []float64{5}
	r := NewResolver(p)

	assert.Equal(t, 5.0, r.Splay(ir.Right, 0))
	assert.Equal(t, 0.0, r.Splay(ir.Right, 3))
}

func TestCurlBounds_InvertMirrors(t *testing.T) {
	p := DefaultProfile()
	p.CurlMin, p.CurlMax = -60, 45

	lo, hi := NewResolver(p).CurlBounds()
	assert.Equal(t, -60.0, lo)
	assert.Equal(t, 45.0, hi)

	p.Invert = true
	lo, hi = NewResolver(p).CurlBounds()
	assert.Equal(t, 60.0, lo)
	assert.Equal(t, -45.0, hi)
}

func TestResolve_InversionLaw(t *testing.T) {
	inverted := DefaultProfile()
	inverted.CurlMin, inverted.CurlMax = -60, 60
	inverted.Invert = true

	negated := DefaultProfile()
	negated.CurlMin, negated.CurlMax = 60, -60

	ref := ir.ToeRef{Side: ir.Left, Index: 2}
	a := NewResolver(inverted).Resolve(ref, false)
	b := NewResolver(negated).Resolve(ref, false)
	assert.Equal(t, b.CurlMin, a.CurlMin)
	assert.Equal(t, b.CurlMax, a.CurlMax)
}

func TestResolve_SplayOnlyWhenSplayed(t *testing.T) {
	r := NewResolver(DefaultProfile())
	ref := ir.ToeRef{Side: ir.Right, Index: 4}

	assert.Equal(t, 0.0, r.Resolve(ref, false).Splay)
	assert.Equal(t, 30.0, r.Resolve(ref, true).Splay)

	p := DefaultProfile()
	p.Invert = true
	assert.Equal(t, -30.0, NewResolver(p).Resolve(ref, true).Splay)
}

func TestResolve_Axes(t *testing.T) {
	ref := ir.ToeRef{Side: ir.Left, Index: 0}

	o := NewResolver(DefaultProfile()).Resolve(ref, true)
	assert.Equal(t, AxisX, o.CurlAxis)
	assert.Equal(t, AxisZ, o.SplayAxis)

	p := DefaultProfile()
	p.SwapAxes = true
	o = NewResolver(p).Resolve(ref, true)
	assert.Equal(t, AxisZ, o.CurlAxis)
	assert.Equal(t, AxisX, o.SplayAxis)
}
