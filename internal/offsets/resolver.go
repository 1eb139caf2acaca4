package offsets

import "github.com/roach88/toerig/internal/ir"

// Axis indexes a rotation channel.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Offsets is everything the clip synthesizer needs for one toe.
type Offsets struct {
	CurlMin float64
	CurlMax float64
	// Splay is zero for unsplayed variants.
	Splay float64

	CurlAxis  Axis
	SplayAxis Axis
}

// Resolver answers offset queries against a Profile.
type Resolver struct {
	profile Profile
}

// NewResolver creates a resolver over p.
func NewResolver(p Profile) *Resolver {
	return &Resolver{profile: p}
}

// Splay returns the configured splay for a toe. The index is clamped to
// [0,4] and the angle to [-180,180]. Toes beyond the configured array
// resolve to 0.
func (r *Resolver) Splay(side ir.Side, toe int) float64 {
	toe = clampInt(toe, 0, ToesPerFoot-1)

	values := r.profile.Right.Splay
	if side == ir.Left {
		values = r.profile.Left.Splay
	}
	if toe >= len(values) {
		return 0
	}
	return clamp(values[toe], -180, 180)
}

// CurlBounds returns the curl range, mirrored when invert is set.
func (r *Resolver) CurlBounds() (lo, hi float64) {
	if r.profile.Invert {
		return -r.profile.CurlMin, -r.profile.CurlMax
	}
	return r.profile.CurlMin, r.profile.CurlMax
}

// Resolve gathers the offsets for one toe and variant.
func (r *Resolver) Resolve(ref ir.ToeRef, splayed bool) Offsets {
	o := Offsets{CurlAxis: AxisX, SplayAxis: AxisZ}
	o.CurlMin, o.CurlMax = r.CurlBounds()

	if splayed {
		o.Splay = r.Splay(ref.Side, ref.Index)
		if r.profile.Invert {
			o.Splay = -o.Splay
		}
	}

	if r.profile.SwapAxes {
		o.CurlAxis, o.SplayAxis = AxisZ, AxisX
	}
	return o
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
