// Package clips synthesizes the constant-pose rotation clips that feed a
// toe blend tree, and keeps the run-scoped cache of clips already made.
package clips

import (
	"fmt"

	"github.com/roach88/toerig/internal/offsets"
)

// FrameRate and WrapMode are fixed for generated clips.
const (
	FrameRate = 60
	WrapMode  = "Loop"
)

// Keyframe is one key of a curve.
type Keyframe struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Curve animates one rotation channel of one bone.
type Curve struct {
	Path     string     `json:"path"`
	Property string     `json:"property"`
	Keys     []Keyframe `json:"keys"`
}

// Clip is a synthesized animation clip.
type Clip struct {
	Name      string  `json:"name"`
	FrameRate int     `json:"frame_rate"`
	WrapMode  string  `json:"wrap_mode"`
	Curves    []Curve `json:"curves"`
}

// Ref is the handle to a clip persisted, or about to be persisted, in the
// host asset store.
type Ref struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Hash string `json:"hash,omitempty"`
}

// Property returns the euler channel property bound for axis a.
func Property(a offsets.Axis) string {
	return "localEulerAnglesRaw." + a.String()
}

// constant returns a two-key hold at v.
func constant(path string, axis offsets.Axis, v float64) Curve {
	return Curve{
		Path:     path,
		Property: Property(axis),
		Keys:     []Keyframe{{Time: 0, Value: v}, {Time: 1, Value: v}},
	}
}

// Value returns the held value of the curve bound to (path, axis).
func (c *Clip) Value(path string, axis offsets.Axis) (float64, bool) {
	prop := Property(axis)
	for _, curve := range c.Curves {
		if curve.Path == path && curve.Property == prop && len(curve.Keys) > 0 {
			return curve.Keys[0].Value, true
		}
	}
	return 0, false
}

// AssetPath returns where a clip lives inside an output container.
func AssetPath(container, name string) string {
	if container == "" {
		return name + ".anim"
	}
	return fmt.Sprintf("%s/%s.anim", container, name)
}
