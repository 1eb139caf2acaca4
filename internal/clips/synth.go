package clips

import "github.com/roach88/toerig/internal/offsets"

// Segment is one bone of a toe chain as the synthesizer sees it.
type Segment struct {
	Path  string
	Euler [3]float64
}

// Input is everything needed to synthesize one clip set.
type Input struct {
	Names        Names
	Chain        []Segment // root to tip
	Offsets      offsets.Offsets
	Distribution offsets.Distribution
}

// Set is the three clips of one toe variant.
type Set struct {
	Bent    *Clip
	Neutral *Clip
	Tip     *Clip
}

// All returns the clips in blend order.
func (s Set) All() []*Clip {
	return []*Clip{s.Bent, s.Neutral, s.Tip}
}

// Synthesize builds the bent, neutral and tip clips for a chain.
//
// Per segment the splay axis holds rest + splay on all three clips and the
// remaining axis holds rest. On the curl axis neutral holds rest, bent adds
// the distributed curlMin, and tip adds curlMax on the root segment only.
func Synthesize(in Input) Set {
	set := Set{
		Bent:    newClip(in.Names.Bent),
		Neutral: newClip(in.Names.Neutral),
		Tip:     newClip(in.Names.Tip),
	}

	o := in.Offsets
	n := len(in.Chain)
	for i, seg := range in.Chain {
		bent := bentCurl(o.CurlMin, i, n, in.Distribution)
		tip := 0.0
		if i == 0 {
			tip = o.CurlMax
		}

		for axis := offsets.AxisX; axis <= offsets.AxisZ; axis++ {
			rest := seg.Euler[axis]
			switch axis {
			case o.CurlAxis:
				set.Bent.Curves = append(set.Bent.Curves, constant(seg.Path, axis, rest+bent))
				set.Neutral.Curves = append(set.Neutral.Curves, constant(seg.Path, axis, rest))
				set.Tip.Curves = append(set.Tip.Curves, constant(seg.Path, axis, rest+tip))
			case o.SplayAxis:
				v := rest + o.Splay
				for _, c := range set.All() {
					c.Curves = append(c.Curves, constant(seg.Path, axis, v))
				}
			default:
				for _, c := range set.All() {
					c.Curves = append(c.Curves, constant(seg.Path, axis, rest))
				}
			}
		}
	}
	return set
}

func bentCurl(curlMin float64, i, n int, d offsets.Distribution) float64 {
	if d == offsets.DistributeRoot {
		if i == 0 {
			return curlMin
		}
		return 0
	}
	return curlMin / float64(n)
}

func newClip(name string) *Clip {
	return &Clip{Name: name, FrameRate: FrameRate, WrapMode: WrapMode}
}
