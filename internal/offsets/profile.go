package offsets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/toerig/internal/skeleton"
)

// ToesPerFoot is the number of toes bound per foot.
const ToesPerFoot = skeleton.ToesPerFoot

// DefaultOSCPrefix namespaces blend parameters driven through OSC smoothing.
const DefaultOSCPrefix = "OSCm/Proxy/"

// Distribution controls how the bent curl spreads across a bone chain.
type Distribution string

const (
	// DistributeEven gives every segment curlMin / chainLength.
	DistributeEven Distribution = "even"
	// DistributeRoot gives the root segment the full curlMin and leaves the
	// rest of the chain at rest.
	DistributeRoot Distribution = "root"
)

// MissingBonePolicy decides what happens when a layer's toe has no bone.
type MissingBonePolicy string

const (
	MissingBoneSkip MissingBonePolicy = "skip"
	MissingBoneWarn MissingBonePolicy = "warn"
	MissingBoneFail MissingBonePolicy = "fail"
)

// Foot holds the per-foot settings, big toe first.
type Foot struct {
	// Splay is the Z offset in degrees applied to each toe's splayed clips.
	Splay []float64 `yaml:"splay"`
	// Bones are root-relative skeleton paths, one per toe. Empty means unset.
	Bones []string `yaml:"bones"`
}

// Profile is the toe offset configuration for one controller.
type Profile struct {
	Left  Foot `yaml:"left"`
	Right Foot `yaml:"right"`

	CurlMin float64 `yaml:"curl_min"`
	CurlMax float64 `yaml:"curl_max"`

	Invert    bool   `yaml:"invert"`
	SwapAxes  bool   `yaml:"swap_axes"`
	OSCSmooth bool   `yaml:"osc_smooth"`
	OSCPrefix string `yaml:"osc_prefix"`

	RootMarker   string               `yaml:"root_marker"`
	RootMatch    skeleton.RootMatch   `yaml:"root_match"`
	Chain        skeleton.ChainPolicy `yaml:"chain"`
	Distribution Distribution         `yaml:"curl_distribution"`
	MissingBone  MissingBonePolicy    `yaml:"missing_bone"`
}

// DefaultProfile returns the stock toe layout.
func DefaultProfile() Profile {
	return Profile{
		Left:         Foot{Splay: []float64{15, -3, -7, -15, -30}},
		Right:        Foot{Splay: []float64{-15, 3, 7, 15, 30}},
		CurlMin:      -90,
		CurlMax:      90,
		OSCPrefix:    DefaultOSCPrefix,
		RootMarker:   skeleton.DefaultRootMarker,
		RootMatch:    skeleton.MatchPrefix,
		Chain:        skeleton.ChainWithChild,
		Distribution: DistributeEven,
		MissingBone:  MissingBoneWarn,
	}
}

// LoadProfile reads a YAML profile. Fields absent from the file keep their
// DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes YAML over DefaultProfile and validates the result.
func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: parse: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate rejects unknown policy names and oversized arrays.
func (p Profile) Validate() error {
	for _, f := range []struct {
		side string
		foot Foot
	}{{"left", p.Left}, {"right", p.Right}} {
		if len(f.foot.Splay) > ToesPerFoot {
			return fmt.Errorf("profile: %s splay has %d values, at most %d allowed", f.side, len(f.foot.Splay), ToesPerFoot)
		}
		if len(f.foot.Bones) > ToesPerFoot {
			return fmt.Errorf("profile: %s bones has %d entries, at most %d allowed", f.side, len(f.foot.Bones), ToesPerFoot)
		}
	}

	switch p.RootMatch {
	case skeleton.MatchPrefix, skeleton.MatchExact:
	default:
		return fmt.Errorf("profile: invalid root_match %q: must be \"prefix\" or \"exact\"", p.RootMatch)
	}
	switch p.Chain {
	case skeleton.ChainWithChild, skeleton.ChainSingle:
	default:
		return fmt.Errorf("profile: invalid chain %q: must be \"child\" or \"single\"", p.Chain)
	}
	switch p.Distribution {
	case DistributeEven, DistributeRoot:
	default:
		return fmt.Errorf("profile: invalid curl_distribution %q: must be \"even\" or \"root\"", p.Distribution)
	}
	switch p.MissingBone {
	case MissingBoneSkip, MissingBoneWarn, MissingBoneFail:
	default:
		return fmt.Errorf("profile: invalid missing_bone %q: must be \"skip\", \"warn\" or \"fail\"", p.MissingBone)
	}
	return nil
}

// BonePaths returns the bound bone paths for both feet padded to ToesPerFoot.
func (p Profile) BonePaths() (left, right [ToesPerFoot]string) {
	copy(left[:], p.Left.Bones)
	copy(right[:], p.Right.Bones)
	return left, right
}
