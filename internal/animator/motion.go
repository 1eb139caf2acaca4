package animator

// MotionKind tags the Motion variant.
type MotionKind string

const (
	MotionClip      MotionKind = "clip"
	MotionBlendTree MotionKind = "blend_tree"
)

// Motion is what a state or blend tree child plays. Exactly one of Clip
// and BlendTree is set, matching Kind.
type Motion struct {
	Kind      MotionKind  `json:"kind"`
	Clip      *ClipMotion `json:"clip,omitempty"`
	BlendTree *BlendTree  `json:"blend_tree,omitempty"`
}

// ClipMotion references an animation clip. A zero ID means the clip is a
// standalone asset; otherwise it is embedded in the controller.
type ClipMotion struct {
	ID   ObjectID `json:"id,omitempty"`
	Name string   `json:"name"`
	Path string   `json:"path,omitempty"`
}

// Embedded reports whether the clip is owned by the controller.
func (c *ClipMotion) Embedded() bool {
	return c.ID != 0
}

// BlendType1D is the only blend layout generated.
const BlendType1D = "Simple1D"

// BlendTree interpolates children along one parameter.
type BlendTree struct {
	ID                     ObjectID     `json:"id"`
	Name                   string       `json:"name"`
	BlendType              string       `json:"blend_type"`
	Parameter              string       `json:"parameter,omitempty"`
	UseAutomaticThresholds bool         `json:"use_automatic_thresholds"`
	Children               []BlendChild `json:"children"`
}

// BlendChild is one threshold-keyed child of a blend tree.
type BlendChild struct {
	Motion    *Motion `json:"motion"`
	Threshold float64 `json:"threshold"`
}

// ClipRef wraps a standalone clip as a motion.
func ClipRef(name, path string) *Motion {
	return &Motion{Kind: MotionClip, Clip: &ClipMotion{Name: name, Path: path}}
}

// EmbeddedClip registers a clip owned by the controller.
func EmbeddedClip(reg *Registry, name string) *Motion {
	return &Motion{Kind: MotionClip, Clip: &ClipMotion{ID: reg.Add(KindClip), Name: name}}
}

// NewBlendTree registers a 1D blend tree with manual thresholds.
func NewBlendTree(reg *Registry, name string) *BlendTree {
	return &BlendTree{ID: reg.Add(KindBlendTree), Name: name, BlendType: BlendType1D}
}

// Motion wraps the tree as a motion.
func (bt *BlendTree) Motion() *Motion {
	return &Motion{Kind: MotionBlendTree, BlendTree: bt}
}

// AddChild appends a child at threshold.
func (bt *BlendTree) AddChild(m *Motion, threshold float64) {
	bt.Children = append(bt.Children, BlendChild{Motion: m, Threshold: threshold})
}
