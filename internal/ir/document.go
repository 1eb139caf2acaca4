package ir

// Document is the declarative layer graph read from the input JSON.
type Document struct {
	Layers     []LayerSpec     `json:"layers"`
	Parameters []ParameterSpec `json:"parameters"`
}

// LayerSpec describes one layer to inject. Name is the merge key.
type LayerSpec struct {
	Name        string           `json:"name"`
	States      []StateSpec      `json:"states"`
	Transitions []TransitionSpec `json:"transitions"`
}

// StateSpec describes one state of a layer.
//
// ClipName, when set on a flat state, references a clip that already
// exists in the host asset store. BlendChildren is carried for documents
// exported from existing controllers; injected blend trees always use the
// fixed -1/0/1 layout.
type StateSpec struct {
	Name           string           `json:"name"`
	ClipName       string           `json:"clipName,omitempty"`
	ClipPath       string           `json:"clipPath,omitempty"`
	IsBlendTree    bool             `json:"isBlendTree"`
	BlendParameter string           `json:"blendParameter,omitempty"`
	BlendChildren  []BlendChildSpec `json:"blendChildren,omitempty"`
}

// BlendChildSpec is one exported blend tree child.
type BlendChildSpec struct {
	ClipName  string  `json:"clipName"`
	Threshold float64 `json:"threshold"`
}

// TransitionSpec describes a transition between two named states.
// An empty or unknown From makes it an any-state transition.
type TransitionSpec struct {
	From               string             `json:"from,omitempty"`
	To                 string             `json:"to"`
	IsEntry            bool               `json:"isEntry"`
	IsExit             bool               `json:"isExit"`
	HasExitTime        bool               `json:"hasExitTime"`
	ExitTime           float64            `json:"exitTime"`
	Duration           float64            `json:"duration"`
	FixedDuration      bool               `json:"fixedDuration"`
	InterruptionSource InterruptionSource `json:"interruptionSource"`
	Conditions         []ConditionSpec    `json:"conditions"`
}

// ConditionSpec is a single predicate on a parameter.
type ConditionSpec struct {
	Parameter string        `json:"parameter"`
	Mode      ConditionMode `json:"mode"`
	Threshold float64       `json:"threshold"`
}

// ParameterSpec declares a controller parameter.
type ParameterSpec struct {
	Name         string        `json:"name"`
	Type         ParameterType `json:"type"`
	DefaultFloat float64       `json:"defaultFloat"`
	DefaultInt   int32         `json:"defaultInt"`
	DefaultBool  bool          `json:"defaultBool"`
}
