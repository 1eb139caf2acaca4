package animator

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/toerig/internal/ir"
)

// DefaultLayerWeight is the weight every injected layer gets.
const DefaultLayerWeight = 1.0

// Parameter is a controller parameter.
type Parameter struct {
	Name         string           `json:"name"`
	Type         ir.ParameterType `json:"type"`
	DefaultFloat float64          `json:"default_float,omitempty"`
	DefaultInt   int32            `json:"default_int,omitempty"`
	DefaultBool  bool             `json:"default_bool,omitempty"`
}

// Controller is the layered state machine asset.
type Controller struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	Layers     []*Layer    `json:"layers"`
	Objects    *Registry   `json:"objects"`
}

// Layer is one parallel track of the controller.
type Layer struct {
	Name          string        `json:"name"`
	DefaultWeight float64       `json:"default_weight"`
	StateMachine  *StateMachine `json:"state_machine"`
}

// NewController returns an empty controller.
func NewController(name string) *Controller {
	return &Controller{Name: name, Objects: NewRegistry()}
}

// Parameter looks a parameter up by name.
func (c *Controller) Parameter(name string) (Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// DeclareParameter adds p unless a parameter with the same name exists,
// whatever its type. It reports whether p was added.
func (c *Controller) DeclareParameter(p Parameter) bool {
	if _, ok := c.Parameter(p.Name); ok {
		return false
	}
	c.Parameters = append(c.Parameters, p)
	return true
}

// Layer returns the first layer named name, or nil.
func (c *Controller) Layer(name string) *Layer {
	for _, l := range c.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// LayerNames lists layer names in order.
func (c *Controller) LayerNames() []string {
	names := make([]string, len(c.Layers))
	for i, l := range c.Layers {
		names[i] = l.Name
	}
	return names
}

// Clone returns a deep copy. The OnRemove hook is not copied.
func (c *Controller) Clone() (*Controller, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("clone controller %q: %w", c.Name, err)
	}
	return Decode(data)
}

// Decode reads a controller from its JSON form.
func Decode(data []byte) (*Controller, error) {
	var c Controller
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode controller: %w", err)
	}
	if c.Objects == nil {
		c.Objects = NewRegistry()
	}
	if c.Objects.Kinds == nil {
		c.Objects.Kinds = make(map[ObjectID]ObjectKind)
	}
	return &c, nil
}
