package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/toerig/internal/engine"
)

// Scenario defines one injection test.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Document is the layer document (JSON).
	Document string `yaml:"document"`

	// Skeleton is the bone hierarchy (YAML).
	Skeleton string `yaml:"skeleton"`

	// Rig is the offset profile (YAML). Defaults apply when empty.
	Rig string `yaml:"rig,omitempty"`

	// Controller is the target controller, created empty before the first run.
	Controller string `yaml:"controller"`

	// ExpressionParameters names an expression list created empty before
	// the first run. Empty runs without one.
	ExpressionParameters string `yaml:"expression_parameters,omitempty"`

	// Container is the output container for generated clips.
	Container string `yaml:"container,omitempty"`

	// RunIDPrefix seeds the sequential run IDs. Defaults to the scenario name.
	RunIDPrefix string `yaml:"run_id_prefix,omitempty"`

	// Runs is how many times the engine runs the document. Defaults to 1.
	Runs int `yaml:"runs,omitempty"`

	// Setup seeds the controller before the first run.
	Setup Setup `yaml:"setup,omitempty"`

	// ExpectError is the run error code the last run must fail with.
	// Empty means every run must succeed.
	ExpectError engine.RunErrorCode `yaml:"expect_error,omitempty"`

	// Assertions validate the reports and the final host state.
	Assertions []Assertion `yaml:"assertions"`
}

// Setup is the host state a scenario starts from.
type Setup struct {
	// Parameters are declared on the controller before the first run.
	Parameters []SetupParameter `yaml:"parameters,omitempty"`
}

// SetupParameter is a pre-existing controller parameter.
type SetupParameter struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Assertion validates a report or the final host state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "layer": the controller has the layer; optional states, default_state, replaced
	// - "layer_order": controller layers are exactly Layers, in order
	// - "layer_count": the controller has exactly Count layers
	// - "clip_value": the stored clip holds Value on (Path, Axis)
	// - "clip_count": the host stores exactly Count clips
	// - "parameter": the controller declares Name, of ParamType when set
	// - "warning_count": the last report has exactly Count warnings
	// - "warning_contains": some warning of the last report contains Text
	Type string `yaml:"type"`

	Layer        string   `yaml:"layer,omitempty"`
	Layers       []string `yaml:"layers,omitempty"`
	States       *int     `yaml:"states,omitempty"`
	DefaultState string   `yaml:"default_state,omitempty"`
	Replaced     *bool    `yaml:"replaced,omitempty"`

	Clip  string  `yaml:"clip,omitempty"`
	Path  string  `yaml:"path,omitempty"`
	Axis  string  `yaml:"axis,omitempty"`
	Value float64 `yaml:"value,omitempty"`

	Name      string `yaml:"name,omitempty"`
	ParamType string `yaml:"param_type,omitempty"`

	Text  string `yaml:"text,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLayer           = "layer"
	AssertLayerOrder      = "layer_order"
	AssertLayerCount      = "layer_count"
	AssertClipValue       = "clip_value"
	AssertClipCount       = "clip_count"
	AssertParameter       = "parameter"
	AssertWarningCount    = "warning_count"
	AssertWarningContains = "warning_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Relative file references resolve against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&scenario.Document, &scenario.Skeleton, &scenario.Rig} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Controller == "" {
		return fmt.Errorf("controller is required")
	}
	if s.Runs < 0 {
		return fmt.Errorf("runs must be non-negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, f := range []struct{ field, path string }{
		{"document", s.Document},
		{"skeleton", s.Skeleton},
	} {
		if f.path == "" {
			return fmt.Errorf("%s is required", f.field)
		}
		if _, err := os.Stat(f.path); os.IsNotExist(err) {
			return fmt.Errorf("%s file not found: %s", f.field, f.path)
		}
	}
	if s.Rig != "" {
		if _, err := os.Stat(s.Rig); os.IsNotExist(err) {
			return fmt.Errorf("rig file not found: %s", s.Rig)
		}
	}

	switch s.ExpectError {
	case "", engine.ErrCodeConfigParse, engine.ErrCodeMissingBone, engine.ErrCodeAssetIO:
	default:
		return fmt.Errorf("unknown expect_error code %q", s.ExpectError)
	}

	for i, p := range s.Setup.Parameters {
		if p.Name == "" {
			return fmt.Errorf("setup.parameters[%d]: name is required", i)
		}
		if _, err := parseParameterType(p.Type); err != nil {
			return fmt.Errorf("setup.parameters[%d]: %w", i, err)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertLayer:
		if a.Layer == "" {
			return fmt.Errorf("assertions[%d]: layer is required for layer", index)
		}
	case AssertLayerOrder:
		if len(a.Layers) == 0 {
			return fmt.Errorf("assertions[%d]: layers list is required for layer_order", index)
		}
	case AssertClipValue:
		if a.Clip == "" || a.Path == "" {
			return fmt.Errorf("assertions[%d]: clip and path are required for clip_value", index)
		}
		if _, err := parseAxis(a.Axis); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertParameter:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for parameter", index)
		}
		if a.ParamType != "" {
			if _, err := parseParameterType(a.ParamType); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertWarningContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for warning_contains", index)
		}
	case AssertLayerCount, AssertClipCount, AssertWarningCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
