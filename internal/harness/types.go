package harness

import (
	"fmt"

	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/ir"
	"github.com/roach88/toerig/internal/offsets"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: the expected error (or none)
	// occurred and every assertion held.
	Pass bool `json:"pass"`

	// Reports holds the report of every successful run, in order.
	Reports []*engine.Report `json:"reports"`

	// ErrorCode is the code the failing run returned, if any.
	ErrorCode engine.RunErrorCode `json:"error_code,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Host is the in-memory host after the last run.
	Host *engine.MemoryHost `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Reports: []*engine.Report{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// LastReport returns the report of the last successful run, or nil.
func (r *Result) LastReport() *engine.Report {
	if len(r.Reports) == 0 {
		return nil
	}
	return r.Reports[len(r.Reports)-1]
}

func parseParameterType(s string) (ir.ParameterType, error) {
	for _, t := range []ir.ParameterType{ir.ParameterFloat, ir.ParameterInt, ir.ParameterBool} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter type %q", s)
}

func parseAxis(s string) (offsets.Axis, error) {
	for _, a := range []offsets.Axis{offsets.AxisX, offsets.AxisY, offsets.AxisZ} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q (want x, y or z)", s)
}
