// Package exprparams models the avatar's synced expression-parameter list.
package exprparams

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/toerig/internal/ir"
)

// ValueType is the synced value type of an expression parameter.
type ValueType string

const (
	ValueInt   ValueType = "Int"
	ValueFloat ValueType = "Float"
	ValueBool  ValueType = "Bool"
)

// ValueTypeOf maps a controller parameter type to its synced form.
func ValueTypeOf(t ir.ParameterType) (ValueType, error) {
	switch t {
	case ir.ParameterFloat:
		return ValueFloat, nil
	case ir.ParameterInt:
		return ValueInt, nil
	case ir.ParameterBool:
		return ValueBool, nil
	default:
		return "", fmt.Errorf("no expression value type for %s", t)
	}
}

// Parameter is one entry of the list.
type Parameter struct {
	Name          string    `json:"name"`
	ValueType     ValueType `json:"value_type"`
	Saved         bool      `json:"saved"`
	DefaultValue  float64   `json:"default_value"`
	NetworkSynced bool      `json:"network_synced"`
}

// List is a named expression-parameter asset.
type List struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// New returns an empty list.
func New(name string) *List {
	return &List{Name: name}
}

// Find returns the entry named name.
func (l *List) Find(name string) (Parameter, bool) {
	for _, p := range l.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Synced returns the entry an injected parameter gets: saved, default
// zero, network synced.
func Synced(name string, vt ValueType) Parameter {
	return Parameter{Name: name, ValueType: vt, Saved: true, NetworkSynced: true}
}

// AddMissing appends p unless an entry with its name exists. Existing
// entries are left untouched. It reports whether p was added.
func (l *List) AddMissing(p Parameter) bool {
	if _, ok := l.Find(p.Name); ok {
		return false
	}
	l.Parameters = append(l.Parameters, p)
	return true
}

// Clone returns a deep copy.
func (l *List) Clone() *List {
	out := &List{Name: l.Name, Parameters: make([]Parameter, len(l.Parameters))}
	copy(out.Parameters, l.Parameters)
	return out
}

// Decode reads a list from its JSON form.
func Decode(data []byte) (*List, error) {
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode expression parameters: %w", err)
	}
	return &l, nil
}
