package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParameterType is the value type of a controller parameter.
// Values match the host's integer codes.
type ParameterType int

const (
	ParameterFloat ParameterType = 1
	ParameterInt   ParameterType = 3
	ParameterBool  ParameterType = 4
)

var parameterTypeNames = map[ParameterType]string{
	ParameterFloat: "Float",
	ParameterInt:   "Int",
	ParameterBool:  "Bool",
}

func (t ParameterType) String() string {
	if name, ok := parameterTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ParameterType(%d)", int(t))
}

// Valid reports whether t is one of the supported parameter types.
func (t ParameterType) Valid() bool {
	_, ok := parameterTypeNames[t]
	return ok
}

func (t ParameterType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ParameterType) UnmarshalJSON(data []byte) error {
	code, err := decodeEnum(data, "parameter type", parameterTypeNames)
	if err != nil {
		return err
	}
	*t = ParameterType(code)
	return nil
}

// ConditionMode is the comparison a transition condition performs.
// Values match the host's integer codes.
type ConditionMode int

const (
	ConditionIf       ConditionMode = 1
	ConditionIfNot    ConditionMode = 2
	ConditionGreater  ConditionMode = 3
	ConditionLess     ConditionMode = 4
	ConditionEquals   ConditionMode = 6
	ConditionNotEqual ConditionMode = 7
)

var conditionModeNames = map[ConditionMode]string{
	ConditionIf:       "If",
	ConditionIfNot:    "IfNot",
	ConditionGreater:  "Greater",
	ConditionLess:     "Less",
	ConditionEquals:   "Equals",
	ConditionNotEqual: "NotEqual",
}

func (m ConditionMode) String() string {
	if name, ok := conditionModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ConditionMode(%d)", int(m))
}

// Valid reports whether m is a known comparison mode.
func (m ConditionMode) Valid() bool {
	_, ok := conditionModeNames[m]
	return ok
}

func (m ConditionMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *ConditionMode) UnmarshalJSON(data []byte) error {
	code, err := decodeEnum(data, "condition mode", conditionModeNames)
	if err != nil {
		return err
	}
	*m = ConditionMode(code)
	return nil
}

// InterruptionSource controls which transitions may interrupt a transition.
// The zero value is InterruptNone.
type InterruptionSource int

const (
	InterruptNone InterruptionSource = iota
	InterruptSource
	InterruptDestination
	InterruptSourceThenDestination
	InterruptDestinationThenSource
)

var interruptionSourceNames = map[InterruptionSource]string{
	InterruptNone:                  "None",
	InterruptSource:                "Source",
	InterruptDestination:           "Destination",
	InterruptSourceThenDestination: "SourceThenDestination",
	InterruptDestinationThenSource: "DestinationThenSource",
}

func (s InterruptionSource) String() string {
	if name, ok := interruptionSourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("InterruptionSource(%d)", int(s))
}

func (s InterruptionSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InterruptionSource) UnmarshalJSON(data []byte) error {
	code, err := decodeEnum(data, "interruption source", interruptionSourceNames)
	if err != nil {
		return err
	}
	*s = InterruptionSource(code)
	return nil
}

// EnumError reports an enum value that is neither a known code nor a known name.
type EnumError struct {
	Kind  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %s", e.Kind, e.Value)
}

// decodeEnum accepts either an integer code or a case-insensitive name.
func decodeEnum[T ~int](data []byte, kind string, names map[T]string) (int, error) {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if _, ok := names[T(code)]; !ok {
			return 0, &EnumError{Kind: kind, Value: string(data)}
		}
		return code, nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return 0, &EnumError{Kind: kind, Value: string(data)}
	}
	for v, n := range names {
		if strings.EqualFold(n, name) {
			return int(v), nil
		}
	}
	return 0, &EnumError{Kind: kind, Value: string(data)}
}
