package compiler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/toerig/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// Parse validates a layer document against the embedded CUE schema and
// decodes it. name is used for error positions only.
//
// Every failure is a *ParseError; callers can retry after fixing the
// document because nothing has been mutated yet.
func Parse(name string, data []byte) (*ir.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Code: ErrCodeEmpty, Message: "layer document is empty"}
	}

	// Structural validation first so errors carry document positions
	if err := validateSchema(name, data); err != nil {
		return nil, err
	}

	var doc ir.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var enumErr *ir.EnumError
		if errors.As(err, &enumErr) {
			return nil, &ParseError{Code: ErrCodeInvalidEnum, Message: enumErr.Error()}
		}
		return nil, &ParseError{Code: ErrCodeMalformed, Message: fmt.Sprintf("decoding document: %v", err)}
	}

	if err := checkDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validateSchema(name string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &ParseError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#Document"))

	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return formatCUEError(ErrCodeMalformed, name, err)
	}
	if _, err := value.Fields(); err != nil {
		return &ParseError{Code: ErrCodeMalformed, Message: "layer document must be a JSON object"}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(ErrCodeSchema, name, err)
	}
	return nil
}

// checkDocument enforces the rules the schema cannot express.
func checkDocument(doc *ir.Document) error {
	if len(doc.Layers) == 0 {
		return &ParseError{Code: ErrCodeNoLayers, Field: "layers", Message: "document has no layers"}
	}

	for i, layer := range doc.Layers {
		if strings.TrimSpace(layer.Name) == "" {
			return &ParseError{
				Code:    ErrCodeEmptyName,
				Field:   fmt.Sprintf("layers[%d].name", i),
				Message: "layer name is required",
			}
		}
		for j, state := range layer.States {
			if strings.TrimSpace(state.Name) == "" {
				return &ParseError{
					Code:    ErrCodeEmptyName,
					Field:   fmt.Sprintf("layers[%d].states[%d].name", i, j),
					Message: fmt.Sprintf("state name is required in layer %q", layer.Name),
				}
			}
		}
		for j, tr := range layer.Transitions {
			for k, cond := range tr.Conditions {
				if !cond.Mode.Valid() {
					return &ParseError{
						Code:    ErrCodeInvalidEnum,
						Field:   fmt.Sprintf("layers[%d].transitions[%d].conditions[%d].mode", i, j, k),
						Message: fmt.Sprintf("invalid condition mode %d", int(cond.Mode)),
					}
				}
			}
		}
	}

	for i, p := range doc.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			return &ParseError{
				Code:    ErrCodeEmptyName,
				Field:   fmt.Sprintf("parameters[%d].name", i),
				Message: "parameter name is required",
			}
		}
		if !p.Type.Valid() {
			return &ParseError{
				Code:    ErrCodeInvalidEnum,
				Field:   fmt.Sprintf("parameters[%d].type", i),
				Message: fmt.Sprintf("invalid parameter type %d for %q", int(p.Type), p.Name),
			}
		}
	}
	return nil
}

// Summary describes a parsed document for the validate command.
type Summary struct {
	Layers      int      `json:"layers"`
	States      int      `json:"states"`
	Transitions int      `json:"transitions"`
	Parameters  int      `json:"parameters"`
	LayerNames  []string `json:"layer_names"`
}

// Summarize counts the contents of a parsed document.
func Summarize(doc *ir.Document) Summary {
	s := Summary{
		Layers:     len(doc.Layers),
		Parameters: len(doc.Parameters),
		LayerNames: make([]string, 0, len(doc.Layers)),
	}
	for _, layer := range doc.Layers {
		s.States += len(layer.States)
		s.Transitions += len(layer.Transitions)
		s.LayerNames = append(s.LayerNames, layer.Name)
	}
	return s
}
