package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Parse error codes (E001-E099).
const (
	ErrCodeGeneric     = "E001" // generic parse failure
	ErrCodeEmpty       = "E002" // document absent or empty
	ErrCodeMalformed   = "E003" // not valid JSON
	ErrCodeSchema      = "E004" // schema violation
	ErrCodeNoLayers    = "E005" // zero layers
	ErrCodeInvalidEnum = "E006" // unknown enum code or name
	ErrCodeEmptyName   = "E007" // layer, state or parameter without a name
)

// ParseError reports a layer document that cannot be used.
// It is always raised before any controller is touched.
type ParseError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// formatCUEError converts a CUE error into a ParseError, preferring a
// position inside the document over one inside the schema.
func formatCUEError(code, filename string, err error) *ParseError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ParseError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	pe := &ParseError{Code: code, Message: first.Error()}
	if len(errs) > 1 {
		pe.Message = fmt.Sprintf("%s (and %d more)", first.Error(), len(errs)-1)
	}
	positions := cueerrors.Positions(first)
	for _, pos := range positions {
		if pos.Filename() == filename {
			pe.Pos = pos
			return pe
		}
	}
	if len(positions) > 0 {
		pe.Pos = positions[0]
	}
	return pe
}
