package engine

import (
	"errors"
	"fmt"
)

// RunErrorCode categorizes run failures.
type RunErrorCode string

const (
	// ErrCodeConfigParse indicates the layer document cannot be applied.
	// Nothing has been loaded or mutated.
	ErrCodeConfigParse RunErrorCode = "CONFIG_PARSE"

	// ErrCodeMissingBone indicates a toe had no bone under the fail policy.
	ErrCodeMissingBone RunErrorCode = "MISSING_BONE"

	// ErrCodeAssetIO indicates a host collaborator failed.
	ErrCodeAssetIO RunErrorCode = "ASSET_IO"
)

// RunError is the terminal failure of a run.
type RunError struct {
	Code    RunErrorCode
	Message string
	// Layer is the layer being processed, if any.
	Layer string
	Err   error
}

func (e *RunError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Layer != "" {
		return fmt.Sprintf("%s: %s (layer=%s)", e.Code, msg, e.Layer)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *RunError) Unwrap() error { return e.Err }

// AssetIOError wraps a failure reported by the Host.
type AssetIOError struct {
	Op  string // load_controller, load_expression_parameters, load_clip, commit
	Err error
}

func (e *AssetIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AssetIOError) Unwrap() error { return e.Err }

// IsAssetIO reports whether err is or wraps an *AssetIOError.
func IsAssetIO(err error) bool {
	var ae *AssetIOError
	return errors.As(err, &ae)
}

// IsConfigParse reports whether err is a run error rejecting the document.
func IsConfigParse(err error) bool {
	return hasCode(err, ErrCodeConfigParse)
}

// CodeOf returns the run error code carried by err, or "".
func CodeOf(err error) RunErrorCode {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

func hasCode(err error, code RunErrorCode) bool {
	return CodeOf(err) == code
}

func configParseError(layer, format string, args ...any) *RunError {
	return &RunError{Code: ErrCodeConfigParse, Layer: layer, Message: fmt.Sprintf(format, args...)}
}

func assetIOError(layer, op string, err error) *RunError {
	return &RunError{
		Code:    ErrCodeAssetIO,
		Layer:   layer,
		Message: "host asset store failed",
		Err:     &AssetIOError{Op: op, Err: err},
	}
}
