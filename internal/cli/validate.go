package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/toerig/internal/compiler"
	"github.com/roach88/toerig/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	File    string            `json:"file"`
	Summary *compiler.Summary `json:"summary,omitempty"`
	Error   *ParseErrorInfo   `json:"error,omitempty"`
}

// ParseErrorInfo is the serializable form of a compiler.ParseError.
type ParseErrorInfo struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.json>",
		Short: "Validate a layer document",
		Long: `Validate a layer document against the schema and summarize it.

Checks the JSON structure, enum codes and names, and that every layer,
state and parameter is named. Nothing is read from or written to the
asset store.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := readDocument(path)
	if err != nil {
		return outputDocumentError(formatter, path, err)
	}
	formatter.VerboseLog("Parsed %s", path)

	summary := compiler.Summarize(doc)
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, File: filepath.Base(path), Summary: &summary})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s valid\n", filepath.Base(path))
	fmt.Fprintf(w, "  layers:      %d\n", summary.Layers)
	fmt.Fprintf(w, "  states:      %d\n", summary.States)
	fmt.Fprintf(w, "  transitions: %d\n", summary.Transitions)
	fmt.Fprintf(w, "  parameters:  %d\n", summary.Parameters)
	for _, name := range summary.LayerNames {
		toe := "no toe"
		if ref, err := ir.ToeRefOf(name); err == nil {
			toe = ref.String()
		}
		fmt.Fprintf(w, "  - %s (%s)\n", name, toe)
	}
	return nil
}

// readDocument reads and parses a layer document. Errors are either a
// file error wrapped in an ExitError or a *compiler.ParseError.
func readDocument(path string) (*ir.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, err)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeReadFailed, err)
	}
	return compiler.Parse(filepath.Base(path), data)
}

// outputDocumentError reports a readDocument failure.
func outputDocumentError(formatter *OutputFormatter, path string, err error) error {
	var pe *compiler.ParseError
	if errors.As(err, &pe) {
		info := parseErrorInfo(pe)
		if formatter.Format == "json" {
			_ = formatter.Encode(CLIResponse{
				Status: "error",
				Data:   ValidationResult{Valid: false, File: filepath.Base(path), Error: &info},
				Error:  &CLIError{Code: pe.Code, Message: pe.Message},
			})
		} else {
			fmt.Fprintln(formatter.Writer, "✗ Validation failed")
			fmt.Fprintln(formatter.Writer)
			if info.Line > 0 {
				fmt.Fprintf(formatter.Writer, "%s line %d\n", filepath.Base(path), info.Line)
			}
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", pe.Code, pe.Message)
		}
		// Invalid document = exit code 1
		return WrapExitError(ExitFailure, "validation failed", pe)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		_ = formatter.Error(exitErr.Message, fileErrorMessage(path, exitErr), nil)
		return exitErr
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
}

func fileErrorMessage(path string, e *ExitError) string {
	if e.Message == ErrCodeNotFound {
		return fmt.Sprintf("file not found: %s", path)
	}
	return strings.TrimSpace(e.Error())
}

func parseErrorInfo(pe *compiler.ParseError) ParseErrorInfo {
	info := ParseErrorInfo{Code: pe.Code, Field: pe.Field, Message: pe.Message}
	if pe.Pos.IsValid() {
		info.Line = pe.Pos.Line()
		info.Column = pe.Pos.Column()
	}
	return info
}
