package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/minikb/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Negative answer or failed scenarios
	ExitCommandError = 2 // Command error (invalid input, storage unavailable, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // ir.ErrorCode, or COMMAND_ERROR
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text output uses the value's String method when it has one.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns it as an ExitCommandError. In JSON mode the
// error is also written as a CLIResponse so stdout stays machine-readable.
func (f *OutputFormatter) Fail(message string, err error) error {
	if f.Format == "json" {
		_ = f.Error(errorCode(err), message, err.Error())
	}
	return WrapExitError(ExitCommandError, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// errorCode returns the ir.ErrorCode carried by err, or COMMAND_ERROR.
func errorCode(err error) string {
	var e *ir.Error
	if errors.As(err, &e) {
		return string(e.Code)
	}
	return "COMMAND_ERROR"
}

// MutationResult reports a write.
type MutationResult struct {
	Op      string `json:"op"`
	Model   string `json:"model,omitempty"`
	Triples int    `json:"triples"`
}

func (r MutationResult) String() string {
	if r.Op == "clear" {
		return "cleared"
	}
	return fmt.Sprintf("%s: %d triple(s) in model %s", r.Op, r.Triples, r.Model)
}

// AnswerResult reports a yes/no read.
type AnswerResult struct {
	Answer bool `json:"answer"`
}

func (r AnswerResult) String() string {
	return fmt.Sprint(r.Answer)
}

// RowsResult reports query answers.
type RowsResult struct {
	Vars []string   `json:"vars"`
	Rows [][]string `json:"rows"`
}

// String renders one tab-separated row per line.
func (r RowsResult) String() string {
	if len(r.Rows) == 0 {
		return "no results"
	}
	lines := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		if len(row) == 0 {
			lines = append(lines, "yes")
			continue
		}
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}

// TriplesResult reports a set of facts.
type TriplesResult struct {
	Triples [][]string `json:"triples"`
}

// String renders one written triple per line.
func (r TriplesResult) String() string {
	if len(r.Triples) == 0 {
		return "no results"
	}
	lines := make([]string, 0, len(r.Triples))
	for _, row := range r.Triples {
		t, err := ir.ParseTriple(row...)
		if err != nil {
			lines = append(lines, strings.Join(row, " "))
			continue
		}
		lines = append(lines, t.String())
	}
	return strings.Join(lines, "\n")
}

// ClassesResult reports the classes of a concept.
type ClassesResult struct {
	Concept string   `json:"concept"`
	Direct  bool     `json:"direct"`
	Classes []string `json:"classes"`
}

func (r ClassesResult) String() string {
	if len(r.Classes) == 0 {
		return "no results"
	}
	return strings.Join(r.Classes, "\n")
}
