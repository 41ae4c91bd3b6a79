package errors

import (
	"errors"
	"fmt"
)

// PipelineError is the structured error type used across all pipeline
// stages. Every error carries a stable code so callers (and the run
// manifest) can classify failures without string matching.
type PipelineError struct {
	Code    string      `json:"code"`
	Stage   string      `json:"stage,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Stable error codes. DATA_LOAD is fatal; the rest are reported in the
// run manifest and the affected step is skipped.
const (
	CodeDataLoad            = "DATA_LOAD"
	CodeFilterInconsistency = "FILTER_INCONSISTENCY"
	CodeInsufficientSample  = "INSUFFICIENT_SAMPLE"
	CodeRender              = "RENDER"
	CodeStorage             = "STORAGE"
)

// New creates a PipelineError with the given code and message
func New(code, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// NewWithDetails creates a PipelineError carrying extra context
func NewWithDetails(code, message string, details interface{}) *PipelineError {
	return &PipelineError{Code: code, Message: message, Details: details}
}

// NewDataLoadError wraps a fatal input-file failure
func NewDataLoadError(message string, err error) *PipelineError {
	return &PipelineError{Code: CodeDataLoad, Message: message, Err: err}
}

// NewFilterInconsistencyError flags a derived subset whose filter
// parameters diverge from the filter that produced its justification.
func NewFilterInconsistencyError(message string, details interface{}) *PipelineError {
	return &PipelineError{Code: CodeFilterInconsistency, Message: message, Details: details}
}

// NewInsufficientSampleError flags a statistical test requested on a
// sample below the minimum-size threshold.
func NewInsufficientSampleError(message string, got, want int) *PipelineError {
	return &PipelineError{
		Code:    CodeInsufficientSample,
		Message: message,
		Details: map[string]int{"sample_size": got, "minimum": want},
	}
}

// NewRenderError wraps a chart rendering failure
func NewRenderError(message string, err error) *PipelineError {
	return &PipelineError{Code: CodeRender, Message: message, Err: err}
}

// NewStorageError wraps an artifact write failure
func NewStorageError(message string, err error) *PipelineError {
	return &PipelineError{Code: CodeStorage, Message: message, Err: err}
}

// IsCode reports whether err is (or wraps) a PipelineError with the code
func IsCode(err error, code string) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// CodeOf returns the code of err, or "" when err carries none
func CodeOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// WithStage returns a copy of the error annotated with the stage name
func (e *PipelineError) WithStage(stage string) *PipelineError {
	clone := *e
	clone.Stage = stage
	return &clone
}
