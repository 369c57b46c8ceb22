// Package errors provides a lightweight structured error type (SiteforgeError)
// for category-based classification at the CLI boundary.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory classifies a SiteforgeError for exit-code mapping and display.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External collaborator errors
	CategoryGenerator ErrorCategory = "generator"
	CategoryGit       ErrorCategory = "git"

	// Build and processing errors
	CategoryBuild      ErrorCategory = "build"
	CategoryMeasures   ErrorCategory = "measures"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Serving and infrastructure errors
	CategoryServer  ErrorCategory = "server"
	CategoryRuntime ErrorCategory = "runtime"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the run
	SeverityError   ErrorSeverity = "error"   // error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // recorded, run continues
)

// ContextFields carries structured context for SiteforgeError.
type ContextFields map[string]any

// SiteforgeError is a structured error with category, severity, and context.
type SiteforgeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *SiteforgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap supports errors.Is / errors.As chains.
func (e *SiteforgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds a context field to the error.
func (e *SiteforgeError) WithContext(key string, value any) *SiteforgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SiteforgeError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteforgeError {
	return &SiteforgeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SiteforgeError wrapping an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SiteforgeError {
	return &SiteforgeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsFatal reports whether err (or any error in its chain) is a SiteforgeError
// with SeverityFatal.
func IsFatal(err error) bool {
	var se *SiteforgeError
	if stderrors.As(err, &se) {
		return se.Severity == SeverityFatal
	}
	return false
}

// CategoryOf returns the category of err, or CategoryRuntime for unclassified errors.
func CategoryOf(err error) ErrorCategory {
	var se *SiteforgeError
	if stderrors.As(err, &se) {
		return se.Category
	}
	return CategoryRuntime
}
