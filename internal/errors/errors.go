// Package errors provides a classified error type (SiteError) so the CLI can
// tell configuration problems apart from build, filesystem and network failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category classifies a SiteError.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryBuild      Category = "build"
	CategoryRender     Category = "render"
	CategoryFileSystem Category = "filesystem"
	CategoryNetwork    Category = "network"
	CategoryInternal   Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // Stops the build
	SeverityError   Severity = "error"   // Error, but not fatal
	SeverityWarning Severity = "warning" // Continues with degraded output
)

// ContextFields carries structured context for a SiteError.
type ContextFields map[string]any

// SiteError is a structured error with category, severity and context.
type SiteError struct {
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *SiteError) Unwrap() error {
	return e.Cause
}

// WithContext adds a context field and returns the same error for chaining.
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the severity.
func (e *SiteError) WithSeverity(s Severity) *SiteError {
	e.Severity = s
	return e
}

// New creates a SiteError with SeverityError.
func New(category Category, message string) *SiteError {
	return &SiteError{Category: category, Severity: SeverityError, Message: message}
}

// Wrap creates a SiteError around an existing error.
func Wrap(err error, category Category, message string) *SiteError {
	return &SiteError{Category: category, Severity: SeverityError, Message: message, Cause: err}
}

// IsCategory reports whether any SiteError in err's chain has the category.
func IsCategory(err error, category Category) bool {
	var se *SiteError
	if stderrors.As(err, &se) {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category of err, or CategoryInternal.
func GetCategory(err error) Category {
	var se *SiteError
	if stderrors.As(err, &se) {
		return se.Category
	}
	return CategoryInternal
}
