package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Dataset errors (1xxx)
	ErrCodeColumnNotFound ErrorCode = "TSTE1001"
	ErrCodeEmptyDataset   ErrorCode = "TSTE1002"
	ErrCodeTypeMismatch   ErrorCode = "TSTE1003"

	// Input file errors (2xxx)
	ErrCodeFileNotFound ErrorCode = "TSTE2001"
	ErrCodeCSVMalformed ErrorCode = "TSTE2002"
	ErrCodeCSVNoHeader  ErrorCode = "TSTE2003"

	// Store errors (3xxx)
	ErrCodeStoreOpen     ErrorCode = "TSTE3001"
	ErrCodeStoreLoad     ErrorCode = "TSTE3002"
	ErrCodeStoreQuery    ErrorCode = "TSTE3003"
	ErrCodeTableNotFound ErrorCode = "TSTE3004"

	// Configuration errors (4xxx)
	ErrCodeConfigNotFound ErrorCode = "TSTE4001"
	ErrCodeConfigInvalid  ErrorCode = "TSTE4002"

	// Validation errors (5xxx)
	ErrCodeValidationFailed ErrorCode = "TSTE5001"
	ErrCodeInvalidInput     ErrorCode = "TSTE5002"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "TSTE9001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL"
	SeverityError    ErrorSeverity = "ERROR"
	SeverityWarning  ErrorSeverity = "WARNING"
	SeverityInfo     ErrorSeverity = "INFO"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ColumnNotFoundError reports a column name absent from a dataset schema
func ColumnNotFoundError(column string, available []string) *AppError {
	return New(ErrCodeColumnNotFound, fmt.Sprintf("column %q not found", column)).
		WithContext("column", column).
		WithContext("available_columns", available).
		WithSuggestions(
			"Check the column name for typos",
			"Run 'tabstat describe' to list the dataset schema",
		)
}

// EmptyDatasetError reports a zero-row dataset, which makes the
// percentage denominator zero
func EmptyDatasetError() *AppError {
	return New(ErrCodeEmptyDataset, "dataset is empty: percentage denominator is zero").
		WithSuggestions(
			"Verify the CSV file contains data rows below the header",
		)
}

// CSVError creates an input-file error
func CSVError(message string, path string, cause error) *AppError {
	return Wrap(cause, ErrCodeCSVMalformed, message).
		WithContext("path", path).
		WithSuggestions(
			"Check that the file is valid CSV with a header row",
			"Verify the delimiter matches the file contents",
		)
}

// StoreError creates a store query error
func StoreError(message string, query string, cause error) *AppError {
	return Wrap(cause, ErrCodeStoreQuery, message).
		WithContext("query", truncateString(query, 200))
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'tabstat setup' to reconfigure",
		)
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
