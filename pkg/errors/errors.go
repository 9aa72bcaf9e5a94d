// Package errors provides structured error handling for the Aetherius
// Archive server. It defines error types that map to JSON-RPC error codes
// and carry context for debugging and programmatic handling.
//
// Three kinds of failure flow through the system: protocol errors
// (unroutable requests), handler errors (failures inside tool/resource/
// context callbacks, surfaced to clients as internal errors), and data
// errors (expected outcomes of valid requests, such as a missing document,
// which handlers recover into ordinary result payloads).
package errors

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSON-RPC 2.0 standard error codes
const (
	CodeParseError     int = -32700
	CodeInvalidRequest int = -32600
	CodeMethodNotFound int = -32601
	CodeInvalidParams  int = -32602
	CodeInternalError  int = -32603
)

// Category represents the type of an error for classification and handling
type Category string

const (
	CategoryProtocol   Category = "protocol"
	CategoryHandler    Category = "handler"
	CategoryData       Category = "data"
	CategoryValidation Category = "validation"
	CategoryInternal   Category = "internal"
)

// Severity indicates how critical an error is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Context provides additional context about where and when an error occurred
type Context struct {
	RequestID string    `json:"request_id,omitempty"`
	Method    string    `json:"method,omitempty"`
	Component string    `json:"component,omitempty"`
	Operation string    `json:"operation,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ArchiveError defines the interface for all archive server errors
type ArchiveError interface {
	error

	// Code returns the JSON-RPC error code
	Code() int

	// Message returns a human-readable error message
	Message() string

	// Category returns the error category for classification
	Category() Category

	// Severity returns the error severity level
	Severity() Severity

	// Context returns the error context information
	Context() *Context

	// WithContext returns a new error with the provided context
	WithContext(ctx *Context) ArchiveError

	// WithDetail returns a new error with additional detail
	WithDetail(detail string) ArchiveError

	// Unwrap returns the underlying error for error chain traversal
	Unwrap() error
}

// baseError implements the ArchiveError interface
type baseError struct {
	code     int
	message  string
	details  string
	category Category
	severity Severity
	context  *Context
	cause    error
}

// Error implements the error interface
func (e *baseError) Error() string {
	if e.details != "" {
		return fmt.Sprintf("%s: %s", e.message, e.details)
	}
	return e.message
}

// Code returns the JSON-RPC error code
func (e *baseError) Code() int {
	return e.code
}

// Message returns the human-readable error message
func (e *baseError) Message() string {
	return e.message
}

// Category returns the error category
func (e *baseError) Category() Category {
	return e.category
}

// Severity returns the error severity
func (e *baseError) Severity() Severity {
	return e.severity
}

// Context returns the error context
func (e *baseError) Context() *Context {
	return e.context
}

// WithContext returns a new error with the provided context
func (e *baseError) WithContext(ctx *Context) ArchiveError {
	newErr := *e
	newErr.context = ctx
	return &newErr
}

// WithDetail returns a new error with additional detail
func (e *baseError) WithDetail(detail string) ArchiveError {
	newErr := *e
	if newErr.details != "" {
		newErr.details = fmt.Sprintf("%s; %s", newErr.details, detail)
	} else {
		newErr.details = detail
	}
	return &newErr
}

// Unwrap returns the underlying error
func (e *baseError) Unwrap() error {
	return e.cause
}

// MarshalJSON implements json.Marshaler for baseError
func (e *baseError) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"code":     e.code,
		"message":  e.message,
		"category": string(e.category),
		"severity": string(e.severity),
	}
	if e.details != "" {
		out["details"] = e.details
	}
	if e.context != nil {
		out["context"] = e.context
	}
	if e.cause != nil {
		out["cause"] = e.cause.Error()
	}
	return json.Marshal(out)
}

// New creates a new ArchiveError with the specified parameters
func New(code int, message string, category Category, severity Severity) ArchiveError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// Newf creates a new ArchiveError with a formatted message
func Newf(code int, category Category, severity Severity, format string, args ...interface{}) ArchiveError {
	return &baseError{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		category: category,
		severity: severity,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// Wrap wraps an existing error as an ArchiveError
func Wrap(err error, code int, message string, category Category, severity Severity) ArchiveError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		cause:    err,
		context: &Context{
			Timestamp: time.Now(),
		},
	}
}

// AsArchiveError extracts an ArchiveError from any error
func AsArchiveError(err error) (ArchiveError, bool) {
	if err == nil {
		return nil, false
	}
	if archErr, ok := err.(ArchiveError); ok {
		return archErr, true
	}
	return nil, false
}

// IsCategory checks if an error is of a specific category
func IsCategory(err error, category Category) bool {
	if archErr, ok := AsArchiveError(err); ok {
		return archErr.Category() == category
	}
	return false
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code int) bool {
	if archErr, ok := AsArchiveError(err); ok {
		return archErr.Code() == code
	}
	return false
}
