package errors

import (
	"fmt"
	"time"
)

// MethodNotFound creates a protocol error for an unroutable method name
func MethodNotFound(method string) ArchiveError {
	return Newf(CodeMethodNotFound, CategoryProtocol, SeverityError,
		"Method not found: %s", method)
}

// Internal wraps a handler failure as an internal error. The raw cause never
// crosses the dispatcher boundary; only its message does.
func Internal(operation string, err error) ArchiveError {
	return Wrap(err, CodeInternalError,
		fmt.Sprintf("Internal error: %v", err),
		CategoryHandler, SeverityError,
	).WithContext(&Context{
		Operation: operation,
		Timestamp: time.Now(),
	})
}

// MissingParameter creates a validation error for an absent required param
func MissingParameter(name string) ArchiveError {
	return Newf(CodeInvalidParams, CategoryValidation, SeverityError,
		"missing required parameter: %s", name)
}

// InvalidParameter creates a validation error for an out-of-range param
func InvalidParameter(name string, reason string) ArchiveError {
	return Newf(CodeInvalidParams, CategoryValidation, SeverityError,
		"invalid parameter %s: %s", name, reason)
}

// DocumentNotFound creates a data error for an absent document. Handlers
// recover this into a result payload rather than a protocol error.
func DocumentNotFound(filename string) ArchiveError {
	return Newf(CodeInternalError, CategoryData, SeverityWarning,
		"Document not found: %s", filename)
}

// EmbeddingsUnavailable creates a data error for search without a usable
// embedding provider.
func EmbeddingsUnavailable() ArchiveError {
	return New(CodeInternalError, "embeddings are disabled or unavailable",
		CategoryData, SeverityWarning)
}
