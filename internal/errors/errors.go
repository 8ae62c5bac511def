package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used with Mark to classify failures. Callers should match
// with errors.Is via the helpers below rather than comparing directly.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDatabase         = errors.New("database error")
	ErrInternal         = errors.New("internal error")
)

// ErrCode is the machine-readable error code returned over the API
type ErrCode string

const (
	ErrCodeValidation       ErrCode = "validation_error"
	ErrCodeNotFound         ErrCode = "not_found"
	ErrCodeAlreadyExists    ErrCode = "already_exists"
	ErrCodeInvalidOperation ErrCode = "invalid_operation"
	ErrCodePermissionDenied ErrCode = "permission_denied"
	ErrCodeDatabase         ErrCode = "database_error"
	ErrCodeInternal         ErrCode = "internal_error"
)

// IsValidation returns true if the error is marked as a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error is marked as a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists returns true if the error is marked as an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidOperation returns true if the error is marked as an invalid operation
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsDatabase returns true if the error is marked as a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// CodeOf resolves the API error code for an error based on its mark
func CodeOf(err error) ErrCode {
	switch {
	case IsValidation(err):
		return ErrCodeValidation
	case IsNotFound(err):
		return ErrCodeNotFound
	case IsAlreadyExists(err):
		return ErrCodeAlreadyExists
	case IsInvalidOperation(err):
		return ErrCodeInvalidOperation
	case errors.Is(err, ErrPermissionDenied):
		return ErrCodePermissionDenied
	case IsDatabase(err):
		return ErrCodeDatabase
	default:
		return ErrCodeInternal
	}
}

// HTTPStatusOf resolves the HTTP status code for an error based on its mark
func HTTPStatusOf(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err), IsInvalidOperation(err):
		return http.StatusConflict
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
