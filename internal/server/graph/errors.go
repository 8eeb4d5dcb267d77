package graph

import (
	"context"
	"errors"

	"github.com/dkarpov/shopgraph/internal/common"
)

// Stable machine-readable error codes carried in the error extensions.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeEmptyField         = "EMPTY_FIELD"
	CodeDuplicateHandle    = "DUPLICATE_HANDLE"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnavailable        = "UNAVAILABLE"
	CodeUnknownMutation    = "UNKNOWN_MUTATION"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorEntry is one element of the response "errors" array.
type ErrorEntry struct {
	Message    string          `json:"message"`
	Extensions ErrorExtensions `json:"extensions"`
}

type ErrorExtensions struct {
	Code string `json:"code"`
}

// toErrorEntry maps a service error onto its code and a fixed client-safe
// message. Unrecognized errors collapse to INTERNAL_ERROR so that wrapped
// internals never leak.
func toErrorEntry(err error) ErrorEntry {
	switch {
	case errors.Is(err, common.ErrInvalidEmail):
		return ErrorEntry{Message: "invalid email address", Extensions: ErrorExtensions{Code: CodeInvalidEmail}}
	case errors.Is(err, common.ErrEmptyField):
		return ErrorEntry{Message: "required field is empty", Extensions: ErrorExtensions{Code: CodeEmptyField}}
	case errors.Is(err, common.ErrDuplicateHandle):
		return ErrorEntry{Message: "handle already taken", Extensions: ErrorExtensions{Code: CodeDuplicateHandle}}
	case errors.Is(err, common.ErrDuplicateEmail):
		return ErrorEntry{Message: "email already registered", Extensions: ErrorExtensions{Code: CodeDuplicateEmail}}
	case errors.Is(err, common.ErrUserNotFound):
		return ErrorEntry{Message: "user not found", Extensions: ErrorExtensions{Code: CodeUserNotFound}}
	case errors.Is(err, common.ErrInvalidCredentials):
		return ErrorEntry{Message: "incorrect username or password", Extensions: ErrorExtensions{Code: CodeInvalidCredentials}}
	case errors.Is(err, common.ErrInvalidToken):
		return ErrorEntry{Message: "invalid token", Extensions: ErrorExtensions{Code: CodeInvalidToken}}
	case errors.Is(err, common.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return ErrorEntry{Message: "service unavailable", Extensions: ErrorExtensions{Code: CodeUnavailable}}
	default:
		return ErrorEntry{Message: "internal error", Extensions: ErrorExtensions{Code: CodeInternalError}}
	}
}
