// Package common defines shared sentinel errors used across the shopgraph
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrDuplicateHandle = errors.New("handle already taken")
	ErrDuplicateEmail  = errors.New("email already registered")

	// Validation errors.
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyField   = errors.New("required field is empty")

	// Credential errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// Token errors (bad signature, wrong algorithm, expired).
	ErrInvalidToken = errors.New("invalid token")

	// Service-level errors.
	ErrUnavailable = errors.New("service unavailable")
	ErrInternal    = errors.New("internal error")
)
