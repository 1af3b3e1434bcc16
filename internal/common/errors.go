// Package common defines shared sentinel errors used across the store,
// service, and handler layers. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation and uniqueness errors, recovered at the handler boundary
	// and rendered as form-level messages.
	ErrValidation        = errors.New("validation error")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already taken")

	// Auth errors. ErrAuthFailure is deliberately generic so responses do
	// not leak whether the username or the password was wrong.
	ErrAuthFailure = errors.New("invalid username or password")

	// Anything unexpected. Logged server-side; clients see a generic 500.
	ErrInternal = errors.New("internal error")
)
