// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// Account-related errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStaffRequired      = errors.New("staff capability required")

	// Relationship-related errors
	ErrSelfManager       = errors.New("user cannot be own manager")
	ErrManagerTargetless = errors.New("either a manager account or an unregistered manager email must be set")
	ErrIdentifierMissing = errors.New("a username or email must be specified")
)

// IdentifierNotFoundError reports that an identifier (username or email)
// did not resolve to any account. The message wording is part of the API
// contract and surfaces verbatim in 404 bodies and bulk error entries.
type IdentifierNotFoundError struct {
	Identifier string
}

func (e *IdentifierNotFoundError) Error() string {
	return fmt.Sprintf("no account with identifier: %s", e.Identifier)
}

func (e *IdentifierNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// ValidationError carries a client-facing message for malformed input or
// an invariant violation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
