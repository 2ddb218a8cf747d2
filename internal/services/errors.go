package services

import (
	"errors"
	"fmt"
)

// Expected failure conditions. Services return these instead of raw
// driver errors so handlers can map them to HTTP statuses without
// leaking internals.
var (
	// ErrAuthenticationFailed covers every credential problem. Callers
	// must not be able to tell which one it was.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAuthorizationDenied means the credential was valid but does not
	// grant the attempted action or identity.
	ErrAuthorizationDenied = errors.New("not permitted")

	// ErrNotFound is returned for absent resources and for resources in
	// another tenant.
	ErrNotFound = errors.New("not found")
)

// ConflictError is a uniqueness violation naming the field in contention.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
