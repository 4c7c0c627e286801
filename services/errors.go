package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing pool, invite code, user or pick.
	// Data-access misses surface as this sentinel; handlers translate
	// it to 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a state collision, e.g. joining a pool the
	// user already belongs to, or declaring a second winner for a
	// category.
	ErrConflict = errors.New("conflict")

	// ErrNoUsersAvailable means the global pool could not be created
	// because no registered user exists to act as nominal creator.
	ErrNoUsersAvailable = errors.New("no users available to create the global pool")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
