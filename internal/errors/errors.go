// Package errors defines the error kinds shared by every module. Domain
// sentinels wrap exactly one kind, and the HTTP layer maps kinds to status
// codes without knowing the domain errors themselves.
package errors

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates stored data contradicts the write (a token collision).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input cannot be processed as given.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates a backing resource (database, key storage) could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

var kinds = []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnavailable}

// KindOf returns the kind carried by err, or nil for unclassified errors.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Mark classifies err under sentinel unless err already carries a kind.
// The original error stays in the chain.
func Mark(err, sentinel error) error {
	if err == nil || KindOf(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Wrap prefixes err with message while preserving the chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
