package domain

import (
	"github.com/allisson/pseudonymizer/internal/errors"
)

var (
	// ErrMappingNotFound indicates no mapping exists for the token.
	ErrMappingNotFound = errors.Wrap(errors.ErrNotFound, "mapping not found")

	// ErrStorageUnavailable indicates the mapping store could not be read or written.
	ErrStorageUnavailable = errors.Wrap(errors.ErrUnavailable, "mapping storage unavailable")

	// ErrUnknownDocumentType indicates the document type has no declared field set.
	// Only returned when strict document types are enabled.
	ErrUnknownDocumentType = errors.Wrap(errors.ErrInvalidInput, "unknown document type")

	// ErrTokenCollision indicates an existing mapping decrypts to a different value than the
	// one being saved under the same token. Only returned when the collision check is enabled.
	ErrTokenCollision = errors.Wrap(errors.ErrConflict, "token collision")

	// ErrInvalidToken indicates a string carries the token prefix but not the token shape.
	ErrInvalidToken = errors.Wrap(errors.ErrInvalidInput, "invalid token")

	// ErrInvalidDocument indicates the document PII section is not an object.
	ErrInvalidDocument = errors.Wrap(errors.ErrInvalidInput, "invalid document")
)
