// Package usecase defines interfaces and implementations for document pseudonymization.
// Deidentify replaces declared PII fields with tokens; Reidentify restores them.
package usecase

import (
	"context"

	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

// MappingRepository defines the interface for token mapping persistence.
type MappingRepository interface {
	// Save persists the mapping unless one already exists for its token (insert-if-absent).
	// Safe under concurrent calls with the same token.
	Save(ctx context.Context, mapping *pseudonymDomain.Mapping) error

	// Get returns the mapping for token by exact match, or ErrMappingNotFound.
	Get(ctx context.Context, token string) (*pseudonymDomain.Mapping, error)
}

// DocumentUseCase defines the document-level pseudonymization operations.
type DocumentUseCase interface {
	// Deidentify returns a copy of doc with every declared, non-null, not yet tokenized
	// PII field replaced by its token. The original value is encrypted and stored first.
	Deidentify(ctx context.Context, doc pseudonymDomain.Document) (pseudonymDomain.Document, error)

	// Reidentify returns a copy of doc with every declared PII field holding a known token
	// replaced by its original value. Unknown tokens are left in place.
	// A ciphertext that fails to decrypt aborts the whole call.
	Reidentify(ctx context.Context, doc pseudonymDomain.Document) (pseudonymDomain.Document, error)
}
