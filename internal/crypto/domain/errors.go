package domain

import (
	"github.com/allisson/pseudonymizer/internal/errors"
)

// Cryptographic operation error definitions.
//
// These wrap the standard kinds from internal/errors so the HTTP layer can map
// them without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key material is not exactly SecretKeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a ciphertext could not be opened under the current key.
	//
	// This covers corrupted or truncated envelopes, tampering, unknown envelope
	// versions and ciphertexts produced under a different key. The specific cause
	// is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrKeyStorageUnavailable indicates the durable key storage could not be read or written.
	ErrKeyStorageUnavailable = errors.Wrap(errors.ErrUnavailable, "key storage unavailable")

	// ErrInvalidKeyMaterial indicates persisted key material exists but cannot be decoded.
	// The key manager never regenerates key material in this case.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid persisted key material")
)
