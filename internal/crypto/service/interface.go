// Package service provides the cryptographic services behind pseudonymization:
// AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), KMS keepers and the key manager
// that loads or creates the persisted secret key.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)

	// Algorithms lists every algorithm CreateCipher accepts.
	Algorithms() []cryptoDomain.Algorithm
}

// KeyManager owns the process-wide secret key material.
type KeyManager interface {
	// LoadOrCreate returns the persisted secret key, generating and persisting it
	// on first use. Any storage failure is returned and must be treated as fatal.
	LoadOrCreate(ctx context.Context) (*cryptoDomain.SecretKey, error)
}
