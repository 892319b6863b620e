package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	macKeyInfo        = "pseudonymizer/token-mac/v1"
	encryptionKeyInfo = "pseudonymizer/value-encryption/v1"
	derivedKeySize    = 32
)

// KMSKeeper is the subset of *secrets.Keeper used to wrap persisted key material.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// SecretKey is the process-wide secret, loaded once at startup and injected
// into the tokenizer and the cipher box.
//
// Two independent subkeys are derived from the persisted material with
// HKDF-SHA256: one for token derivation and one for value encryption. Tokens
// and ciphertexts are only portable between processes holding the same
// persisted material.
type SecretKey struct {
	macKey        []byte
	encryptionKey []byte
	fingerprint   string
}

// NewSecretKey derives a SecretKey from raw key material.
// The caller keeps ownership of material and may zero it afterwards.
func NewSecretKey(material []byte) (*SecretKey, error) {
	if len(material) != SecretKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeySize, SecretKeySize, len(material))
	}

	macKey, err := deriveKey(material, macKeyInfo)
	if err != nil {
		return nil, err
	}

	encryptionKey, err := deriveKey(material, encryptionKeyInfo)
	if err != nil {
		clear(macKey)
		return nil, err
	}

	sum := sha256.Sum256(material)

	return &SecretKey{
		macKey:        macKey,
		encryptionKey: encryptionKey,
		fingerprint:   hex.EncodeToString(sum[:8]),
	}, nil
}

// MACKey returns a copy of the subkey used for keyed token derivation.
func (k *SecretKey) MACKey() []byte {
	return clone(k.macKey)
}

// EncryptionKey returns a copy of the subkey used for value encryption.
func (k *SecretKey) EncryptionKey() []byte {
	return clone(k.encryptionKey)
}

// Fingerprint returns a short, non-secret identifier of the key material,
// safe to log for comparing deployments.
func (k *SecretKey) Fingerprint() string {
	return k.fingerprint
}

// Close zeroes the derived subkeys.
func (k *SecretKey) Close() {
	clear(k.macKey)
	clear(k.encryptionKey)
}

func deriveKey(material []byte, info string) ([]byte, error) {
	out := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, material, nil, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return out, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
