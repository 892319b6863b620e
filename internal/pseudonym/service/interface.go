// Package service provides the cryptographic building blocks of pseudonymization:
// deterministic token derivation and authenticated value encryption.
package service

// Tokenizer derives deterministic tokens from plaintext values.
type Tokenizer interface {
	// TokenFor returns the token for value. Identical values always yield the identical
	// token under the same key; the token never decodes back to the value.
	TokenFor(value string) string
}

// CipherBox encrypts and decrypts plaintext values into self-describing envelopes.
type CipherBox interface {
	// Encrypt seals value under a fresh nonce; repeated calls yield different envelopes.
	Encrypt(value string) ([]byte, error)

	// Decrypt opens an envelope. Returns cryptoDomain.ErrDecryptionFailed for envelopes
	// not produced under the current key or that were corrupted, never wrong data.
	Decrypt(envelope []byte) (string, error)
}
