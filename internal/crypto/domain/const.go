package domain

// Algorithm represents the AEAD algorithm used to encrypt stored values.
//
// Both supported algorithms use a 256-bit key, a 12-byte nonce and a 16-byte
// authentication tag. AES-GCM is the default; ChaCha20-Poly1305 is preferable
// on hosts without AES-NI.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Algorithm identifiers written into ciphertext envelopes.
const (
	AESGCMID   byte = 0x01
	ChaCha20ID byte = 0x02
)

// SecretKeySize is the size in bytes of the persisted secret key material.
const SecretKeySize = 32

// ID returns the envelope identifier of the algorithm, or 0 if unknown.
func (a Algorithm) ID() byte {
	switch a {
	case AESGCM:
		return AESGCMID
	case ChaCha20:
		return ChaCha20ID
	default:
		return 0
	}
}

// AlgorithmFromID maps an envelope identifier back to its algorithm.
func AlgorithmFromID(id byte) (Algorithm, bool) {
	switch id {
	case AESGCMID:
		return AESGCM, true
	case ChaCha20ID:
		return ChaCha20, true
	default:
		return "", false
	}
}

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
