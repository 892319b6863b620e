package service

import (
	"slices"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
)

type cipherFactory func(key []byte) (AEAD, error)

// AEADManagerService builds AEAD ciphers from a registry of supported algorithms.
type AEADManagerService struct {
	factories map[cryptoDomain.Algorithm]cipherFactory
}

// NewAEADManager returns a manager for AES-256-GCM and ChaCha20-Poly1305.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{
		factories: map[cryptoDomain.Algorithm]cipherFactory{
			cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
				return NewAESGCM(key)
			},
			cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
				return NewChaCha20Poly1305(key)
			},
		},
	}
}

// CreateCipher returns ErrInvalidKeySize unless key is SecretKeySize bytes,
// and ErrUnsupportedAlgorithm for algorithms outside the registry.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.SecretKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	factory, ok := am.factories[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	return factory(key)
}

// Algorithms lists the registered algorithms in a stable order.
func (am *AEADManagerService) Algorithms() []cryptoDomain.Algorithm {
	algs := make([]cryptoDomain.Algorithm, 0, len(am.factories))
	for alg := range am.factories {
		algs = append(algs, alg)
	}
	slices.Sort(algs)
	return algs
}
