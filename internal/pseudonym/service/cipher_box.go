package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
	cryptoService "github.com/allisson/pseudonymizer/internal/crypto/service"
)

// envelopeVersion is the first byte of every ciphertext envelope.
const envelopeVersion byte = 0x01

// envelope layout: version(1) | algorithm id(1) | nonce | sealed value with tag
const envelopeHeaderSize = 2

// AEADCipherBox seals values with an AEAD cipher under the secret key's encryption subkey.
// Envelopes record their algorithm, so a box decrypts envelopes sealed by either
// supported algorithm as long as the key is the same.
type AEADCipherBox struct {
	alg     cryptoDomain.Algorithm
	ciphers map[cryptoDomain.Algorithm]cryptoService.AEAD
}

// NewCipherBox creates a cipher box that encrypts with alg.
func NewCipherBox(
	key *cryptoDomain.SecretKey,
	alg cryptoDomain.Algorithm,
	aeadManager cryptoService.AEADManager,
) (*AEADCipherBox, error) {
	encryptionKey := key.EncryptionKey()
	defer clear(encryptionKey)

	algs := aeadManager.Algorithms()
	ciphers := make(map[cryptoDomain.Algorithm]cryptoService.AEAD, len(algs))
	for _, a := range algs {
		aead, err := aeadManager.CreateCipher(encryptionKey, a)
		if err != nil {
			return nil, err
		}
		ciphers[a] = aead
	}

	if _, ok := ciphers[alg]; !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}

	return &AEADCipherBox{alg: alg, ciphers: ciphers}, nil
}

// Encrypt seals value into a new envelope.
func (b *AEADCipherBox) Encrypt(value string) ([]byte, error) {
	ciphertext, nonce, err := b.ciphers[b.alg].Encrypt([]byte(value), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt value: %w", err)
	}

	envelope := make([]byte, 0, envelopeHeaderSize+len(nonce)+len(ciphertext))
	envelope = append(envelope, envelopeVersion, b.alg.ID())
	envelope = append(envelope, nonce...)
	envelope = append(envelope, ciphertext...)
	return envelope, nil
}

// Decrypt opens envelope and returns the original value.
func (b *AEADCipherBox) Decrypt(envelope []byte) (string, error) {
	if len(envelope) < envelopeHeaderSize || envelope[0] != envelopeVersion {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	alg, ok := cryptoDomain.AlgorithmFromID(envelope[1])
	if !ok {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	aead := b.ciphers[alg]

	body := envelope[envelopeHeaderSize:]
	if len(body) < aead.NonceSize() {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	nonceSize := aead.NonceSize()
	plaintext, err := aead.Decrypt(body[nonceSize:], body[:nonceSize], nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
