package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

// HMACTokenizer derives tokens with HMAC-SHA256 under the secret key's MAC subkey.
type HMACTokenizer struct {
	macKey []byte
}

// NewTokenizer creates a tokenizer bound to key.
func NewTokenizer(key *cryptoDomain.SecretKey) *HMACTokenizer {
	return &HMACTokenizer{macKey: key.MACKey()}
}

// TokenFor computes HMAC-SHA256 over the UTF-8 bytes of value, encodes the digest with
// the URL-safe base64 alphabet without padding and keeps the first TokenBodyLength characters.
func (h *HMACTokenizer) TokenFor(value string) string {
	mac := hmac.New(sha256.New, h.macKey)
	_, _ = mac.Write([]byte(value))
	body := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return pseudonymDomain.TokenPrefix + body[:pseudonymDomain.TokenBodyLength]
}
