package domain

import (
	"strings"
)

// IsToken reports whether s carries the token prefix. Prefixed values are treated as
// already tokenized and are never re-tokenized or treated as plaintext.
func IsToken(s string) bool {
	return strings.HasPrefix(s, TokenPrefix)
}

// ValidateToken checks that s is a prefix followed by exactly TokenBodyLength characters
// of the URL-safe base64 alphabet.
func ValidateToken(s string) error {
	if len(s) != TokenLength || !IsToken(s) {
		return ErrInvalidToken
	}
	for _, c := range s[len(TokenPrefix):] {
		if !isURLSafeBase64(c) {
			return ErrInvalidToken
		}
	}
	return nil
}

func isURLSafeBase64(c rune) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}

// Mapping is a persisted token to ciphertext association.
type Mapping struct {
	Token      string
	Ciphertext []byte
}
