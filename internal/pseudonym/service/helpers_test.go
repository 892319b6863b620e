package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/pseudonymizer/internal/crypto/domain"
)

// newTestKey builds a secret key from a repeated fill byte.
func newTestKey(t *testing.T, fill byte) *cryptoDomain.SecretKey {
	t.Helper()
	key, err := cryptoDomain.NewSecretKey(bytes.Repeat([]byte{fill}, cryptoDomain.SecretKeySize))
	require.NoError(t, err)
	return key
}
