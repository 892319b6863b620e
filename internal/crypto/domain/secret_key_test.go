package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretKey(t *testing.T) {
	t.Run("derives distinct subkeys", func(t *testing.T) {
		material := bytes.Repeat([]byte{0x42}, SecretKeySize)

		key, err := NewSecretKey(material)
		require.NoError(t, err)

		assert.Len(t, key.MACKey(), 32)
		assert.Len(t, key.EncryptionKey(), 32)
		assert.NotEqual(t, key.MACKey(), key.EncryptionKey())
		assert.NotEqual(t, material, key.MACKey())
		assert.Len(t, key.Fingerprint(), 16)
	})

	t.Run("is deterministic for the same material", func(t *testing.T) {
		material := bytes.Repeat([]byte{0x07}, SecretKeySize)

		a, err := NewSecretKey(material)
		require.NoError(t, err)
		b, err := NewSecretKey(material)
		require.NoError(t, err)

		assert.Equal(t, a.MACKey(), b.MACKey())
		assert.Equal(t, a.EncryptionKey(), b.EncryptionKey())
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("differs for different material", func(t *testing.T) {
		a, err := NewSecretKey(bytes.Repeat([]byte{0x01}, SecretKeySize))
		require.NoError(t, err)
		b, err := NewSecretKey(bytes.Repeat([]byte{0x02}, SecretKeySize))
		require.NoError(t, err)

		assert.NotEqual(t, a.MACKey(), b.MACKey())
		assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("rejects wrong size", func(t *testing.T) {
		key, err := NewSecretKey(make([]byte, 16))
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Nil(t, key)
	})
}

func TestSecretKey_CopiesAreIndependent(t *testing.T) {
	key, err := NewSecretKey(bytes.Repeat([]byte{0x09}, SecretKeySize))
	require.NoError(t, err)

	macKey := key.MACKey()
	clear(macKey)

	assert.NotEqual(t, macKey, key.MACKey())
}

func TestSecretKey_Close(t *testing.T) {
	key, err := NewSecretKey(bytes.Repeat([]byte{0x09}, SecretKeySize))
	require.NoError(t, err)

	key.Close()

	assert.Equal(t, make([]byte, 32), key.MACKey())
	assert.Equal(t, make([]byte, 32), key.EncryptionKey())
}
