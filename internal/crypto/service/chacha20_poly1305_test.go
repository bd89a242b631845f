package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChaCha20Poly1305(t *testing.T) {
	t.Run("valid 256-bit key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		cipher, err := NewChaCha20Poly1305(key)
		assert.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("invalid key size", func(t *testing.T) {
		key := make([]byte, 16)
		_, err := rand.Read(key)
		require.NoError(t, err)

		cipher, err := NewChaCha20Poly1305(key)
		assert.Error(t, err)
		assert.Nil(t, cipher)
	})
}

func TestChaCha20Poly1305Cipher_RoundTrip(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)

	t.Run("encrypt then decrypt", func(t *testing.T) {
		plaintext := []byte("correct horse battery staple")
		aad := []byte("record name")

		ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)
		assert.Equal(t, 12, len(nonce))

		decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted))
	})

	t.Run("nonce is unique for each encryption", func(t *testing.T) {
		plaintext := []byte("test")
		aad := []byte("aad")

		_, nonce1, err := cipher.Encrypt(plaintext, aad)
		require.NoError(t, err)

		_, nonce2, err := cipher.Encrypt(plaintext, aad)
		require.NoError(t, err)

		assert.NotEqual(t, nonce1, nonce2)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		plaintext := []byte("secret")
		aad := []byte("aad")

		ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
		require.NoError(t, err)

		ciphertext[0] ^= 0x01
		_, err = cipher.Decrypt(ciphertext, nonce, aad)
		assert.Error(t, err)
	})

	t.Run("wrong AAD fails", func(t *testing.T) {
		plaintext := []byte("secret")

		ciphertext, nonce, err := cipher.Encrypt(plaintext, []byte("correct aad"))
		require.NoError(t, err)

		_, err = cipher.Decrypt(ciphertext, nonce, []byte("wrong aad"))
		assert.Error(t, err)
	})
}
