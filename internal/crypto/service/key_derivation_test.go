package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
)

func TestKeyDerivationService_DeriveKey(t *testing.T) {
	service := NewKeyDerivation()

	t.Run("same password and salt derive the same key", func(t *testing.T) {
		salt, err := service.GenerateSalt()
		require.NoError(t, err)

		key1, err := service.DeriveKey("master password", salt)
		require.NoError(t, err)
		key2, err := service.DeriveKey("master password", salt)
		require.NoError(t, err)

		bytes1, err := key1.Bytes()
		require.NoError(t, err)
		bytes2, err := key2.Bytes()
		require.NoError(t, err)
		assert.Equal(t, bytes1, bytes2)
	})

	t.Run("different salts derive different keys", func(t *testing.T) {
		salt1, err := service.GenerateSalt()
		require.NoError(t, err)
		salt2, err := service.GenerateSalt()
		require.NoError(t, err)

		key1, err := service.DeriveKey("master password", salt1)
		require.NoError(t, err)
		key2, err := service.DeriveKey("master password", salt2)
		require.NoError(t, err)

		bytes1, err := key1.Bytes()
		require.NoError(t, err)
		bytes2, err := key2.Bytes()
		require.NoError(t, err)
		assert.NotEqual(t, bytes1, bytes2)
	})

	t.Run("different passwords derive different keys", func(t *testing.T) {
		salt, err := service.GenerateSalt()
		require.NoError(t, err)

		key1, err := service.DeriveKey("password one", salt)
		require.NoError(t, err)
		key2, err := service.DeriveKey("password two", salt)
		require.NoError(t, err)

		bytes1, err := key1.Bytes()
		require.NoError(t, err)
		bytes2, err := key2.Bytes()
		require.NoError(t, err)
		assert.NotEqual(t, bytes1, bytes2)
	})

	t.Run("wrong salt size fails", func(t *testing.T) {
		key, err := service.DeriveKey("master password", make([]byte, 8))
		assert.ErrorIs(t, err, cryptoDomain.ErrDerivationFailed)
		assert.Nil(t, key)
	})

	t.Run("empty salt fails", func(t *testing.T) {
		key, err := service.DeriveKey("master password", nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDerivationFailed)
		assert.Nil(t, key)
	})
}

func TestKeyDerivationService_GenerateSalt(t *testing.T) {
	service := NewKeyDerivation()

	t.Run("salt has the configured size", func(t *testing.T) {
		salt, err := service.GenerateSalt()
		require.NoError(t, err)
		assert.Len(t, salt, cryptoDomain.SaltSize)
	})

	t.Run("salts are unique", func(t *testing.T) {
		salt1, err := service.GenerateSalt()
		require.NoError(t, err)
		salt2, err := service.GenerateSalt()
		require.NoError(t, err)
		assert.NotEqual(t, salt1, salt2)
	})
}
