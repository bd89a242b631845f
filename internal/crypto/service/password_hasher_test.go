package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasherService(t *testing.T) {
	hasher := NewPasswordHasher()

	t.Run("hash and verify", func(t *testing.T) {
		hash, err := hasher.HashPassword("master password")
		require.NoError(t, err)
		assert.Contains(t, hash, "argon2id")

		assert.True(t, hasher.VerifyPassword("master password", hash))
	})

	t.Run("wrong password fails verification", func(t *testing.T) {
		hash, err := hasher.HashPassword("master password")
		require.NoError(t, err)

		assert.False(t, hasher.VerifyPassword("wrong password", hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		hash1, err := hasher.HashPassword("master password")
		require.NoError(t, err)
		hash2, err := hasher.HashPassword("master password")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("malformed hash fails verification", func(t *testing.T) {
		assert.False(t, hasher.VerifyPassword("master password", "not a hash"))
		assert.False(t, hasher.VerifyPassword("master password", ""))
	})
}
