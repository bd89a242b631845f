package service

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateToken(t *testing.T) {
	service := NewTokenService()

	t.Run("token is 32 random bytes base64url-encoded", func(t *testing.T) {
		plainToken, tokenHash, err := service.GenerateToken()
		require.NoError(t, err)

		raw, err := base64.URLEncoding.DecodeString(plainToken)
		require.NoError(t, err)
		assert.Len(t, raw, 32)

		assert.Equal(t, service.HashToken(plainToken), tokenHash)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		token1, _, err := service.GenerateToken()
		require.NoError(t, err)
		token2, _, err := service.GenerateToken()
		require.NoError(t, err)
		assert.NotEqual(t, token1, token2)
	})
}

func TestTokenService_HashToken(t *testing.T) {
	service := NewTokenService()

	t.Run("hash is hex-encoded SHA-256", func(t *testing.T) {
		hash := service.HashToken("some token")
		raw, err := hex.DecodeString(hash)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, service.HashToken("token"), service.HashToken("token"))
		assert.NotEqual(t, service.HashToken("token"), service.HashToken("other"))
	})
}
