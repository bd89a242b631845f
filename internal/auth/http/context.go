// Package http provides HTTP middleware and handlers for vault authentication.
package http

import (
	"context"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
)

// masterKeyKey is a context key type for storing the vault master key.
type masterKeyKey struct{}

// WithMasterKey stores the vault master key in the context.
// This is called by the authentication middleware after successful token validation.
func WithMasterKey(ctx context.Context, key *cryptoDomain.MasterKey) context.Context {
	return context.WithValue(ctx, masterKeyKey{}, key)
}

// GetMasterKey retrieves the vault master key from the context.
// Returns (key, true) if present, or (nil, false) if the request was not
// authenticated.
func GetMasterKey(ctx context.Context) (*cryptoDomain.MasterKey, bool) {
	key, ok := ctx.Value(masterKeyKey{}).(*cryptoDomain.MasterKey)
	return key, ok
}
