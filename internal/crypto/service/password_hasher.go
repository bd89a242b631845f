package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/kv-gits/rpm/internal/errors"
)

// passwordHasher implements PasswordHasher using Argon2id via go-pwdhash.
//
// The produced hash is a self-describing PHC string with an embedded random
// salt, distinct from the key-derivation salt. It is safe to persist in
// plaintext: verifying it authenticates the master password without exposing
// anything about the encryption key.
type passwordHasher struct {
	hasher *pwdhash.PasswordHasher
}

// HashPassword hashes the master password for later verification.
func (p *passwordHasher) HashPassword(password string) (string, error) {
	hash, err := p.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// VerifyPassword performs a constant-time comparison between a password and
// its stored hash. A malformed hash and a wrong password are indistinguishable
// to the caller; both return false.
func (p *passwordHasher) VerifyPassword(password string, hash string) bool {
	ok, err := p.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordHasher creates a new PasswordHasher using Argon2id.
// Uses the Moderate policy for a balance between security and unlock latency.
func NewPasswordHasher() PasswordHasher {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordHasher{
		hasher: hasher,
	}
}
