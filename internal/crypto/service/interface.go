// Package service implements the cryptographic services of the vault: AEAD
// encryption of entry payloads, Argon2id key derivation from the master
// password, and master-password verification hashing.
package service

import (
	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
)

// AEAD defines authenticated encryption operations for entry payloads.
//
// Implementations are stateless and safe for concurrent use. Every Encrypt
// call generates a fresh random nonce from a cryptographically secure source;
// a nonce is never reused under the same key.
type AEAD interface {
	// Encrypt encrypts plaintext and authenticates it together with aad.
	// Returns the ciphertext (authentication tag appended) and the nonce
	// generated for this call.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt authenticates and decrypts ciphertext. The same aad supplied
	// to Encrypt must be provided. On authentication failure no plaintext
	// is returned.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances for a given key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives the vault's symmetric master key from the master
// password and the persisted salt.
type KeyDeriver interface {
	// DeriveKey runs the memory-hard derivation. Deterministic: the same
	// (password, salt) pair always yields the same key.
	DeriveKey(password string, salt []byte) (*cryptoDomain.MasterKey, error)

	// GenerateSalt creates a new random salt of the required size.
	GenerateSalt() ([]byte, error)
}

// PasswordHasher produces and verifies the master-password verification hash.
// The hash uses parameters and a salt independent from key derivation, so it
// can authenticate the master password without reconstructing the master key.
type PasswordHasher interface {
	// HashPassword returns a self-describing hash string with an embedded
	// random salt.
	HashPassword(password string) (string, error)

	// VerifyPassword recomputes and compares in constant time. It returns
	// false for a wrong password and for a malformed hash alike; the caller
	// cannot distinguish the two cases.
	VerifyPassword(password string, hash string) bool
}
