package domain

import (
	"github.com/kv-gits/rpm/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AES256GCM (aes256-gcm), ChaCha20Poly1305 (chacha20poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys must be exactly 32 bytes (256 bits) for both AES-256-GCM and
	// ChaCha20-Poly1305.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSaltSize indicates the key-derivation salt has the wrong length.
	//
	// The salt is generated once per vault and must be exactly SaltSize bytes.
	// Key derivation never falls back to weaker parameters on a bad salt.
	ErrInvalidSaltSize = errors.Wrap(errors.ErrInvalidInput, "invalid salt size")

	// ErrDerivationFailed indicates the key-derivation function could not run
	// with the configured parameters. This is a configuration-level failure,
	// not a wrong-password condition.
	ErrDerivationFailed = errors.Wrap(errors.ErrInvalidInput, "key derivation failed")

	// ErrIntegrityViolation indicates an authenticated decryption failed.
	//
	// This can mean a wrong key, a tampered ciphertext, a wrong nonce or
	// corrupted data. The specific cause is deliberately not disclosed: the
	// caller must treat every case as tamper/corruption, and no partial
	// plaintext is ever returned.
	ErrIntegrityViolation = errors.Wrap(errors.ErrIntegrity, "decryption failed")
)
