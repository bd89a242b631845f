package service

import (
	"crypto/rand"

	"golang.org/x/crypto/argon2"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	apperrors "github.com/kv-gits/rpm/internal/errors"
)

// Argon2id cost parameters for master-key derivation.
//
// The parameters are fixed and documented here rather than configurable:
// changing them silently would derive a different key from the same password
// and salt, making every existing record unreadable. They target sub-second
// unlock latency on commodity hardware while remaining memory-hard enough to
// resist offline brute force.
const (
	argonTime    = 2
	argonMemory  = 19456 // KiB (19 MiB)
	argonThreads = 1
)

// KeyDerivationService implements KeyDeriver using Argon2id.
//
// Key derivation is deliberately separate from master-password verification
// (see PasswordHasherService): the verification hash uses its own salt and
// parameters, so knowing it never yields the encryption key.
type KeyDerivationService struct{}

// NewKeyDerivation creates a new KeyDerivationService.
func NewKeyDerivation() *KeyDerivationService {
	return &KeyDerivationService{}
}

// DeriveKey derives the 32-byte vault master key from the master password and
// the persisted vault salt.
//
// The salt must be exactly SaltSize bytes; anything else fails with
// ErrInvalidSaltSize wrapped under ErrDerivationFailed. There is no fallback
// to weaker parameters.
func (k *KeyDerivationService) DeriveKey(password string, salt []byte) (*cryptoDomain.MasterKey, error) {
	if len(salt) != cryptoDomain.SaltSize {
		return nil, apperrors.Wrap(cryptoDomain.ErrDerivationFailed, cryptoDomain.ErrInvalidSaltSize.Error())
	}

	raw := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(raw)

	masterKey, err := cryptoDomain.NewMasterKey(raw)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrDerivationFailed, err.Error())
	}

	return masterKey, nil
}

// GenerateSalt creates a new random vault salt. The salt is generated once at
// vault initialization and persisted in plaintext; regenerating it requires
// re-encrypting every record.
func (k *KeyDerivationService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate salt")
	}
	return salt, nil
}
