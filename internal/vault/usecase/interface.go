// Package usecase implements business logic orchestration for vault entry
// operations: validation, encryption and storage coordination.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

// VaultUseCase orchestrates password entry operations against the store.
// Every operation requires the caller's master key, obtained from a
// validated session; the use case never holds key material of its own.
type VaultUseCase interface {
	// CreateEntry validates the input, encrypts a new entry and persists it.
	CreateEntry(
		ctx context.Context,
		key *cryptoDomain.MasterKey,
		input *vaultDomain.CreateEntryInput,
	) (*vaultDomain.PasswordEntry, error)

	// GetEntry decrypts and returns a single entry.
	GetEntry(ctx context.Context, key *cryptoDomain.MasterKey, id uuid.UUID) (*vaultDomain.PasswordEntry, error)

	// UpdateEntry applies the non-nil input fields and re-encrypts the entry
	// with a fresh nonce.
	UpdateEntry(
		ctx context.Context,
		key *cryptoDomain.MasterKey,
		id uuid.UUID,
		input *vaultDomain.UpdateEntryInput,
	) (*vaultDomain.PasswordEntry, error)

	// DeleteEntry removes an entry's record.
	DeleteEntry(ctx context.Context, key *cryptoDomain.MasterKey, id uuid.UUID) error

	// ListEntries returns decrypted entry summaries sorted by title.
	ListEntries(ctx context.Context, key *cryptoDomain.MasterKey) ([]vaultDomain.EntrySummary, error)

	// RotateMasterPassword verifies the old master password and re-encrypts
	// the whole vault under a key derived from the new one, as a single
	// exclusive transaction. All sessions must be locked by the caller
	// afterwards; the old key no longer decrypts anything.
	RotateMasterPassword(ctx context.Context, oldPassword, newPassword string) error
}

// EntryStore is the persistence boundary of the use case, implemented by the
// file-backed store.
type EntryStore interface {
	Create(entry *vaultDomain.PasswordEntry, key *cryptoDomain.MasterKey) error
	Read(id uuid.UUID, key *cryptoDomain.MasterKey) (*vaultDomain.PasswordEntry, error)
	Update(entry *vaultDomain.PasswordEntry, key *cryptoDomain.MasterKey) error
	Delete(id uuid.UUID, key *cryptoDomain.MasterKey) error
	List(key *cryptoDomain.MasterKey) ([]vaultDomain.EntrySummary, error)
	Salt() ([]byte, error)
	VerificationHash() (string, error)
	RotateMasterKey(oldKey, newKey *cryptoDomain.MasterKey, newSalt []byte, newVerificationHash string) error
}
