package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	authDomain "github.com/kv-gits/rpm/internal/auth/domain"
	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
	customValidation "github.com/kv-gits/rpm/internal/validation"
)

// vaultUseCase implements VaultUseCase against the file-backed entry store.
type vaultUseCase struct {
	store          EntryStore
	keyDeriver     cryptoService.KeyDeriver
	passwordHasher cryptoService.PasswordHasher
	logger         *slog.Logger
}

// NewVaultUseCase creates a new VaultUseCase with the provided dependencies.
func NewVaultUseCase(
	store EntryStore,
	keyDeriver cryptoService.KeyDeriver,
	passwordHasher cryptoService.PasswordHasher,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		store:          store,
		keyDeriver:     keyDeriver,
		passwordHasher: passwordHasher,
		logger:         logger,
	}
}

// CreateEntry validates the input and persists a new encrypted entry.
// Validation happens before any encryption attempt, so a rejected entry is
// never partially stored.
func (v *vaultUseCase) CreateEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	input *vaultDomain.CreateEntryInput,
) (*vaultDomain.PasswordEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	entry := input.NewEntry()
	if err := v.store.Create(entry, key); err != nil {
		return nil, err
	}

	// Log identity only, never field content.
	v.logger.Debug("entry created", slog.String("entry_id", entry.ID.String()))
	return entry, nil
}

// GetEntry decrypts and returns a single entry.
func (v *vaultUseCase) GetEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	id uuid.UUID,
) (*vaultDomain.PasswordEntry, error) {
	return v.store.Read(id, key)
}

// UpdateEntry reads the current entry, applies the non-nil fields and
// re-encrypts with a fresh nonce. updated_at is refreshed, created_at kept.
func (v *vaultUseCase) UpdateEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	id uuid.UUID,
	input *vaultDomain.UpdateEntryInput,
) (*vaultDomain.PasswordEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	entry, err := v.store.Read(id, key)
	if err != nil {
		return nil, err
	}

	input.Apply(entry)
	if err := v.store.Update(entry, key); err != nil {
		return nil, err
	}

	v.logger.Debug("entry updated", slog.String("entry_id", entry.ID.String()))
	return entry, nil
}

// DeleteEntry removes an entry's record.
func (v *vaultUseCase) DeleteEntry(ctx context.Context, key *cryptoDomain.MasterKey, id uuid.UUID) error {
	if err := v.store.Delete(id, key); err != nil {
		return err
	}

	v.logger.Debug("entry deleted", slog.String("entry_id", id.String()))
	return nil
}

// ListEntries returns decrypted entry summaries sorted by title.
func (v *vaultUseCase) ListEntries(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
) ([]vaultDomain.EntrySummary, error) {
	return v.store.List(key)
}

// RotateMasterPassword re-encrypts the whole vault under a new master
// password. The store serializes the rotation against every other operation;
// no entry is ever left encrypted under a stale key while others use the new
// one.
func (v *vaultUseCase) RotateMasterPassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := customValidation.MasterPassword(newPassword); err != nil {
		return err
	}

	storedHash, err := v.store.VerificationHash()
	if err != nil {
		return err
	}
	if !v.passwordHasher.VerifyPassword(oldPassword, storedHash) {
		return authDomain.ErrInvalidCredentials
	}

	salt, err := v.store.Salt()
	if err != nil {
		return err
	}
	oldKey, err := v.keyDeriver.DeriveKey(oldPassword, salt)
	if err != nil {
		return err
	}
	defer oldKey.Zero()

	newSalt, err := v.keyDeriver.GenerateSalt()
	if err != nil {
		return err
	}
	newKey, err := v.keyDeriver.DeriveKey(newPassword, newSalt)
	if err != nil {
		return err
	}
	defer newKey.Zero()

	newHash, err := v.passwordHasher.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return v.store.RotateMasterKey(oldKey, newKey, newSalt, newHash)
}
