package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/kv-gits/rpm/internal/auth/domain"
	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	apperrors "github.com/kv-gits/rpm/internal/errors"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
	"github.com/kv-gits/rpm/internal/vault/storage"
)

const testMasterPassword = "correct horse battery staple"

type vaultFixture struct {
	useCase VaultUseCase
	store   *storage.Store
	key     *cryptoDomain.MasterKey
}

// newVaultFixture builds a use case over a real file store in a temp
// directory, initialized with testMasterPassword.
func newVaultFixture(t *testing.T) *vaultFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	keyDeriver := cryptoService.NewKeyDerivation()
	passwordHasher := cryptoService.NewPasswordHasher()

	store, err := storage.NewStore(t.TempDir(), cryptoService.NewAEADManager(), cryptoDomain.AES256GCM, logger)
	require.NoError(t, err)

	salt, err := keyDeriver.GenerateSalt()
	require.NoError(t, err)
	hash, err := passwordHasher.HashPassword(testMasterPassword)
	require.NoError(t, err)
	require.NoError(t, store.Init(salt, hash))

	key, err := keyDeriver.DeriveKey(testMasterPassword, salt)
	require.NoError(t, err)

	return &vaultFixture{
		useCase: NewVaultUseCase(store, keyDeriver, passwordHasher, logger),
		store:   store,
		key:     key,
	}
}

func TestVaultUseCase_CreateEntry(t *testing.T) {
	f := newVaultFixture(t)
	ctx := context.Background()

	t.Run("valid input is stored", func(t *testing.T) {
		entry, err := f.useCase.CreateEntry(ctx, f.key, &vaultDomain.CreateEntryInput{
			Title:    "example.com",
			Password: "secret",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)

		got, err := f.useCase.GetEntry(ctx, f.key, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "secret", got.Password)
	})

	t.Run("invalid input is rejected before storage", func(t *testing.T) {
		before, err := f.store.EntryCount()
		require.NoError(t, err)

		_, err = f.useCase.CreateEntry(ctx, f.key, &vaultDomain.CreateEntryInput{Title: "no password"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		after, err := f.store.EntryCount()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestVaultUseCase_UpdateEntry(t *testing.T) {
	f := newVaultFixture(t)
	ctx := context.Background()

	entry, err := f.useCase.CreateEntry(ctx, f.key, &vaultDomain.CreateEntryInput{
		Title:    "example.com",
		Username: "alice",
		Password: "secret",
	})
	require.NoError(t, err)

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		newPassword := "rotated"
		updated, err := f.useCase.UpdateEntry(ctx, f.key, entry.ID, &vaultDomain.UpdateEntryInput{
			Password: &newPassword,
		})
		require.NoError(t, err)

		assert.Equal(t, "rotated", updated.Password)
		assert.Equal(t, "alice", updated.Username)
		assert.Equal(t, entry.CreatedAt, updated.CreatedAt)
	})

	t.Run("invalid update is rejected", func(t *testing.T) {
		empty := ""
		_, err := f.useCase.UpdateEntry(ctx, f.key, entry.ID, &vaultDomain.UpdateEntryInput{Title: &empty})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing entry", func(t *testing.T) {
		title := "x"
		_, err := f.useCase.UpdateEntry(ctx, f.key, uuid.Must(uuid.NewV7()), &vaultDomain.UpdateEntryInput{Title: &title})
		assert.ErrorIs(t, err, vaultDomain.ErrEntryNotFound)
	})
}

func TestVaultUseCase_DeleteAndList(t *testing.T) {
	f := newVaultFixture(t)
	ctx := context.Background()

	first, err := f.useCase.CreateEntry(ctx, f.key, &vaultDomain.CreateEntryInput{Title: "beta", Password: "p"})
	require.NoError(t, err)
	_, err = f.useCase.CreateEntry(ctx, f.key, &vaultDomain.CreateEntryInput{Title: "alpha", Password: "p"})
	require.NoError(t, err)

	summaries, err := f.useCase.ListEntries(ctx, f.key)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "alpha", summaries[0].Title)
	assert.Equal(t, "beta", summaries[1].Title)

	require.NoError(t, f.useCase.DeleteEntry(ctx, f.key, first.ID))

	summaries, err = f.useCase.ListEntries(ctx, f.key)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "alpha", summaries[0].Title)
}

func TestVaultUseCase_RotateMasterPassword(t *testing.T) {
	f := newVaultFixture(t)
	ctx := context.Background()

	entry, err := f.useCase.CreateEntry(ctx, f.key, &vaultDomain.CreateEntryInput{
		Title:    "example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	t.Run("wrong old password fails closed", func(t *testing.T) {
		err := f.useCase.RotateMasterPassword(ctx, "wrong password", "brand new password")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)

		// Vault untouched: the old key still decrypts.
		got, err := f.useCase.GetEntry(ctx, f.key, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "secret", got.Password)
	})

	t.Run("too short new password is rejected", func(t *testing.T) {
		err := f.useCase.RotateMasterPassword(ctx, testMasterPassword, "short")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("successful rotation re-keys the vault", func(t *testing.T) {
		const newPassword = "an entirely new master password"
		require.NoError(t, f.useCase.RotateMasterPassword(ctx, testMasterPassword, newPassword))

		// The old key no longer decrypts anything.
		_, err := f.useCase.GetEntry(ctx, f.key, entry.ID)
		assert.Error(t, err)

		// A key derived from the new password and the new salt does.
		keyDeriver := cryptoService.NewKeyDerivation()
		salt, err := f.store.Salt()
		require.NoError(t, err)
		newKey, err := keyDeriver.DeriveKey(newPassword, salt)
		require.NoError(t, err)

		got, err := f.useCase.GetEntry(ctx, newKey, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "secret", got.Password)

		// The new verification hash accepts the new password.
		hash, err := f.store.VerificationHash()
		require.NoError(t, err)
		assert.True(t, cryptoService.NewPasswordHasher().VerifyPassword(newPassword, hash))
	})
}
