package storage

import (
	"bytes"
	"crypto/rand"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	apperrors "github.com/kv-gits/rpm/internal/errors"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), cryptoService.NewAEADManager(), cryptoDomain.AES256GCM, testLogger())
	require.NoError(t, err)
	return store
}

func newTestKey(t *testing.T) *cryptoDomain.MasterKey {
	t.Helper()
	raw := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	key, err := cryptoDomain.NewMasterKey(raw)
	require.NoError(t, err)
	return key
}

func initTestStore(t *testing.T, store *Store) {
	t.Helper()
	salt := make([]byte, cryptoDomain.SaltSize)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	require.NoError(t, store.Init(salt, "$argon2id$test-verification-hash"))
}

func newTestEntry(title string) *vaultDomain.PasswordEntry {
	input := vaultDomain.CreateEntryInput{
		Title:    title,
		Username: "alice",
		Password: "super-secret-password-value",
		URL:      "https://example.com",
		Notes:    "some notes",
		Tags:     []string{"work"},
	}
	return input.NewEntry()
}

func TestStore_Init(t *testing.T) {
	t.Run("creates layout", func(t *testing.T) {
		store := newTestStore(t)
		assert.False(t, store.Initialized())

		initTestStore(t, store)

		assert.True(t, store.Initialized())
		salt, err := store.Salt()
		assert.NoError(t, err)
		assert.Len(t, salt, cryptoDomain.SaltSize)

		hash, err := store.VerificationHash()
		assert.NoError(t, err)
		assert.Equal(t, "$argon2id$test-verification-hash", hash)
	})

	t.Run("double init fails", func(t *testing.T) {
		store := newTestStore(t)
		initTestStore(t, store)

		salt := make([]byte, cryptoDomain.SaltSize)
		err := store.Init(salt, "hash")
		assert.ErrorIs(t, err, vaultDomain.ErrVaultAlreadyInitialized)
	})

	t.Run("wrong salt size fails", func(t *testing.T) {
		store := newTestStore(t)
		err := store.Init(make([]byte, 8), "hash")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSaltSize)
	})

	t.Run("uninitialized vault surfaces as not found", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Salt()
		assert.ErrorIs(t, err, vaultDomain.ErrVaultNotInitialized)

		_, err = store.VerificationHash()
		assert.ErrorIs(t, err, vaultDomain.ErrVaultNotInitialized)
	})
}

func TestStore_CRUD(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("example.com")

	t.Run("create and read", func(t *testing.T) {
		require.NoError(t, store.Create(entry, key))

		got, err := store.Read(entry.ID, key)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, entry.Title, got.Title)
		assert.Equal(t, entry.Password, got.Password)
		assert.Equal(t, entry.Tags, got.Tags)
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		err := store.Create(entry, key)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("update re-encrypts in place", func(t *testing.T) {
		entry.Password = "rotated-password"
		require.NoError(t, store.Update(entry, key))

		got, err := store.Read(entry.ID, key)
		require.NoError(t, err)
		assert.Equal(t, "rotated-password", got.Password)

		count, err := store.EntryCount()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("update of missing entry fails", func(t *testing.T) {
		missing := newTestEntry("missing")
		err := store.Update(missing, key)
		assert.ErrorIs(t, err, vaultDomain.ErrEntryNotFound)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, store.Delete(entry.ID, key))

		_, err := store.Read(entry.ID, key)
		assert.ErrorIs(t, err, vaultDomain.ErrEntryNotFound)

		err = store.Delete(entry.ID, key)
		assert.ErrorIs(t, err, vaultDomain.ErrEntryNotFound)
	})
}

func TestStore_NoPlaintextOnDisk(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("plaintext-canary-title")
	entry.Password = "plaintext-canary-password"
	entry.Username = "plaintext-canary-username"
	entry.Notes = "plaintext-canary-notes"
	require.NoError(t, store.Create(entry, key))

	err := filepath.Walk(store.Root(), func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		for _, canary := range [][]byte{
			[]byte("plaintext-canary-title"),
			[]byte("plaintext-canary-password"),
			[]byte("plaintext-canary-username"),
			[]byte("plaintext-canary-notes"),
			[]byte(entry.ID.String()),
		} {
			assert.False(t, bytes.Contains(data, canary),
				"file %s contains plaintext %q", path, canary)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ObfuscatedNames(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	t.Run("deterministic per id and key", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		name1, err := store.entryName(id, key)
		require.NoError(t, err)
		name2, err := store.entryName(id, key)
		require.NoError(t, err)
		assert.Equal(t, name1, name2)
		assert.Len(t, name1, 64) // hex-encoded SHA-256 output
	})

	t.Run("unlinkable across keys", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		name1, err := store.entryName(id, key)
		require.NoError(t, err)
		name2, err := store.entryName(id, newTestKey(t))
		require.NoError(t, err)
		assert.NotEqual(t, name1, name2)
	})

	t.Run("identical titles never collide", func(t *testing.T) {
		first := newTestEntry("same title")
		second := newTestEntry("same title")
		require.NoError(t, store.Create(first, key))
		require.NoError(t, store.Create(second, key))

		count, err := store.EntryCount()
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	for _, title := range []string{"zebra", "Apple", "mango"} {
		require.NoError(t, store.Create(newTestEntry(title), key))
	}

	summaries, err := store.List(key)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Sorted case-insensitively by title regardless of directory order.
	assert.Equal(t, "Apple", summaries[0].Title)
	assert.Equal(t, "mango", summaries[1].Title)
	assert.Equal(t, "zebra", summaries[2].Title)
}

func TestStore_NoTemporaryLeftovers(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("example.com")
	require.NoError(t, store.Create(entry, key))
	entry.Password = "changed"
	require.NoError(t, store.Update(entry, key))

	err := filepath.Walk(store.Root(), func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		assert.False(t, strings.Contains(info.Name(), ".tmp-"),
			"temporary file left behind: %s", path)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_TamperedRecord(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("example.com")
	require.NoError(t, store.Create(entry, key))

	name, err := store.entryName(entry.ID, key)
	require.NoError(t, err)
	path := store.recordPath(name)

	t.Run("flipped ciphertext bit is detected", func(t *testing.T) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		tampered := bytes.Replace(data, []byte(`"ciphertext":"`), []byte(`"ciphertext":"A`), 1)
		require.NotEqual(t, data, tampered)
		require.NoError(t, os.WriteFile(path, tampered, 0o600))

		_, err = store.Read(entry.ID, key)
		assert.ErrorIs(t, err, cryptoDomain.ErrIntegrityViolation)

		require.NoError(t, os.WriteFile(path, data, 0o600))
	})

	t.Run("unparseable record is an integrity violation", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

		_, err = store.Read(entry.ID, key)
		assert.ErrorIs(t, err, cryptoDomain.ErrIntegrityViolation)
	})

	t.Run("record copied under another name fails authentication", func(t *testing.T) {
		victim := newTestEntry("victim")
		require.NoError(t, store.Create(victim, key))
		victimName, err := store.entryName(victim.ID, key)
		require.NoError(t, err)

		other := newTestEntry("other")
		require.NoError(t, store.Create(other, key))
		otherName, err := store.entryName(other.ID, key)
		require.NoError(t, err)

		// Replay the other record under the victim's name.
		data, err := os.ReadFile(store.recordPath(otherName))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(store.recordPath(victimName), data, 0o600))

		_, err = store.Read(victim.ID, key)
		assert.ErrorIs(t, err, cryptoDomain.ErrIntegrityViolation)
	})
}

func TestStore_WrongKey(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("example.com")
	require.NoError(t, store.Create(entry, key))

	// A wrong key cannot even locate the record: the obfuscated name differs.
	_, err := store.Read(entry.ID, newTestKey(t))
	assert.Error(t, err)
}

func TestStore_ConcurrentUpdatesToOneEntry(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("contended")
	require.NoError(t, store.Create(entry, key))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			updated := *entry
			updated.Password = strings.Repeat("x", n+1)
			assert.NoError(t, store.Update(&updated, key))
		}(i)
	}
	wg.Wait()

	// Writes are strictly serialized: the record decrypts cleanly and holds
	// exactly one of the written values, never a partial merge.
	got, err := store.Read(entry.ID, key)
	require.NoError(t, err)
	assert.Equal(t, strings.Trim(got.Password, "x"), "")
	assert.GreaterOrEqual(t, len(got.Password), 1)
	assert.LessOrEqual(t, len(got.Password), 16)
}

func TestStore_LockedKeyFails(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("example.com")
	require.NoError(t, store.Create(entry, key))

	key.Zero()

	_, err := store.Read(entry.ID, key)
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyLocked)

	err = store.Create(newTestEntry("another"), key)
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyLocked)
}
