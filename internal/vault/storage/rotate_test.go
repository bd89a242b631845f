package storage

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

func newTestSalt(t *testing.T) []byte {
	t.Helper()
	salt := make([]byte, cryptoDomain.SaltSize)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	return salt
}

func TestStore_RotateMasterKey(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	oldKey := newTestKey(t)
	newKey := newTestKey(t)

	entries := make([]*vaultDomain.PasswordEntry, 0, 3)
	for _, title := range []string{"one", "two", "three"} {
		entry := newTestEntry(title)
		require.NoError(t, store.Create(entry, oldKey))
		entries = append(entries, entry)
	}

	newSalt := newTestSalt(t)
	require.NoError(t, store.RotateMasterKey(oldKey, newKey, newSalt, "new-verification-hash"))

	t.Run("new key decrypts everything", func(t *testing.T) {
		for _, entry := range entries {
			got, err := store.Read(entry.ID, newKey)
			require.NoError(t, err)
			assert.Equal(t, entry.Title, got.Title)
			assert.Equal(t, entry.Password, got.Password)
			assert.Equal(t, entry.ID, got.ID)
		}
	})

	t.Run("old key no longer decrypts anything", func(t *testing.T) {
		for _, entry := range entries {
			_, err := store.Read(entry.ID, oldKey)
			assert.Error(t, err)
		}
	})

	t.Run("salt and verification hash replaced", func(t *testing.T) {
		salt, err := store.Salt()
		require.NoError(t, err)
		assert.Equal(t, newSalt, salt)

		hash, err := store.VerificationHash()
		require.NoError(t, err)
		assert.Equal(t, "new-verification-hash", hash)
	})

	t.Run("no rotation artifacts left behind", func(t *testing.T) {
		for _, leftover := range []string{rotateEntriesDir, oldEntriesDir, rotateSaltFile, rotateVerifyFile} {
			_, err := os.Stat(filepath.Join(store.Root(), leftover))
			assert.True(t, os.IsNotExist(err), "leftover artifact: %s", leftover)
		}
	})

	t.Run("entry count unchanged", func(t *testing.T) {
		count, err := store.EntryCount()
		require.NoError(t, err)
		assert.Equal(t, len(entries), count)
	})
}

func TestStore_RotateMasterKey_WrongOldKey(t *testing.T) {
	store := newTestStore(t)
	initTestStore(t, store)
	key := newTestKey(t)

	entry := newTestEntry("example.com")
	require.NoError(t, store.Create(entry, key))

	// Rotation with a key that cannot decrypt the vault aborts with the live
	// vault untouched.
	err := store.RotateMasterKey(newTestKey(t), newTestKey(t), newTestSalt(t), "hash")
	assert.Error(t, err)

	got, err := store.Read(entry.ID, key)
	require.NoError(t, err)
	assert.Equal(t, entry.Password, got.Password)

	_, err = os.Stat(filepath.Join(store.Root(), rotateEntriesDir))
	assert.True(t, os.IsNotExist(err), "staging left behind after abort")
}

func TestStore_RotationRecovery(t *testing.T) {
	aeadManager := cryptoService.NewAEADManager()

	setupVault := func(t *testing.T) (string, *cryptoDomain.MasterKey, *vaultDomain.PasswordEntry) {
		root := t.TempDir()
		store, err := NewStore(root, aeadManager, cryptoDomain.AES256GCM, testLogger())
		require.NoError(t, err)
		initTestStore(t, store)
		key := newTestKey(t)
		entry := newTestEntry("survivor")
		require.NoError(t, store.Create(entry, key))
		return root, key, entry
	}

	t.Run("discards staging when commit never started", func(t *testing.T) {
		root, key, entry := setupVault(t)

		// Crash during staging: entries.rotate and salt.rotate exist, the
		// live directories are untouched.
		require.NoError(t, os.MkdirAll(filepath.Join(root, rotateEntriesDir), dirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(root, rotateSaltFile), newTestSalt(t), filePerm))

		store, err := NewStore(root, aeadManager, cryptoDomain.AES256GCM, testLogger())
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(root, rotateEntriesDir))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(root, rotateSaltFile))
		assert.True(t, os.IsNotExist(err))

		got, err := store.Read(entry.ID, key)
		require.NoError(t, err)
		assert.Equal(t, entry.Password, got.Password)
	})

	t.Run("rolls back when crash hit before the commit point", func(t *testing.T) {
		root, key, entry := setupVault(t)

		// Crash between displacing entries and activating the staging:
		// entries is gone, entries.old holds the old vault.
		require.NoError(t, os.Rename(
			filepath.Join(root, entriesDir),
			filepath.Join(root, oldEntriesDir),
		))
		require.NoError(t, os.MkdirAll(filepath.Join(root, rotateEntriesDir), dirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(root, rotateSaltFile), newTestSalt(t), filePerm))

		store, err := NewStore(root, aeadManager, cryptoDomain.AES256GCM, testLogger())
		require.NoError(t, err)

		got, err := store.Read(entry.ID, key)
		require.NoError(t, err)
		assert.Equal(t, entry.Password, got.Password)

		_, err = os.Stat(filepath.Join(root, oldEntriesDir))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rolls forward when crash hit past the commit point", func(t *testing.T) {
		root, _, _ := setupVault(t)

		// Simulate a full rotation interrupted after activating the rotated
		// entries: entries holds the new records, entries.old the displaced
		// ones, salt.rotate and verify.rotate are still staged.
		newSalt := newTestSalt(t)
		require.NoError(t, os.Rename(
			filepath.Join(root, entriesDir),
			filepath.Join(root, oldEntriesDir),
		))
		require.NoError(t, os.MkdirAll(filepath.Join(root, entriesDir), dirPerm))
		require.NoError(t, os.WriteFile(filepath.Join(root, rotateSaltFile), newSalt, filePerm))
		require.NoError(t, os.WriteFile(filepath.Join(root, rotateVerifyFile), []byte("rotated-hash"), filePerm))

		store, err := NewStore(root, aeadManager, cryptoDomain.AES256GCM, testLogger())
		require.NoError(t, err)

		salt, err := store.Salt()
		require.NoError(t, err)
		assert.Equal(t, newSalt, salt)

		hash, err := store.VerificationHash()
		require.NoError(t, err)
		assert.Equal(t, "rotated-hash", hash)

		_, err = os.Stat(filepath.Join(root, oldEntriesDir))
		assert.True(t, os.IsNotExist(err))
	})
}
