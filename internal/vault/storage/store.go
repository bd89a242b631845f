// Package storage implements the file-backed entry store: one encrypted
// record per entry under an obfuscated filename, plus the vault's salt and
// master-password verification hash.
//
// Layout under the vault root:
//
//	salt            16 random bytes, plaintext, written once at init
//	verify          Argon2id PHC string for master-password verification
//	entries/        one <name>.vault file per entry
//
// The obfuscated name is hex(HMAC-SHA256(namingKey, entry id)): deterministic
// for the same (id, master key) pair, one-way for anyone without the key, and
// independent of the entry title so identical titles never collide or leak.
// No file in this layout contains plaintext secret material.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	apperrors "github.com/kv-gits/rpm/internal/errors"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

const (
	saltFile   = "salt"
	verifyFile = "verify"
	entriesDir = "entries"
	recordExt  = ".vault"

	dirPerm  = 0o700
	filePerm = 0o600
)

// Store persists encrypted password entries on the local filesystem.
//
// Concurrency: readers (Read, List) run concurrently under a read lock;
// structural mutations (Create, Update, Delete) are serialized per store, so
// concurrent writes to the same entry id never interleave. Master-key
// rotation takes the write lock for its whole duration and therefore excludes
// every other store operation.
type Store struct {
	mu          sync.RWMutex
	root        string
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
	logger      *slog.Logger
}

// NewStore creates a Store rooted at the given vault directory. The algorithm
// selects the AEAD scheme for all new encryptions; existing records are read
// with whatever algorithm tag they carry. Any interrupted rotation found on
// disk is rolled forward or back before the store is used.
func NewStore(
	root string,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) (*Store, error) {
	s := &Store{
		root:        root,
		aeadManager: aeadManager,
		algorithm:   algorithm,
		logger:      logger,
	}

	if err := s.recoverRotation(); err != nil {
		return nil, err
	}

	return s, nil
}

// Root returns the vault root directory.
func (s *Store) Root() string {
	return s.root
}

// Initialized reports whether the vault has a salt and verification hash.
func (s *Store) Initialized() bool {
	if _, err := os.Stat(s.saltPath()); err != nil {
		return false
	}
	_, err := os.Stat(s.verifyPath())
	return err == nil
}

// Init creates the vault layout with the given salt and verification hash.
// Fails with ErrVaultAlreadyInitialized if the vault already exists.
func (s *Store) Init(salt []byte, verificationHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Initialized() {
		return vaultDomain.ErrVaultAlreadyInitialized
	}
	if len(salt) != cryptoDomain.SaltSize {
		return cryptoDomain.ErrInvalidSaltSize
	}

	if err := os.MkdirAll(s.entriesPath(), dirPerm); err != nil {
		return apperrors.Wrap(err, "failed to create vault directory")
	}
	if err := writeFileAtomic(s.saltPath(), salt); err != nil {
		return apperrors.Wrap(err, "failed to write salt")
	}
	if err := writeFileAtomic(s.verifyPath(), []byte(verificationHash)); err != nil {
		return apperrors.Wrap(err, "failed to write verification hash")
	}

	s.logger.Info("vault initialized", slog.String("path", s.root))
	return nil
}

// Salt returns the vault's key-derivation salt.
func (s *Store) Salt() ([]byte, error) {
	salt, err := os.ReadFile(s.saltPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vaultDomain.ErrVaultNotInitialized
		}
		return nil, apperrors.Wrap(err, "failed to read salt")
	}
	if len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidSaltSize
	}
	return salt, nil
}

// VerificationHash returns the stored master-password verification hash.
func (s *Store) VerificationHash() (string, error) {
	hash, err := os.ReadFile(s.verifyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", vaultDomain.ErrVaultNotInitialized
		}
		return "", apperrors.Wrap(err, "failed to read verification hash")
	}
	return string(hash), nil
}

// Create encrypts the entry and writes its record under a fresh obfuscated
// name. The write is temp-file-then-rename: a crash never leaves a partial
// record visible under its final name.
func (s *Store) Create(entry *vaultDomain.PasswordEntry, key *cryptoDomain.MasterKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.entryName(entry.ID, key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(s.recordPath(name)); err == nil {
		return apperrors.Wrap(apperrors.ErrConflict, "entry already exists")
	}

	return s.writeRecord(name, entry, key)
}

// Read resolves the entry's obfuscated name and decrypts its record.
// Returns ErrEntryNotFound if no record exists, ErrIntegrityViolation if
// decryption fails — a wrong key and a tampered record are indistinguishable
// to the caller by design.
func (s *Store) Read(id uuid.UUID, key *cryptoDomain.MasterKey) (*vaultDomain.PasswordEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, err := s.entryName(id, key)
	if err != nil {
		return nil, err
	}
	return s.readRecord(name, key)
}

// Update re-encrypts the entry with a fresh nonce and atomically replaces its
// record. The record must already exist.
func (s *Store) Update(entry *vaultDomain.PasswordEntry, key *cryptoDomain.MasterKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.entryName(entry.ID, key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(s.recordPath(name)); err != nil {
		if os.IsNotExist(err) {
			return vaultDomain.ErrEntryNotFound
		}
		return apperrors.Wrap(err, "failed to stat record")
	}

	return s.writeRecord(name, entry, key)
}

// Delete removes the entry's record, overwriting its content with zeros first
// to reduce residual-data exposure where the filesystem allows it.
func (s *Store) Delete(id uuid.UUID, key *cryptoDomain.MasterKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.entryName(id, key)
	if err != nil {
		return err
	}
	path := s.recordPath(name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return vaultDomain.ErrEntryNotFound
		}
		return apperrors.Wrap(err, "failed to stat record")
	}

	return shredFile(path)
}

// List decrypts every record's payload and returns summaries sorted by title
// (case-insensitive, id tie-break). The record files themselves are the
// index, so the listing can never diverge from the record set.
func (s *Store) List(key *cryptoDomain.MasterKey) ([]vaultDomain.EntrySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.recordNames()
	if err != nil {
		return nil, err
	}

	summaries := make([]vaultDomain.EntrySummary, 0, len(names))
	for _, name := range names {
		entry, err := s.readRecord(name, key)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, entry.Summary())
	}

	vaultDomain.SortSummaries(summaries)
	return summaries, nil
}

// EntryCount returns the number of records without requiring a key.
func (s *Store) EntryCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.recordNames()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// entryName computes the obfuscated record filename for an entry id:
// hex(HMAC-SHA256(naming subkey, id)).
func (s *Store) entryName(id uuid.UUID, key *cryptoDomain.MasterKey) (string, error) {
	namingKey, err := key.NamingKey()
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, namingKey)
	mac.Write(id[:])
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// recordNames lists the obfuscated names of all records on disk.
func (s *Store) recordNames() ([]string, error) {
	dirEntries, err := os.ReadDir(s.entriesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vaultDomain.ErrVaultNotInitialized
		}
		return nil, apperrors.Wrap(err, "failed to read entries directory")
	}

	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), recordExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(de.Name(), recordExt))
	}
	return names, nil
}

// writeRecord encrypts the entry under the active algorithm and atomically
// writes its record file. The obfuscated name is the AEAD associated data,
// binding each record to its identity: a record copied under another name
// fails authentication.
func (s *Store) writeRecord(name string, entry *vaultDomain.PasswordEntry, key *cryptoDomain.MasterKey) error {
	return s.writeRecordTo(s.entriesPath(), name, entry, key)
}

// writeRecordTo is writeRecord targeting an explicit directory; rotation uses
// it to stage records outside the live entries directory.
func (s *Store) writeRecordTo(dir, name string, entry *vaultDomain.PasswordEntry, key *cryptoDomain.MasterKey) error {
	keyBytes, err := key.Bytes()
	if err != nil {
		return err
	}

	aead, err := s.aeadManager.CreateCipher(keyBytes, s.algorithm)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode entry")
	}
	defer cryptoDomain.Zero(payload)

	ciphertext, nonce, err := aead.Encrypt(payload, []byte(name))
	if err != nil {
		return apperrors.Wrap(err, "failed to encrypt entry")
	}

	record := vaultDomain.EncryptedRecord{
		Algorithm:  s.algorithm,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode record")
	}

	if err := writeFileAtomic(filepath.Join(dir, name+recordExt), data); err != nil {
		return apperrors.Wrap(err, "failed to write record")
	}
	return nil
}

// readRecord loads and decrypts the record with the given obfuscated name.
func (s *Store) readRecord(name string, key *cryptoDomain.MasterKey) (*vaultDomain.PasswordEntry, error) {
	data, err := os.ReadFile(s.recordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vaultDomain.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read record")
	}

	var record vaultDomain.EncryptedRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A record that does not parse is corruption, same class as a bad tag.
		return nil, cryptoDomain.ErrIntegrityViolation
	}

	keyBytes, err := key.Bytes()
	if err != nil {
		return nil, err
	}
	aead, err := s.aeadManager.CreateCipher(keyBytes, record.Algorithm)
	if err != nil {
		return nil, err
	}

	payload, err := aead.Decrypt(record.Ciphertext, record.Nonce, []byte(name))
	if err != nil {
		return nil, cryptoDomain.ErrIntegrityViolation
	}
	defer cryptoDomain.Zero(payload)

	var entry vaultDomain.PasswordEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, cryptoDomain.ErrIntegrityViolation
	}
	return &entry, nil
}

func (s *Store) saltPath() string    { return filepath.Join(s.root, saltFile) }
func (s *Store) verifyPath() string  { return filepath.Join(s.root, verifyFile) }
func (s *Store) entriesPath() string { return filepath.Join(s.root, entriesDir) }

func (s *Store) recordPath(name string) string {
	return filepath.Join(s.entriesPath(), name+recordExt)
}
