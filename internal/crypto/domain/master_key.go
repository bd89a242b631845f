package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"sync"

	"github.com/kv-gits/rpm/internal/errors"
)

// ErrKeyLocked indicates the master key has been erased because the vault was
// locked. Operations that still hold a reference to the key must fail instead
// of proceeding with zeroed key material.
var ErrKeyLocked = errors.Wrap(errors.ErrUnauthorized, "master key locked")

// entryNameLabel is the domain-separation label for the filename-obfuscation
// subkey. Changing it would rename every record on disk.
const entryNameLabel = "rpm/entry-name/v1"

// MasterKey is the vault's symmetric encryption key, derived from the master
// password and the vault salt. It exists only in process memory for the
// lifetime of an unlocked vault and owns its key material: the bytes are
// erased in place when the vault is locked, and every accessor fails once
// that has happened.
//
// The key is shared by all concurrent sessions of one unlocked vault
// instance; locking the vault invalidates them together.
type MasterKey struct {
	mu     sync.RWMutex
	key    []byte
	locked bool
}

// NewMasterKey creates a MasterKey owning a copy of the provided key material.
// The caller should zero its own copy after the call. Returns ErrInvalidKeySize
// unless the key is exactly KeySize bytes.
func NewMasterKey(key []byte) (*MasterKey, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	owned := make([]byte, KeySize)
	copy(owned, key)

	return &MasterKey{key: owned}, nil
}

// Bytes returns the raw key material for cipher construction. The returned
// slice aliases the key's owned buffer and must not be retained or persisted.
// Returns ErrKeyLocked after Zero has been called.
func (m *MasterKey) Bytes() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.locked {
		return nil, ErrKeyLocked
	}
	return m.key, nil
}

// NamingKey derives the subkey used for the keyed one-way filename transform.
// The subkey is bound to the master key through HMAC-SHA256 with a fixed
// label, so obfuscated names are deterministic per (entry id, master key)
// while revealing nothing without the key. Returns ErrKeyLocked after Zero.
func (m *MasterKey) NamingKey() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.locked {
		return nil, ErrKeyLocked
	}

	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(entryNameLabel))
	return mac.Sum(nil), nil
}

// Zero erases the key material in place and marks the key locked. It is safe
// to call more than once. In-flight operations that obtained the raw bytes
// before Zero may still fail their AEAD authentication, but no new operation
// can start with this key.
func (m *MasterKey) Zero() {
	m.mu.Lock()
	defer m.mu.Unlock()

	Zero(m.key)
	m.locked = true
}

// Locked reports whether the key has been erased.
func (m *MasterKey) Locked() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locked
}
