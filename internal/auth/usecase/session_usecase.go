// Package usecase implements the session lifecycle: master-password
// authentication, token validation and vault locking.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/kv-gits/rpm/internal/auth/domain"
	authService "github.com/kv-gits/rpm/internal/auth/service"
	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	cryptoService "github.com/kv-gits/rpm/internal/crypto/service"
	apperrors "github.com/kv-gits/rpm/internal/errors"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

// SessionManager issues and validates time-limited bearer tokens. It is the
// sole gate in front of the entry store for remote callers: no handler ever
// touches the master key except through Validate.
//
// State machine per vault instance:
//
//	Locked -> Authenticate succeeds -> Unlocked (MasterKey in memory)
//	       -> token issued          -> Authenticated(token)
//	       -> TTL elapses or LockAll -> Locked (key erased)
type SessionManager interface {
	// Authenticate verifies the master password and issues a session.
	// Returns the session and the plain bearer token (shown once).
	// Fails with ErrInvalidCredentials on a wrong password, with the same
	// observable behavior whether the password is wrong or the vault does
	// not exist.
	Authenticate(ctx context.Context, masterPassword string) (*authDomain.Session, string, error)

	// Validate resolves a token hash to the vault's master key. Expiry is
	// checked lazily on each use: an expired session never validates, not
	// even one instant past its deadline.
	Validate(tokenHash string) (*cryptoDomain.MasterKey, error)

	// Revoke invalidates a single session immediately.
	Revoke(tokenHash string)

	// LockAll drops every session and erases the master key from memory.
	// In-flight operations holding the old key reference cannot complete
	// further store mutations once the key is erased.
	LockAll()

	// Unlocked reports whether a master key is currently held in memory.
	Unlocked() bool
}

// VaultMetadata is the slice of the entry store the session manager needs:
// the persisted salt and verification hash.
type VaultMetadata interface {
	Salt() ([]byte, error)
	VerificationHash() (string, error)
}

// sessionManager implements SessionManager with an in-process session table.
// Sessions are deliberately not persisted: restarting the daemon locks the
// vault, which is the safe default.
type sessionManager struct {
	metadata       VaultMetadata
	keyDeriver     cryptoService.KeyDeriver
	passwordHasher cryptoService.PasswordHasher
	tokenService   authService.TokenService
	ttl            time.Duration
	logger         *slog.Logger

	mu        sync.Mutex
	masterKey *cryptoDomain.MasterKey
	sessions  map[string]*authDomain.Session

	// decoyHash keeps verification latency comparable when the vault has no
	// stored hash, so an uninitialized vault is indistinguishable from a
	// wrong password.
	decoyHash string

	// nowFunc is the time source, replaceable in tests for TTL boundaries.
	nowFunc func() time.Time
}

// NewSessionManager creates a SessionManager with the provided dependencies
// and a fixed token TTL.
func NewSessionManager(
	metadata VaultMetadata,
	keyDeriver cryptoService.KeyDeriver,
	passwordHasher cryptoService.PasswordHasher,
	tokenService authService.TokenService,
	ttl time.Duration,
	logger *slog.Logger,
) SessionManager {
	decoy, err := passwordHasher.HashPassword(uuid.NewString())
	if err != nil {
		decoy = ""
	}

	return &sessionManager{
		metadata:       metadata,
		keyDeriver:     keyDeriver,
		passwordHasher: passwordHasher,
		tokenService:   tokenService,
		ttl:            ttl,
		logger:         logger,
		sessions:       make(map[string]*authDomain.Session),
		decoyHash:      decoy,
		nowFunc:        time.Now,
	}
}

// Authenticate verifies the master password, derives or reuses the vault's
// master key, and issues a new session token.
func (s *sessionManager) Authenticate(
	ctx context.Context,
	masterPassword string,
) (*authDomain.Session, string, error) {
	storedHash, err := s.metadata.VerificationHash()
	if err != nil {
		if apperrors.Is(err, vaultDomain.ErrVaultNotInitialized) {
			// Burn the same verification work before failing, so the
			// missing vault is not observable through response timing.
			s.passwordHasher.VerifyPassword(masterPassword, s.decoyHash)
			return nil, "", authDomain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.passwordHasher.VerifyPassword(masterPassword, storedHash) {
		return nil, "", authDomain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First unlock (or unlock after LockAll) derives the key; later sessions
	// share the one key of this vault instance.
	if s.masterKey == nil || s.masterKey.Locked() {
		salt, err := s.metadata.Salt()
		if err != nil {
			return nil, "", err
		}
		key, err := s.keyDeriver.DeriveKey(masterPassword, salt)
		if err != nil {
			return nil, "", err
		}
		s.masterKey = key
	}

	plainToken, tokenHash, err := s.tokenService.GenerateToken()
	if err != nil {
		return nil, "", err
	}

	now := s.nowFunc().UTC()
	session := &authDomain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[tokenHash] = session

	s.logger.Debug("session issued",
		slog.String("session_id", session.ID.String()),
		slog.Time("expires_at", session.ExpiresAt))

	return session, plainToken, nil
}

// Validate resolves a token hash to the master key, expiring lazily.
func (s *sessionManager) Validate(tokenHash string) (*cryptoDomain.MasterKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[tokenHash]
	if !ok {
		return nil, authDomain.ErrInvalidToken
	}

	if session.Expired(s.nowFunc().UTC()) {
		delete(s.sessions, tokenHash)
		return nil, authDomain.ErrSessionExpired
	}

	if s.masterKey == nil || s.masterKey.Locked() {
		// Vault was locked while the session was alive.
		delete(s.sessions, tokenHash)
		return nil, authDomain.ErrInvalidToken
	}

	return s.masterKey, nil
}

// Revoke invalidates a single session immediately.
func (s *sessionManager) Revoke(tokenHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
}

// LockAll drops every session and erases the master key.
func (s *sessionManager) LockAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for hash := range s.sessions {
		delete(s.sessions, hash)
	}
	if s.masterKey != nil {
		s.masterKey.Zero()
		s.masterKey = nil
	}

	s.logger.Info("vault locked")
}

// Unlocked reports whether a master key is currently held.
func (s *sessionManager) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterKey != nil && !s.masterKey.Locked()
}
