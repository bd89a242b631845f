// Package domain defines authentication entities: sessions and their errors.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a time-limited authorization to use the unlocked vault.
//
// Only the SHA-256 hash of the bearer token is retained; the plain token is
// returned to the caller once at issue time and never stored. Sessions do not
// own key material — they reference the vault instance's single MasterKey,
// and all of them invalidate together when the vault is locked.
type Session struct {
	ID        uuid.UUID
	TokenHash string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
// Evaluated lazily on each use; there is no background sweep.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
