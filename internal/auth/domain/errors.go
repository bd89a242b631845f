package domain

import (
	"github.com/kv-gits/rpm/internal/errors"
)

// Authentication error definitions.
//
// All three map to 401 with an identical response shape: the HTTP layer must
// not let a caller distinguish a wrong master password from a nonexistent
// vault, nor probe which tokens once existed.
var (
	// ErrInvalidCredentials indicates master-password verification failed.
	// Returned for a wrong password and for an uninitialized vault alike,
	// with comparable latency, to resist enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates the presented bearer token matches no session.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrSessionExpired indicates the session existed but its TTL elapsed.
	ErrSessionExpired = errors.Wrap(errors.ErrUnauthorized, "session expired")
)
