package dto

import (
	"time"

	authDomain "github.com/kv-gits/rpm/internal/auth/domain"
)

// AuthenticateResponse contains the issued session token and its expiry.
// The plain token appears here once and is never persisted.
type AuthenticateResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapSessionToAuthenticateResponse converts a session and its plain token to
// the response representation.
func MapSessionToAuthenticateResponse(session *authDomain.Session, plainToken string) AuthenticateResponse {
	return AuthenticateResponse{
		Token:     plainToken,
		ExpiresAt: session.ExpiresAt,
	}
}
