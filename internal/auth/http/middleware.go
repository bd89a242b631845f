package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/kv-gits/rpm/internal/auth/service"
	authUseCase "github.com/kv-gits/rpm/internal/auth/usecase"
	apperrors "github.com/kv-gits/rpm/internal/errors"
	"github.com/kv-gits/rpm/internal/httputil"
)

// AuthenticationMiddleware guards vault endpoints with Bearer token sessions.
//
// The middleware:
//  1. Extracts the Bearer token from the Authorization header (case-insensitive)
//  2. Hashes the token using tokenService.HashToken()
//  3. Validates the session using sessionManager.Validate()
//  4. Stores the vault master key in the request context
//  5. Allows downstream handlers to access the key via GetMasterKey()
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer")
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired token → 401 Unauthorized (from SessionManager.Validate)
//
// All failure modes return the same 401 body so a caller cannot probe which
// tokens once existed.
func AuthenticationMiddleware(
	sessionManager authUseCase.SessionManager,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Hash the token for session lookup; the plain form is never stored.
		tokenHash := tokenService.HashToken(plainToken)

		masterKey, err := sessionManager.Validate(tokenHash)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithMasterKey(c.Request.Context(), masterKey)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
