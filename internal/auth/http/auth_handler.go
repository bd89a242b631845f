package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kv-gits/rpm/internal/auth/http/dto"
	authUseCase "github.com/kv-gits/rpm/internal/auth/usecase"
	"github.com/kv-gits/rpm/internal/httputil"
	customValidation "github.com/kv-gits/rpm/internal/validation"
)

// AuthHandler handles HTTP requests for vault authentication.
type AuthHandler struct {
	sessionManager authUseCase.SessionManager
	logger         *slog.Logger
}

// NewAuthHandler creates a new authentication handler with required dependencies.
func NewAuthHandler(
	sessionManager authUseCase.SessionManager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// AuthenticateHandler verifies the master password and issues a session token.
// POST /api/auth - No authentication required (this is the authentication endpoint).
// Returns 200 OK with the plain token and its expiry, or 401 on invalid
// credentials. The 401 body is identical whether the password is wrong or the
// vault has never been initialized.
func (h *AuthHandler) AuthenticateHandler(c *gin.Context) {
	var req dto.AuthenticateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, plainToken, err := h.sessionManager.Authenticate(c.Request.Context(), req.MasterPassword)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSessionToAuthenticateResponse(session, plainToken)
	c.JSON(http.StatusOK, response)
}
