// Package http provides HTTP handlers for password entry operations.
// Entries are encrypted at rest and decrypted only for an authenticated
// session's request.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/kv-gits/rpm/internal/auth/http"
	apperrors "github.com/kv-gits/rpm/internal/errors"
	"github.com/kv-gits/rpm/internal/httputil"
	customValidation "github.com/kv-gits/rpm/internal/validation"
	"github.com/kv-gits/rpm/internal/vault/http/dto"
	vaultUseCase "github.com/kv-gits/rpm/internal/vault/usecase"
)

// PasswordHandler handles HTTP requests for password entry operations.
// It resolves the session's master key from the request context and
// coordinates with the VaultUseCase.
type PasswordHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewPasswordHandler creates a new password handler with required dependencies.
func NewPasswordHandler(
	vaultUseCase vaultUseCase.VaultUseCase,
	logger *slog.Logger,
) *PasswordHandler {
	return &PasswordHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// CreateHandler creates a new password entry.
// POST /api/passwords - Requires an authenticated session.
// Returns 201 Created with the new entry's id and metadata (never the secret).
func (h *PasswordHandler) CreateHandler(c *gin.Context) {
	key, ok := authHTTP.GetMasterKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	input := req.ToInput()
	if err := input.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entry, err := h.vaultUseCase.CreateEntry(c.Request.Context(), key, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEntryToCreateResponse(entry))
}

// ListHandler lists all entries as decrypted summaries sorted by title.
// GET /api/passwords - Requires an authenticated session.
// Returns 200 OK with metadata only; passwords never appear in listings.
func (h *PasswordHandler) ListHandler(c *gin.Context) {
	key, ok := authHTTP.GetMasterKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	summaries, err := h.vaultUseCase.ListEntries(c.Request.Context(), key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSummariesToListResponse(summaries))
}

// GetHandler retrieves and decrypts a single entry by id.
// GET /api/passwords/:id - Requires an authenticated session.
// Returns 200 OK with the full entry including the secret value.
func (h *PasswordHandler) GetHandler(c *gin.Context) {
	key, ok := authHTTP.GetMasterKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := parseEntryID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entry, err := h.vaultUseCase.GetEntry(c.Request.Context(), key, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntryToResponse(entry))
}

// UpdateHandler applies a partial update to an entry and re-encrypts it.
// PUT /api/passwords/:id - Requires an authenticated session.
// Returns 200 OK with the updated entry.
func (h *PasswordHandler) UpdateHandler(c *gin.Context) {
	key, ok := authHTTP.GetMasterKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := parseEntryID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	input := req.ToInput()
	if err := input.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entry, err := h.vaultUseCase.UpdateEntry(c.Request.Context(), key, id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntryToResponse(entry))
}

// DeleteHandler removes an entry.
// DELETE /api/passwords/:id - Requires an authenticated session.
// Returns 204 No Content.
func (h *PasswordHandler) DeleteHandler(c *gin.Context) {
	key, ok := authHTTP.GetMasterKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := parseEntryID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.vaultUseCase.DeleteEntry(c.Request.Context(), key, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseEntryID extracts and parses the :id path parameter.
func parseEntryID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id format: must be a valid UUID")
	}
	return id, nil
}
