// Package http provides HTTP handlers for sealing and opening tenant config envelopes.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	"github.com/allisson/qrseal/internal/envelope/http/dto"
	envelopeUseCase "github.com/allisson/qrseal/internal/envelope/usecase"
	apperrors "github.com/allisson/qrseal/internal/errors"
	"github.com/allisson/qrseal/internal/httputil"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
	customValidation "github.com/allisson/qrseal/internal/validation"
)

// EnvelopeHandler handles HTTP requests for envelope operations.
type EnvelopeHandler struct {
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	logger          *slog.Logger
}

// NewEnvelopeHandler creates a new envelope handler with required dependencies.
func NewEnvelopeHandler(envelopeUseCase envelopeUseCase.EnvelopeUseCase, logger *slog.Logger) *EnvelopeHandler {
	return &EnvelopeHandler{
		envelopeUseCase: envelopeUseCase,
		logger:          logger,
	}
}

// EncryptHandler seals a tenant config.
// POST /v1/envelopes/encrypt - Returns 200 OK with {"envelope": "<base64>"}.
func (h *EnvelopeHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	text, err := h.envelopeUseCase.EncryptConfig(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Envelope: text})
}

// DecryptHandler opens an envelope.
// POST /v1/envelopes/decrypt - Returns 200 OK with the tenant config.
func (h *EnvelopeHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	cfg, err := h.envelopeUseCase.DecryptConfig(c.Request.Context(), req.Envelope)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapTenantConfigToResponse(cfg))
}

// ClearCacheHandler drops the cached secret, e.g. after rotating it.
// POST /v1/envelopes/cache/clear - Returns 204 No Content.
func (h *EnvelopeHandler) ClearCacheHandler(c *gin.Context) {
	h.envelopeUseCase.ClearCache(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// handleError maps envelope failures to responses.
//
// A failed tag and an unparseable payload share one response so clients
// cannot tell them apart; the log keeps the distinction.
func (h *EnvelopeHandler) handleError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, cryptoDomain.ErrMalformedEnvelope):
		httputil.WriteErrorGin(c, http.StatusUnprocessableEntity, httputil.ErrorResponse{
			Error:   "malformed_envelope",
			Message: "The envelope is not valid base64 or is too short",
		}, err, h.logger)

	case apperrors.Is(err, cryptoDomain.ErrAuthenticationFailed),
		apperrors.Is(err, envelopeDomain.ErrMalformedPayload):
		httputil.WriteErrorGin(c, http.StatusUnprocessableEntity, httputil.ErrorResponse{
			Error:   "decryption_failed",
			Message: "The envelope could not be decrypted",
		}, err, h.logger)

	case apperrors.Is(err, envelopeDomain.ErrInvalidTenantConfig):
		httputil.HandleValidationErrorGin(c, err, h.logger)

	case apperrors.Is(err, secretDomain.ErrSecretUnavailable):
		httputil.WriteErrorGin(c, http.StatusServiceUnavailable, httputil.ErrorResponse{
			Error:   "secret_unavailable",
			Message: "The shared secret is unavailable, retry later",
		}, err, h.logger)

	default:
		httputil.HandleErrorGin(c, err, h.logger)
	}
}
