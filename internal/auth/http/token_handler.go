package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	"github.com/allisson/qrseal/internal/auth/http/dto"
	authUseCase "github.com/allisson/qrseal/internal/auth/usecase"
	apperrors "github.com/allisson/qrseal/internal/errors"
	"github.com/allisson/qrseal/internal/httputil"
	customValidation "github.com/allisson/qrseal/internal/validation"
)

// TokenHandler exchanges client credentials for bearer tokens.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueTokenHandler issues a token.
// POST /v1/token - Returns 201 Created with {"token": ..., "expires_at": ...}.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "client_id: must be a valid UUID"),
			h.logger)
		return
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), &authDomain.IssueTokenInput{
		ClientID:     clientID,
		ClientSecret: req.ClientSecret,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.IssueTokenResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
	})
}
