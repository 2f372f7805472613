// Package httputil writes the JSON error bodies shared by every endpoint.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/qrseal/internal/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// errorKinds maps the generic error kinds to responses, first match wins.
// A nil message means the error text is safe to return.
var errorKinds = []struct {
	kind       error
	statusCode int
	code       string
	message    *string
}{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", ptr("The requested resource was not found")},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", nil},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", ptr("Authentication is required")},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", ptr("You don't have permission to access this resource")},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "service_unavailable", ptr("A required dependency is unavailable, retry later")},
}

func ptr(s string) *string { return &s }

// HandleErrorGin maps domain error kinds to HTTP status codes and writes a JSON response.
// Handlers that need finer mapping check their own sentinels first and fall back here.
// Unknown errors become a 500 that hides the cause.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	for _, k := range errorKinds {
		if !apperrors.Is(err, k.kind) {
			continue
		}
		message := err.Error()
		if k.message != nil {
			message = *k.message
		}
		WriteErrorGin(c, k.statusCode, ErrorResponse{Error: k.code, Message: message}, err, logger)
		return
	}

	WriteErrorGin(c, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}, err, logger)
}

// WriteErrorGin logs err and writes response with the request id attached.
// Client errors log at warn, server errors at error. Only response reaches
// the client; the full chain stays in the log.
func WriteErrorGin(c *gin.Context, statusCode int, response ErrorResponse, err error, logger *slog.Logger) {
	response.RequestID = requestid.Get(c)

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.String("request_id", response.RequestID),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// HandleBadRequestGin writes a 400 for a body that is not valid JSON.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	WriteErrorGin(c, http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	}, err, logger)
}

// HandleValidationErrorGin writes a 422 listing the invalid fields.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	WriteErrorGin(c, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}, err, logger)
}
