package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/qrseal/internal/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{
			name:       "not found",
			err:        apperrors.Wrap(apperrors.ErrNotFound, "document"),
			statusCode: http.StatusNotFound,
			errorCode:  "not_found",
		},
		{
			name:       "invalid input",
			err:        apperrors.Wrap(apperrors.ErrInvalidInput, "bad field"),
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "invalid_input",
		},
		{
			name:       "unauthorized",
			err:        apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials"),
			statusCode: http.StatusUnauthorized,
			errorCode:  "unauthorized",
		},
		{
			name:       "forbidden",
			err:        apperrors.Wrap(apperrors.ErrForbidden, "client is inactive"),
			statusCode: http.StatusForbidden,
			errorCode:  "forbidden",
		},
		{
			name:       "unavailable",
			err:        apperrors.Join(apperrors.ErrUnavailable, errors.New("redis: connection refused")),
			statusCode: http.StatusServiceUnavailable,
			errorCode:  "service_unavailable",
		},
		{
			name:       "internal",
			err:        errors.New("unexpected"),
			statusCode: http.StatusInternalServerError,
			errorCode:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.statusCode, w.Code)
			response := decodeError(t, w)
			assert.Equal(t, tt.errorCode, response.Error)
		})
	}

	t.Run("internal details are hidden", func(t *testing.T) {
		c, w := newTestContext()

		HandleErrorGin(c, errors.New("dial tcp 10.0.0.1:6379"), logger)

		assert.NotContains(t, w.Body.String(), "10.0.0.1")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()

		HandleErrorGin(c, nil, logger)

		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("invalid character"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decodeError(t, w).Error)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()

	HandleValidationErrorGin(c, errors.New("tenantId: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "validation_error", response.Error)
	assert.Contains(t, response.Message, "tenantId")
}

func TestWriteErrorGin_AttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return "req-123"
	})))
	router.POST("/v1/envelopes/decrypt", func(c *gin.Context) {
		HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "bad envelope"), nil)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/envelopes/decrypt", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "req-123", response.RequestID)
	assert.Contains(t, response.Message, "bad envelope")
}

func TestWriteErrorGin_LogLevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	c, _ := newTestContext()
	WriteErrorGin(c, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation_error"}, errors.New("bad"), logger)
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	c, _ = newTestContext()
	WriteErrorGin(c, http.StatusInternalServerError, ErrorResponse{Error: "internal_error"}, errors.New("boom"), logger)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
