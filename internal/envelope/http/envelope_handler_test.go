package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	"github.com/allisson/qrseal/internal/envelope/http/dto"
	"github.com/allisson/qrseal/internal/envelope/usecase/mocks"
	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// setupTestEnvelopeHandler creates a test envelope handler with a mocked use case.
func setupTestEnvelopeHandler(t *testing.T) (*EnvelopeHandler, *mocks.MockEnvelopeUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockEnvelopeUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewEnvelopeHandler(mockUseCase, logger), mockUseCase
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(body, &response))
	code, _ := response["error"].(string)
	return code
}

func TestEnvelopeHandler_EncryptHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestEnvelopeHandler(t)

		request := dto.EncryptRequest{TenantID: "acme", APIURL: "https://api.acme.com"}
		mockUseCase.On("EncryptConfig", mock.Anything, request.ToDomain()).
			Return("c2VhbGVkLWVudmVsb3Bl", nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", request)
		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.EncryptResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "c2VhbGVkLWVudmVsb3Bl", response.Envelope)
	})

	t.Run("Success_NumbersAndUnknownFieldsReachUseCase", func(t *testing.T) {
		handler, mockUseCase := setupTestEnvelopeHandler(t)

		expected := &envelopeDomain.TenantConfig{
			TenantID:         "acme",
			APIURL:           "https://api.acme.com",
			AdditionalConfig: map[string]any{"retries": json.Number("3"), "id": json.Number("9007199254740993")},
			Extra:            map[string]any{"region": "eu"},
		}
		mockUseCase.On("EncryptConfig", mock.Anything, expected).Return("c2VhbGVk", nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte(
			`{"tenantId":"acme","apiUrl":"https://api.acme.com","region":"eu",` +
				`"additionalConfig":{"retries":3,"id":9007199254740993}}`,
		)))
		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestEnvelopeHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))
		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeErrorCode(t, w.Body.Bytes()))
	})

	t.Run("Error_ValidationFailed", func(t *testing.T) {
		handler, _ := setupTestEnvelopeHandler(t)

		request := dto.EncryptRequest{TenantID: "acme", APIURL: "not-a-url"}
		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", request)
		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", decodeErrorCode(t, w.Body.Bytes()))
	})

	t.Run("Error_SecretUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupTestEnvelopeHandler(t)

		request := dto.EncryptRequest{TenantID: "acme", APIURL: "https://api.acme.com"}
		mockUseCase.On("EncryptConfig", mock.Anything, mock.Anything).
			Return("", apperrors.Join(secretDomain.ErrSecretUnavailable, errors.New("redis down"))).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/encrypt", request)
		handler.EncryptHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "secret_unavailable", decodeErrorCode(t, w.Body.Bytes()))
		assert.NotContains(t, w.Body.String(), "redis down")
	})
}

func TestEnvelopeHandler_DecryptHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestEnvelopeHandler(t)

		cfg := &envelopeDomain.TenantConfig{
			TenantID:         "acme",
			APIURL:           "https://api.acme.com",
			AdditionalConfig: map[string]any{"theme": "dark"},
		}
		mockUseCase.On("DecryptConfig", mock.Anything, "ZW52ZWxvcGU=").Return(cfg, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.DecryptRequest{Envelope: "ZW52ZWxvcGU="})
		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"tenantId":"acme","apiUrl":"https://api.acme.com","additionalConfig":{"theme":"dark"}}`,
			w.Body.String(),
		)
	})

	t.Run("Success_ExactNumbersAndExtraFields", func(t *testing.T) {
		handler, mockUseCase := setupTestEnvelopeHandler(t)

		cfg := &envelopeDomain.TenantConfig{
			TenantID:         "acme",
			APIURL:           "api.acme.com",
			AdditionalConfig: map[string]any{"id": json.Number("9007199254740993")},
			Extra:            map[string]any{"region": "eu"},
		}
		mockUseCase.On("DecryptConfig", mock.Anything, "ZW52ZWxvcGU=").Return(cfg, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.DecryptRequest{Envelope: "ZW52ZWxvcGU="})
		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t,
			`{"tenantId":"acme","apiUrl":"api.acme.com","additionalConfig":{"id":9007199254740993},"region":"eu"}`,
			w.Body.String(),
		)
	})

	t.Run("Error_EmptyEnvelope", func(t *testing.T) {
		handler, _ := setupTestEnvelopeHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.DecryptRequest{})
		handler.DecryptHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", decodeErrorCode(t, w.Body.Bytes()))
	})

	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{
			name:       "MalformedEnvelope",
			err:        cryptoDomain.ErrMalformedEnvelope,
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "malformed_envelope",
		},
		{
			name:       "AuthenticationFailed",
			err:        cryptoDomain.ErrAuthenticationFailed,
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "decryption_failed",
		},
		{
			name:       "MalformedPayload",
			err:        apperrors.Wrap(envelopeDomain.ErrMalformedPayload, "tenantId: cannot be blank"),
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "decryption_failed",
		},
		{
			name:       "SecretUnavailable",
			err:        apperrors.Join(secretDomain.ErrSecretUnavailable, secretDomain.ErrSecretNotFound),
			statusCode: http.StatusServiceUnavailable,
			errorCode:  "secret_unavailable",
		},
		{
			name:       "Internal",
			err:        errors.New("unexpected"),
			statusCode: http.StatusInternalServerError,
			errorCode:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run("Error_"+tt.name, func(t *testing.T) {
			handler, mockUseCase := setupTestEnvelopeHandler(t)
			mockUseCase.On("DecryptConfig", mock.Anything, "c2hvcnQ=").Return(nil, tt.err).Once()

			c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.DecryptRequest{Envelope: "c2hvcnQ="})
			handler.DecryptHandler(c)

			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, tt.errorCode, decodeErrorCode(t, w.Body.Bytes()))
		})
	}

	t.Run("AuthFailureAndBadPayloadLookIdentical", func(t *testing.T) {
		bodies := make([]string, 0, 2)
		for _, err := range []error{cryptoDomain.ErrAuthenticationFailed, envelopeDomain.ErrMalformedPayload} {
			handler, mockUseCase := setupTestEnvelopeHandler(t)
			mockUseCase.On("DecryptConfig", mock.Anything, mock.Anything).Return(nil, err).Once()

			c, w := createTestContext(http.MethodPost, "/v1/envelopes/decrypt", dto.DecryptRequest{Envelope: "AAAA"})
			handler.DecryptHandler(c)
			bodies = append(bodies, w.Body.String())
		}
		assert.Equal(t, bodies[0], bodies[1])
	})
}

func TestEnvelopeHandler_ClearCacheHandler(t *testing.T) {
	handler, mockUseCase := setupTestEnvelopeHandler(t)
	mockUseCase.On("ClearCache", mock.Anything).Return().Once()

	c, w := createTestContext(http.MethodPost, "/v1/envelopes/cache/clear", nil)
	handler.ClearCacheHandler(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}
