package usecase_test

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	"github.com/allisson/qrseal/internal/envelope/usecase"
	"github.com/allisson/qrseal/internal/envelope/usecase/mocks"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
	secretService "github.com/allisson/qrseal/internal/secretstore/service"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
)

func newCipher(t *testing.T, alg cryptoDomain.Algorithm) cryptoService.EnvelopeCipher {
	t.Helper()
	c, err := cryptoService.NewEnvelopeCipher(cryptoService.NewAEADManager(), alg)
	require.NoError(t, err)
	return c
}

// newUseCaseWithSecret wires the real cache and cipher around a fixed secret.
func newUseCaseWithSecret(t *testing.T, secret string) usecase.EnvelopeUseCase {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := secretUseCase.NewSecretCache(secretService.NewEnvFetcher(secret), time.Second, nil, logger)
	return usecase.NewEnvelopeUseCase(cache, newCipher(t, cryptoDomain.AESGCM))
}

func acmeConfig() *envelopeDomain.TenantConfig {
	return &envelopeDomain.TenantConfig{TenantID: "acme", APIURL: "https://api.acme.com"}
}

func TestEnvelopeUseCase_ConcreteScenario(t *testing.T) {
	ctx := context.Background()
	encrypter := newUseCaseWithSecret(t, "test-secret-key")

	text, err := encrypter.EncryptConfig(ctx, acmeConfig())
	require.NoError(t, err)
	_, err = base64.StdEncoding.DecodeString(text)
	require.NoError(t, err)

	cfg, err := newUseCaseWithSecret(t, "test-secret-key").DecryptConfig(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, acmeConfig(), cfg)

	cfg, err = newUseCaseWithSecret(t, "wrong-secret").DecryptConfig(ctx, text)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
}

func TestEnvelopeUseCase_InteropWithPlainAESGCM(t *testing.T) {
	text, err := newUseCaseWithSecret(t, "test-secret-key").EncryptConfig(context.Background(), acmeConfig())
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(text)
	require.NoError(t, err)

	// Decrypt the way the browser decoder does: SHA-256 key, 12-byte IV prefix,
	// tag appended to the ciphertext.
	key := sha256.Sum256([]byte("test-secret-key"))
	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	plaintext, err := gcm.Open(nil, raw[:12], raw[12:], nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tenantId":"acme","apiUrl":"https://api.acme.com"}`, string(plaintext))
}

func TestEnvelopeUseCase_RoundTrip(t *testing.T) {
	ctx := context.Background()

	configs := []*envelopeDomain.TenantConfig{
		acmeConfig(),
		{
			TenantID:     "globex",
			APIURL:       "https://api.globex.example/v2",
			AuthURL:      "https://login.globex.example/oauth2/token",
			ClientID:     "scanner-app",
			ClientSecret: "pa$$w0rd with spaces & symbols <>",
			AdditionalConfig: map[string]any{
				"region":   "eu-west-1",
				"features": []any{"offline", "sso"},
				"limits":   map[string]any{"maxUsers": 250, "quota": uint64(9007199254740993)},
				"beta":     true,
			},
			Extra: map[string]any{"channel": "beta", "version": 2},
		},
		{TenantID: "ünïcødé-租户", APIURL: "http://localhost:8080"},
	}

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			provider := &mocks.MockSecretProvider{}
			provider.On("GetSecret", mock.Anything).Return(secretDomain.NewSecret("round-trip"), nil)
			uc := usecase.NewEnvelopeUseCase(provider, newCipher(t, alg))

			for _, cfg := range configs {
				text, err := uc.EncryptConfig(ctx, cfg)
				require.NoError(t, err)

				decrypted, err := uc.DecryptConfig(ctx, text)
				require.NoError(t, err)
				expected := cfg.Normalize()
				assert.Equal(t, &expected, decrypted)
			}
		})
	}
}

func TestEnvelopeUseCase_EncryptIsNondeterministic(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseWithSecret(t, "test-secret-key")

	first, err := uc.EncryptConfig(ctx, acmeConfig())
	require.NoError(t, err)
	second, err := uc.EncryptConfig(ctx, acmeConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, text := range []string{first, second} {
		cfg, err := uc.DecryptConfig(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, acmeConfig(), cfg)
	}
}

func TestEnvelopeUseCase_TamperDetection(t *testing.T) {
	ctx := context.Background()
	uc := newUseCaseWithSecret(t, "test-secret-key")

	text, err := uc.EncryptConfig(ctx, acmeConfig())
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(text)
	require.NoError(t, err)

	for i := range raw {
		tampered := append([]byte(nil), raw...)
		tampered[i] ^= 0x01

		cfg, err := uc.DecryptConfig(ctx, base64.StdEncoding.EncodeToString(tampered))
		assert.Nil(t, cfg, "byte %d", i)
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed, "byte %d", i)
	}
}

func TestEnvelopeUseCase_MalformedEnvelope(t *testing.T) {
	ctx := context.Background()
	provider := &mocks.MockSecretProvider{}
	uc := usecase.NewEnvelopeUseCase(provider, newCipher(t, cryptoDomain.AESGCM))

	tests := []struct {
		name string
		text string
	}{
		{name: "short", text: "short"},
		{name: "empty", text: ""},
		{name: "not base64", text: "%%%not-base64%%%"},
		{name: "27 bytes", text: base64.StdEncoding.EncodeToString(make([]byte, 27))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := uc.DecryptConfig(ctx, tt.text)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, cryptoDomain.ErrMalformedEnvelope)
		})
	}

	// malformed input is rejected before the secret is touched
	provider.AssertNotCalled(t, "GetSecret", mock.Anything)
}

func TestEnvelopeUseCase_MalformedPayload(t *testing.T) {
	ctx := context.Background()
	provider := &mocks.MockSecretProvider{}
	provider.On("GetSecret", mock.Anything).Return(secretDomain.NewSecret("test-secret-key"), nil)
	envelopeCipher := newCipher(t, cryptoDomain.AESGCM)
	uc := usecase.NewEnvelopeUseCase(provider, envelopeCipher)

	key := cryptoDomain.DeriveKey([]byte("test-secret-key"))
	for _, payload := range []string{"not json", `{"apiUrl":"https://api.acme.com"}`, `[]`} {
		envelope, err := envelopeCipher.Seal([]byte(payload), &key)
		require.NoError(t, err)

		cfg, err := uc.DecryptConfig(ctx, envelope.String())
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedPayload)
		assert.NotErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	}
}

func TestEnvelopeUseCase_EncryptConfig_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_InvalidConfig", func(t *testing.T) {
		provider := &mocks.MockSecretProvider{}
		uc := usecase.NewEnvelopeUseCase(provider, newCipher(t, cryptoDomain.AESGCM))

		for _, cfg := range []*envelopeDomain.TenantConfig{
			nil,
			{APIURL: "https://api.acme.com"},
			{TenantID: "acme", APIURL: "not a url"},
		} {
			text, err := uc.EncryptConfig(ctx, cfg)
			assert.Empty(t, text)
			assert.ErrorIs(t, err, envelopeDomain.ErrInvalidTenantConfig)
		}
		provider.AssertNotCalled(t, "GetSecret", mock.Anything)
	})

	t.Run("Error_SecretUnavailable", func(t *testing.T) {
		provider := &mocks.MockSecretProvider{}
		unavailable := errors.Join(secretDomain.ErrSecretUnavailable, secretDomain.ErrSecretNotFound)
		provider.On("GetSecret", mock.Anything).Return(secretDomain.Secret{}, unavailable)
		uc := usecase.NewEnvelopeUseCase(provider, newCipher(t, cryptoDomain.AESGCM))

		text, err := uc.EncryptConfig(ctx, acmeConfig())
		assert.Empty(t, text)
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)

		cfg, err := uc.DecryptConfig(ctx, base64.StdEncoding.EncodeToString(make([]byte, 40)))
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, secretDomain.ErrSecretUnavailable)
	})
}

func TestEnvelopeUseCase_ClearCache(t *testing.T) {
	provider := &mocks.MockSecretProvider{}
	provider.On("Invalidate", mock.Anything).Return().Once()
	uc := usecase.NewEnvelopeUseCase(provider, newCipher(t, cryptoDomain.AESGCM))

	uc.ClearCache(context.Background())

	provider.AssertExpectations(t)
}

// countingFetcher counts fetches and holds each one briefly so concurrent
// callers overlap.
type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	f.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return secretDomain.NewSecret("test-secret-key"), nil
}

func TestEnvelopeUseCase_SingleFetchUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	fetcher := &countingFetcher{}
	cache := secretUseCase.NewSecretCache(fetcher, time.Second, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	uc := usecase.NewEnvelopeUseCase(cache, newCipher(t, cryptoDomain.AESGCM))

	run := func() {
		var wg sync.WaitGroup
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				text, err := uc.EncryptConfig(ctx, acmeConfig())
				if !assert.NoError(t, err) {
					return
				}
				cfg, err := uc.DecryptConfig(ctx, text)
				assert.NoError(t, err)
				assert.Equal(t, acmeConfig(), cfg)
			}()
		}
		wg.Wait()
	}

	run()
	assert.Equal(t, int32(1), fetcher.calls.Load())

	uc.ClearCache(ctx)
	run()
	assert.Equal(t, int32(2), fetcher.calls.Load())
}
