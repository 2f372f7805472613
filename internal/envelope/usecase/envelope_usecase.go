package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	apperrors "github.com/allisson/qrseal/internal/errors"
	secretUseCase "github.com/allisson/qrseal/internal/secretstore/usecase"
)

type envelopeUseCase struct {
	secretProvider secretUseCase.SecretProvider
	cipher         cryptoService.EnvelopeCipher
}

// NewEnvelopeUseCase creates the envelope service.
func NewEnvelopeUseCase(
	secretProvider secretUseCase.SecretProvider,
	cipher cryptoService.EnvelopeCipher,
) EnvelopeUseCase {
	return &envelopeUseCase{
		secretProvider: secretProvider,
		cipher:         cipher,
	}
}

// deriveKey fetches the shared secret and derives the cipher key from it.
// The caller must Zero the returned key.
func (e *envelopeUseCase) deriveKey(ctx context.Context) (*cryptoDomain.DerivedKey, error) {
	secret, err := e.secretProvider.GetSecret(ctx)
	if err != nil {
		return nil, err
	}

	secretBytes := secret.Bytes()
	defer cryptoDomain.Zero(secretBytes)

	key := cryptoDomain.DeriveKey(secretBytes)
	return &key, nil
}

// EncryptConfig validates, serializes and seals cfg.
func (e *envelopeUseCase) EncryptConfig(ctx context.Context, cfg *envelopeDomain.TenantConfig) (string, error) {
	if cfg == nil {
		return "", apperrors.Wrap(envelopeDomain.ErrInvalidTenantConfig, "config is required")
	}
	if err := cfg.Validate(); err != nil {
		return "", apperrors.Wrap(envelopeDomain.ErrInvalidTenantConfig, err.Error())
	}

	payload, err := cfg.MarshalCanonical()
	if err != nil {
		return "", apperrors.Wrap(envelopeDomain.ErrInvalidTenantConfig, err.Error())
	}
	defer cryptoDomain.Zero(payload)

	key, err := e.deriveKey(ctx)
	if err != nil {
		return "", err
	}
	defer key.Zero()

	envelope, err := e.cipher.Seal(payload, key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to seal envelope")
	}

	return envelope.String(), nil
}

// DecryptConfig decodes, opens and parses envelopeText.
func (e *envelopeUseCase) DecryptConfig(
	ctx context.Context,
	envelopeText string,
) (*envelopeDomain.TenantConfig, error) {
	envelope, err := cryptoDomain.ParseEnvelopeText(envelopeText)
	if err != nil {
		return nil, err
	}

	key, err := e.deriveKey(ctx)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	plaintext, err := e.cipher.Open(envelope, key)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	return envelopeDomain.ParseTenantConfig(plaintext)
}

// ClearCache invalidates the secret cache.
func (e *envelopeUseCase) ClearCache(ctx context.Context) {
	e.secretProvider.Invalidate(ctx)
}
