// Package usecase implements the envelope service: sealing tenant configs
// into printable envelopes and opening them again with the shared secret.
package usecase

import (
	"context"

	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
)

// EnvelopeUseCase is the public contract over the secret cache and the cipher.
type EnvelopeUseCase interface {
	// EncryptConfig returns the base64 envelope text for cfg.
	EncryptConfig(ctx context.Context, cfg *envelopeDomain.TenantConfig) (string, error)

	// DecryptConfig opens envelope text and returns the tenant config it carries.
	//
	// Errors are ErrMalformedEnvelope, ErrSecretUnavailable,
	// ErrAuthenticationFailed or ErrMalformedPayload.
	DecryptConfig(ctx context.Context, envelopeText string) (*envelopeDomain.TenantConfig, error)

	// ClearCache drops the cached secret so the next call fetches it again.
	ClearCache(ctx context.Context)
}
