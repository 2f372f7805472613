// Package usecase implements the in-process secret cache: a single-flight,
// invalidatable holder of the shared secret in front of a SecretFetcher.
package usecase

import (
	"context"

	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// SecretFetcher performs one idempotent read of the shared secret from the
// remote configuration store. Implementations report a missing document with
// ErrSecretNotFound and a missing or mistyped field with ErrSecretFieldMissing.
type SecretFetcher interface {
	Fetch(ctx context.Context) (secretDomain.Secret, error)
}

// SecretProvider hands out the shared secret to the envelope service.
type SecretProvider interface {
	// GetSecret returns the cached secret, fetching it once if needed.
	// Every failure is reported as ErrSecretUnavailable.
	GetSecret(ctx context.Context) (secretDomain.Secret, error)

	// Invalidate drops the cached secret so the next GetSecret fetches again.
	Invalidate(ctx context.Context)

	// State reports the current cache state.
	State() secretDomain.State
}

// SecretWriter stores the shared secret into a writable configuration store.
type SecretWriter interface {
	PutSecret(ctx context.Context, location secretDomain.Location, value string) error
}
