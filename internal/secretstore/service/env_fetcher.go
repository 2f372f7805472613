package service

import (
	"context"

	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// EnvFetcher serves a secret supplied directly through configuration
// (SECRET_VALUE). Intended for development and tests.
type EnvFetcher struct {
	value string
}

// NewEnvFetcher creates a fetcher that returns value.
func NewEnvFetcher(value string) *EnvFetcher {
	return &EnvFetcher{value: value}
}

// Fetch returns the configured value, or ErrSecretFieldMissing when it is empty.
func (f *EnvFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	if f.value == "" {
		return secretDomain.Secret{}, apperrors.Wrap(secretDomain.ErrSecretFieldMissing, "SECRET_VALUE is empty")
	}
	return secretDomain.NewSecret(f.value), nil
}
