// Package service implements the secret fetchers that read the shared secret
// from its remote configuration store. Each fetcher performs one idempotent
// read per call and never caches; caching is the secret cache's job.
package service

import (
	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// secretFromDocument extracts the secret field from a decoded configuration document.
//
// The field must be present and hold a non-empty string; anything else is
// ErrSecretFieldMissing.
func secretFromDocument(doc map[string]any, field string) (secretDomain.Secret, error) {
	raw, ok := doc[field]
	if !ok {
		return secretDomain.Secret{}, apperrors.Wrapf(
			secretDomain.ErrSecretFieldMissing,
			"field %q not present",
			field,
		)
	}

	value, ok := raw.(string)
	if !ok {
		return secretDomain.Secret{}, apperrors.Wrapf(
			secretDomain.ErrSecretFieldMissing,
			"field %q has type %T, expected string",
			field,
			raw,
		)
	}

	if value == "" {
		return secretDomain.Secret{}, apperrors.Wrapf(
			secretDomain.ErrSecretFieldMissing,
			"field %q is empty",
			field,
		)
	}

	return secretDomain.NewSecret(value), nil
}
