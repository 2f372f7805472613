package domain

import (
	"github.com/allisson/qrseal/internal/errors"
)

// Secret acquisition error definitions.
//
// Fetchers report ErrSecretNotFound or ErrSecretFieldMissing. The cache joins
// every failure with ErrSecretUnavailable, which is what callers match on;
// the fetcher cause stays reachable through errors.Is for logging.
var (
	// ErrSecretUnavailable indicates the secret could not be obtained: the
	// record or field is missing, the store is unreachable, or the fetch timed out.
	//
	// HTTP Status: 503 Service Unavailable
	ErrSecretUnavailable = errors.Wrap(errors.ErrUnavailable, "secret unavailable")

	// ErrSecretNotFound indicates the configuration document does not exist.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret document not found")

	// ErrSecretFieldMissing indicates the document exists but the secret field
	// is absent, empty or not a string.
	ErrSecretFieldMissing = errors.Wrap(errors.ErrInvalidInput, "secret field missing or invalid")
)
