// Package domain defines the tenant configuration record carried inside
// envelopes and the envelope service errors.
package domain

import (
	"github.com/allisson/qrseal/internal/errors"
)

// Envelope service error definitions.
var (
	// ErrInvalidTenantConfig indicates a record rejected before encryption.
	ErrInvalidTenantConfig = errors.Wrap(errors.ErrInvalidInput, "invalid tenant config")

	// ErrMalformedPayload indicates authenticated plaintext that is not a valid tenant config.
	ErrMalformedPayload = errors.Wrap(errors.ErrInvalidInput, "malformed payload")
)
