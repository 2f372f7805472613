package domain

import (
	"github.com/allisson/qrseal/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrClientNotFound indicates no client has the requested ID.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrTokenNotFound indicates no stored token has the presented hash.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials covers unknown clients, wrong secrets and unknown
	// or expired tokens alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrClientInactive indicates a known client that has been disabled.
	ErrClientInactive = errors.Wrap(errors.ErrForbidden, "client is inactive")

	// ErrInvalidClient indicates a client definition rejected before it is stored.
	ErrInvalidClient = errors.Wrap(errors.ErrInvalidInput, "invalid client")
)
