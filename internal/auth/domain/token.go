package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is an issued bearer token. Only its SHA-256 hash is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ClientID  uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is no longer valid at now.
func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IssueTokenInput holds the client credentials exchanged for a token.
type IssueTokenInput struct {
	ClientID     uuid.UUID
	ClientSecret string //nolint:gosec // plain secret presented by the caller
}

// IssueTokenOutput carries the plain token, shown once.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
