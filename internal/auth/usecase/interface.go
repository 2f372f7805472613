// Package usecase issues bearer tokens to API clients and authenticates them.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
)

// ClientRepository persists clients.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error
	// Get returns ErrClientNotFound when no client has clientID.
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)
}

// TokenRepository persists issued tokens by hash.
type TokenRepository interface {
	Create(ctx context.Context, token *authDomain.Token) error
	// GetByTokenHash returns ErrTokenNotFound when no token has tokenHash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
}

// ClientUseCase manages API clients.
type ClientUseCase interface {
	// Create stores a new client with a generated secret and returns the
	// plain secret once.
	Create(ctx context.Context, input *authDomain.CreateClientInput) (*authDomain.CreateClientOutput, error)
}

// TokenUseCase exchanges client credentials for bearer tokens.
type TokenUseCase interface {
	// Issue checks the credentials and stores a new token. Unknown clients
	// and wrong secrets both return ErrInvalidCredentials.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash to its active client.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error)
}
