package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	authService "github.com/allisson/qrseal/internal/auth/service"
	apperrors "github.com/allisson/qrseal/internal/errors"
)

type tokenUseCase struct {
	clientRepo    ClientRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
	expiration    time.Duration
	now           func() time.Time
}

// NewTokenUseCase creates the token use case. Issued tokens live for expiration.
func NewTokenUseCase(
	clientRepo ClientRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
	expiration time.Duration,
) TokenUseCase {
	return &tokenUseCase{
		clientRepo:    clientRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
		expiration:    expiration,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// activeClient loads clientID, folding a missing client into ErrInvalidCredentials.
func (t *tokenUseCase) activeClient(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	client, err := t.clientRepo.Get(ctx, clientID)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrClientNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}
	return client, nil
}

func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	client, err := t.activeClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	// The secret is checked first so an inactive client is only revealed to
	// a caller who knows its secret.
	if !t.secretService.CompareSecret(input.ClientSecret, client.Secret) {
		return nil, authDomain.ErrInvalidCredentials
	}
	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := t.now()
	token := &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ClientID:  client.ID,
		ExpiresAt: now.Add(t.expiration),
		CreatedAt: now,
	}
	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if token.IsExpired(t.now()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	client, err := t.activeClient(ctx, token.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}
	return client, nil
}
