package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	authService "github.com/allisson/qrseal/internal/auth/service"
	apperrors "github.com/allisson/qrseal/internal/errors"
)

type clientUseCase struct {
	clientRepo    ClientRepository
	secretService authService.SecretService
}

// NewClientUseCase creates the client use case.
func NewClientUseCase(clientRepo ClientRepository, secretService authService.SecretService) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}

func (u *clientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	if input == nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidClient, "input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidClient, err.Error())
	}

	plainSecret, hashedSecret, err := u.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	client := &authDomain.Client{
		ID:        uuid.Must(uuid.NewV7()),
		Secret:    hashedSecret,
		Name:      input.Name,
		IsActive:  input.IsActive,
		Policies:  input.Policies,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &authDomain.CreateClientOutput{
		ID:          client.ID,
		PlainSecret: plainSecret,
	}, nil
}
