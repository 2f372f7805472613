// Package mocks provides mock implementations for testing auth consumers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenUseCase.
func (m *MockTokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

// Authenticate mocks the Authenticate method of TokenUseCase.
func (m *MockTokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

// MockClientUseCase is a mock implementation of ClientUseCase for testing.
type MockClientUseCase struct {
	mock.Mock
}

// Create mocks the Create method of ClientUseCase.
func (m *MockClientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateClientOutput), args.Error(1)
}

// MockClientRepository is a mock implementation of ClientRepository for testing.
type MockClientRepository struct {
	mock.Mock
}

// Create mocks the Create method of ClientRepository.
func (m *MockClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	return m.Called(ctx, client).Error(0)
}

// Get mocks the Get method of ClientRepository.
func (m *MockClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository for testing.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method of TokenRepository.
func (m *MockTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	return m.Called(ctx, token).Error(0)
}

// GetByTokenHash mocks the GetByTokenHash method of TokenRepository.
func (m *MockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

// MockSecretService is a mock implementation of SecretService for testing.
type MockSecretService struct {
	mock.Mock
}

// GenerateSecret mocks the GenerateSecret method of SecretService.
func (m *MockSecretService) GenerateSecret() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashSecret mocks the HashSecret method of SecretService.
func (m *MockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

// CompareSecret mocks the CompareSecret method of SecretService.
func (m *MockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	return m.Called(plainSecret, hashedSecret).Bool(0)
}

// MockTokenService is a mock implementation of TokenService for testing.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method of TokenService.
func (m *MockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashToken mocks the HashToken method of TokenService.
func (m *MockTokenService) HashToken(plainToken string) string {
	return m.Called(plainToken).String(0)
}
