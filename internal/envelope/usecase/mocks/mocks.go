// Package mocks provides mock implementations for testing envelope consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	envelopeDomain "github.com/allisson/qrseal/internal/envelope/domain"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// MockEnvelopeUseCase is a mock implementation of EnvelopeUseCase for testing.
type MockEnvelopeUseCase struct {
	mock.Mock
}

// EncryptConfig mocks the EncryptConfig method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) EncryptConfig(ctx context.Context, cfg *envelopeDomain.TenantConfig) (string, error) {
	args := m.Called(ctx, cfg)
	return args.String(0), args.Error(1)
}

// DecryptConfig mocks the DecryptConfig method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) DecryptConfig(
	ctx context.Context,
	envelopeText string,
) (*envelopeDomain.TenantConfig, error) {
	args := m.Called(ctx, envelopeText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*envelopeDomain.TenantConfig), args.Error(1)
}

// ClearCache mocks the ClearCache method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) ClearCache(ctx context.Context) {
	m.Called(ctx)
}

// MockSecretProvider is a mock implementation of SecretProvider for testing.
type MockSecretProvider struct {
	mock.Mock
}

// GetSecret mocks the GetSecret method of SecretProvider.
func (m *MockSecretProvider) GetSecret(ctx context.Context) (secretDomain.Secret, error) {
	args := m.Called(ctx)
	return args.Get(0).(secretDomain.Secret), args.Error(1)
}

// Invalidate mocks the Invalidate method of SecretProvider.
func (m *MockSecretProvider) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// State mocks the State method of SecretProvider.
func (m *MockSecretProvider) State() secretDomain.State {
	args := m.Called()
	return args.Get(0).(secretDomain.State)
}
