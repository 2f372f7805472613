package service

import (
	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	apperrors "github.com/allisson/qrseal/internal/errors"
)

// cipherFactories maps each envelope algorithm to its AEAD constructor.
var cipherFactories = map[cryptoDomain.Algorithm]func(key []byte) (*AEADCipher, error){
	cryptoDomain.AESGCM:   NewAESGCM,
	cryptoDomain.ChaCha20: NewChaCha20Poly1305,
}

// AEADManagerService builds the AEAD that seals and opens envelopes.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns the AEAD for alg keyed with a 32-byte derived key.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	factory, ok := cipherFactories[alg]
	if !ok {
		return nil, apperrors.Wrapf(cryptoDomain.ErrUnsupportedAlgorithm, "algorithm %q", string(alg))
	}
	if len(key) != cryptoDomain.KeySize {
		return nil, apperrors.Wrapf(cryptoDomain.ErrInvalidKeySize, "got %d bytes, want %d", len(key), cryptoDomain.KeySize)
	}
	aead, err := factory(key)
	if err != nil {
		return nil, err
	}
	return aead, nil
}
