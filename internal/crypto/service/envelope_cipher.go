package service

import (
	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
	apperrors "github.com/allisson/qrseal/internal/errors"
)

// EnvelopeCipherService seals and opens envelopes with a fixed AEAD algorithm.
//
// It holds no key material: every call receives the derived key, builds a
// cipher for it and discards the cipher afterwards. Safe for concurrent use.
type EnvelopeCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewEnvelopeCipher creates an envelope cipher for the given algorithm.
// Returns ErrUnsupportedAlgorithm for algorithms other than AESGCM and ChaCha20.
func NewEnvelopeCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm) (*EnvelopeCipherService, error) {
	if _, err := cryptoDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	return &EnvelopeCipherService{
		aeadManager: aeadManager,
		algorithm:   alg,
	}, nil
}

// Algorithm returns the AEAD algorithm used by this cipher.
func (s *EnvelopeCipherService) Algorithm() cryptoDomain.Algorithm {
	return s.algorithm
}

// Seal encrypts plaintext into a new envelope.
//
// Every call draws a fresh random nonce, so sealing the same plaintext twice
// under the same key yields two different envelopes.
func (s *EnvelopeCipherService) Seal(
	plaintext []byte,
	key *cryptoDomain.DerivedKey,
) (cryptoDomain.Envelope, error) {
	cipher, err := s.aeadManager.CreateCipher(key.Bytes(), s.algorithm)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	sealed, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return cryptoDomain.Envelope{}, apperrors.Wrap(err, "failed to seal envelope")
	}

	tagStart := len(sealed) - cryptoDomain.TagSize
	return cryptoDomain.Envelope{
		Nonce:      nonce,
		Ciphertext: sealed[:tagStart],
		Tag:        sealed[tagStart:],
	}, nil
}

// Open verifies the envelope tag and returns the plaintext.
//
// Wrong keys, flipped bytes and truncation all surface as the same
// ErrAuthenticationFailed so callers cannot tell them apart.
func (s *EnvelopeCipherService) Open(
	envelope cryptoDomain.Envelope,
	key *cryptoDomain.DerivedKey,
) ([]byte, error) {
	if len(envelope.Nonce) != cryptoDomain.NonceSize || len(envelope.Tag) != cryptoDomain.TagSize {
		return nil, cryptoDomain.ErrMalformedEnvelope
	}

	cipher, err := s.aeadManager.CreateCipher(key.Bytes(), s.algorithm)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(envelope.Ciphertext)+len(envelope.Tag))
	sealed = append(sealed, envelope.Ciphertext...)
	sealed = append(sealed, envelope.Tag...)

	plaintext, err := cipher.Decrypt(sealed, envelope.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
