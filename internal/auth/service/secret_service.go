package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/qrseal/internal/errors"
)

const secretBytes = 32

type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// NewSecretService hashes client secrets with argon2id under the moderate policy.
func NewSecretService() (SecretService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &secretService{hasher: hasher}, nil
}

// GenerateSecret draws 32 random bytes and encodes them as URL-safe base64.
func (s *secretService) GenerateSecret() (string, string, error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate client secret")
	}
	plain := base64.RawURLEncoding.EncodeToString(raw)

	hashed, err := s.HashSecret(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hashed, nil
}

func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash client secret")
	}
	return hashed, nil
}

// CompareSecret treats a malformed hash as a mismatch.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	return err == nil && ok
}
