package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/qrseal/internal/errors"
)

// tokenPrefix marks qrseal bearer tokens so they are recognizable in leaks.
const tokenPrefix = "qrs_"

type tokenService struct{}

// NewTokenService creates random bearer tokens hashed with SHA-256.
func NewTokenService() TokenService {
	return &tokenService{}
}

func (t *tokenService) GenerateToken() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate token")
	}
	plain := tokenPrefix + base64.RawURLEncoding.EncodeToString(raw)
	return plain, t.HashToken(plain), nil
}

// HashToken returns the hex SHA-256 of plainToken. Tokens carry 256 bits of
// entropy, so a fast hash is enough for lookup.
func (t *tokenService) HashToken(plainToken string) string {
	sum := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(sum[:])
}
