// Package service generates and checks client secrets and bearer tokens.
package service

// SecretService generates client secrets and verifies them against stored hashes.
type SecretService interface {
	// GenerateSecret returns a new random secret and its hash. Only the hash
	// is stored; the plain secret is shown to the operator once.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plain secret.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret reports whether plainSecret matches hashedSecret.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService generates bearer tokens and the hashes they are looked up by.
type TokenService interface {
	GenerateToken() (plainToken string, tokenHash string, err error)
	HashToken(plainToken string) string
}
