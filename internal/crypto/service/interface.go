// Package service provides the cryptographic services behind envelope sealing.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the envelope cipher
// that lays out nonce || ciphertext || tag, and KMS keeper access.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext (tag appended) and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext (tag appended) using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// EnvelopeCipher seals and opens envelopes with a derived key.
type EnvelopeCipher interface {
	// Seal encrypts plaintext under key with a fresh random nonce.
	Seal(plaintext []byte, key *cryptoDomain.DerivedKey) (cryptoDomain.Envelope, error)

	// Open verifies and decrypts an envelope. It returns ErrMalformedEnvelope for
	// envelopes that do not have the fixed layout and ErrAuthenticationFailed when
	// the tag does not verify. No partial plaintext is ever returned.
	Open(envelope cryptoDomain.Envelope, key *cryptoDomain.DerivedKey) ([]byte, error)
}

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap shared secrets.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens KMS keepers from provider URIs and wraps shared secrets with them.
type KMSService interface {
	// OpenKeeper opens a keeper for the given key URI.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)

	// WrapSecret encrypts secret with the keeper at keyURI.
	WrapSecret(ctx context.Context, keyURI string, secret []byte) ([]byte, error)

	// UnwrapSecret decrypts a wrapped secret with the keeper at keyURI.
	UnwrapSecret(ctx context.Context, keyURI string, wrapped []byte) ([]byte, error)
}
