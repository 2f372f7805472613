package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	cryptoDomain "github.com/allisson/qrseal/internal/crypto/domain"
)

// AEADCipher adapts a cipher.AEAD to the envelope layout: a random 12-byte
// nonce per Encrypt and a 16-byte tag appended to the ciphertext. Both
// algorithms share that layout, so only configuration decides which one
// opens an envelope. Safe for concurrent use.
type AEADCipher struct {
	aead      cipher.AEAD
	algorithm cryptoDomain.Algorithm
}

// NewAESGCM creates an AES-256-GCM cipher, the one browser and mobile
// decoders can open. Keys other than 32 bytes would silently select AES-128
// or AES-192, so they are rejected.
func NewAESGCM(key []byte) (*AEADCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return newAEADCipher(aead, cryptoDomain.AESGCM)
}

// NewChaCha20Poly1305 creates a ChaCha20-Poly1305 cipher from a 32-byte key.
func NewChaCha20Poly1305(key []byte) (*AEADCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}
	return newAEADCipher(aead, cryptoDomain.ChaCha20)
}

func newAEADCipher(aead cipher.AEAD, alg cryptoDomain.Algorithm) (*AEADCipher, error) {
	if aead.NonceSize() != cryptoDomain.NonceSize || aead.Overhead() != cryptoDomain.TagSize {
		return nil, fmt.Errorf("%s does not match the envelope layout", alg)
	}
	return &AEADCipher{aead: aead, algorithm: alg}, nil
}

// Algorithm reports which AEAD backs the cipher.
func (a *AEADCipher) Algorithm() cryptoDomain.Algorithm {
	return a.algorithm
}

// Encrypt seals plaintext under a fresh nonce read from crypto/rand.
func (a *AEADCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, cryptoDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return a.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// Decrypt verifies the tag before releasing any plaintext.
func (a *AEADCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != cryptoDomain.NonceSize {
		return nil, fmt.Errorf("invalid nonce size: expected %d, got %d", cryptoDomain.NonceSize, len(nonce))
	}

	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
