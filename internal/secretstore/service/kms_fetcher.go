package service

import (
	"context"
	"encoding/base64"

	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// KMSFetcher unwraps a KMS-encrypted secret.
//
// The ciphertext (base64, as printed by the create-secret command) comes from
// configuration; every fetch unwraps it with the keeper at keyURI.
type KMSFetcher struct {
	kmsService cryptoService.KMSService
	keyURI     string
	ciphertext string
}

// NewKMSFetcher creates a fetcher that decrypts ciphertext with the keeper at keyURI.
func NewKMSFetcher(kmsService cryptoService.KMSService, keyURI, ciphertext string) *KMSFetcher {
	return &KMSFetcher{
		kmsService: kmsService,
		keyURI:     keyURI,
		ciphertext: ciphertext,
	}
}

// Fetch decrypts the configured ciphertext.
func (f *KMSFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	if f.ciphertext == "" {
		return secretDomain.Secret{}, apperrors.Wrap(secretDomain.ErrSecretFieldMissing, "SECRET_CIPHERTEXT is empty")
	}

	wrapped, err := base64.StdEncoding.DecodeString(f.ciphertext)
	if err != nil {
		return secretDomain.Secret{}, apperrors.Wrap(
			secretDomain.ErrSecretFieldMissing,
			"SECRET_CIPHERTEXT is not valid base64",
		)
	}

	plaintext, err := f.kmsService.UnwrapSecret(ctx, f.keyURI, wrapped)
	if err != nil {
		return secretDomain.Secret{}, err
	}

	secret := secretDomain.NewSecret(string(plaintext))
	clear(plaintext)

	if secret.IsZero() {
		return secretDomain.Secret{}, apperrors.Wrap(secretDomain.ErrSecretFieldMissing, "KMS returned an empty secret")
	}
	return secret, nil
}
