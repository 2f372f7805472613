package service

import (
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/allisson/qrseal/internal/crypto/service"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

func newLocalKeyURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSFetcher_Fetch(t *testing.T) {
	ctx := t.Context()
	kmsService := cryptoService.NewKMSService()
	keyURI := newLocalKeyURI(t)

	wrapped, err := kmsService.WrapSecret(ctx, keyURI, []byte("kms-wrapped-secret"))
	require.NoError(t, err)
	ciphertext := base64.StdEncoding.EncodeToString(wrapped)

	t.Run("Success", func(t *testing.T) {
		fetcher := NewKMSFetcher(kmsService, keyURI, ciphertext)
		secret, err := fetcher.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("kms-wrapped-secret"), secret.Bytes())
	})

	t.Run("Error_EmptyCiphertext", func(t *testing.T) {
		fetcher := NewKMSFetcher(kmsService, keyURI, "")
		_, err := fetcher.Fetch(ctx)
		assert.ErrorIs(t, err, secretDomain.ErrSecretFieldMissing)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		fetcher := NewKMSFetcher(kmsService, keyURI, "!!not-base64!!")
		_, err := fetcher.Fetch(ctx)
		assert.ErrorIs(t, err, secretDomain.ErrSecretFieldMissing)
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		fetcher := NewKMSFetcher(kmsService, newLocalKeyURI(t), ciphertext)
		_, err := fetcher.Fetch(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt secret with KMS")
	})

	t.Run("Error_InvalidKeyURI", func(t *testing.T) {
		fetcher := NewKMSFetcher(kmsService, "invalid://uri", ciphertext)
		_, err := fetcher.Fetch(ctx)
		assert.Error(t, err)
	})
}
