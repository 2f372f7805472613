package service

import (
	"context"
	"errors"

	"gocloud.dev/secrets"

	// Keeper drivers selectable through KMS_KEY_URI.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	apperrors "github.com/allisson/qrseal/internal/errors"
)

// kmsService wraps and unwraps shared secrets with gocloud.dev/secrets keepers.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper for keyURI. Supported schemes are gcpkms://,
// awskms://, azurekeyvault://, hashivault:// and base64key://.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	if keyURI == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "failed to open KMS keeper: empty key URI")
	}
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open KMS keeper")
	}
	return keeper, nil
}

// WrapSecret encrypts a shared secret with the keeper at keyURI.
func (k *kmsService) WrapSecret(ctx context.Context, keyURI string, secret []byte) ([]byte, error) {
	return k.withKeeper(ctx, keyURI, func(keeper KMSKeeper) ([]byte, error) {
		wrapped, err := keeper.Encrypt(ctx, secret)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encrypt secret with KMS")
		}
		return wrapped, nil
	})
}

// UnwrapSecret decrypts a secret previously produced by WrapSecret.
func (k *kmsService) UnwrapSecret(ctx context.Context, keyURI string, wrapped []byte) ([]byte, error) {
	return k.withKeeper(ctx, keyURI, func(keeper KMSKeeper) ([]byte, error) {
		plaintext, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decrypt secret with KMS")
		}
		return plaintext, nil
	})
}

// withKeeper opens a keeper for a single call so no KMS connection outlives it.
func (k *kmsService) withKeeper(
	ctx context.Context,
	keyURI string,
	fn func(keeper KMSKeeper) ([]byte, error),
) (out []byte, err error) {
	keeper, err := k.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			err = errors.Join(err, apperrors.Wrap(closeErr, "failed to close KMS keeper"))
		}
	}()
	return fn(keeper)
}
