package service

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// RedisFetcher reads the secret from a Redis hash.
//
// The configuration document is the hash stored at "<namespace>:<document>"
// and the secret is its field, e.g. HSET config:encryption qr_key <secret>.
type RedisFetcher struct {
	client   redis.Cmdable
	location secretDomain.Location
}

// NewRedisFetcher creates a fetcher reading location from client.
func NewRedisFetcher(client redis.Cmdable, location secretDomain.Location) *RedisFetcher {
	return &RedisFetcher{
		client:   client,
		location: location,
	}
}

// Fetch reads the whole document so a missing key and a missing field can be told apart.
func (f *RedisFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	doc, err := f.client.HGetAll(ctx, f.location.Key()).Result()
	if err != nil {
		if redis.HasErrorPrefix(err, "WRONGTYPE") {
			return secretDomain.Secret{}, apperrors.Wrapf(
				secretDomain.ErrSecretFieldMissing,
				"key %q is not a hash",
				f.location.Key(),
			)
		}
		return secretDomain.Secret{}, apperrors.Wrap(err, "failed to read secret document from redis")
	}

	if len(doc) == 0 {
		return secretDomain.Secret{}, apperrors.Wrapf(
			secretDomain.ErrSecretNotFound,
			"key %q",
			f.location.Key(),
		)
	}

	fields := make(map[string]any, len(doc))
	for k, v := range doc {
		fields[k] = v
	}
	return secretFromDocument(fields, f.location.Field)
}
