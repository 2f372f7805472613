package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	apperrors "github.com/allisson/qrseal/internal/errors"
)

// clientRecord is the JSON value stored under a client key.
type clientRecord struct {
	ID        uuid.UUID                   `json:"id"`
	Secret    string                      `json:"secret"` //nolint:gosec // argon2id hash
	Name      string                      `json:"name"`
	IsActive  bool                        `json:"is_active"`
	Policies  []authDomain.PolicyDocument `json:"policies"`
	CreatedAt time.Time                   `json:"created_at"`
}

// tokenRecord is the JSON value stored under a token key.
type tokenRecord struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisClientRepository stores each client as JSON under "<prefix>:client:<id>".
type RedisClientRepository struct {
	client redis.Cmdable
	prefix string
}

// NewRedisClientRepository creates a Redis Client repository using keys under prefix.
func NewRedisClientRepository(client redis.Cmdable, prefix string) *RedisClientRepository {
	return &RedisClientRepository{client: client, prefix: prefix}
}

func (r *RedisClientRepository) key(clientID uuid.UUID) string {
	return r.prefix + ":client:" + clientID.String()
}

// Create stores a new Client. An existing client with the same ID is never overwritten.
func (r *RedisClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	data, err := json.Marshal(clientRecord(*client))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client")
	}

	created, err := r.client.SetNX(ctx, r.key(client.ID), data, 0).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	if !created {
		return apperrors.Wrapf(authDomain.ErrInvalidClient, "client %s already exists", client.ID)
	}
	return nil
}

// Get retrieves a Client by ID.
func (r *RedisClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	data, err := r.client.Get(ctx, r.key(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	var record clientRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client")
	}

	client := authDomain.Client(record)
	return &client, nil
}

// RedisTokenRepository stores each token as JSON under "<prefix>:token:<hash>"
// and lets Redis expire the key together with the token.
type RedisTokenRepository struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisTokenRepository creates a Redis Token repository using keys under prefix.
func NewRedisTokenRepository(client redis.Cmdable, prefix string) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: prefix, now: time.Now}
}

func (r *RedisTokenRepository) key(tokenHash string) string {
	return r.prefix + ":token:" + tokenHash
}

// Create stores a new Token with a TTL ending at its expiry.
func (r *RedisTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "token is already expired")
	}

	data, err := json.Marshal(tokenRecord{
		ID:        token.ID,
		ClientID:  token.ClientID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token")
	}

	if err := r.client.Set(ctx, r.key(token.TokenHash), data, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a Token by the SHA-256 hash of its plain value.
func (r *RedisTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	data, err := r.client.Get(ctx, r.key(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token")
	}

	return &authDomain.Token{
		ID:        record.ID,
		TokenHash: tokenHash,
		ClientID:  record.ClientID,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}, nil
}
