// Package repository persists API clients and issued tokens.
//
// PostgreSQL and MySQL implementations join the caller's transaction through
// database.GetTx. PostgreSQL uses native UUID columns, MySQL uses BINARY(16).
// The Redis implementations serve deployments without a SQL database.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/qrseal/internal/auth/domain"
	"github.com/allisson/qrseal/internal/database"
	apperrors "github.com/allisson/qrseal/internal/errors"
)

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

// Create inserts a new Client. Policies are stored as a JSONB array.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	policiesJSON, err := json.Marshal(client.Policies)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client policies")
	}

	query := `INSERT INTO clients (id, secret, name, is_active, policies, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.Secret,
		client.Name,
		client.IsActive,
		policiesJSON,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Get retrieves a Client by ID.
func (p *PostgreSQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, is_active, policies, created_at FROM clients WHERE id = $1`

	var client authDomain.Client
	var policiesJSON []byte

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
		&client.Secret,
		&client.Name,
		&client.IsActive,
		&policiesJSON,
		&client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if err := json.Unmarshal(policiesJSON, &client.Policies); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client policies")
	}

	return &client, nil
}
