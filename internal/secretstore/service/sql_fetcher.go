package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// sqlDocumentFetcher reads the secret from the config_documents table, whose
// payload column holds the configuration document as a JSON object.
type sqlDocumentFetcher struct {
	db       *sql.DB
	query    string
	location secretDomain.Location
}

// PostgreSQLFetcher reads the secret from a PostgreSQL config_documents table.
type PostgreSQLFetcher struct {
	sqlDocumentFetcher
}

// NewPostgreSQLFetcher creates a PostgreSQL-backed fetcher.
func NewPostgreSQLFetcher(db *sql.DB, location secretDomain.Location) *PostgreSQLFetcher {
	return &PostgreSQLFetcher{sqlDocumentFetcher{
		db:       db,
		query:    `SELECT payload FROM config_documents WHERE namespace = $1 AND document = $2`,
		location: location,
	}}
}

// MySQLFetcher reads the secret from a MySQL config_documents table.
type MySQLFetcher struct {
	sqlDocumentFetcher
}

// NewMySQLFetcher creates a MySQL-backed fetcher.
func NewMySQLFetcher(db *sql.DB, location secretDomain.Location) *MySQLFetcher {
	return &MySQLFetcher{sqlDocumentFetcher{
		db:       db,
		query:    "SELECT payload FROM config_documents WHERE namespace = ? AND document = ?",
		location: location,
	}}
}

// Fetch loads the document row and extracts the secret field.
func (f *sqlDocumentFetcher) Fetch(ctx context.Context) (secretDomain.Secret, error) {
	var payload []byte
	err := f.db.QueryRowContext(ctx, f.query, f.location.Namespace, f.location.Document).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return secretDomain.Secret{}, apperrors.Wrapf(
				secretDomain.ErrSecretNotFound,
				"document %s/%s",
				f.location.Namespace,
				f.location.Document,
			)
		}
		return secretDomain.Secret{}, apperrors.Wrap(err, "failed to query secret document")
	}

	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return secretDomain.Secret{}, apperrors.Wrap(
			secretDomain.ErrSecretFieldMissing,
			"document payload is not a JSON object",
		)
	}

	return secretFromDocument(doc, f.location.Field)
}
