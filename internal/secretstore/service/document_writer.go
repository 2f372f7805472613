package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/qrseal/internal/database"
	apperrors "github.com/allisson/qrseal/internal/errors"
	secretDomain "github.com/allisson/qrseal/internal/secretstore/domain"
)

// SQLDocumentWriter stores the secret field into a config_documents row,
// keeping the other fields of the document intact.
type SQLDocumentWriter struct {
	db          *sql.DB
	txManager   database.TxManager
	selectQuery string
	insertQuery string
	updateQuery string
}

// NewPostgreSQLDocumentWriter creates a PostgreSQL-backed document writer.
func NewPostgreSQLDocumentWriter(db *sql.DB, txManager database.TxManager) *SQLDocumentWriter {
	return &SQLDocumentWriter{
		db:          db,
		txManager:   txManager,
		selectQuery: `SELECT payload FROM config_documents WHERE namespace = $1 AND document = $2 FOR UPDATE`,
		insertQuery: `INSERT INTO config_documents (namespace, document, payload) VALUES ($1, $2, $3)`,
		updateQuery: `UPDATE config_documents SET payload = $1, updated_at = NOW() WHERE namespace = $2 AND document = $3`,
	}
}

// NewMySQLDocumentWriter creates a MySQL-backed document writer.
func NewMySQLDocumentWriter(db *sql.DB, txManager database.TxManager) *SQLDocumentWriter {
	return &SQLDocumentWriter{
		db:          db,
		txManager:   txManager,
		selectQuery: "SELECT payload FROM config_documents WHERE namespace = ? AND document = ? FOR UPDATE",
		insertQuery: "INSERT INTO config_documents (namespace, document, payload) VALUES (?, ?, ?)",
		updateQuery: "UPDATE config_documents SET payload = ? WHERE namespace = ? AND document = ?",
	}
}

// PutSecret sets location.Field to value, creating the document if needed.
func (w *SQLDocumentWriter) PutSecret(ctx context.Context, location secretDomain.Location, value string) error {
	return w.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, w.db)

		doc := map[string]any{}
		exists := true

		var payload []byte
		err := querier.QueryRowContext(ctx, w.selectQuery, location.Namespace, location.Document).Scan(&payload)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			exists = false
		case err != nil:
			return apperrors.Wrap(err, "failed to load secret document")
		default:
			if err := json.Unmarshal(payload, &doc); err != nil || doc == nil {
				return apperrors.Wrapf(
					apperrors.ErrInvalidInput,
					"document %s/%s payload is not a JSON object",
					location.Namespace,
					location.Document,
				)
			}
		}

		doc[location.Field] = value
		data, err := json.Marshal(doc)
		if err != nil {
			return apperrors.Wrap(err, "failed to encode secret document")
		}

		if exists {
			_, err = querier.ExecContext(ctx, w.updateQuery, string(data), location.Namespace, location.Document)
		} else {
			_, err = querier.ExecContext(ctx, w.insertQuery, location.Namespace, location.Document, string(data))
		}
		if err != nil {
			return apperrors.Wrap(err, "failed to store secret document")
		}
		return nil
	})
}

// RedisDocumentWriter stores the secret field into the document hash.
type RedisDocumentWriter struct {
	client redis.Cmdable
}

// NewRedisDocumentWriter creates a Redis-backed document writer.
func NewRedisDocumentWriter(client redis.Cmdable) *RedisDocumentWriter {
	return &RedisDocumentWriter{client: client}
}

// PutSecret sets location.Field on the hash at location.Key().
func (w *RedisDocumentWriter) PutSecret(ctx context.Context, location secretDomain.Location, value string) error {
	if err := w.client.HSet(ctx, location.Key(), location.Field, value).Err(); err != nil {
		return apperrors.Wrap(err, "failed to store secret document in redis")
	}
	return nil
}
