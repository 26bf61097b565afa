package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/tallykeeper/internal/server/storage"
)

// GetDocument retrieves a document by owner and key
func (s *Storage) GetDocument(ctx context.Context, owner, key string) (*storage.Document, error) {
	query :=
		`SELECT version, body, updated_at
		FROM documents
		WHERE owner = $1 AND key = $2`

	doc := &storage.Document{Owner: owner, Key: key}
	err := s.db.QueryRowContext(ctx, query, owner, key).Scan(&doc.Version, &doc.Body, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	doc.UpdatedAt = doc.UpdatedAt.UTC()

	return doc, nil
}

// PutDocument stores the document if the stored version equals expected
func (s *Storage) PutDocument(ctx context.Context, doc *storage.Document, expected string) error {
	var (
		result sql.Result
		err    error
	)

	if expected == "" {
		query :=
			`INSERT INTO documents (owner, key, version, body, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (owner, key) DO NOTHING`
		result, err = s.db.ExecContext(ctx, query, doc.Owner, doc.Key, doc.Version, doc.Body, doc.UpdatedAt)
	} else {
		query :=
			`UPDATE documents
			SET version = $3, body = $4, updated_at = $5
			WHERE owner = $1 AND key = $2 AND version = $6`
		result, err = s.db.ExecContext(ctx, query, doc.Owner, doc.Key, doc.Version, doc.Body, doc.UpdatedAt, expected)
	}
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrVersionMismatch
	}

	return nil
}
