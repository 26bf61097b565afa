package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/tallykeeper/internal/server/storage"
)

// GetDocument retrieves a document by owner and key
func (s *Storage) GetDocument(ctx context.Context, owner, key string) (*storage.Document, error) {
	query := `
		SELECT version, body, updated_at
		FROM documents
		WHERE owner = ? AND key = ?
	`

	doc := &storage.Document{Owner: owner, Key: key}
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query, owner, key).Scan(&doc.Version, &doc.Body, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	doc.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return doc, nil
}

// PutDocument stores the document if the stored version equals expected
func (s *Storage) PutDocument(ctx context.Context, doc *storage.Document, expected string) error {
	var (
		result sql.Result
		err    error
	)

	if expected == "" {
		// Создание: существующий документ не перезаписывается
		query := `
			INSERT INTO documents (owner, key, version, body, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (owner, key) DO NOTHING
		`
		result, err = s.db.ExecContext(ctx, query,
			doc.Owner, doc.Key, doc.Version, doc.Body, doc.UpdatedAt.UnixMilli())
	} else {
		query := `
			UPDATE documents
			SET version = ?, body = ?, updated_at = ?
			WHERE owner = ? AND key = ? AND version = ?
		`
		result, err = s.db.ExecContext(ctx, query,
			doc.Version, doc.Body, doc.UpdatedAt.UnixMilli(), doc.Owner, doc.Key, expected)
	}
	if err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrVersionMismatch
	}

	return nil
}
