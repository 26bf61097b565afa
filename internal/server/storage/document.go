// Package storage описывает хранилище документов сервера.
package storage

import (
	"context"
	"time"
)

// Document версионированный документ пользователя.
// Сервер не разбирает Body: слияние выполняют клиенты.
type Document struct {
	UpdatedAt time.Time
	Owner     string // subject из JWT токена
	Key       string
	Version   string
	Body      []byte
}

//go:generate moq -out document_mock.go . DocumentStorage

// DocumentStorage defines interface for versioned document persistence
type DocumentStorage interface {
	// GetDocument returns document by owner and key.
	// Returns ErrDocumentNotFound if document doesn't exist
	GetDocument(ctx context.Context, owner, key string) (*Document, error)

	// PutDocument stores doc if the stored version equals expected.
	// Empty expected means the document must not exist yet.
	// Returns ErrVersionMismatch if the condition fails
	PutDocument(ctx context.Context, doc *Document, expected string) error

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error

	Close() error
}
