package storage

import "context"

// KVStore defines local key-value blob storage.
// Используется для реплики, настроек синхронизации и метаданных синхронизации.
type KVStore interface {
	// Get returns the value stored under key or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key
	Set(ctx context.Context, key string, value []byte) error

	// SetMany stores all values atomically
	SetMany(ctx context.Context, values map[string][]byte) error

	// Delete removes key. Deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources
	Close() error
}
