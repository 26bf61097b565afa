package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that document was not found in storage
	ErrDocumentNotFound = errors.New("document not found")

	// ErrVersionMismatch indicates that the stored version differs from the expected one
	// (or the document already exists when creation was requested)
	ErrVersionMismatch = errors.New("document version mismatch")
)
