// Package storage persists dashboard archives (CSV exports and chart
// snapshots) to the local filesystem or a Google Cloud Storage bucket.
package storage

import (
	"context"
)

// StorageClient defines the interface for archive storage operations
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file at the specified path
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListArchives lists archive folders, newest first
	ListArchives(ctx context.Context, limit int) ([]string, error)
}
