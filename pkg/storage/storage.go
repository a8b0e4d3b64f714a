// Package storage keeps the artifacts of extraction runs (record files,
// verification reports, manifests), one directory per run.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored artifact
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"run_id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // relative to the storage root
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the artifact operations used by the CLI
type Storage interface {
	// Save stores an artifact of a run and returns its metadata
	Save(ctx context.Context, runID uuid.UUID, name string, contentType string, r io.Reader) (*FileInfo, error)

	// Open returns a reader for a stored artifact
	Open(ctx context.Context, runID uuid.UUID, name string) (io.ReadCloser, *FileInfo, error)

	// List returns every artifact of a run, oldest first
	List(ctx context.Context, runID uuid.UUID) ([]*FileInfo, error)

	// Delete removes a run and all its artifacts
	Delete(ctx context.Context, runID uuid.UUID) error
}

// Config holds storage configuration
type Config struct {
	LocalPath string `yaml:"local_path"`
}

// New creates the local artifact store.
func New(cfg *Config) (Storage, error) {
	return NewLocalStorage(cfg.LocalPath)
}
