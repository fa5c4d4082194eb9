// Package storage keeps the raw source artifacts: downloaded report PDFs
// and the interim per-page cell dumps produced by the extraction
// collaborator. Artifacts are grouped per report family and named by
// period, so a re-run finds the cached dump instead of re-extracting.
package storage

import (
	"context"
	"io"
	"time"
)

// Artifact describes one stored file.
type Artifact struct {
	Family    string    `json:"family"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the artifact storage interface.
type Store interface {
	// Put stores an artifact, replacing any previous one with the same
	// family and name.
	Put(ctx context.Context, family, name string, r io.Reader) (*Artifact, error)

	// Open returns a reader for a stored artifact.
	Open(ctx context.Context, family, name string) (io.ReadCloser, error)

	// List returns the artifacts of one family, newest last.
	List(ctx context.Context, family string) ([]*Artifact, error)

	// Path returns the filesystem path an artifact lives at.
	Path(family, name string) string
}
