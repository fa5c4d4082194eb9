package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LocalStore implements Store on the local filesystem, one directory per
// report family.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a local artifact store rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact store: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Path returns the filesystem path for an artifact.
func (s *LocalStore) Path(family, name string) string {
	return filepath.Join(s.basePath, family, sanitizeName(name))
}

// Put stores an artifact, writing to a temp file first so a concurrent
// reader never sees a partial download.
func (s *LocalStore) Put(ctx context.Context, family, name string, r io.Reader) (*Artifact, error) {
	dir := filepath.Join(s.basePath, family)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return nil, fmt.Errorf("storing artifact %s/%s: %w", family, name, err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("storing artifact %s/%s: %w", family, name, err)
	}

	path := s.Path(family, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("storing artifact %s/%s: %w", family, name, err)
	}

	return &Artifact{
		Family:    family,
		Name:      sanitizeName(name),
		Size:      size,
		Path:      path,
		CreatedAt: time.Now(),
	}, nil
}

// Open returns a reader for a stored artifact.
func (s *LocalStore) Open(ctx context.Context, family, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(family, name))
	if err != nil {
		return nil, fmt.Errorf("opening artifact %s/%s: %w", family, name, err)
	}
	return f, nil
}

// List returns the artifacts of one family, sorted by name so period-named
// files come out in chronological order.
func (s *LocalStore) List(ctx context.Context, family string) ([]*Artifact, error) {
	dir := filepath.Join(s.basePath, family)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing artifacts for %s: %w", family, err)
	}

	var out []*Artifact
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("listing artifacts for %s: %w", family, err)
		}
		out = append(out, &Artifact{
			Family:    family,
			Name:      e.Name(),
			Size:      info.Size(),
			Path:      filepath.Join(dir, e.Name()),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// sanitizeName keeps artifact names inside their family directory.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if name == "" || name == "." {
		name = "artifact"
	}
	return name
}
