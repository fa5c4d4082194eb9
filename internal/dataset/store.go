package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// Store reads and writes published datasets under one data directory, one
// CSV file per report family.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a dataset directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dataset dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the published CSV path for a family.
func (s *Store) Path(f report.Family) string {
	return filepath.Join(s.dir, string(f)+".csv")
}

// Load reads a family's published series. A family that has never been
// published loads as an empty dataset.
func (s *Store) Load(f report.Family) (*Dataset, error) {
	d := New(f)

	file, err := os.Open(s.Path(f))
	if errors.Is(err, fs.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s dataset: %w", f, err)
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, &d.Records); err != nil {
		return nil, fmt.Errorf("decoding %s dataset: %w", f, err)
	}
	return d, nil
}

// Save publishes the dataset atomically: the CSV is written to a temp file
// in the same directory and renamed over the published path, so a reader
// never observes a half-written series.
func (s *Store) Save(d *Dataset) error {
	tmp, err := os.CreateTemp(s.dir, "."+string(d.Family)+"-*.csv")
	if err != nil {
		return fmt.Errorf("publishing %s dataset: %w", d.Family, err)
	}
	defer os.Remove(tmp.Name())

	if err := gocsv.MarshalFile(&d.Records, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s dataset: %w", d.Family, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("publishing %s dataset: %w", d.Family, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(d.Family)); err != nil {
		return fmt.Errorf("publishing %s dataset: %w", d.Family, err)
	}
	return nil
}
