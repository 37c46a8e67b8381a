package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/zaelmari/controle/internal/ledger"
	"github.com/zaelmari/controle/internal/model"
)

// CSVStore keeps the ledger in a single CSV file with a header row.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by path. The file is created on first write.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// LoadAll implements ledger.Store. A missing file is an empty ledger.
func (s *CSVStore) LoadAll(ctx context.Context) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	entries, err := ledger.ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return entries, nil
}

// ReplaceAll implements ledger.Store.
func (s *CSVStore) ReplaceAll(ctx context.Context, entries []model.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(s.path, func(w io.Writer) error {
		return ledger.WriteEntries(w, entries)
	})
}

// Close implements io.Closer.
func (s *CSVStore) Close() error { return nil }
