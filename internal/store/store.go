// Package store provides the ledger row-store backends.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zaelmari/controle/internal/ledger"
)

// Backend names a row-store implementation.
type Backend string

const (
	BackendCSV    Backend = "csv"
	BackendXLSX   Backend = "xlsx"
	BackendSQLite Backend = "sqlite"
)

// Store is a ledger.Store that holds resources until closed.
type Store interface {
	ledger.Store
	io.Closer
}

// Options selects and configures a backend.
type Options struct {
	Backend Backend
	Path    string
	Sheet   string // xlsx only
}

// Open returns the backend described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendCSV, "":
		return NewCSVStore(opts.Path), nil
	case BackendXLSX:
		return NewXLSXStore(opts.Path, opts.Sheet), nil
	case BackendSQLite:
		return OpenSQLite(opts.Path)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", opts.Backend)
	}
}

// writeAtomic writes path through a temp file in the same directory and
// renames it into place, so readers see either the old or the new table.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
