package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/zaelmari/controle/internal/ledger"
	"github.com/zaelmari/controle/internal/model"
)

// DefaultSheet is the worksheet holding the ledger.
const DefaultSheet = "Lancamentos"

const amountColumn = 6 // 1-based, column F

// XLSXStore keeps the ledger in one worksheet of an Excel workbook, the
// first row being the header.
type XLSXStore struct {
	path  string
	sheet string
}

// NewXLSXStore creates a store backed by the workbook at path.
func NewXLSXStore(path, sheet string) *XLSXStore {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &XLSXStore{path: path, sheet: sheet}
}

// LoadAll implements ledger.Store. A missing workbook is an empty ledger.
func (s *XLSXStore) LoadAll(ctx context.Context) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", s.path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(s.sheet)
	if err != nil || idx == -1 {
		return nil, fmt.Errorf("workbook %s has no sheet %q", s.path, s.sheet)
	}

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", s.sheet, err)
	}
	entries, err := ledger.DecodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", s.sheet, err)
	}
	return entries, nil
}

// ReplaceAll implements ledger.Store. The workbook is rebuilt from scratch;
// other sheets are not preserved.
func (s *XLSXStore) ReplaceAll(ctx context.Context, entries []model.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, row := range ledger.EncodeRows(entries) {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if i > 0 {
			// Amounts go in as numbers so the sheet can sum them.
			cells[amountColumn-1] = entries[i-1].Amount.InexactFloat64()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return writeAtomic(s.path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		return nil
	})
}

// Close implements io.Closer.
func (s *XLSXStore) Close() error { return nil }
