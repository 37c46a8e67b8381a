package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	numFields      = 2
	colType        = 0
	colSubcategory = 1
)

// Option is one valid (expense type, subcategory) pair.
type Option struct {
	Type        string
	Subcategory string
}

// ReadOptions reads expense-types.csv.
func ReadOptions(r io.Reader) ([]Option, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading catalog CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var opts []Option
	for i, rec := range records[1:] {
		opt, err := UnmarshalOption(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// WriteOptions writes expense-types.csv.
func WriteOptions(w io.Writer, opts []Option) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"expense_type", "subcategory"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, opt := range opts {
		if err := cw.Write(MarshalOption(opt)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalOption converts an Option to a CSV row.
func MarshalOption(opt Option) []string {
	row := make([]string, numFields)
	row[colType] = opt.Type
	row[colSubcategory] = opt.Subcategory
	return row
}

// UnmarshalOption converts a CSV row to an Option.
func UnmarshalOption(record []string) (Option, error) {
	if len(record) != numFields {
		return Option{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	opt := Option{
		Type:        strings.TrimSpace(record[colType]),
		Subcategory: strings.TrimSpace(record[colSubcategory]),
	}
	if opt.Type == "" || opt.Subcategory == "" {
		return Option{}, fmt.Errorf("empty expense type or subcategory")
	}
	return opt, nil
}
