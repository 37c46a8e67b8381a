package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaelmari/controle/internal/model"
)

// Columns is the canonical ledger schema, in storage order.
var Columns = []string{
	"Date", "Description", "Category", "ExpenseType", "Subcategory", "Amount",
	"Installments", "PaymentMethod", "Status", "ResponsibleParty", "Notes",
}

const (
	numFields    = 11
	dateFormat   = "2006-01-02"
	colDate      = 0
	colDesc      = 1
	colCategory  = 2
	colType      = 3
	colSubcat    = 4
	colAmount    = 5
	colInstall   = 6
	colPayment   = 7
	colStatus    = 8
	colParty     = 9
	colNotes     = 10
	columnAbsent = -1
)

// headerAliases maps lower-cased header names, canonical or the spreadsheet's
// Portuguese ones, to canonical column positions.
var headerAliases = map[string]int{
	"data":               colDate,
	"descrição":          colDesc,
	"descricao":          colDesc,
	"categoria":          colCategory,
	"tipo de despesa":    colType,
	"tipo":               colType,
	"subcategoria":       colSubcat,
	"valor (r$)":         colAmount,
	"valor":              colAmount,
	"parcelas":           colInstall,
	"forma de pagamento": colPayment,
	"responsável":        colParty,
	"responsavel":        colParty,
	"observações":        colNotes,
	"observacoes":        colNotes,
}

func init() {
	for i, c := range Columns {
		headerAliases[strings.ToLower(c)] = i
	}
}

// legacyDateFormats are accepted on read in addition to dateFormat.
var legacyDateFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// ColumnMap gives, for each canonical column, its index in a stored row or
// columnAbsent.
type ColumnMap [numFields]int

// CanonicalColumns maps a row written in canonical order.
func CanonicalColumns() ColumnMap {
	var m ColumnMap
	for i := range m {
		m[i] = i
	}
	return m
}

// MapHeader locates canonical columns in a stored header row. Unknown
// headers are ignored; missing columns read as empty. Date, Description and
// Amount must be present.
func MapHeader(header []string) (ColumnMap, error) {
	var m ColumnMap
	for i := range m {
		m[i] = columnAbsent
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		col, ok := headerAliases[name]
		if !ok {
			continue
		}
		if m[col] != columnAbsent {
			return m, fmt.Errorf("duplicate column for %s: %q", Columns[col], h)
		}
		m[col] = i
	}
	for _, col := range []int{colDate, colDesc, colAmount} {
		if m[col] == columnAbsent {
			return m, fmt.Errorf("missing column %s", Columns[col])
		}
	}
	return m, nil
}

// MarshalEntry converts an Entry to a row in canonical column order.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	if !e.Date.IsZero() {
		row[colDate] = e.Date.Format(dateFormat)
	}
	row[colDesc] = e.Description
	row[colCategory] = string(e.Category)
	row[colType] = e.ExpenseType
	row[colSubcat] = e.Subcategory
	row[colAmount] = e.Amount.StringFixed(2)
	row[colInstall] = e.Installments
	row[colPayment] = e.PaymentMethod
	row[colStatus] = e.Status
	row[colParty] = e.ResponsibleParty
	row[colNotes] = e.Notes
	return row
}

// Decode converts a stored row to an Entry using the column map. Rows may be
// shorter than the header; trailing cells read as empty.
func (m ColumnMap) Decode(record []string) (model.Entry, error) {
	cell := func(col int) string {
		i := m[col]
		if i == columnAbsent || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := parseStoredDate(cell(colDate))
	if err != nil {
		return model.Entry{}, err
	}

	var amount decimal.Decimal
	if s := cell(colAmount); s != "" {
		amount, err = decimal.NewFromString(s)
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing amount %q: %w", s, err)
		}
	}

	return model.Entry{
		Date:             date,
		Description:      cell(colDesc),
		Category:         model.EntryCategory(cell(colCategory)),
		ExpenseType:      cell(colType),
		Subcategory:      cell(colSubcat),
		Amount:           amount,
		Installments:     cell(colInstall),
		PaymentMethod:    cell(colPayment),
		Status:           cell(colStatus),
		ResponsibleParty: cell(colParty),
		Notes:            cell(colNotes),
	}, nil
}

func parseStoredDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateFormat, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: unrecognized format", s)
}

// DecodeRows converts a table whose first row is the header. Fully blank rows
// are discarded.
func DecodeRows(rows [][]string) ([]model.Entry, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	m, err := MapHeader(rows[0])
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var entries []model.Entry
	for i, rec := range rows[1:] {
		if blankRow(rec) {
			continue
		}
		e, err := m.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// EncodeRows returns the header followed by one row per entry.
func EncodeRows(entries []model.Entry) [][]string {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, append([]string(nil), Columns...))
	for _, e := range entries {
		rows = append(rows, MarshalEntry(e))
	}
	return rows
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadEntries reads a ledger CSV with a header row.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	return DecodeRows(records)
}

// WriteEntries writes a ledger CSV, header included.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)
	for i, row := range EncodeRows(entries) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
