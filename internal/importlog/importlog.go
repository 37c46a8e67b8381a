package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the import log: the outcome of one statement import.
type Entry struct {
	Timestamp time.Time
	BatchID   string
	File      string
	Format    string
	Mode      string
	Accepted  int // lines that passed extraction
	Excluded  int
	Dropped   int
	Appended  int
	Status    string
	Error     string
}

// Status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusDryRun = "dry-run"
)

// Header is the CSV header for import-log.csv.
const Header = "timestamp,batch_id,file,format,mode,accepted,excluded,dropped,appended,status,error"

const (
	numFields   = 11
	logDir      = "logs"
	logFile     = "logs/import-log.csv"
	colTime     = 0
	colBatch    = 1
	colFile     = 2
	colFormat   = 3
	colMode     = 4
	colAccepted = 5
	colExcluded = 6
	colDropped  = 7
	colAppended = 8
	colStatus   = 9
	colError    = 10
)

// Log appends to and reads <root>/logs/import-log.csv.
type Log struct {
	root string
}

// New returns the import log of the data directory root.
func New(root string) *Log {
	return &Log{root: root}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colBatch] = e.BatchID
	row[colFile] = e.File
	row[colFormat] = e.Format
	row[colMode] = e.Mode
	row[colAccepted] = strconv.Itoa(e.Accepted)
	row[colExcluded] = strconv.Itoa(e.Excluded)
	row[colDropped] = strconv.Itoa(e.Dropped)
	row[colAppended] = strconv.Itoa(e.Appended)
	row[colStatus] = e.Status
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	counts := make([]int, 4)
	for i, col := range []int{colAccepted, colExcluded, colDropped, colAppended} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	return Entry{
		Timestamp: ts,
		BatchID:   record[colBatch],
		File:      record[colFile],
		Format:    record[colFormat],
		Mode:      record[colMode],
		Accepted:  counts[0],
		Excluded:  counts[1],
		Dropped:   counts[2],
		Appended:  counts[3],
		Status:    record[colStatus],
		Error:     record[colError],
	}, nil
}

// Append writes entries to the log, creating the file and header if needed.
func (l *Log) Append(entries ...Entry) error {
	dir := filepath.Join(l.root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(l.root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries in the log. A missing log has no entries.
func (l *Log) Read() ([]Entry, error) {
	path := filepath.Join(l.root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
