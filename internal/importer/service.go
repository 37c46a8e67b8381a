package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zaelmari/controle/internal/categorize"
	"github.com/zaelmari/controle/internal/importlog"
	"github.com/zaelmari/controle/internal/ledger"
	"github.com/zaelmari/controle/internal/logger"
	"github.com/zaelmari/controle/internal/model"
)

// Appender persists new ledger entries.
type Appender interface {
	Append(ctx context.Context, entries []model.Entry) (int, error)
}

// Report summarizes one statement import.
type Report struct {
	BatchID  string
	File     string
	Format   string
	Mode     categorize.Mode
	Accepted int // transaction-shaped lines read
	Excluded int
	Dropped  int
	Appended int
	Entries  []model.Entry
}

// ServiceParams are the collaborators of a Service. Log may be nil.
type ServiceParams struct {
	Parsers     *Registry
	Categorizer categorize.Categorizer
	Ledger      Appender
	Defaults    ledger.Defaults
	Log         *importlog.Log
}

// Service runs statements through parse, categorize and merge, and appends
// the result to the ledger.
type Service struct {
	parsers     *Registry
	categorizer categorize.Categorizer
	ledger      Appender
	defaults    ledger.Defaults
	log         *importlog.Log
	now         func() time.Time
}

// NewService creates an import Service.
func NewService(p ServiceParams) *Service {
	return &Service{
		parsers:     p.Parsers,
		categorizer: p.Categorizer,
		ledger:      p.Ledger,
		defaults:    p.Defaults,
		log:         p.Log,
		now:         time.Now,
	}
}

// Supports reports whether format names a registered parser or is "auto".
// The empty format selects DefaultFormat.
func (s *Service) Supports(format string) bool {
	if format == "" {
		format = DefaultFormat
	}
	return format == FormatAuto || s.parsers.Get(format) != nil
}

// Prepare parses and categorizes a statement without touching the ledger.
func (s *Service) Prepare(ctx context.Context, format string, r io.Reader) (Report, error) {
	if format == "" {
		format = DefaultFormat
	}
	rep := Report{
		BatchID: uuid.NewString(),
		Format:  format,
		Mode:    s.categorizer.Mode(),
	}

	var p Parser
	if format == FormatAuto {
		data, err := io.ReadAll(r)
		if err != nil {
			return rep, fmt.Errorf("reading statement: %w", err)
		}
		if p = s.parsers.Detect(string(data)); p == nil {
			return rep, errors.New("no statement format recognizes the input")
		}
		rep.Format = p.Format()
		r = bytes.NewReader(data)
	} else if p = s.parsers.Get(format); p == nil {
		return rep, fmt.Errorf("unknown statement format %q", format)
	}

	txns, err := p.Parse(r)
	if err != nil {
		return rep, fmt.Errorf("parsing %s statement: %w", rep.Format, err)
	}
	rep.Accepted = len(txns)

	log := logger.FromContext(ctx)
	items := make([]model.Categorized, len(txns))
	for i, txn := range txns {
		res := s.categorizer.Categorize(txn.Description)
		items[i] = model.Categorized{
			Transaction: txn,
			Label:       res.Label,
			Rule:        res.Rule,
			Excluded:    res.Excluded,
		}
		if res.Excluded {
			log.Debug().Str("batch", rep.BatchID).Str("description", txn.Description).
				Str("rule", res.Rule).Msg("excluded by rule")
		} else if !txn.Complete() {
			log.Debug().Str("batch", rep.BatchID).Str("description", txn.Description).
				Msg("dropping line with unparseable date or amount")
		}
	}

	entries, stats := ledger.Merge(items, s.defaults)
	rep.Entries = entries
	rep.Excluded = stats.Excluded
	rep.Dropped = stats.Dropped()
	return rep, nil
}

// Import prepares a statement and appends its entries to the ledger. A
// failed append leaves the ledger as it was.
func (s *Service) Import(ctx context.Context, format string, r io.Reader) (Report, error) {
	rep, err := s.Prepare(ctx, format, r)
	if err != nil {
		return rep, err
	}

	n, err := s.ledger.Append(ctx, rep.Entries)
	if err != nil {
		return rep, fmt.Errorf("importing %s statement: %w", rep.Format, err)
	}
	rep.Appended = n

	log := logger.FromContext(ctx)
	log.Info().
		Str("batch", rep.BatchID).
		Str("format", rep.Format).
		Str("mode", string(rep.Mode)).
		Int("accepted", rep.Accepted).
		Int("excluded", rep.Excluded).
		Int("dropped", rep.Dropped).
		Int("appended", rep.Appended).
		Msg("statement imported")
	return rep, nil
}

// ImportFile imports the statement at path and records the run in the
// import log. With dryRun set the ledger is not written.
func (s *Service) ImportFile(ctx context.Context, path, format string, dryRun bool) (Report, error) {
	var rep Report
	f, err := os.Open(path)
	if err != nil {
		rep = Report{Format: format, Mode: s.categorizer.Mode()}
		err = fmt.Errorf("opening statement: %w", err)
	} else {
		defer f.Close()
		if dryRun {
			rep, err = s.Prepare(ctx, format, f)
		} else {
			rep, err = s.Import(ctx, format, f)
		}
	}
	rep.File = filepath.Base(path)

	if logErr := s.record(rep, dryRun, err); logErr != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(logErr).Str("file", rep.File).Msg("writing import log")
	}
	return rep, err
}

// Record appends the outcome of an import to the import log, if one is set.
func (s *Service) Record(rep Report, err error) error {
	return s.record(rep, false, err)
}

func (s *Service) record(rep Report, dryRun bool, err error) error {
	if s.log == nil {
		return nil
	}
	e := importlog.Entry{
		Timestamp: s.now().UTC(),
		BatchID:   rep.BatchID,
		File:      rep.File,
		Format:    rep.Format,
		Mode:      string(rep.Mode),
		Accepted:  rep.Accepted,
		Excluded:  rep.Excluded,
		Dropped:   rep.Dropped,
		Appended:  rep.Appended,
		Status:    importlog.StatusOK,
	}
	switch {
	case err != nil:
		e.Status = importlog.StatusFailed
		e.Error = err.Error()
	case dryRun:
		e.Status = importlog.StatusDryRun
	}
	return s.log.Append(e)
}
