package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zaelmari/controle/internal/buildinfo"
	"github.com/zaelmari/controle/internal/importer"
	"github.com/zaelmari/controle/internal/ledger"
	"github.com/zaelmari/controle/internal/logger"
	"github.com/zaelmari/controle/internal/model"
)

const (
	maxUploadBytes  = 10 << 20
	shutdownTimeout = 5 * time.Second
	monthLayout     = "2006-01"
	dateLayout      = "2006-01-02"
)

// Ledger reads the persisted entries.
type Ledger interface {
	Entries(ctx context.Context) ([]model.Entry, error)
}

// Importer imports uploaded statements.
type Importer interface {
	Supports(format string) bool
	Import(ctx context.Context, format string, r io.Reader) (importer.Report, error)
	Record(rep importer.Report, err error) error
}

// Params configure a Server. AfterImport, if set, runs after each upload
// that appended entries.
type Params struct {
	Ledger        Ledger
	Importer      Importer
	AfterImport   func(ctx context.Context, rep importer.Report)
	Log           zerolog.Logger
	RatePerSecond float64
	Burst         int
}

// Server exposes the ledger over HTTP.
type Server struct {
	ledger      Ledger
	importer    Importer
	afterImport func(ctx context.Context, rep importer.Report)
	log         zerolog.Logger
	limiter     *clientLimiter
}

// New creates a Server.
func New(p Params) *Server {
	return &Server{
		ledger:      p.Ledger,
		importer:    p.Importer,
		afterImport: p.AfterImport,
		log:         p.Log,
		limiter:     newClientLimiter(p.RatePerSecond, p.Burst),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withLogger)
	r.Use(s.limiter.middleware)

	r.Get("/health", s.handleHealth)
	r.Get("/entries", s.handleEntries)
	r.Get("/options", s.handleOptions)
	r.Route("/summary", func(r chi.Router) {
		r.Get("/", s.handleSummary)
		r.Get("/monthly", s.handleMonthly)
	})
	r.Post("/imports", s.handleImport)
	return r
}

// ListenAndServe serves the API on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		log.Debug().Msg("request")
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), log)))
	})
}

type entryJSON struct {
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	ExpenseType      string          `json:"expense_type"`
	Subcategory      string          `json:"subcategory"`
	Amount           decimal.Decimal `json:"amount"`
	Installments     string          `json:"installments"`
	PaymentMethod    string          `json:"payment_method"`
	Status           string          `json:"status"`
	ResponsibleParty string          `json:"responsible_party"`
	Notes            string          `json:"notes"`
}

func toJSON(e model.Entry) entryJSON {
	j := entryJSON{
		Description:      e.Description,
		Category:         string(e.Category),
		ExpenseType:      e.ExpenseType,
		Subcategory:      e.Subcategory,
		Amount:           e.Amount,
		Installments:     e.Installments,
		PaymentMethod:    e.PaymentMethod,
		Status:           e.Status,
		ResponsibleParty: e.ResponsibleParty,
		Notes:            e.Notes,
	}
	if !e.Date.IsZero() {
		j.Date = e.Date.Format(dateLayout)
	}
	return j
}

type entriesResponse struct {
	Count   int         `json:"count"`
	Entries []entryJSON `json:"entries"`
}

type summaryResponse struct {
	Filter ledger.Filter `json:"filter"`
	ledger.Summary
	ByType []ledger.TypeTotal `json:"by_type"`
}

type importResponse struct {
	BatchID  string `json:"batch_id"`
	File     string `json:"file"`
	Format   string `json:"format"`
	Mode     string `json:"mode"`
	Accepted int    `json:"accepted"`
	Excluded int    `json:"excluded"`
	Dropped  int    `json:"dropped"`
	Appended int    `json:"appended"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// filterFromQuery reads ?party=&type=&month= into a Filter.
func filterFromQuery(r *http.Request) (ledger.Filter, error) {
	q := r.URL.Query()
	f := ledger.Filter{
		Party:       q.Get("party"),
		ExpenseType: q.Get("type"),
		Month:       q.Get("month"),
	}
	if f.Month != "" {
		if _, err := time.Parse(monthLayout, f.Month); err != nil {
			return f, fmt.Errorf("month must be YYYY-MM, got %q", f.Month)
		}
	}
	return f, nil
}

// load reads the ledger and the request filter, writing the error response
// itself when either fails.
func (s *Server) load(w http.ResponseWriter, r *http.Request) ([]model.Entry, ledger.Filter, bool) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, f, false
	}
	entries, err := s.ledger.Entries(r.Context())
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("loading ledger")
		writeError(w, http.StatusInternalServerError, "could not load ledger")
		return nil, f, false
	}
	return entries, f, true
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	entries, f, ok := s.load(w, r)
	if !ok {
		return
	}
	matched := f.Apply(entries)
	resp := entriesResponse{Count: len(matched), Entries: make([]entryJSON, 0, len(matched))}
	for _, e := range matched {
		resp.Entries = append(resp.Entries, toJSON(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	entries, _, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ledger.FilterOptions(entries))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	entries, f, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Filter:  f,
		Summary: ledger.Summarize(entries, f),
		ByType:  ledger.ExpensesByType(entries, f),
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	entries, f, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ledger.Monthly(entries, f))
}

// handleImport accepts a statement as the multipart field "file" or as the
// raw request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = importer.DefaultFormat
	}
	if !s.importer.Supports(format) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown statement format %q", format))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	body, name, err := uploadedStatement(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	log := logger.FromContext(r.Context())
	rep, err := s.importer.Import(r.Context(), format, body)
	rep.File = name
	if logErr := s.importer.Record(rep, err); logErr != nil {
		log.Warn().Err(logErr).Msg("writing import log")
	}
	if err != nil {
		log.Error().Err(err).Str("file", name).Msg("import failed")
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	if s.afterImport != nil && rep.Appended > 0 {
		s.afterImport(r.Context(), rep)
	}

	writeJSON(w, http.StatusCreated, importResponse{
		BatchID:  rep.BatchID,
		File:     rep.File,
		Format:   rep.Format,
		Mode:     string(rep.Mode),
		Accepted: rep.Accepted,
		Excluded: rep.Excluded,
		Dropped:  rep.Dropped,
		Appended: rep.Appended,
	})
}

func uploadedStatement(r *http.Request) (io.ReadCloser, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("reading upload field \"file\": %w", err)
		}
		return f, hdr.Filename, nil
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}
	return r.Body, name, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
