package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zaelmari/controle/internal/model"
)

// Service owns the ledger table behind a Store. It never caches rows: every
// read goes to the store, and every append re-reads the table first so rows
// written by someone else since the last read are kept.
type Service struct {
	store Store
	mu    sync.Mutex // one writer at a time within the process
}

// NewService creates a ledger Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Entries returns every persisted entry.
func (s *Service) Entries(ctx context.Context) ([]model.Entry, error) {
	entries, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return entries, nil
}

// Append validates entries and appends them to the ledger, returning how
// many were written. Either all entries are written or none are. Appending
// the same entries twice stores them twice.
func (s *Service) Append(ctx context.Context, entries []model.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	if verrs := ValidateEntries(entries); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return 0, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading ledger: %w", err)
	}

	all := make([]model.Entry, 0, len(existing)+len(entries))
	all = append(all, existing...)
	all = append(all, entries...)

	if err := s.store.ReplaceAll(ctx, all); err != nil {
		return 0, fmt.Errorf("writing ledger: %w", err)
	}
	return len(entries), nil
}
