package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zaelmari/controle/internal/model"
)

// Path is the catalog file location relative to the data directory.
const Path = "catalog/expense-types.csv"

// Service provides lookup over the expense type catalog.
type Service struct {
	opts  []Option
	types []string
	subs  map[string][]string
}

// NewService creates a Service from a slice of options. Type order follows
// the first appearance of each type.
func NewService(opts []Option) *Service {
	s := &Service{opts: opts, subs: make(map[string][]string)}
	for _, o := range opts {
		if _, ok := s.subs[o.Type]; !ok {
			s.types = append(s.types, o.Type)
		}
		s.subs[o.Type] = append(s.subs[o.Type], o.Subcategory)
	}
	return s
}

// Load reads expense-types.csv from a data directory and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(filepath.Join(repoRoot, Path))
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	opts, err := ReadOptions(f)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return NewService(opts), nil
}

// All returns every option.
func (s *Service) All() []Option {
	return s.opts
}

// Types returns the expense types in catalog order.
func (s *Service) Types() []string {
	return s.types
}

// Subcategories returns the subcategories of an expense type.
func (s *Service) Subcategories(expenseType string) []string {
	return s.subs[expenseType]
}

// Valid reports whether subcategory belongs to expenseType.
func (s *Service) Valid(expenseType, subcategory string) bool {
	for _, sub := range s.subs[expenseType] {
		if sub == subcategory {
			return true
		}
	}
	return false
}

// Check validates the classification of a manual entry. Income carries no
// expense type; expenses need a pair from the catalog.
func (s *Service) Check(category model.EntryCategory, expenseType, subcategory string) error {
	if category == model.CategoryIncome {
		if expenseType != model.NotApplicable || subcategory != model.NotApplicable {
			return fmt.Errorf("income entries take %q as expense type and subcategory", model.NotApplicable)
		}
		return nil
	}
	subs, ok := s.subs[expenseType]
	if !ok {
		return fmt.Errorf("unknown expense type %q (have %s)", expenseType, strings.Join(s.types, ", "))
	}
	if !s.Valid(expenseType, subcategory) {
		return fmt.Errorf("unknown subcategory %q for %s (have %s)", subcategory, expenseType, strings.Join(subs, ", "))
	}
	return nil
}

// Save writes the catalog to catalog/expense-types.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, filepath.Dir(Path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}

	f, err := os.Create(filepath.Join(repoRoot, Path))
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	defer f.Close()

	if err := WriteOptions(f, s.opts); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}
