package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zaelmari/controle/internal/model"
)

// Parser converts a statement export into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Detector is implemented by parsers that can recognize their own exports.
type Detector interface {
	Detect(text string) bool
}

const (
	// DefaultFormat is the parser used when none is requested.
	DefaultFormat = "cartao"
	// FormatAuto asks the registry to pick the parser from the statement text.
	FormatAuto = "auto"
)

// Registry holds the statement parsers by format name. Detection tries them
// in registration order.
type Registry struct {
	byFormat map[string]Parser
	order    []Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[string]Parser)}
}

// DefaultRegistry returns a registry with every built-in statement parser.
func DefaultRegistry(parties *PartyResolver) *Registry {
	r := NewRegistry()
	r.Register(NewCardStatementParser(parties))
	return r
}

// Register adds a parser. Format names are case-insensitive; registering
// the same format twice, or the reserved "auto", panics.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if key == FormatAuto {
		panic("parser format name is reserved: " + key)
	}
	if _, dup := r.byFormat[key]; dup {
		panic("duplicate parser format: " + key)
	}
	r.byFormat[key] = p
	r.order = append(r.order, p)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.byFormat[strings.ToLower(format)]
}

// Detect returns the first parser that recognizes text, or nil.
func (r *Registry) Detect(text string) Parser {
	for _, p := range r.order {
		if d, ok := p.(Detector); ok && d.Detect(text) {
			return p
		}
	}
	return nil
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.order))
	for _, p := range r.order {
		names = append(names, strings.ToLower(p.Format()))
	}
	slices.Sort(names)
	return names
}

// ImportDir is the subdirectory where statements wait to be imported.
const ImportDir = "import"

// ProcessedDir receives statements after a successful import.
var ProcessedDir = filepath.Join(ImportDir, "processed")

// statementExts are the export extensions banks use for card statements.
var statementExts = []string{".csv", ".txt"}

// Statement is an export file waiting in import/.
type Statement struct {
	Name string
	Path string
	Size int64
}

// waiting reports whether a directory entry looks like a statement export.
// Hidden files, spreadsheet lock files ("~$fatura.csv") and empty downloads
// are left alone.
func waiting(name string, size int64) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	if size == 0 {
		return false
	}
	return slices.Contains(statementExts, strings.ToLower(filepath.Ext(name)))
}

// Scan lists the statements waiting in <root>/import/, sorted by name.
// Subdirectories, processed/ included, are not descended into.
func Scan(root string) ([]Statement, error) {
	dir := filepath.Join(root, ImportDir)
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ImportDir, err)
	}

	var waitingList []Statement
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
		}
		if !waiting(de.Name(), info.Size()) {
			continue
		}
		waitingList = append(waitingList, Statement{
			Name: de.Name(),
			Path: filepath.Join(dir, de.Name()),
			Size: info.Size(),
		})
	}
	return waitingList, nil
}

// MarkProcessed moves an imported statement to import/processed/. Banks
// reuse export names month after month, so an existing file of the same
// name is kept and the new one gets a numeric suffix ("fatura-2.csv").
// It returns the name under processed/.
func MarkProcessed(root, name string) (string, error) {
	dstDir := filepath.Join(root, ProcessedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", ProcessedDir, err)
	}

	target := name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		_, err := os.Stat(filepath.Join(dstDir, target))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", target, err)
		}
		target = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}

	if err := os.Rename(filepath.Join(root, ImportDir, name), filepath.Join(dstDir, target)); err != nil {
		return "", fmt.Errorf("moving %s to %s: %w", name, ProcessedDir, err)
	}
	return target, nil
}
