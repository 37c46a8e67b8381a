// Package categorize assigns (category, subcategory) labels to statement
// descriptions from an ordered, read-only rule table.
package categorize

import (
	"fmt"
	"strings"

	"github.com/zaelmari/controle/internal/model"
)

// Mode selects the matching strategy.
type Mode string

const (
	// ModeKeywords matches an ordered pattern table.
	ModeKeywords Mode = "keywords"
	// ModeRules evaluates ordered keyword-set predicates, some of which
	// exclude the transaction.
	ModeRules Mode = "rules"
)

// Result is the outcome of categorizing one description.
type Result struct {
	Label    model.Label
	Rule     string // pattern or predicate name that matched, "" for fallback
	Excluded bool   // the transaction must not reach the ledger
}

// Fallback reports whether no rule matched.
func (r Result) Fallback() bool {
	return r.Rule == "" && !r.Excluded
}

// Categorizer labels descriptions. Implementations are immutable and
// deterministic: the same description always yields the same Result.
type Categorizer interface {
	Categorize(description string) Result
	Mode() Mode
}

// New builds the categorizer for mode from a loaded rule file.
func New(mode Mode, rf *RuleFile) (Categorizer, error) {
	fallback := rf.Fallback
	if fallback.Category == "" {
		fallback = model.FallbackLabel
	}

	switch mode {
	case ModeKeywords, "":
		return NewKeywordTable(rf.Keywords, fallback)
	case ModeRules:
		return NewRuleSet(rf.Rules, fallback)
	default:
		return nil, fmt.Errorf("unknown categorizer mode %q", mode)
	}
}

func normalize(description string) string {
	return strings.ToLower(strings.TrimSpace(description))
}
