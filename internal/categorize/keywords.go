package categorize

import (
	"fmt"
	"strings"

	"github.com/zaelmari/controle/internal/model"
)

// KeywordRule maps a case-insensitive substring to a label.
type KeywordRule struct {
	Pattern     string `yaml:"pattern"`
	model.Label `yaml:",inline"`
}

// KeywordTable is the keyword-table categorizer. Rules are tried in the order
// they were authored and the first match wins.
type KeywordTable struct {
	rules    []KeywordRule // patterns lower-cased
	fallback model.Label
}

// NewKeywordTable validates and copies rules into a table.
func NewKeywordTable(rules []KeywordRule, fallback model.Label) (*KeywordTable, error) {
	t := &KeywordTable{rules: make([]KeywordRule, 0, len(rules)), fallback: fallback}
	for i, r := range rules {
		p := strings.ToLower(strings.TrimSpace(r.Pattern))
		if p == "" {
			return nil, fmt.Errorf("keyword rule %d: empty pattern", i+1)
		}
		if r.Category == "" {
			return nil, fmt.Errorf("keyword rule %d (%s): missing category", i+1, r.Pattern)
		}
		t.rules = append(t.rules, KeywordRule{Pattern: p, Label: r.Label})
	}
	return t, nil
}

// Mode implements Categorizer.
func (t *KeywordTable) Mode() Mode { return ModeKeywords }

// Len returns the number of rules.
func (t *KeywordTable) Len() int { return len(t.rules) }

// Categorize implements Categorizer.
func (t *KeywordTable) Categorize(description string) Result {
	desc := normalize(description)
	for _, r := range t.rules {
		if strings.Contains(desc, r.Pattern) {
			return Result{Label: r.Label, Rule: r.Pattern}
		}
	}
	return Result{Label: t.fallback}
}
