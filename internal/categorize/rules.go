package categorize

import (
	"fmt"
	"strings"

	"github.com/zaelmari/controle/internal/model"
)

// Predicate matches when any of its keywords occurs in the lower-cased
// description. An Exclude predicate drops the transaction instead of
// labelling it, e.g. the payment of the previous bill.
type Predicate struct {
	Name        string   `yaml:"name"`
	Keywords    []string `yaml:"keywords"`
	Exclude     bool     `yaml:"exclude,omitempty"`
	model.Label `yaml:",inline"`
}

func (p Predicate) match(desc string) bool {
	for _, kw := range p.Keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// RuleSet is the rule-based categorizer.
type RuleSet struct {
	predicates []Predicate // keywords lower-cased
	fallback   model.Label
}

// NewRuleSet validates and copies predicates into a rule set.
func NewRuleSet(predicates []Predicate, fallback model.Label) (*RuleSet, error) {
	rs := &RuleSet{predicates: make([]Predicate, 0, len(predicates)), fallback: fallback}
	for i, p := range predicates {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if !p.Exclude && p.Category == "" {
			return nil, fmt.Errorf("rule %s: missing category", name)
		}
		kws := make([]string, 0, len(p.Keywords))
		for _, kw := range p.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("rule %s: empty keyword", name)
			}
			kws = append(kws, kw)
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("rule %s: no keywords", name)
		}
		rs.predicates = append(rs.predicates, Predicate{Name: name, Keywords: kws, Exclude: p.Exclude, Label: p.Label})
	}
	return rs, nil
}

// Mode implements Categorizer.
func (rs *RuleSet) Mode() Mode { return ModeRules }

// Categorize implements Categorizer.
func (rs *RuleSet) Categorize(description string) Result {
	desc := normalize(description)
	for _, p := range rs.predicates {
		if !p.match(desc) {
			continue
		}
		if p.Exclude {
			return Result{Rule: p.Name, Excluded: true}
		}
		return Result{Label: p.Label, Rule: p.Name}
	}
	return Result{Label: rs.fallback}
}
