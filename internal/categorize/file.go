package categorize

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zaelmari/controle/internal/model"
)

// RulesPath is the rule file location relative to the data directory.
const RulesPath = "rules/categorization-rules.yaml"

//go:embed default-rules.yaml
var defaultRules []byte

// RuleFile is the on-disk rule table. Both sections are kept so the mode can
// be switched in config without editing rules. YAML sequences keep their
// authored order, which is the match order.
type RuleFile struct {
	Fallback model.Label   `yaml:"fallback"`
	Keywords []KeywordRule `yaml:"keywords"`
	Rules    []Predicate   `yaml:"rules"`
}

// DefaultRuleFile returns the built-in rule table.
func DefaultRuleFile() *RuleFile {
	rf, err := ParseRules(defaultRules)
	if err != nil {
		panic("embedded rules: " + err.Error())
	}
	return rf
}

// DefaultRulesYAML returns the built-in rule table as written by init.
func DefaultRulesYAML() []byte {
	return append([]byte(nil), defaultRules...)
}

// ParseRules decodes a rule file.
func ParseRules(data []byte) (*RuleFile, error) {
	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return &rf, nil
}

// LoadRules reads a rule file from disk.
func LoadRules(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return ParseRules(data)
}

// Load reads the rule file at path and builds the categorizer for mode.
func Load(path string, mode Mode) (Categorizer, error) {
	rf, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	c, err := New(mode, rf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
