package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zaelmari/controle/internal/model"
)

// File is the config file name inside the data directory.
const File = "controle.yaml"

// EnvFile holds optional environment overrides inside the data directory.
const EnvFile = ".env"

// EnvPrefix prefixes every environment override, e.g. CONTROLE_LEDGER_BACKEND.
const EnvPrefix = "CONTROLE_"

// Config represents the top-level controle.yaml configuration.
type Config struct {
	Ledger      LedgerConfig      `yaml:"ledger" envPrefix:"LEDGER_"`
	Import      ImportConfig      `yaml:"import" envPrefix:"IMPORT_"`
	Categorizer CategorizerConfig `yaml:"categorizer" envPrefix:"CATEGORIZER_"`
	Parties     PartiesConfig     `yaml:"parties" envPrefix:"PARTIES_"`
	Defaults    DefaultsConfig    `yaml:"defaults" envPrefix:"DEFAULTS_"`
	Log         LogConfig         `yaml:"log" envPrefix:"LOG_"`
	Git         GitConfig         `yaml:"git" envPrefix:"GIT_"`
	Server      ServerConfig      `yaml:"server" envPrefix:"SERVER_"`
}

// LedgerConfig selects the row store. An empty path means the backend's
// default file under ledger/.
type LedgerConfig struct {
	Backend string `yaml:"backend" env:"BACKEND"` // csv, xlsx or sqlite
	Path    string `yaml:"path,omitempty" env:"PATH"`
	Sheet   string `yaml:"sheet,omitempty" env:"SHEET"` // xlsx only
}

// ImportConfig controls statement imports.
type ImportConfig struct {
	Format   string `yaml:"format" env:"FORMAT"`
	Schedule string `yaml:"schedule" env:"SCHEDULE"` // cron spec for watch
}

// CategorizerConfig picks the categorization mode and rule file.
type CategorizerConfig struct {
	Mode      string `yaml:"mode" env:"MODE"`
	RulesFile string `yaml:"rules_file" env:"RULES_FILE"`
}

// PartiesConfig maps card holder names to responsible parties.
type PartiesConfig struct {
	Individuals []Individual `yaml:"individuals"`
	Joint       string       `yaml:"joint" env:"JOINT"`
}

// Individual is one household member and the name fragments that identify them.
type Individual struct {
	Label     string   `yaml:"label"`
	Fragments []string `yaml:"fragments"`
}

// DefaultsConfig fills entry fields a statement does not carry.
type DefaultsConfig struct {
	Installments  string `yaml:"installments" env:"INSTALLMENTS"`
	PaymentMethod string `yaml:"payment_method" env:"PAYMENT_METHOD"`
	Status        string `yaml:"status" env:"STATUS"`
	Notes         string `yaml:"notes" env:"NOTES"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // console or json
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name" env:"AUTHOR_NAME"`
	AuthorEmail string `yaml:"author_email" env:"AUTHOR_EMAIL"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr          string  `yaml:"addr" env:"ADDR"`
	RatePerSecond float64 `yaml:"rate_per_second" env:"RATE_PER_SECOND"`
	Burst         int     `yaml:"burst" env:"BURST"`
}

var defaultLedgerFiles = map[string]string{
	"csv":    "ledger/lancamentos.csv",
	"xlsx":   "ledger/controle.xlsx",
	"sqlite": "ledger/controle.db",
}

// Load reads a controle.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Resolve loads the configuration of the data directory root. Values come
// from controle.yaml, then root/.env, then the process environment, with
// anything still unset taken from Default.
func Resolve(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, File))
	if err != nil {
		return nil, err
	}

	vars, err := environment(root)
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg, env.Options{Prefix: EnvPrefix, Environment: vars}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := mergo.Merge(cfg, *Default()); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}
	return cfg, nil
}

// environment returns the variables of root/.env overlaid with the process
// environment.
func environment(root string) (map[string]string, error) {
	vars := map[string]string{}

	dotenv, err := godotenv.Read(filepath.Join(root, EnvFile))
	switch {
	case err == nil:
		maps.Copy(vars, dotenv)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading %s: %w", EnvFile, err)
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Backend: "csv",
		},
		Import: ImportConfig{
			Format:   "cartao",
			Schedule: "@every 1m",
		},
		Categorizer: CategorizerConfig{
			Mode:      "keywords",
			RulesFile: "rules/categorization-rules.yaml",
		},
		Parties: PartiesConfig{
			Individuals: []Individual{
				{Label: "Zael", Fragments: []string{"metusael"}},
				{Label: "Mari", Fragments: []string{"mariana"}},
			},
			Joint: model.PartyJoint,
		},
		Defaults: DefaultsConfig{
			Installments:  model.InstallmentsSingle,
			PaymentMethod: model.PaymentCreditCard,
			Status:        model.StatusPaid,
			Notes:         model.NotesImported,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AuthorName:  "controle",
			AuthorEmail: "controle@localhost",
		},
		Server: ServerConfig{
			Addr:          "127.0.0.1:8080",
			RatePerSecond: 5,
			Burst:         10,
		},
	}
}

// LedgerPath returns the ledger file for the configured backend, resolved
// against root.
func (c *Config) LedgerPath(root string) (string, error) {
	p := c.Ledger.Path
	if p == "" {
		var ok bool
		if p, ok = defaultLedgerFiles[c.Ledger.Backend]; !ok {
			return "", fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
		}
	}
	return resolvePath(root, p), nil
}

// RulesPath returns the categorization rule file resolved against root.
func (c *Config) RulesPath(root string) string {
	return resolvePath(root, c.Categorizer.RulesFile)
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
