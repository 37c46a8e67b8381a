package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Ledger.Backend = "xlsx"
	cfg.Ledger.Sheet = "Planilha"
	cfg.Parties.Individuals = append(cfg.Parties.Individuals, Individual{Label: "Lu", Fragments: []string{"luiza"}})

	path := filepath.Join(t.TempDir(), File)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "csv", cfg.Ledger.Backend)
	assert.Equal(t, "cartao", cfg.Import.Format)
	assert.Equal(t, "@every 1m", cfg.Import.Schedule)
	assert.Equal(t, "keywords", cfg.Categorizer.Mode)
	assert.Equal(t, "Casal", cfg.Parties.Joint)
	require.Len(t, cfg.Parties.Individuals, 2)
	assert.Equal(t, "Zael", cfg.Parties.Individuals[0].Label)
	assert.Equal(t, "Única", cfg.Defaults.Installments)
	assert.Equal(t, "Cartão Crédito", cfg.Defaults.PaymentMethod)
	assert.False(t, cfg.Git.AutoCommit)
	assert.InDelta(t, 5.0, cfg.Server.RatePerSecond, 0.001)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), File)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: csv")
	assert.Contains(t, contents, "mode: keywords")
	assert.Contains(t, contents, "auto_commit: false")
	assert.Contains(t, contents, "- metusael")
	assert.NotContains(t, contents, "path:")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolve_FillsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, File), "ledger:\n  backend: sqlite\ncategorizer:\n  mode: rules\n")

	cfg, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, "rules", cfg.Categorizer.Mode)
	assert.Equal(t, "rules/categorization-rules.yaml", cfg.Categorizer.RulesFile)
	assert.Equal(t, "cartao", cfg.Import.Format)
	assert.Len(t, cfg.Parties.Individuals, 2)
	assert.Equal(t, "Pago", cfg.Defaults.Status)
}

func TestResolve_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, File), "ledger:\n  backend: csv\nlog:\n  level: info\n")
	writeFile(t, filepath.Join(dir, EnvFile), "CONTROLE_LEDGER_BACKEND=xlsx\nCONTROLE_LOG_LEVEL=warn\n")
	t.Setenv("CONTROLE_LOG_LEVEL", "debug")
	t.Setenv("CONTROLE_GIT_AUTO_COMMIT", "true")

	cfg, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Ledger.Backend, ".env beats the file")
	assert.Equal(t, "debug", cfg.Log.Level, "process env beats .env")
	assert.True(t, cfg.Git.AutoCommit)
}

func TestResolve_BadEnvValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, File), "server:\n  burst: 3\n")
	t.Setenv("CONTROLE_SERVER_BURST", "lots")

	_, err := Resolve(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing environment")
}

func TestResolve_MissingConfig(t *testing.T) {
	_, err := Resolve(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLedgerPath(t *testing.T) {
	cfg := Default()
	p, err := cfg.LedgerPath("/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "ledger", "lancamentos.csv"), p)

	cfg.Ledger.Backend = "sqlite"
	p, err = cfg.LedgerPath("/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "ledger", "controle.db"), p)

	cfg.Ledger.Path = "/elsewhere/planilha.xlsx"
	p, err = cfg.LedgerPath("/data")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/planilha.xlsx", p)

	cfg.Ledger = LedgerConfig{Backend: "ods"}
	_, err = cfg.LedgerPath("/data")
	require.Error(t, err)
}

func TestRulesPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/data", "rules", "categorization-rules.yaml"), cfg.RulesPath("/data"))
}
