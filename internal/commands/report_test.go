package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importedRepo(t *testing.T) string {
	t.Helper()
	dir := initRepo(t)
	out, err := runControle(t, "import", fixture, "--repo", dir)
	require.NoError(t, err, out)
	return dir
}

func TestList(t *testing.T) {
	dir := importedRepo(t)

	out, err := runControle(t, "list", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "DESCRIPTION")
	assert.Contains(t, out, "R$ -39.90")
	assert.Equal(t, 6, countLines(out, "2024-"))

	out, err = runControle(t, "list", "--repo", dir, "--type", "Mercado")
	require.NoError(t, err, out)
	assert.Equal(t, 1, countLines(out, "2024-"))
	assert.Contains(t, out, "SUPERMERCADO EXTRA")

	out, err = runControle(t, "list", "--repo", dir, "--month", "2023-01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No entries.")
}

func TestSummary(t *testing.T) {
	dir := importedRepo(t)

	out, err := runControle(t, "summary", "--repo", dir, "--monthly", "--by-type")
	require.NoError(t, err, out)
	assert.Contains(t, out, "R$ 1284.56")
	assert.Contains(t, out, "R$ -1307.91")
	assert.Contains(t, out, "R$ -23.35")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "Mercado")
}

func TestSummary_Filtered(t *testing.T) {
	dir := importedRepo(t)

	out, err := runControle(t, "summary", "--repo", dir, "--party", "Zael")
	require.NoError(t, err, out)
	assert.Contains(t, out, "R$ -33.45")
	assert.Contains(t, out, "R$ 0.00")
}

func TestCategorize(t *testing.T) {
	dir := initRepo(t)

	out, err := runControle(t, "categorize", "--repo", dir, "NETFLIX.COM")
	require.NoError(t, err, out)
	assert.Equal(t, "Celular/TV/Internet / Streaming (rule netflix)\n", out)

	out, err = runControle(t, "categorize", "--repo", dir, "LOJA", "XPTO")
	require.NoError(t, err, out)
	assert.Equal(t, "Outros / Diversos (fallback)\n", out)

	out, err = runControle(t, "categorize", "--repo", dir, "--mode", "rules", "PAGAMENTO FATURA")
	require.NoError(t, err, out)
	assert.Equal(t, "excluded by rule pagamento-fatura\n", out)
}
