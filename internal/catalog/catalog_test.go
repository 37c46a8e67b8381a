package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaelmari/controle/internal/categorize"
	"github.com/zaelmari/controle/internal/model"
)

func TestRoundTrip(t *testing.T) {
	opts := []Option{
		{Type: "Casa", Subcategory: "Aluguel"},
		{Type: "Celular/TV/Internet", Subcategory: "Streaming"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOptions(&buf, opts))
	assert.True(t, strings.HasPrefix(buf.String(), "expense_type,subcategory\n"))

	got, err := ReadOptions(&buf)
	require.NoError(t, err)
	assert.Equal(t, opts, got)
}

func TestReadOptions_Errors(t *testing.T) {
	_, err := ReadOptions(strings.NewReader("expense_type,subcategory\nCasa\n"))
	require.Error(t, err)

	_, err = ReadOptions(strings.NewReader("expense_type,subcategory\nCasa, \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestDefaultCatalog(t *testing.T) {
	svc := NewService(DefaultCatalog())

	assert.Equal(t, "Casa", svc.Types()[0])
	assert.Contains(t, svc.Types(), "Outros")
	assert.Equal(t, []string{"Consulta", "Remédio", "Plano de Saúde"}, svc.Subcategories("Saúde"))
	assert.True(t, svc.Valid("Carro", "Manutenção"))
	assert.True(t, svc.Valid("Casa", "Manutenção"))
	assert.False(t, svc.Valid("Casa", "IPVA"))
	assert.Nil(t, svc.Subcategories("Pets"))
}

func TestDefaultCatalog_CoversDefaultRules(t *testing.T) {
	svc := NewService(DefaultCatalog())
	rf := categorize.DefaultRuleFile()

	assert.True(t, svc.Valid(rf.Fallback.Category, rf.Fallback.Subcategory))
	for _, k := range rf.Keywords {
		assert.True(t, svc.Valid(k.Category, k.Subcategory), "keyword %q", k.Pattern)
	}
	for _, r := range rf.Rules {
		if r.Exclude {
			continue
		}
		assert.True(t, svc.Valid(r.Category, r.Subcategory), "rule %q", r.Name)
	}
}

func TestCheck(t *testing.T) {
	svc := NewService(DefaultCatalog())

	require.NoError(t, svc.Check(model.CategoryExpense, "Mercado", "Extras"))
	require.NoError(t, svc.Check(model.CategoryIncome, model.NotApplicable, model.NotApplicable))

	err := svc.Check(model.CategoryExpense, "Pets", "Ração")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown expense type "Pets"`)

	err = svc.Check(model.CategoryExpense, "Mercado", "Aluguel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Compras Mensais, Extras")

	err = svc.Check(model.CategoryIncome, "Mercado", "Extras")
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewService(DefaultCatalog()).Save(dir))

	_, err := os.Stat(filepath.Join(dir, "catalog", "expense-types.csv"))
	require.NoError(t, err)

	svc, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), svc.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
