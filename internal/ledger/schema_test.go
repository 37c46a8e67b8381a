package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaelmari/controle/internal/model"
)

func TestRoundTrip(t *testing.T) {
	entries := []model.Entry{
		expense(date(2024, 3, 15), "NETFLIX.COM", "-39.90", "Celular/TV/Internet", "Mari"),
		income(date(2024, 3, 5), "Salário", "5000.00", "Zael"),
	}
	entries[0].Notes = model.NotesImported

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), "Date,Description,Category,ExpenseType,"))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range entries {
		assert.True(t, entries[i].Amount.Equal(got[i].Amount), "amount row %d", i)
		want, have := entries[i], got[i]
		want.Amount, have.Amount = decimal.Zero, decimal.Zero
		assert.Equal(t, want, have)
	}
}

func TestMarshalEntry(t *testing.T) {
	row := MarshalEntry(expense(date(2024, 1, 1), "LOJA XPTO", "-10", "Outros", "Zael"))
	require.Len(t, row, len(Columns))
	assert.Equal(t, "2024-01-01", row[colDate])
	assert.Equal(t, "-10.00", row[colAmount], "StringFixed(2) should keep trailing zeros")
	assert.Equal(t, "Despesa", row[colCategory])
}

func TestMarshalEntry_Undated(t *testing.T) {
	row := MarshalEntry(model.Entry{Description: "sem data"})
	assert.Empty(t, row[colDate])
}

func TestReadEntries_PortugueseHeader(t *testing.T) {
	data := "Data,Descrição,Categoria,Tipo de Despesa,Subcategoria,Valor (R$),Parcelas,Forma de Pagamento,Status,Responsável,Observações\n" +
		"2024-03-15,Mercado,Despesa,Mercado,Compras Mensais,-250.5,Única,Pix,Pago,Casal,\n"

	got, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mercado", got[0].ExpenseType)
	assert.Equal(t, "Compras Mensais", got[0].Subcategory)
	assert.Equal(t, "Casal", got[0].ResponsibleParty)
	assert.True(t, got[0].Amount.Equal(dec("-250.50")))
}

func TestReadEntries_MissingOptionalColumn(t *testing.T) {
	// Older sheets have no "Tipo de Despesa" column.
	data := "Data,Descrição,Categoria,Subcategoria,Valor (R$),Responsável\n" +
		"2024-01-10,Aluguel,Despesa,Aluguel,-1500,Casal\n"

	got, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ExpenseType)
	assert.Equal(t, "Aluguel", got[0].Subcategory)
	assert.Empty(t, got[0].Notes)
}

func TestReadEntries_ReorderedAndUnknownColumns(t *testing.T) {
	data := "Amount,Extra,Description,Date\n-5.00,ignored,Café,2024-02-02\n"

	got, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Café", got[0].Description)
	assert.True(t, got[0].Date.Equal(date(2024, 2, 2)))
}

func TestReadEntries_SkipsBlankRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, []model.Entry{
		expense(date(2024, 1, 1), "a", "-1.00", "Outros", "Zael"),
	}))
	buf.WriteString(",,,,,,,,,,\n")
	buf.WriteString(" , ,,,,,,,,,\n")

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReadEntries_LegacyDates(t *testing.T) {
	data := "Data,Descrição,Valor (R$)\n" +
		"2024-03-15 00:00:00,a,-1\n" +
		"15/03/2024,b,-2\n" +
		",c,-3\n"

	got, err := ReadEntries(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Equal(date(2024, 3, 15)))
	assert.True(t, got[1].Date.Equal(date(2024, 3, 15)))
	assert.True(t, got[2].Date.IsZero())
}

func TestReadEntries_BadDate(t *testing.T) {
	data := "Date,Description,Amount\nNOTADATE,x,-1.00\n"
	_, err := ReadEntries(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "parsing date")
}

func TestReadEntries_BadAmount(t *testing.T) {
	data := "Date,Description,Amount\n2024-01-01,x,abc\n"
	_, err := ReadEntries(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestReadEntries_Empty(t *testing.T) {
	got, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapHeader(t *testing.T) {
	_, err := MapHeader([]string{"Date", "Description"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column Amount")

	_, err = MapHeader([]string{"Date", "Data", "Description", "Amount"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")

	m, err := MapHeader([]string{"\ufeffDate", "Description", "Amount"})
	require.NoError(t, err)
	assert.Equal(t, 0, m[colDate])
	assert.Equal(t, columnAbsent, m[colNotes])
}
