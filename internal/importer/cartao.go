package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zaelmari/controle/internal/model"
)

const (
	cartaoColDate = 0
	cartaoColDesc = 1
)

// CardStatementParser parses semicolon-delimited credit card statement
// exports ("fatura"). Only transaction-shaped lines are read; every other
// line is ignored.
type CardStatementParser struct {
	parties *PartyResolver
}

// NewCardStatementParser creates a parser that resolves card holders with parties.
func NewCardStatementParser(parties *PartyResolver) *CardStatementParser {
	return &CardStatementParser{parties: parties}
}

// Format returns the parser name.
func (p *CardStatementParser) Format() string { return "cartao" }

// Detect reports whether text holds at least one card transaction line.
func (p *CardStatementParser) Detect(text string) bool {
	for range Lines(text) {
		return true
	}
	return false
}

// Parse reads a statement export and returns one Transaction per accepted
// line. Lines whose date or amount do not parse are still returned, with the
// failing value left null, so callers can count them before dropping.
func (p *CardStatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	var txns []model.Transaction
	for line := range Lines(string(data)) {
		txns = append(txns, p.parseLine(line))
	}
	return txns, nil
}

func (p *CardStatementParser) parseLine(line RawLine) model.Transaction {
	date, _ := ParseDate(line.Fields[cartaoColDate])

	var amount decimal.NullDecimal
	if d, ok := ParseAmount(amountField(line.Fields)); ok {
		amount = decimal.NewNullDecimal(d)
	}

	payer := cleanText(line.Fields[len(line.Fields)-1])
	return model.Transaction{
		Date:        date,
		Description: cleanText(line.Fields[cartaoColDesc]),
		Amount:      amount,
		PayerRaw:    payer,
		Party:       p.parties.Resolve(payer),
	}
}

// amountField returns the first field between the description and the holder
// name that carries the currency marker, falling back to any later field.
func amountField(fields []string) string {
	for _, f := range fields[cartaoColDesc+1 : len(fields)-1] {
		if strings.Contains(f, CurrencyMarker) {
			return f
		}
	}
	for _, f := range fields[cartaoColDesc+1:] {
		if strings.Contains(f, CurrencyMarker) {
			return f
		}
	}
	return ""
}
