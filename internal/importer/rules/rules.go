// Package rules is an offline statement parser. It understands semicolon or
// comma separated bank exports with a known header, and free text where each
// line reads "<date> <description> <signed amount>".
package rules

import (
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

var lineRe = regexp.MustCompile(
	`^\s*(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4})\s+(.+?)\s+((?:[+-]\s*)?(?:R\$\s*)?[+-]?[\d.,]*\d)\s*$`,
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(ctx context.Context, text string) ([]transaction.Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputs, ok := parseCSV(text)
	if !ok {
		inputs = parseLines(text)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no transaction lines found", importer.ErrInvalidResponse)
	}

	return inputs, nil
}

func parseLines(text string) []transaction.Input {
	var inputs []transaction.Input

	for line := range strings.Lines(text) {
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, ok := parseDate(m[1])
		if !ok {
			continue
		}

		amount, err := parseAmount(m[3])
		if err != nil || amount.IsZero() {
			continue
		}

		if in, ok := build(strings.TrimSpace(m[2]), amount, date); ok {
			inputs = append(inputs, in)
		}
	}

	return inputs
}

// parseCSV reports false when text does not look like a known bank export.
func parseCSV(text string) ([]transaction.Input, bool) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, false
	}

	cols, headerIdx, ok := detectLayout(rows)
	if !ok {
		return nil, false
	}

	return parseRows(cols, rows[headerIdx+1:]), true
}

func delimiter(text string) rune {
	if strings.Count(text, ";") > 0 {
		return ';'
	}

	return ','
}

// detectLayout finds the first row that reads as a known header.
func detectLayout(rows [][]string) (columns, int, bool) {
	for rowIdx, row := range rows {
		header := make(colIndex)

		for i, cell := range row {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				header[name] = i
			}
		}

		for _, l := range layouts {
			if cols, ok := l.bind(header); ok {
				return cols, rowIdx, true
			}
		}
	}

	return columns{}, 0, false
}

// parseRows skips rows without a date or a non-zero amount, which covers
// balance lines and footers.
func parseRows(cols columns, rows [][]string) []transaction.Input {
	var inputs []transaction.Input

	for _, row := range rows {
		date, ok := parseDate(cellValue(row, cols.date))
		if !ok {
			continue
		}

		amount, ok := rowAmount(cols, row)
		if !ok {
			continue
		}

		if in, ok := build(cellValue(row, cols.desc), amount, date); ok {
			inputs = append(inputs, in)
		}
	}

	return inputs
}

// rowAmount returns a signed amount: debits are negative.
func rowAmount(cols columns, row []string) (decimal.Decimal, bool) {
	if cols.signed >= 0 {
		return nonZero(cellValue(row, cols.signed))
	}

	if d, ok := nonZero(cellValue(row, cols.debit)); ok {
		return d.Abs().Neg(), true
	}

	if d, ok := nonZero(cellValue(row, cols.credit)); ok {
		return d.Abs(), true
	}

	return decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func build(description string, signed decimal.Decimal, date time.Time) (transaction.Input, bool) {
	if description == "" {
		return transaction.Input{}, false
	}

	typ := classify(description, signed.IsNegative())

	return transaction.Input{
		Description: description,
		Amount:      signed.Abs(),
		Date:        date,
		Type:        typ,
		Category:    categorize(description, typ),
	}, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
