package export

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const (
	SheetName    = "Finanças"
	BaseFilename = "financas_pastel"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrSheetsDisabled    = errors.New("google sheets export is not configured")
)

// Header is the first row of every export.
var Header = []any{"Data", "Descrição", "Categoria", "Tipo", "Valor"}

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts a format name or a file name with a known extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(s); ext != "" {
		s = strings.TrimPrefix(ext, ".")
	}

	switch Format(s) {
	case FormatXLSX, "":
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}

	return "", ErrUnsupportedFormat
}

func (f Format) Filename() string {
	return BaseFilename + "." + string(f)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}

	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Rows projects txs into the export table, header first and newest first.
func Rows(txs []*transaction.Transaction) [][]any {
	sorted := transaction.SortNewestFirst(txs)

	rows := make([][]any, 0, len(sorted)+1)
	rows = append(rows, Header)

	for _, tx := range sorted {
		rows = append(rows, []any{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Category,
			tx.Type.Label(),
			tx.Amount.InexactFloat64(),
		})
	}

	return rows
}
