package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/pastel/internal/summary"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Lister is the read side of the transaction store.
type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) []*transaction.Transaction
}

// SheetAppender appends rows to a remote spreadsheet and returns the range it
// wrote to.
type SheetAppender interface {
	Append(ctx context.Context, rows [][]any) (string, error)
}

// Service writes the transaction collection to spreadsheets.
type Service struct {
	transactions Lister
	sheets       SheetAppender
}

// NewService creates a Service. sheets may be nil when no remote spreadsheet
// is configured.
func NewService(transactions Lister, sheets SheetAppender) *Service {
	return &Service{
		transactions: transactions,
		sheets:       sheets,
	}
}

func (s *Service) Write(ctx context.Context, format Format, filter transaction.ListFilter, w io.Writer) error {
	switch format {
	case FormatXLSX:
		return s.WriteXLSX(ctx, filter, w)
	case FormatCSV:
		return s.WriteCSV(ctx, filter, w)
	}

	return ErrUnsupportedFormat
}

func (s *Service) WriteXLSX(ctx context.Context, filter transaction.ListFilter, w io.Writer) error {
	rows := Rows(s.transactions.List(ctx, filter))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell: %w", err)
		}

		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}

	return nil
}

func (s *Service) WriteCSV(ctx context.Context, filter transaction.ListFilter, w io.Writer) error {
	rows := Rows(s.transactions.List(ctx, filter))

	cw := csv.NewWriter(w)

	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellString(v)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// SaveFile writes the export to path, choosing the format from its extension.
func (s *Service) SaveFile(ctx context.Context, filter transaction.ListFilter, path string) error {
	format, err := ParseFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := s.Write(ctx, format, filter, f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// AppendToSheets pushes the filtered projection to the configured spreadsheet.
func (s *Service) AppendToSheets(ctx context.Context, filter transaction.ListFilter) (string, error) {
	if s.sheets == nil {
		return "", ErrSheetsDisabled
	}

	ref, err := s.sheets.Append(ctx, Rows(s.transactions.List(ctx, filter)))
	if err != nil {
		return "", fmt.Errorf("appending to sheets: %w", err)
	}

	return ref, nil
}

// Summary renders one line per transaction, newest first.
func (s *Service) Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range transaction.SortNewestFirst(txs) {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			tx.Date.Format("2006-01-02"), tx.Description, summary.SignedBRL(tx.Type, tx.Amount), tx.Category)
	}

	return sb.String()
}

func cellString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	return fmt.Sprint(v)
}
