package export

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSink appends export rows to a Google Sheets spreadsheet.
type SheetsSink struct {
	svc           *sheets.Service
	spreadsheetID string
	rng           string
}

// NewSheetsSink authenticates with a service account credentials file.
// Extra options are appended, which tests use to point at a fake endpoint.
func NewSheetsSink(ctx context.Context, spreadsheetID, rng, credentialsFile string, opts ...option.ClientOption) (*SheetsSink, error) {
	if rng == "" {
		rng = SheetName + "!A1"
	}

	if credentialsFile != "" {
		credentialsJSON, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}

		opts = append([]option.ClientOption{
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheets.SpreadsheetsScope),
		}, opts...)
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsSink{svc: svc, spreadsheetID: spreadsheetID, rng: rng}, nil
}

// Append adds rows below the existing data. rows[0] is the header and is
// only written while the first cell of the range is still blank.
func (s *SheetsSink) Append(ctx context.Context, rows [][]any) (string, error) {
	if len(rows) == 0 {
		return s.rng, nil
	}

	started, err := s.hasHeader(ctx)
	if err != nil {
		return "", err
	}

	if started {
		rows = rows[1:]
	}

	if len(rows) == 0 {
		return s.rng, nil
	}

	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", s.rng, err)
	}

	if resp.Updates == nil {
		return s.rng, nil
	}

	return resp.Updates.UpdatedRange, nil
}

func (s *SheetsSink) hasHeader(ctx context.Context) (bool, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rng).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.rng, err)
	}

	return len(resp.Values) > 0 && len(resp.Values[0]) > 0 && fmt.Sprint(resp.Values[0][0]) != "", nil
}
