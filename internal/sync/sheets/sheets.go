// Package sheets implements the sync ports directly against a Google
// spreadsheet via the Sheets API, as an alternative to the plain script
// endpoint. Push rewrites the whole sheet; pull reads it back. The endpoint
// argument of the ports is ignored here, the spreadsheet is fixed by
// configuration.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/DaviiSA/AppControle/internal/core"
	appsync "github.com/DaviiSA/AppControle/internal/sync"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ appsync.Pusher = (*Client)(nil)
	_ appsync.Puller = (*Client)(nil)
)

var header = []interface{}{"ID", "Description", "Amount", "Date", "Type", "Category", "Paid", "Card", "Installments"}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Optional: GOOGLE_SHEET_NAME (default
// "Ledger") and service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Push clears the sheet and rewrites it with a header row followed by one
// row per record.
func (c *Client) Push(ctx context.Context, _ string, records []core.TransactionRecord) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:I", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: clear sheet: %v", appsync.ErrTransport, err)
	}

	values := [][]interface{}{header}
	for _, r := range records {
		values = append(values, recordToRow(r))
	}
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: write sheet: %v", appsync.ErrTransport, err)
	}

	slog.InfoContext(ctx, "Pushed ledger to Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"records", len(records))
	return nil
}

// Pull reads the sheet and converts every data row back to a record. Rows
// that fail to parse are skipped with a warning rather than failing the
// whole pull.
func (c *Client) Pull(ctx context.Context, _ string) ([]core.TransactionRecord, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	readRange := fmt.Sprintf("%s!A:I", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet: %v", appsync.ErrTransport, err)
	}

	records, skipped := parseRows(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped unparseable sheet rows", "skipped", skipped)
	}
	slog.InfoContext(ctx, "Pulled ledger from Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"sheet", c.sheetName,
		"records", len(records))
	return records, nil
}

func recordToRow(r core.TransactionRecord) []interface{} {
	return []interface{}{
		r.ID,
		r.Description,
		strconv.FormatFloat(r.Amount.Reais(), 'f', 2, 64),
		r.Date.String(),
		r.Type.String(),
		r.Category,
		strconv.FormatBool(r.Paid),
		r.CardName,
		r.Installments,
	}
}

// parseRows converts a values matrix (as returned by the Sheets API) into
// records, skipping the header row and anything malformed.
func parseRows(values [][]interface{}) ([]core.TransactionRecord, int) {
	var records []core.TransactionRecord
	skipped := 0
	for i, row := range values {
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		rec, ok := rowToRecord(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

func looksLikeHeader(row []interface{}) bool {
	return strings.EqualFold(cell(row, 0), "id")
}

func rowToRecord(row []interface{}) (core.TransactionRecord, bool) {
	id := cell(row, 0)
	desc := cell(row, 1)
	if id == "" || desc == "" {
		return core.TransactionRecord{}, false
	}
	cents, err := core.ParseDecimalToCents(cell(row, 2))
	if err != nil {
		return core.TransactionRecord{}, false
	}
	date, err := core.ParseDate(cell(row, 3))
	if err != nil {
		return core.TransactionRecord{}, false
	}
	rt := core.RecordType(cell(row, 4))
	if !rt.IsValid() {
		return core.TransactionRecord{}, false
	}
	paid, _ := strconv.ParseBool(cell(row, 6))

	rec := core.TransactionRecord{
		ID:          id,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Type:        rt,
		Category:    cell(row, 5),
		Paid:        paid,
	}
	if rt == core.CardExpense {
		rec.CardName = cell(row, 7)
		rec.Installments = cell(row, 8)
	}
	return rec, true
}

func cell(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}
