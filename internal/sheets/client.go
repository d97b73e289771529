// Package sheets mirrors the bill store onto a Google Sheets spreadsheet.
// It is the remote, SDK-accessed backend: either used directly as the primary
// store or fed asynchronously by the sync worker when SQLite is primary.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contas/internal/core"
	"contas/internal/store"
)

var _ store.BillStore = (*Client)(nil)

// Row layout of the bills sheet, columns A..K:
// id, title, estimated_cents, paid_cents, due_date, category_id,
// installment, installments, recurrence, status, created_at.
const billRange = "A2:K"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets-backed store using environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_SHEET_NAME (default "Bills").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Bills"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a Sheets service using service account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		b, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// InsertMany appends all records in a single Append call, so a recurrence
// batch lands in one API request: the spreadsheet never shows a partial prefix.
func (c *Client) InsertMany(ctx context.Context, bills []core.Bill) ([]core.Bill, error) {
	if len(bills) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	inserted := make([]core.Bill, len(bills))
	values := make([][]any, len(bills))
	for i, b := range bills {
		b.ID = uuid.New().String()
		b.CreatedAt = now
		inserted[i] = b
		values[i] = billToRow(b)
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!"+billRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return nil, store.NewPersistenceError("insert", fmt.Errorf("append to sheet %s: %w", c.sheetName, err))
	}

	slog.InfoContext(ctx, "Bills appended to spreadsheet",
		"count", len(inserted), "sheet", c.sheetName)
	return inserted, nil
}

func (c *Client) QueryByDueRange(ctx context.Context, from, to core.Date) ([]core.Bill, error) {
	rows, err := c.readAll(ctx)
	if err != nil {
		return nil, store.NewPersistenceError("query", err)
	}

	var out []core.Bill
	for _, b := range rows {
		if b.DueDate.Before(from.Time) || b.DueDate.After(to.Time) {
			continue
		}
		out = append(out, b)
	}
	sortByDueDate(out)
	return out, nil
}

func (c *Client) Update(ctx context.Context, id string, fields core.BillUpdate) error {
	row, bill, err := c.findRow(ctx, id)
	if err != nil {
		return store.NewPersistenceError("update", err)
	}

	bill.Title = fields.Title
	bill.EstimatedCents = fields.EstimatedCents
	bill.PaidCents = fields.PaidCents
	bill.DueDate = fields.DueDate
	bill.CategoryID = fields.CategoryID
	bill.Status = fields.Status

	return store.NewPersistenceError("update", c.writeRow(ctx, row, bill))
}

func (c *Client) MarkPaid(ctx context.Context, id string, paidCents int64) error {
	row, bill, err := c.findRow(ctx, id)
	if err != nil {
		return store.NewPersistenceError("update", err)
	}
	bill.Status = core.StatusPaid
	bill.PaidCents = paidCents
	return store.NewPersistenceError("update", c.writeRow(ctx, row, bill))
}

func (c *Client) Delete(ctx context.Context, id string) error {
	row, _, err := c.findRow(ctx, id)
	if err != nil {
		return store.NewPersistenceError("delete", err)
	}

	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return store.NewPersistenceError("delete", err)
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1), // zero-based, end exclusive
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return store.NewPersistenceError("delete", fmt.Errorf("delete row %d: %w", row, err))
	}
	return nil
}

// Upsert writes a bill under its existing ID, appending a new row when the
// ID is not present yet. The sync worker mirrors local writes through it, so
// unlike InsertMany it never reassigns identity.
func (c *Client) Upsert(ctx context.Context, b core.Bill) error {
	row, _, err := c.findRow(ctx, b.ID)
	switch {
	case err == nil:
		return store.NewPersistenceError("upsert", c.writeRow(ctx, row, b))
	case errors.Is(err, store.ErrNotFound):
		vr := &gsheet.ValueRange{Values: [][]any{billToRow(b)}}
		_, err := c.svc.Spreadsheets.Values.
			Append(c.spreadsheetID, c.sheetName+"!"+billRange, vr).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err != nil {
			return store.NewPersistenceError("upsert", fmt.Errorf("append to sheet %s: %w", c.sheetName, err))
		}
		return nil
	default:
		return store.NewPersistenceError("upsert", err)
	}
}

// readAll fetches every bill row. Rows that fail to parse are skipped with a
// warning rather than failing the whole month view.
func (c *Client) readAll(ctx context.Context) ([]core.Bill, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!"+billRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	var out []core.Bill
	for i, row := range resp.Values {
		b, err := billFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparsable bill row",
				"sheet", c.sheetName, "row", i+2, "error", err)
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// findRow locates a bill by id, returning its 1-based sheet row.
func (c *Client) findRow(ctx context.Context, id string) (int, core.Bill, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!"+billRange).
		Context(ctx).Do()
	if err != nil {
		return 0, core.Bill{}, fmt.Errorf("read sheet %s: %w", c.sheetName, err)
	}

	for i, row := range resp.Values {
		if len(row) > 0 && cellString(row[0]) == id {
			b, err := billFromRow(row)
			if err != nil {
				return 0, core.Bill{}, fmt.Errorf("row %d for bill %s: %w", i+2, id, err)
			}
			return i + 2, b, nil
		}
	}
	return 0, core.Bill{}, store.ErrNotFound
}

func (c *Client) writeRow(ctx context.Context, row int, b core.Bill) error {
	rng := fmt.Sprintf("%s!A%d:K%d", c.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{billToRow(b)}}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
