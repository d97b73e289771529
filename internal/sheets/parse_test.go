package sheets

import (
	"testing"
	"time"

	"contas/internal/core"
)

func TestBillRowRoundTrip(t *testing.T) {
	b := core.Bill{
		ID:             "abc-123",
		Title:          "Aluguel",
		EstimatedCents: 180000,
		PaidCents:      180000,
		DueDate:        core.NewDate(2024, time.February, 29),
		CategoryID:     "moradia",
		Installment:    2,
		Installments:   12,
		Recurrence:     core.Monthly,
		Status:         core.StatusPaid,
		CreatedAt:      time.Date(2024, 1, 31, 10, 30, 0, 0, time.UTC),
	}

	got, err := billFromRow(billToRow(b))
	if err != nil {
		t.Fatalf("billFromRow error = %v", err)
	}
	if got.ID != b.ID || got.Title != b.Title || got.EstimatedCents != b.EstimatedCents ||
		got.PaidCents != b.PaidCents || got.DueDate.String() != "2024-02-29" ||
		got.CategoryID != b.CategoryID || got.Installment != 2 || got.Installments != 12 ||
		got.Recurrence != core.Monthly || got.Status != core.StatusPaid ||
		!got.CreatedAt.Equal(b.CreatedAt) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestBillFromRowRejectsMalformedRows(t *testing.T) {
	valid := billToRow(core.Bill{
		ID:             "id",
		Title:          "t",
		EstimatedCents: 100,
		DueDate:        core.NewDate(2024, time.June, 1),
		CategoryID:     "contas",
		Installment:    1,
		Installments:   1,
		Status:         core.StatusPending,
	})

	tests := []struct {
		name   string
		mutate func([]any) []any
	}{
		{"too short", func(r []any) []any { return r[:4] }},
		{"empty id", func(r []any) []any { r[0] = ""; return r }},
		{"bad estimated", func(r []any) []any { r[2] = "twelve"; return r }},
		{"bad due date", func(r []any) []any { r[4] = "31/01/2024"; return r }},
		{"bad status", func(r []any) []any { r[9] = "maybe"; return r }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.mutate(append([]any(nil), valid...))
			if _, err := billFromRow(row); err == nil {
				t.Errorf("billFromRow accepted %s row", tt.name)
			}
		})
	}
}

func TestCellHelpersTolerateSheetTypes(t *testing.T) {
	// The Sheets API hands numbers back as float64 when cells are numeric.
	if got := cellString(float64(42)); got != "42" {
		t.Errorf("cellString(42.0) = %q", got)
	}
	n, err := cellInt64("  1500 ")
	if err != nil || n != 1500 {
		t.Errorf("cellInt64 = %d, %v", n, err)
	}
	if n, err := cellInt64(nil); err != nil || n != 0 {
		t.Errorf("cellInt64(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestSortByDueDate(t *testing.T) {
	bills := []core.Bill{
		{DueDate: core.NewDate(2024, time.June, 10), Installment: 2},
		{DueDate: core.NewDate(2024, time.June, 1), Installment: 1},
		{DueDate: core.NewDate(2024, time.June, 10), Installment: 1},
	}
	sortByDueDate(bills)
	if bills[0].DueDate.Day() != 1 || bills[1].Installment != 1 || bills[2].Installment != 2 {
		t.Errorf("sort order wrong: %+v", bills)
	}
}
