package sheets

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"contas/internal/core"
)

// billToRow serializes a bill to the A..K column layout. Cents travel as
// strings so spreadsheet locale settings can never reinterpret them.
func billToRow(b core.Bill) []any {
	return []any{
		b.ID,
		b.Title,
		strconv.FormatInt(b.EstimatedCents, 10),
		strconv.FormatInt(b.PaidCents, 10),
		b.DueDate.String(),
		b.CategoryID,
		strconv.Itoa(b.Installment),
		strconv.Itoa(b.Installments),
		string(b.Recurrence),
		string(b.Status),
		b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// billFromRow parses one sheet row back into a bill.
func billFromRow(row []any) (core.Bill, error) {
	if len(row) < 10 {
		return core.Bill{}, fmt.Errorf("row has %d cells, want at least 10", len(row))
	}

	var b core.Bill
	b.ID = cellString(row[0])
	if b.ID == "" {
		return core.Bill{}, fmt.Errorf("empty id cell")
	}
	b.Title = cellString(row[1])

	var err error
	if b.EstimatedCents, err = cellInt64(row[2]); err != nil {
		return core.Bill{}, fmt.Errorf("estimated cents: %w", err)
	}
	if b.PaidCents, err = cellInt64(row[3]); err != nil {
		return core.Bill{}, fmt.Errorf("paid cents: %w", err)
	}
	if b.DueDate, err = core.ParseDate(cellString(row[4])); err != nil {
		return core.Bill{}, fmt.Errorf("due date %q: %w", cellString(row[4]), err)
	}
	b.CategoryID = cellString(row[5])

	inst, err := cellInt64(row[6])
	if err != nil {
		return core.Bill{}, fmt.Errorf("installment: %w", err)
	}
	total, err := cellInt64(row[7])
	if err != nil {
		return core.Bill{}, fmt.Errorf("installments: %w", err)
	}
	b.Installment = int(inst)
	b.Installments = int(total)

	b.Recurrence = core.Frequency(cellString(row[8]))
	b.Status = core.Status(cellString(row[9]))
	if err := b.Status.Validate(); err != nil {
		return core.Bill{}, fmt.Errorf("status %q: %w", b.Status, err)
	}

	if len(row) > 10 {
		if t, err := time.Parse(time.RFC3339, cellString(row[10])); err == nil {
			b.CreatedAt = t
		}
	}
	return b, nil
}

func cellString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func cellInt64(v any) (int64, error) {
	s := cellString(v)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func sortByDueDate(bills []core.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		if !bills[i].DueDate.Equal(bills[j].DueDate.Time) {
			return bills[i].DueDate.Before(bills[j].DueDate.Time)
		}
		return bills[i].Installment < bills[j].Installment
	})
}
