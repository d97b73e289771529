package core

import (
	"testing"
	"time"
)

func TestDateAddMonthsClamp(t *testing.T) {
	tests := []struct {
		name   string
		base   Date
		months int
		want   string
	}{
		{"plain step", NewDate(2024, time.March, 15), 1, "2024-04-15"},
		{"31st into 30-day month", NewDate(2024, time.March, 31), 1, "2024-04-30"},
		{"31st into leap february", NewDate(2024, time.January, 31), 1, "2024-02-29"},
		{"31st into plain february", NewDate(2025, time.January, 31), 1, "2025-02-28"},
		{"30th into february", NewDate(2024, time.January, 30), 1, "2024-02-29"},
		{"year rollover", NewDate(2024, time.December, 31), 2, "2025-02-28"},
		{"zero months", NewDate(2024, time.May, 31), 0, "2024-05-31"},
		{"twelve months keeps the day", NewDate(2024, time.January, 31), 12, "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.base.AddMonths(tt.months).String(); got != tt.want {
				t.Errorf("AddMonths(%d) = %s, want %s", tt.months, got, tt.want)
			}
		})
	}
}

func TestDateAddYearsClamp(t *testing.T) {
	if got := NewDate(2024, time.February, 29).AddYears(1).String(); got != "2025-02-28" {
		t.Errorf("AddYears(1) = %s, want 2025-02-28", got)
	}
	if got := NewDate(2024, time.February, 29).AddYears(4).String(); got != "2028-02-29" {
		t.Errorf("AddYears(4) = %s, want 2028-02-29", got)
	}
}

func TestDateNormalization(t *testing.T) {
	d, err := ParseDate("2024-07-09")
	if err != nil {
		t.Fatalf("ParseDate error = %v", err)
	}
	if d.Location() != time.UTC {
		t.Errorf("parsed date location = %v, want UTC", d.Location())
	}
	h, m, s := d.Clock()
	if h != 0 || m != 0 || s != 0 {
		t.Errorf("parsed date carries a time of day: %02d:%02d:%02d", h, m, s)
	}
	// Round-tripping through the timestamp must keep the calendar day.
	if d.String() != "2024-07-09" {
		t.Errorf("round trip = %s, want 2024-07-09", d)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not-a-date", "2024-13-01", "2024-02-30", "31/01/2024"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) accepted invalid input", s)
		}
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := NewDate(2024, time.February, 14).MonthWindow()
	if from.String() != "2024-02-01" || to.String() != "2024-02-29" {
		t.Errorf("MonthWindow = %s..%s, want 2024-02-01..2024-02-29", from, to)
	}
}

func TestBillUpdateValidate(t *testing.T) {
	valid := BillUpdate{
		Title:          "Internet",
		EstimatedCents: 9900,
		DueDate:        NewDate(2024, time.June, 1),
		CategoryID:     "contas",
		Status:         StatusPending,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v for valid update", err)
	}

	broken := valid
	broken.EstimatedCents = 0
	if err := broken.Validate(); err == nil {
		t.Error("Validate() accepted zero estimate")
	}

	broken = valid
	broken.PaidCents = -1
	if err := broken.Validate(); err == nil {
		t.Error("Validate() accepted negative paid amount")
	}
}
