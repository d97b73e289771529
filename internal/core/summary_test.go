package core

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func bill(cat string, estimated, paid int64, status Status) Bill {
	return Bill{
		Title:          "t",
		EstimatedCents: estimated,
		PaidCents:      paid,
		DueDate:        NewDate(2024, time.June, 10),
		CategoryID:     cat,
		Installment:    1,
		Installments:   1,
		Status:         status,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.ForecastCents != 0 || s.PaidCents != 0 || s.OutstandingCents != 0 {
		t.Errorf("Summarize(nil) totals = %d/%d/%d, want all zero",
			s.ForecastCents, s.PaidCents, s.OutstandingCents)
	}
	if len(s.ByCategory) != 0 {
		t.Errorf("Summarize(nil).ByCategory has %d rows, want 0", len(s.ByCategory))
	}
}

func TestSummarize_Totals(t *testing.T) {
	bills := []Bill{
		bill("A", 10000, 0, StatusPending),
		bill("B", 5000, 5000, StatusPaid),
	}
	s := Summarize(bills)

	if s.ForecastCents != 15000 {
		t.Errorf("forecast = %d, want 15000", s.ForecastCents)
	}
	if s.PaidCents != 5000 {
		t.Errorf("paid = %d, want 5000", s.PaidCents)
	}
	if s.OutstandingCents != 10000 {
		t.Errorf("outstanding = %d, want 10000", s.OutstandingCents)
	}

	want := []CategoryTotal{
		{CategoryID: "A", Cents: 10000, PercentOfForecast: 67},
		{CategoryID: "B", Cents: 5000, PercentOfForecast: 33},
	}
	if !reflect.DeepEqual(s.ByCategory, want) {
		t.Errorf("ByCategory = %+v, want %+v", s.ByCategory, want)
	}
}

func TestSummarize_OutstandingIsPendingEstimates(t *testing.T) {
	// The paid amount differs from the estimate; outstanding must still be
	// the pending estimate, not forecast minus paid.
	bills := []Bill{
		bill("A", 10000, 0, StatusPending),
		bill("B", 5000, 4200, StatusPaid),
	}
	s := Summarize(bills)

	if s.OutstandingCents != 10000 {
		t.Errorf("outstanding = %d, want 10000", s.OutstandingCents)
	}
	if s.PaidCents != 4200 {
		t.Errorf("paid = %d, want 4200", s.PaidCents)
	}
	if s.ForecastCents-s.PaidCents == s.OutstandingCents {
		t.Errorf("outstanding accidentally equals forecast minus paid; fixture no longer distinguishes the semantics")
	}
}

func TestSummarize_PaidRecordContributesPaidAmount(t *testing.T) {
	bills := []Bill{
		bill("A", 5000, 4200, StatusPaid),
		bill("A", 3000, 0, StatusPending),
	}
	s := Summarize(bills)
	if len(s.ByCategory) != 1 {
		t.Fatalf("ByCategory has %d rows, want 1", len(s.ByCategory))
	}
	if s.ByCategory[0].Cents != 7200 {
		t.Errorf("category total = %d, want 7200 (paid-if-paid-else-estimated)", s.ByCategory[0].Cents)
	}
}

func TestSummarize_CategoryOrdering(t *testing.T) {
	bills := []Bill{
		bill("lazer", 2000, 0, StatusPending),
		bill("moradia", 8000, 0, StatusPending),
		bill("compras", 2000, 0, StatusPending),
	}
	s := Summarize(bills)

	var ids []string
	for _, c := range s.ByCategory {
		ids = append(ids, c.CategoryID)
	}
	// Descending by total, ascending by id on the tie.
	want := []string{"moradia", "compras", "lazer"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("category order = %v, want %v", ids, want)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	bills := []Bill{
		bill("A", 10000, 0, StatusPending),
		bill("B", 5000, 5000, StatusPaid),
		bill("C", 2500, 0, StatusPending),
		bill("A", 1500, 1500, StatusPaid),
	}
	want := Summarize(bills)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]Bill(nil), bills...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Summarize(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("Summarize not order-independent: got %+v, want %+v", got, want)
		}
	}
}

func TestSummarize_ZeroForecastPercent(t *testing.T) {
	// Forecast of zero must not divide; percent is defined as 0.
	bills := []Bill{
		{CategoryID: "A", EstimatedCents: 0, Status: StatusPending},
	}
	s := Summarize(bills)
	if len(s.ByCategory) != 1 || s.ByCategory[0].PercentOfForecast != 0 {
		t.Errorf("percent with zero forecast = %+v, want 0", s.ByCategory)
	}
}
