package core

import "sort"

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	CategoryID string
	Cents      int64
	// PercentOfForecast is the category's share of the forecast total,
	// half-up rounded to an integer percent. Zero when the forecast is zero.
	PercentOfForecast int
}

// MonthSummary is the KPI block for one visible month window.
type MonthSummary struct {
	ForecastCents    int64
	PaidCents        int64
	OutstandingCents int64
	ByCategory       []CategoryTotal
}

// Summarize computes the monthly KPI summary over the given records. It does
// no month filtering itself; the caller queries the store by due-date window
// and hands the result here. The function is pure and order-independent:
// permuting the input yields an identical summary.
//
// Semantics, pinned:
//   - ForecastCents sums estimated amounts over all records.
//   - PaidCents sums paid amounts over paid records.
//   - OutstandingCents sums estimated amounts over pending records. It is NOT
//     forecast minus paid: a paid record whose paid amount differs from its
//     estimate must not leak into the outstanding figure.
//   - A record contributes its paid amount to its category when paid, its
//     estimate otherwise. Categories sort by total descending, id ascending
//     on ties.
func Summarize(bills []Bill) MonthSummary {
	var s MonthSummary
	byCat := make(map[string]int64)

	for _, b := range bills {
		s.ForecastCents += b.EstimatedCents
		amount := b.EstimatedCents
		if b.Status == StatusPaid {
			s.PaidCents += b.PaidCents
			amount = b.PaidCents
		} else {
			s.OutstandingCents += b.EstimatedCents
		}
		byCat[b.CategoryID] += amount
	}

	s.ByCategory = make([]CategoryTotal, 0, len(byCat))
	for id, cents := range byCat {
		s.ByCategory = append(s.ByCategory, CategoryTotal{
			CategoryID:        id,
			Cents:             cents,
			PercentOfForecast: percentOf(cents, s.ForecastCents),
		})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Cents != b.Cents {
			return a.Cents > b.Cents
		}
		return a.CategoryID < b.CategoryID
	})
	return s
}

// percentOf returns part/whole as a half-up rounded integer percent,
// and 0 when whole is 0.
func percentOf(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	return int((part*100 + whole/2) / whole)
}
