package http

import (
	"testing"
	"time"
)

func TestViewStateMonthNavigation(t *testing.T) {
	tests := []struct {
		name      string
		start     ViewState
		move      func(ViewState) ViewState
		wantYear  int
		wantMonth time.Month
	}{
		{"next within year", ViewState{Year: 2026, Month: time.March}, ViewState.NextMonth, 2026, time.April},
		{"next rolls december", ViewState{Year: 2026, Month: time.December}, ViewState.NextMonth, 2027, time.January},
		{"prev within year", ViewState{Year: 2026, Month: time.March}, ViewState.PrevMonth, 2026, time.February},
		{"prev rolls january", ViewState{Year: 2026, Month: time.January}, ViewState.PrevMonth, 2025, time.December},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.move(tt.start)
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Fatalf("got %d-%d, want %d-%d", got.Year, got.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestViewStateTransitionsDoNotMutate(t *testing.T) {
	v := ViewState{Year: 2026, Month: time.May, SelectedCategory: "moradia"}

	next := v.NextMonth().ToggleShowAll().WithCategory("lazer")

	if v.Year != 2026 || v.Month != time.May || v.ShowAllCategories || v.SelectedCategory != "moradia" {
		t.Fatalf("original state mutated: %+v", v)
	}
	if next.Month != time.June || !next.ShowAllCategories || next.SelectedCategory != "lazer" {
		t.Fatalf("unexpected derived state: %+v", next)
	}
}

func TestViewStateToggleRoundTrip(t *testing.T) {
	v := CurrentViewState(time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC))
	if v.ShowAllCategories {
		t.Fatal("default should hide extra categories")
	}
	if got := v.ToggleShowAll().ToggleShowAll(); got != v {
		t.Fatalf("double toggle should restore state, got %+v", got)
	}
}
