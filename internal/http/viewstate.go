package http

import "time"

// ViewState is the immutable UI state threaded through requests as query and
// form parameters. Every transition returns a fresh value; nothing mutates in
// place, so stale HTMX swaps can never corrupt later renders.
type ViewState struct {
	Year              int
	Month             time.Month
	ShowAllCategories bool
	SelectedCategory  string
}

// CurrentViewState starts at the month containing now.
func CurrentViewState(now time.Time) ViewState {
	return ViewState{Year: now.Year(), Month: now.Month()}
}

// WithMonth returns the state moved to the given month, keeping the toggles.
func (v ViewState) WithMonth(year int, month time.Month) ViewState {
	v.Year = year
	v.Month = month
	return v
}

// NextMonth advances one month, rolling December into January.
func (v ViewState) NextMonth() ViewState {
	if v.Month == time.December {
		return v.WithMonth(v.Year+1, time.January)
	}
	return v.WithMonth(v.Year, v.Month+1)
}

// PrevMonth moves back one month, rolling January into December.
func (v ViewState) PrevMonth() ViewState {
	if v.Month == time.January {
		return v.WithMonth(v.Year-1, time.December)
	}
	return v.WithMonth(v.Year, v.Month-1)
}

// ToggleShowAll flips the "more categories" form toggle.
func (v ViewState) ToggleShowAll() ViewState {
	v.ShowAllCategories = !v.ShowAllCategories
	return v
}

// WithCategory selects a category filter; empty clears it.
func (v ViewState) WithCategory(id string) ViewState {
	v.SelectedCategory = id
	return v
}
