package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// parseViewState reads the UI state from query or form values, defaulting to
// the current month. Out-of-range months fall back to now rather than erroring
// a partial render.
func parseViewState(values url.Values) ViewState {
	v := CurrentViewState(time.Now())

	if raw := strings.TrimSpace(values.Get("year")); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil && y >= 1970 && y <= 9999 {
			v.Year = y
		}
	}
	if raw := strings.TrimSpace(values.Get("month")); raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m >= 1 && m <= 12 {
			v.Month = time.Month(m)
		}
	}
	if values.Get("show_all") == "1" {
		v.ShowAllCategories = true
	}
	v.SelectedCategory = sanitizeInput(values.Get("category"))

	return v
}

// Query renders the state back into URL parameters for links and HTMX targets.
func (v ViewState) Query() string {
	q := url.Values{}
	q.Set("year", strconv.Itoa(v.Year))
	q.Set("month", strconv.Itoa(int(v.Month)))
	if v.ShowAllCategories {
		q.Set("show_all", "1")
	}
	if v.SelectedCategory != "" {
		q.Set("category", v.SelectedCategory)
	}
	return q.Encode()
}

// sanitizeInput trims whitespace and strips control characters other than
// tab, newline, and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// clientAddr extracts the client IP, honoring proxy headers.
func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
