package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTMXResponseBuilderTriggers(t *testing.T) {
	rec := httptest.NewRecorder()
	v := ViewState{Year: 2026, Month: time.March}

	NewHTMXResponse().
		TriggerBillCreated(v, 3).
		TriggerSummaryRefresh(v).
		BodyHTML(`<div class="success">ok</div>`).
		Write(rec)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var triggers map[string]map[string]int
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	created, ok := triggers["bill:created"]
	if !ok {
		t.Fatal("missing bill:created trigger")
	}
	if created["year"] != 2026 || created["month"] != 3 || created["count"] != 3 {
		t.Fatalf("bill:created payload = %v", created)
	}
	if _, ok := triggers["summary:refresh"]; !ok {
		t.Fatal("missing summary:refresh trigger")
	}
}

func TestErrorResponseEscapesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	UnprocessableEntityError(`<script>alert(1)</script>`).Write(rec)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("message must be escaped, got %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("escaped message missing, got %s", body)
	}
}

func TestMethodNotAllowedSetsAllowHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowedError("POST, DELETE").Write(rec)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "POST, DELETE" {
		t.Fatalf("Allow = %q", got)
	}
}
