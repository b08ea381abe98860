package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDashboardHandler_ServesPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	dashboardHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %q", ct)
	}
}

func TestDashboardHandler_UnknownPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	dashboardHandler(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

// The table search boxes must scan every rendered cell, so a visitor can
// search a trend value or a finding owner, not just names. Keep the filter
// haystacks in the embedded page covering the full row.
func TestDashboardSearchScansFullRows(t *testing.T) {
	for _, field := range []string{
		"u.category", "u.risk_tier", "u.trend", "u.open_findings",
	} {
		if !strings.Contains(dashboardHTML, "rowText([u.name, u.id, u.category") ||
			!strings.Contains(dashboardHTML, field) {
			t.Fatalf("unit search haystack must include %s", field)
		}
	}
	if !strings.Contains(dashboardHTML, "rowText([f.unit_name, f.title || f.id, f.severity, f.category") {
		t.Fatalf("findings search haystack must cover the rendered row")
	}
	for _, field := range []string{"f.due_date", "f.owner"} {
		if !strings.Contains(dashboardHTML, field) {
			t.Fatalf("findings search haystack must include %s", field)
		}
	}
}
