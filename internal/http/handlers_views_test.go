package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"enterprise-audit-dashboard/internal/fixtures"
	"enterprise-audit-dashboard/internal/loader"
	"enterprise-audit-dashboard/internal/render"
)

func writeFixtureFile(t *testing.T, dir, path, body string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testServer(t *testing.T, dir string) *Server {
	t.Helper()
	return &Server{
		fixtures:       loader.New(loader.Options{BaseDir: dir}),
		charts:         render.NewChartRegistry(),
		defaultQuarter: "q3-2024",
	}
}

func seedQuarter(t *testing.T, dir, quarter string) {
	t.Helper()
	writeFixtureFile(t, dir, fixtures.EnterprisePath(quarter),
		`{"reportingPeriod":"`+quarter+`","executiveScorecard":{"enterpriseRiskScore":84.3,"complianceRate":93.2,"activeFindings":17}}`)
	writeFixtureFile(t, dir, fixtures.UnitPath("consumer-banking", quarter),
		`{"id":"consumer-banking","name":"Consumer Banking","category":"core-banking","executiveScorecard":{"overallScore":{"value":84.2,"trend":"improving"}}}`)
	writeFixtureFile(t, dir, fixtures.UnitPath("payments", quarter),
		`{"id":"payments","name":"Payments","category":"core-banking","executiveScorecard":{"overallScore":{"value":82.4,"trend":"stable"}}}`)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func TestExecutiveViewHandler_UnknownQuarter(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.executiveViewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/executive?quarter=q9-2099", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	payload := decodeBody(t, rr)
	if !strings.Contains(payload["error"].(string), "q9-2099") {
		t.Fatalf("error must name the bad quarter: %v", payload["error"])
	}
}

func TestExecutiveViewHandler_EnterpriseFixtureMissing(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.executiveViewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/executive", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rr.Code)
	}
}

func TestExecutiveViewHandler_MetaEnvelope(t *testing.T) {
	dir := t.TempDir()
	seedQuarter(t, dir, "q3-2024")
	s := testServer(t, dir)
	h := s.executiveViewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/executive", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)
	meta, ok := payload["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected meta object, got %v", payload["meta"])
	}
	if meta["quarter"] != "q3-2024" {
		t.Fatalf("expected default quarter in meta, got %v", meta["quarter"])
	}
	if meta["unit_count"].(float64) != 2 {
		t.Fatalf("expected 2 loaded units, got %v", meta["unit_count"])
	}
	data := payload["data"].(map[string]any)
	summary := data["summary"].(map[string]any)
	if summary["enterprise_risk_score"].(float64) != 84.3 {
		t.Fatalf("unexpected enterprise risk score: %v", summary["enterprise_risk_score"])
	}
}

func TestTrendsViewHandler_MissingTrendsFixtureDegrades(t *testing.T) {
	dir := t.TempDir()
	seedQuarter(t, dir, "q3-2024")
	s := testServer(t, dir)
	h := s.trendsViewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/views/trends", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)
	meta := payload["meta"].(map[string]any)
	missing, _ := meta["missing"].([]any)
	found := false
	for _, m := range missing {
		if m == fixtures.TrendsPath {
			found = true
		}
	}
	if !found {
		t.Fatalf("meta.missing must name the trends fixture, got %v", missing)
	}
	data := payload["data"].(map[string]any)
	if data["historical"] != nil {
		t.Fatalf("no historical series expected without the fixture, got %v", data["historical"])
	}
	synthetic, _ := data["synthetic"].([]any)
	if len(synthetic) != 3 {
		t.Fatalf("expected 3 synthetic series, got %d", len(synthetic))
	}
}

func TestUnitDetailHandler_UnknownUnit(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.unitDetailHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/units/retail-banking", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestUnitListHandler(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.unitListHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/units", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	payload := decodeBody(t, rr)
	meta := payload["meta"].(map[string]any)
	if meta["count"].(float64) != float64(len(fixtures.UnitSlugs)) {
		t.Fatalf("expected %d units, got %v", len(fixtures.UnitSlugs), meta["count"])
	}
	if meta["default_quarter"] != "q3-2024" {
		t.Fatalf("expected default quarter in meta, got %v", meta["default_quarter"])
	}
}
