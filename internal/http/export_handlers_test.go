package http

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// brokenWriter fails every body write, like a client that hung up
// mid-download.
type brokenWriter struct {
	header http.Header
}

func (b *brokenWriter) Header() http.Header       { return b.header }
func (b *brokenWriter) WriteHeader(int)           {}
func (b *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestExportCSVHandler_BusinessUnits(t *testing.T) {
	dir := t.TempDir()
	seedQuarter(t, dir, "q3-2024")
	s := testServer(t, dir)
	h := s.exportCSVHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/csv", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected CSV content type, got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "business-units-q3-2024.csv") {
		t.Fatalf("unexpected filename: %q", cd)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("CSV body must start with a UTF-8 BOM")
	}
}

func TestExportCSVHandler_FiltersByIDs(t *testing.T) {
	dir := t.TempDir()
	seedQuarter(t, dir, "q3-2024")
	s := testServer(t, dir)
	h := s.exportCSVHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?view=business-units&ids=payments", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one filtered row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "payments") && !strings.Contains(lines[1], "Payments") {
		t.Fatalf("filtered row should be the payments unit, got %q", lines[1])
	}
	if strings.Contains(rr.Body.String(), "consumer-banking") || strings.Contains(rr.Body.String(), "Consumer Banking") {
		t.Fatalf("unfiltered unit leaked into export: %s", rr.Body.String())
	}
}

func TestExportCSVHandler_LogsMidStreamFailure(t *testing.T) {
	dir := t.TempDir()
	seedQuarter(t, dir, "q3-2024")
	s := testServer(t, dir)
	h := s.exportCSVHandler()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?view=business-units", nil)
	h.ServeHTTP(&brokenWriter{header: make(http.Header)}, req)

	if !strings.Contains(buf.String(), "export:") {
		t.Fatalf("mid-stream write failure must be logged with the export tag, got %q", buf.String())
	}
}

func TestExportCSVHandler_UnknownView(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.exportCSVHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?view=pivot", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestExportCSVHandler_CompareBoundsChecked(t *testing.T) {
	dir := t.TempDir()
	seedQuarter(t, dir, "q3-2024")
	s := testServer(t, dir)
	h := s.exportCSVHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?view=compare&ids=payments", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	payload := decodeBody(t, rr)
	if !strings.Contains(payload["error"].(string), "between 2 and 5") {
		t.Fatalf("unexpected message: %v", payload["error"])
	}
}

func TestExportLogHandler_ViewStoreDisabled(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.exportLogHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/log", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
	payload := decodeBody(t, rr)
	if !strings.Contains(payload["error"].(string), "APP_VIEWSTORE_SQLITE_PATH") {
		t.Fatalf("error must name the enabling env var: %v", payload["error"])
	}
}

func TestSavedViewsHandler_ViewStoreDisabled(t *testing.T) {
	s := testServer(t, t.TempDir())
	h := s.savedViewsHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/saved-views", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}
