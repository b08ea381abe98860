package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"enterprise-audit-dashboard/internal/fixtures"
)

func writeFixture(t *testing.T, dir, path, body string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadSnapshotRecordsMissingUnits(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, fixtures.EnterprisePath("q3-2024"), `{"reportingPeriod":"q3-2024"}`)
	writeFixture(t, dir, fixtures.UnitPath("consumer-banking", "q3-2024"), `{"id":"consumer-banking","name":"Consumer Banking"}`)
	writeFixture(t, dir, fixtures.UnitPath("apac-region", "q3-2024"), `{"id":"apac-region","name":"APAC Region"}`)

	l := New(Options{BaseDir: dir})
	snap, err := l.LoadSnapshot(context.Background(), "q3-2024", nil)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	if snap.Enterprise == nil || snap.Enterprise.ReportingPeriod != "q3-2024" {
		t.Fatalf("enterprise fixture not loaded: %+v", snap.Enterprise)
	}
	if len(snap.Units) != 2 {
		t.Fatalf("expected 2 loaded units, got %d", len(snap.Units))
	}
	// catalog order, not completion order
	if snap.Units[0].ID != "consumer-banking" || snap.Units[1].ID != "apac-region" {
		t.Fatalf("units out of catalog order: %s, %s", snap.Units[0].ID, snap.Units[1].ID)
	}
	if len(snap.Missing) != len(fixtures.UnitSlugs)-2 {
		t.Fatalf("expected %d missing units, got %d", len(fixtures.UnitSlugs)-2, len(snap.Missing))
	}
	if !sort.StringsAreSorted(snap.Missing) {
		t.Fatalf("missing list must be sorted: %v", snap.Missing)
	}
	if snap.Trends != nil {
		t.Fatalf("absent trends fixture must leave Trends nil")
	}
}

func TestLoadSnapshotEnterpriseFailureAborts(t *testing.T) {
	l := New(Options{BaseDir: t.TempDir()})
	_, err := l.LoadSnapshot(context.Background(), "q3-2024", nil)
	if err == nil {
		t.Fatalf("missing enterprise fixture must abort the snapshot")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if le.Path != fixtures.EnterprisePath("q3-2024") {
		t.Fatalf("error must name the enterprise fixture, got %q", le.Path)
	}
}

func TestLoadSnapshotLoadsTrendsWhenPresent(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, fixtures.EnterprisePath("q3-2024"), `{"reportingPeriod":"q3-2024"}`)
	writeFixture(t, dir, fixtures.TrendsPath, `{"points":[{"period":"Q3-2024","metric":"enterpriseRiskScore","value":84.3}]}`)

	l := New(Options{BaseDir: dir})
	snap, err := l.LoadSnapshot(context.Background(), "q3-2024", nil)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if snap.Trends == nil || len(snap.Trends.Points) != 1 {
		t.Fatalf("trends fixture not loaded: %+v", snap.Trends)
	}
}

type stubUnitSource struct {
	failing map[string]bool
}

func (s *stubUnitSource) FetchUnit(_ context.Context, slug, quarter string) (*fixtures.UnitFixture, error) {
	if s.failing[slug] {
		return nil, fmt.Errorf("no snapshot for %s %s", slug, quarter)
	}
	return &fixtures.UnitFixture{ID: slug, Name: slug, Quarter: quarter}, nil
}

func TestLoadSnapshotUsesAlternateUnitSource(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, fixtures.EnterprisePath("q2-2024"), `{"reportingPeriod":"q2-2024"}`)

	l := New(Options{BaseDir: dir})
	src := &stubUnitSource{failing: map[string]bool{"payments": true, "finance": true}}

	snap, err := l.LoadSnapshot(context.Background(), "q2-2024", src)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snap.Units) != len(fixtures.UnitSlugs)-2 {
		t.Fatalf("expected %d units, got %d", len(fixtures.UnitSlugs)-2, len(snap.Units))
	}
	want := []string{"finance", "payments"}
	if len(snap.Missing) != 2 || snap.Missing[0] != want[0] || snap.Missing[1] != want[1] {
		t.Fatalf("expected missing %v, got %v", want, snap.Missing)
	}
}
