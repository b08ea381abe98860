package fixtures

import "testing"

func TestNormalizeStatusFoldsSpellings(t *testing.T) {
	cases := map[string]string{
		"open":        "open",
		"Open":        "open",
		"In Progress": "in-progress",
		"in_progress": "in-progress",
		"IN-PROGRESS": "in-progress",
		"Closed":      "closed",
		"resolved":    "unknown",
		"":            "unknown",
	}
	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSeverity(t *testing.T) {
	if got := NormalizeSeverity(" CRITICAL "); got != "critical" {
		t.Fatalf("expected critical, got %q", got)
	}
	if got := NormalizeSeverity("severe"); got != "unknown" {
		t.Fatalf("out-of-set severity must be unknown, got %q", got)
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("Core-Banking"); got != CategoryCoreBanking {
		t.Fatalf("expected %q, got %q", CategoryCoreBanking, got)
	}
	if got := NormalizeCategory("retail"); got != CategoryUnknown {
		t.Fatalf("expected %q, got %q", CategoryUnknown, got)
	}
}

func TestHistoricalTrendsSeriesOrdersByCatalog(t *testing.T) {
	h := &HistoricalTrends{Points: []TrendPoint{
		{Period: "Q3-2024", Metric: "complianceRate", Value: 93.2},
		{Period: "q2-2024", Metric: "ComplianceRate", Value: 92.8},
		{Period: "Q3-2024", Metric: "other", Value: 1},
	}}

	labels, values := h.Series("complianceRate")
	if len(labels) != 2 {
		t.Fatalf("expected 2 points, got %d", len(labels))
	}
	if labels[0] != "Q2-2024" || labels[1] != "Q3-2024" {
		t.Fatalf("periods must follow catalog order: %v", labels)
	}
	if values[0] != 92.8 || values[1] != 93.2 {
		t.Fatalf("values misaligned: %v", values)
	}
}

func TestHistoricalTrendsSeriesNilReceiver(t *testing.T) {
	var h *HistoricalTrends
	labels, values := h.Series("complianceRate")
	if labels != nil || values != nil {
		t.Fatalf("nil trends must yield empty series")
	}
}

func TestFixturePaths(t *testing.T) {
	if got := UnitPath("consumer-banking", "q3-2024"); got != "business-units/consumer-banking-q3-2024.json" {
		t.Fatalf("unexpected unit path: %q", got)
	}
	if got := EnterprisePath("q1-2024"); got != "enterprise-dashboard-q1-2024.json" {
		t.Fatalf("unexpected enterprise path: %q", got)
	}
}

func TestValidQuarterAndUnit(t *testing.T) {
	if !ValidQuarter(" Q3-2024 ") {
		t.Fatalf("quarter check must trim and fold case")
	}
	if ValidQuarter("q1-2020") {
		t.Fatalf("unknown quarter must be rejected")
	}
	if !ValidUnit("APAC-Region") {
		t.Fatalf("unit check must fold case")
	}
	if ValidUnit("retail-banking") {
		t.Fatalf("unknown unit must be rejected")
	}
	if len(UnitSlugs) != 15 {
		t.Fatalf("catalog must hold 15 units, got %d", len(UnitSlugs))
	}
	for _, slug := range UnitSlugs {
		if _, ok := UnitCategories[slug]; !ok {
			t.Fatalf("slug %s missing a category", slug)
		}
	}
}
