package generator

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"enterprise-audit-dashboard/internal/fixtures"
)

func TestGenerateUnitDeterministic(t *testing.T) {
	a := New(42, DefaultProfile())
	b := New(42, DefaultProfile())

	ua, err := a.GenerateUnit("consumer-banking", "q3-2024")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	ub, err := b.GenerateUnit("consumer-banking", "q3-2024")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !reflect.DeepEqual(ua, ub) {
		t.Fatalf("same seed must produce identical units")
	}

	c := New(7, DefaultProfile())
	uc, err := c.GenerateUnit("consumer-banking", "q3-2024")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if reflect.DeepEqual(ua, uc) {
		t.Fatalf("different seeds should produce different units")
	}
}

func TestGenerateUnitUnknownInputs(t *testing.T) {
	eng := New(42, DefaultProfile())
	if _, err := eng.GenerateUnit("retail-banking", "q3-2024"); err == nil {
		t.Fatalf("unknown unit must be rejected")
	}
	if _, err := eng.GenerateUnit("consumer-banking", "q9-2099"); err == nil {
		t.Fatalf("unknown quarter must be rejected")
	}
}

func TestGenerateUnitRespectsClamps(t *testing.T) {
	p := DefaultProfile()
	p.TrendPerQuarter = 0.5 // absurd slope to force the clamps
	eng := New(42, p)

	for _, quarter := range fixtures.Quarters {
		for _, slug := range fixtures.UnitSlugs {
			u, err := eng.GenerateUnit(slug, quarter)
			if err != nil {
				t.Fatalf("generate %s %s: %v", slug, quarter, err)
			}
			score := *u.ExecutiveScorecard.OverallScore.Value
			if score < p.Clamps.Score.Min || score > p.Clamps.Score.Max {
				t.Fatalf("%s %s score %v outside [%v, %v]", slug, quarter, score, p.Clamps.Score.Min, p.Clamps.Score.Max)
			}
			sanctions := *u.RiskMetrics.SanctionsScreening.Coverage.Transactions
			if sanctions < p.Clamps.Sanctions.Min || sanctions > p.Clamps.Sanctions.Max {
				t.Fatalf("%s %s sanctions coverage %v out of range", slug, quarter, sanctions)
			}
			fraud := *u.RiskMetrics.FraudMetrics.Losses.Rate
			if fraud < p.Clamps.FraudRate.Min || fraud > p.Clamps.FraudRate.Max {
				t.Fatalf("%s %s fraud rate %v out of range", slug, quarter, fraud)
			}
		}
	}
}

func TestGenerateUnitFindingsSummaryMatchesRegister(t *testing.T) {
	eng := New(42, DefaultProfile())
	u, err := eng.GenerateUnit("investment-banking", "q1-2024")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	af := u.AuditFindings
	if af == nil || af.Summary == nil {
		t.Fatalf("findings block missing")
	}
	if *af.Summary.Total != len(af.Findings) {
		t.Fatalf("summary total %d != register length %d", *af.Summary.Total, len(af.Findings))
	}

	bySeverity := map[string]int{}
	byStatus := map[string]int{}
	for _, f := range af.Findings {
		bySeverity[f.Severity]++
		byStatus[f.Status]++
		if f.ID == "" || f.Title == "" || f.Owner == "" {
			t.Fatalf("incomplete finding: %+v", f)
		}
	}
	if !reflect.DeepEqual(bySeverity, af.Summary.BySeverity) {
		t.Fatalf("severity tallies diverge: %v vs %v", bySeverity, af.Summary.BySeverity)
	}
	if !reflect.DeepEqual(byStatus, af.Summary.ByStatus) {
		t.Fatalf("status tallies diverge: %v vs %v", byStatus, af.Summary.ByStatus)
	}
}

func TestGenerateEnterpriseAgreesWithUnits(t *testing.T) {
	eng := New(42, DefaultProfile())

	var units []fixtures.UnitFixture
	for _, slug := range fixtures.UnitSlugs {
		u, err := eng.GenerateUnit(slug, "q3-2024")
		if err != nil {
			t.Fatalf("generate %s: %v", slug, err)
		}
		units = append(units, u)
	}

	ent, err := eng.GenerateEnterprise("q3-2024", units)
	if err != nil {
		t.Fatalf("enterprise failed: %v", err)
	}

	if len(ent.BusinessUnits) != len(fixtures.UnitSlugs) {
		t.Fatalf("expected %d unit refs, got %d", len(fixtures.UnitSlugs), len(ent.BusinessUnits))
	}
	if ent.ExecutiveScorecard == nil || ent.ExecutiveScorecard.EnterpriseRiskScore == nil {
		t.Fatalf("scorecard missing")
	}

	active := 0
	for _, u := range units {
		for _, f := range u.AuditFindings.Findings {
			if f.Status == "open" || f.Status == "in-progress" {
				active++
			}
		}
	}
	if *ent.ExecutiveScorecard.ActiveFindings != active {
		t.Fatalf("active findings %d != units' open work %d", *ent.ExecutiveScorecard.ActiveFindings, active)
	}
}

func TestGenerateTrendsCoversAllPeriods(t *testing.T) {
	eng := New(42, DefaultProfile())
	trends := eng.GenerateTrends()

	want := 4 * len(fixtures.TrendPeriods)
	if len(trends.Points) != want {
		t.Fatalf("expected %d points, got %d", want, len(trends.Points))
	}

	labels, values := trends.Series("enterpriseRiskScore")
	if len(labels) != len(fixtures.TrendPeriods) || len(values) != len(labels) {
		t.Fatalf("series must cover every period: %d labels", len(labels))
	}
	for _, v := range values {
		if v <= 0 {
			t.Fatalf("risk score series must stay positive, got %v", v)
		}
	}
}

func TestLoadProfileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	body := "trend_per_quarter: 0.03\nclamps:\n  score:\n    min: 50\n    max: 99\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.TrendPerQuarter != 0.03 {
		t.Fatalf("override not applied: %v", p.TrendPerQuarter)
	}
	if p.Clamps.Score.Min != 50 || p.Clamps.Score.Max != 99 {
		t.Fatalf("clamp override not applied: %+v", p.Clamps.Score)
	}
	if p.Volatility != DefaultProfile().Volatility {
		t.Fatalf("unset fields must keep defaults, got %v", p.Volatility)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("missing file must error")
	}
}
