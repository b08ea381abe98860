package aggregate

import (
	"fmt"
	"testing"

	"enterprise-audit-dashboard/internal/fixtures"
)

func unitWithFraudRate(id string, rate *float64) fixtures.UnitFixture {
	u := fixtures.UnitFixture{ID: id, Name: id}
	if rate != nil {
		u.RiskMetrics = &fixtures.RiskMetrics{
			FraudMetrics: &fixtures.FraudMetrics{Losses: &fixtures.FraudLosses{Rate: rate}},
		}
	}
	return u
}

func TestTopFraudLossDescendingTruncated(t *testing.T) {
	var units []fixtures.UnitFixture
	for i := 0; i < 13; i++ {
		units = append(units, unitWithFraudRate(fmt.Sprintf("u%02d", i), fp(float64(i))))
	}

	ranked := TopFraudLoss(units)
	if len(ranked) != TopN {
		t.Fatalf("expected %d entries, got %d", TopN, len(ranked))
	}
	if ranked[0].Value != 12 {
		t.Fatalf("expected highest rate first, got %v", ranked[0].Value)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Value > ranked[i-1].Value {
			t.Fatalf("not descending at %d: %v > %v", i, ranked[i].Value, ranked[i-1].Value)
		}
	}
}

func TestTopFraudLossTiesKeepInputOrder(t *testing.T) {
	units := []fixtures.UnitFixture{
		unitWithFraudRate("first", fp(0.5)),
		unitWithFraudRate("second", fp(0.5)),
		unitWithFraudRate("third", fp(0.9)),
	}
	ranked := TopFraudLoss(units)
	if ranked[0].UnitID != "third" {
		t.Fatalf("expected third first, got %s", ranked[0].UnitID)
	}
	if ranked[1].UnitID != "first" || ranked[2].UnitID != "second" {
		t.Fatalf("ties must keep input order, got %s then %s", ranked[1].UnitID, ranked[2].UnitID)
	}
}

func TestTopFraudLossSkipsMissing(t *testing.T) {
	units := []fixtures.UnitFixture{
		unitWithFraudRate("a", nil),
		unitWithFraudRate("b", fp(0.1)),
		{ID: "c"},
	}
	ranked := TopFraudLoss(units)
	if len(ranked) != 1 || ranked[0].UnitID != "b" {
		t.Fatalf("units without the field must not participate: %+v", ranked)
	}
}

func TestTopAlertVolume(t *testing.T) {
	units := []fixtures.UnitFixture{
		{ID: "a", Name: "a", RiskMetrics: &fixtures.RiskMetrics{
			AMLMonitoring: &fixtures.AMLMonitoring{AlertVolume: &fixtures.AlertVolume{Total: ip(100)}},
		}},
		{ID: "b", Name: "b", RiskMetrics: &fixtures.RiskMetrics{
			AMLMonitoring: &fixtures.AMLMonitoring{AlertVolume: &fixtures.AlertVolume{Total: ip(250)}},
		}},
	}
	ranked := TopAlertVolume(units)
	if len(ranked) != 2 || ranked[0].UnitID != "b" || ranked[0].Value != 250 {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}
}

func TestBuildHeatMapCellsNilForUnreportedCategories(t *testing.T) {
	units := []fixtures.UnitFixture{
		{ID: "a", Name: "a", ExecutiveScorecard: &fixtures.ExecutiveScorecard{
			RiskMetrics: map[string]float64{"amlCompliance": 88, "fraudRisk": 76},
		}},
		{ID: "b", Name: "b"},
	}

	hm := BuildHeatMap(units)
	if len(hm.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(hm.Rows))
	}
	if len(hm.Rows[0].Scores) != len(HeatMapCategories) {
		t.Fatalf("row must cover every category, got %d cells", len(hm.Rows[0].Scores))
	}
	if hm.Rows[0].Scores[0] == nil || *hm.Rows[0].Scores[0] != 88 {
		t.Fatalf("expected amlCompliance 88, got %v", hm.Rows[0].Scores[0])
	}
	if hm.Rows[0].Scores[2] != nil {
		t.Fatalf("unreported category must be nil")
	}
	for ci, cell := range hm.Rows[1].Scores {
		if cell != nil {
			t.Fatalf("scorecard-less unit must have nil cells, got value at %d", ci)
		}
	}
}

func TestBuildRiskSummaryMeans(t *testing.T) {
	units := []fixtures.UnitFixture{
		{ID: "a", RiskMetrics: &fixtures.RiskMetrics{
			SanctionsScreening: &fixtures.SanctionsScreening{Coverage: &fixtures.SanctionsCoverage{Transactions: fp(99.8)}},
			AMLMonitoring: &fixtures.AMLMonitoring{Effectiveness: &fixtures.AMLEffectiveness{
				ModelAccuracy: fp(88), FalsePositiveRate: fp(60), ReviewEfficiency: fp(90),
			}},
		}},
		{ID: "b", RiskMetrics: &fixtures.RiskMetrics{
			SanctionsScreening: &fixtures.SanctionsScreening{Coverage: &fixtures.SanctionsCoverage{Transactions: fp(99.2)}},
		}},
	}
	sum := BuildRiskSummary(units)
	if sum.SanctionsCoverage.Samples != 2 {
		t.Fatalf("expected 2 coverage samples, got %d", sum.SanctionsCoverage.Samples)
	}
	if sum.ModelAccuracy.Samples != 1 || sum.ModelAccuracy.Mean != 88 {
		t.Fatalf("unexpected model accuracy: %+v", sum.ModelAccuracy)
	}
}
