package aggregate

import (
	"sort"

	"enterprise-audit-dashboard/internal/fixtures"
)

// TopN is the fixed truncation for ranking views.
const TopN = 10

// RankedUnit is one entry in a top-N ranking.
type RankedUnit struct {
	UnitID   string  `json:"unit_id"`
	UnitName string  `json:"unit_name"`
	Value    float64 `json:"value"`
}

// rankUnits sorts descending by value with a stable sort, so ties preserve
// the input (catalog) order, then truncates to TopN. Units for which extract
// returns nil do not participate.
func rankUnits(units []fixtures.UnitFixture, extract func(*fixtures.UnitFixture) *float64) []RankedUnit {
	ranked := make([]RankedUnit, 0, len(units))
	for i := range units {
		u := &units[i]
		if v := extract(u); v != nil {
			ranked = append(ranked, RankedUnit{UnitID: u.ID, UnitName: u.Name, Value: *v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}

// TopFraudLoss ranks units by fraud loss rate, descending, top 10.
func TopFraudLoss(units []fixtures.UnitFixture) []RankedUnit {
	return rankUnits(units, func(u *fixtures.UnitFixture) *float64 {
		if u.RiskMetrics == nil || u.RiskMetrics.FraudMetrics == nil || u.RiskMetrics.FraudMetrics.Losses == nil {
			return nil
		}
		return u.RiskMetrics.FraudMetrics.Losses.Rate
	})
}

// TopAlertVolume ranks units by total AML alert volume, descending, top 10.
func TopAlertVolume(units []fixtures.UnitFixture) []RankedUnit {
	return rankUnits(units, func(u *fixtures.UnitFixture) *float64 {
		if u.RiskMetrics == nil || u.RiskMetrics.AMLMonitoring == nil || u.RiskMetrics.AMLMonitoring.AlertVolume == nil {
			return nil
		}
		if u.RiskMetrics.AMLMonitoring.AlertVolume.Total == nil {
			return nil
		}
		v := float64(*u.RiskMetrics.AMLMonitoring.AlertVolume.Total)
		return &v
	})
}

// RiskSummary is the risk-analysis view rollup.
type RiskSummary struct {
	TopFraudLoss      []RankedUnit `json:"top_fraud_loss"`
	TopAlertVolume    []RankedUnit `json:"top_alert_volume"`
	SanctionsCoverage Ratio        `json:"sanctions_coverage"`
	ModelAccuracy     Ratio        `json:"model_accuracy"`
	FalsePositiveRate Ratio        `json:"false_positive_rate"`
	ReviewEfficiency  Ratio        `json:"review_efficiency"`
	HeatMap           HeatMap      `json:"heat_map"`
}

// HeatMap is the per-unit × risk-category score matrix backing the heat-map
// grid. Cells for categories a unit does not report are nil.
type HeatMap struct {
	Categories []string     `json:"categories"`
	Rows       []HeatMapRow `json:"rows"`
}

type HeatMapRow struct {
	UnitID   string     `json:"unit_id"`
	UnitName string     `json:"unit_name"`
	Scores   []*float64 `json:"scores"`
}

// HeatMapCategories is the fixed column order for the risk heat-map.
var HeatMapCategories = []string{"amlCompliance", "fraudRisk", "operationalRisk", "cyberSecurity"}

// BuildRiskSummary folds risk metrics into rankings, means and the heat-map.
func BuildRiskSummary(units []fixtures.UnitFixture) RiskSummary {
	var coverage, accuracy, falsePositive, efficiency []*float64
	for i := range units {
		u := &units[i]
		if u.RiskMetrics == nil {
			continue
		}
		if s := u.RiskMetrics.SanctionsScreening; s != nil && s.Coverage != nil {
			coverage = append(coverage, s.Coverage.Transactions)
		}
		if m := u.RiskMetrics.AMLMonitoring; m != nil && m.Effectiveness != nil {
			accuracy = append(accuracy, m.Effectiveness.ModelAccuracy)
			falsePositive = append(falsePositive, m.Effectiveness.FalsePositiveRate)
			efficiency = append(efficiency, m.Effectiveness.ReviewEfficiency)
		}
	}

	return RiskSummary{
		TopFraudLoss:      TopFraudLoss(units),
		TopAlertVolume:    TopAlertVolume(units),
		SanctionsCoverage: MeanOfRatios(coverage),
		ModelAccuracy:     MeanOfRatios(accuracy),
		FalsePositiveRate: MeanOfRatios(falsePositive),
		ReviewEfficiency:  MeanOfRatios(efficiency),
		HeatMap:           BuildHeatMap(units),
	}
}

// BuildHeatMap projects scorecard risk-category values into the fixed column
// order, one row per unit in input order.
func BuildHeatMap(units []fixtures.UnitFixture) HeatMap {
	hm := HeatMap{Categories: HeatMapCategories}
	for i := range units {
		u := &units[i]
		row := HeatMapRow{UnitID: u.ID, UnitName: u.Name, Scores: make([]*float64, len(HeatMapCategories))}
		if u.ExecutiveScorecard != nil {
			for ci, cat := range HeatMapCategories {
				if v, ok := u.ExecutiveScorecard.RiskMetrics[cat]; ok {
					v := v
					row.Scores[ci] = &v
				}
			}
		}
		hm.Rows = append(hm.Rows, row)
	}
	return hm
}
