package generator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"enterprise-audit-dashboard/internal/fixtures"
)

// GenerateEnterprise derives the enterprise summary from already generated
// unit snapshots so the two files agree on the quarter's numbers.
func (e *Engine) GenerateEnterprise(quarter string, units []fixtures.UnitFixture) (fixtures.EnterpriseDashboard, error) {
	if _, ok := quarterOffsets[quarter]; !ok {
		return fixtures.EnterpriseDashboard{}, fmt.Errorf("unknown quarter %q", quarter)
	}
	var (
		scoreSum, trainingSum float64
		scoreN, trainingN     int
		active                int
		refs                  []fixtures.EnterpriseUnitRef
	)
	for _, u := range units {
		refs = append(refs, fixtures.EnterpriseUnitRef{ID: u.ID, Name: u.Name, Category: u.Category})
		if sc := u.ExecutiveScorecard; sc != nil && sc.OverallScore != nil && sc.OverallScore.Value != nil {
			scoreSum += *sc.OverallScore.Value
			scoreN++
		}
		if cm := u.ComplianceMetrics; cm != nil && cm.Training != nil && cm.Training.Completion != nil && cm.Training.Completion.Overall != nil {
			trainingSum += *cm.Training.Completion.Overall
			trainingN++
		}
		if af := u.AuditFindings; af != nil {
			for _, f := range af.Findings {
				if f.Status == "open" || f.Status == "in-progress" {
					active++
				}
			}
		}
	}
	sc := &fixtures.EnterpriseExecutiveScorecard{ActiveFindings: ptrInt(active)}
	if scoreN > 0 {
		sc.EnterpriseRiskScore = ptrFloat(math.Round(scoreSum/float64(scoreN)*10) / 10)
	}
	if trainingN > 0 {
		sc.ComplianceRate = ptrFloat(math.Round(trainingSum/float64(trainingN)*10) / 10)
	}
	return fixtures.EnterpriseDashboard{
		ReportingPeriod:    quarter,
		GeneratedDate:      time.Now().UTC().Format("2006-01-02"),
		ExecutiveScorecard: sc,
		BusinessUnits:      refs,
		Highlights:         enterpriseHighlights(units),
	}, nil
}

func enterpriseHighlights(units []fixtures.UnitFixture) []string {
	type scored struct {
		name  string
		score float64
	}
	var rows []scored
	for _, u := range units {
		if sc := u.ExecutiveScorecard; sc != nil && sc.OverallScore != nil && sc.OverallScore.Value != nil {
			rows = append(rows, scored{u.Name, *sc.OverallScore.Value})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })
	return []string{
		fmt.Sprintf("%s leads the enterprise at %.1f", rows[0].name, rows[0].score),
		fmt.Sprintf("%s requires remediation focus at %.1f", rows[len(rows)-1].name, rows[len(rows)-1].score),
	}
}

// trendBaselines are the q3-2024 values for each historical metric series.
// Metric names match what the trends view reads.
var trendBaselines = map[string]float64{
	"enterpriseRiskScore": 84.3,
	"complianceRate":      93.2,
	"activeFindings":      142,
	"fraudLossRate":       0.0031,
}

// GenerateTrends builds the full historical series by walking the eleven
// fixed periods back from the baseline quarter, applying the trend slope and
// jitter per step.
func (e *Engine) GenerateTrends() fixtures.HistoricalTrends {
	// period index of the baseline quarter within fixtures.TrendPeriods
	baseIdx := len(fixtures.TrendPeriods) - 1
	for i, p := range fixtures.TrendPeriods {
		if p == "Q3-2024" {
			baseIdx = i
			break
		}
	}
	var t fixtures.HistoricalTrends
	metrics := []string{"enterpriseRiskScore", "complianceRate", "activeFindings", "fraudLossRate"}
	for _, metric := range metrics {
		base := trendBaselines[metric]
		for i, period := range fixtures.TrendPeriods {
			offset := float64(i - baseIdx)
			slope := e.profile.TrendPerQuarter
			// findings and fraud losses improve by shrinking
			if metric == "activeFindings" || metric == "fraudLossRate" {
				slope = -slope
			}
			v := base * (1 + slope*offset)
			v += v * e.profile.Volatility * (e.rng.Float64()*2 - 1)
			if v < 0 {
				v = 0
			}
			if metric == "fraudLossRate" {
				v = math.Round(v*1e6) / 1e6
			} else {
				v = math.Round(v*100) / 100
			}
			t.Points = append(t.Points, fixtures.TrendPoint{
				Period: period,
				Metric: metric,
				Value:  v,
			})
		}
	}
	return t
}
