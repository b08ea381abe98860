package aggregate

import (
	"enterprise-audit-dashboard/internal/fixtures"
)

// SyntheticSteps is the fixed step count for fabricated trend series.
const SyntheticSteps = 6

// Series is one chart-ready labelled series.
type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	// Synthetic marks series interpolated from a single current value for
	// visual effect. They are presentation artifacts, not historical data.
	Synthetic bool `json:"synthetic"`
}

// TrendsSummary is the trends view rollup: the genuine historical series from
// the trends fixture plus the fabricated ones the legacy dashboard showed.
type TrendsSummary struct {
	Historical []Series `json:"historical"`
	Synthetic  []Series `json:"synthetic"`
}

// HistoricalMetrics are the metric names read from the trends fixture.
var HistoricalMetrics = []string{
	"enterpriseRiskScore",
	"complianceRate",
	"activeFindings",
	"fraudLossRate",
}

// SyntheticSeries interpolates linearly from current*(1+drift) down (or up)
// to the current value across SyntheticSteps points. The last point always
// equals the current value exactly.
func SyntheticSeries(name string, current float64, drift float64) Series {
	s := Series{Name: name, Synthetic: true}
	steps := SyntheticSteps
	for i := 0; i < steps; i++ {
		frac := float64(steps-1-i) / float64(steps-1)
		s.Labels = append(s.Labels, syntheticLabel(i, steps))
		s.Values = append(s.Values, current*(1+drift*frac))
	}
	return s
}

func syntheticLabel(i, steps int) string {
	// Relative month offsets, newest last.
	offsets := []string{"-5m", "-4m", "-3m", "-2m", "-1m", "now"}
	if steps == len(offsets) {
		return offsets[i]
	}
	return offsets[len(offsets)-1]
}

// BuildTrendsSummary assembles historical series from the trends fixture and
// regenerates the three fabricated series from current aggregate values.
func BuildTrendsSummary(trends *fixtures.HistoricalTrends, units []fixtures.UnitFixture) TrendsSummary {
	var out TrendsSummary

	for _, metric := range HistoricalMetrics {
		labels, values := trends.Series(metric)
		if len(values) == 0 {
			continue
		}
		out.Historical = append(out.Historical, Series{Name: metric, Labels: labels, Values: values})
	}

	risk := BuildRiskSummary(units)
	compliance := BuildComplianceSummary(units)

	// The legacy dashboard fabricated these from the current value alone:
	// false positives and review backlog trail down to today's reading,
	// remediation climbs up to it.
	out.Synthetic = append(out.Synthetic,
		SyntheticSeries("falsePositiveRate", risk.FalsePositiveRate.Mean, 0.18),
		SyntheticSeries("periodicReviewOnTime", compliance.KYCReviewOnTime.Mean, -0.12),
		SyntheticSeries("remediationProgress", remediationProgress(units), -0.30),
	)

	return out
}

// remediationProgress is the share of findings closed, in percent.
func remediationProgress(units []fixtures.UnitFixture) float64 {
	rollup := BuildFindingsRollup(units)
	var total int
	for _, count := range rollup.ByStatus {
		total += count
	}
	if total == 0 {
		return 0
	}
	return float64(rollup.ByStatus["closed"]) / float64(total) * 100
}
