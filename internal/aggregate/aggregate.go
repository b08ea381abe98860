// Package aggregate folds per-unit fixture snapshots into enterprise-wide
// summaries. Every function is a pure transform over already-loaded data.
//
// Two folding policies apply throughout:
//
//   - mean-of-ratios: percentages are averaged over the units that actually
//     carry the field; absent fields are excluded, never treated as zero.
//   - sum-of-counts: raw counts are summed across all units; absent fields
//     contribute zero.
//
// Severity and status labels outside their closed sets tally as nothing.
package aggregate

import (
	"enterprise-audit-dashboard/internal/fixtures"
)

// Ratio is an averaged percentage plus the number of units that carried the
// field. Mean is 0, never NaN, when no unit had the field.
type Ratio struct {
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
}

// MeanOfRatios averages the present values; nil entries are excluded from
// both the sum and the divisor.
func MeanOfRatios(values []*float64) Ratio {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return Ratio{}
	}
	return Ratio{Mean: sum / float64(n), Samples: n}
}

// ExecutiveSummary is the executive view rollup.
type ExecutiveSummary struct {
	Quarter             string         `json:"quarter"`
	EnterpriseRiskScore float64        `json:"enterprise_risk_score"`
	ComplianceRate      float64        `json:"compliance_rate"`
	ActiveFindings      int            `json:"active_findings"`
	UnitCount           int            `json:"unit_count"`
	AvgUnitScore        Ratio          `json:"avg_unit_score"`
	TrendCounts         map[string]int `json:"trend_counts"`
	AlertTotals         map[string]int `json:"alert_totals"`
}

// BuildExecutiveSummary folds the enterprise fixture and per-unit scorecards.
func BuildExecutiveSummary(quarter string, enterprise *fixtures.EnterpriseDashboard, units []fixtures.UnitFixture) ExecutiveSummary {
	out := ExecutiveSummary{
		Quarter:     quarter,
		UnitCount:   len(units),
		TrendCounts: map[string]int{},
		AlertTotals: map[string]int{},
	}

	if enterprise != nil && enterprise.ExecutiveScorecard != nil {
		sc := enterprise.ExecutiveScorecard
		if sc.EnterpriseRiskScore != nil {
			out.EnterpriseRiskScore = *sc.EnterpriseRiskScore
		}
		if sc.ComplianceRate != nil {
			out.ComplianceRate = *sc.ComplianceRate
		}
		if sc.ActiveFindings != nil {
			out.ActiveFindings = *sc.ActiveFindings
		}
	}

	scores := make([]*float64, 0, len(units))
	for _, u := range units {
		scores = append(scores, UnitScore(&u))
		if u.ExecutiveScorecard == nil {
			continue
		}
		if u.ExecutiveScorecard.OverallScore != nil {
			trend := fixtures.NormalizeTrend(u.ExecutiveScorecard.OverallScore.Trend)
			if trend != "unknown" {
				out.TrendCounts[trend]++
			}
		}
		for severity, count := range u.ExecutiveScorecard.Alerts {
			severity = fixtures.NormalizeSeverity(severity)
			if severity == "unknown" {
				continue
			}
			out.AlertTotals[severity] += count
		}
	}
	out.AvgUnitScore = MeanOfRatios(scores)

	return out
}

// UnitScore extracts the scorecard overall score, or nil when absent.
func UnitScore(u *fixtures.UnitFixture) *float64 {
	if u == nil || u.ExecutiveScorecard == nil || u.ExecutiveScorecard.OverallScore == nil {
		return nil
	}
	return u.ExecutiveScorecard.OverallScore.Value
}

// ComplianceSummary is the compliance view rollup. All percentages follow the
// mean-of-ratios policy; SAR volume follows sum-of-counts.
type ComplianceSummary struct {
	TrainingCompletion   Ratio `json:"training_completion"`
	SARTimeliness        Ratio `json:"sar_timeliness"`
	SARQuality           Ratio `json:"sar_quality"`
	PolicyCurrency       Ratio `json:"policy_currency"`
	PolicyAcknowledgment Ratio `json:"policy_acknowledgment"`
	SARVolume            int   `json:"sar_volume"`
	KYCNewCompletion     Ratio `json:"kyc_new_completion"`
	KYCReviewOnTime      Ratio `json:"kyc_review_on_time"`
}

// BuildComplianceSummary folds compliance and KYC percentages.
func BuildComplianceSummary(units []fixtures.UnitFixture) ComplianceSummary {
	var (
		training, timeliness, quality, currency, acknowledgment []*float64
		kycNew, kycReview                                       []*float64
		sarVolume                                               int
	)

	for _, u := range units {
		if cm := u.ComplianceMetrics; cm != nil {
			if cm.Training != nil && cm.Training.Completion != nil {
				training = append(training, cm.Training.Completion.Overall)
			} else {
				training = append(training, nil)
			}
			if cm.Regulatory != nil && cm.Regulatory.SARFiling != nil {
				timeliness = append(timeliness, cm.Regulatory.SARFiling.Timeliness)
				quality = append(quality, cm.Regulatory.SARFiling.Quality)
				if cm.Regulatory.SARFiling.Volume != nil {
					sarVolume += *cm.Regulatory.SARFiling.Volume
				}
			}
			if cm.Policy != nil {
				if cm.Policy.Currency != nil {
					currency = append(currency, cm.Policy.Currency.Overall)
				}
				if cm.Policy.Distribution != nil {
					acknowledgment = append(acknowledgment, cm.Policy.Distribution.Acknowledgment)
				}
			}
		}
		if om := u.OperationalMetrics; om != nil && om.KYCCDD != nil {
			if om.KYCCDD.Completion != nil {
				kycNew = append(kycNew, om.KYCCDD.Completion.New)
			}
			if om.KYCCDD.PeriodicReview != nil {
				kycReview = append(kycReview, om.KYCCDD.PeriodicReview.OnTime)
			}
		}
	}

	return ComplianceSummary{
		TrainingCompletion:   MeanOfRatios(training),
		SARTimeliness:        MeanOfRatios(timeliness),
		SARQuality:           MeanOfRatios(quality),
		PolicyCurrency:       MeanOfRatios(currency),
		PolicyAcknowledgment: MeanOfRatios(acknowledgment),
		SARVolume:            sarVolume,
		KYCNewCompletion:     MeanOfRatios(kycNew),
		KYCReviewOnTime:      MeanOfRatios(kycReview),
	}
}

// UnitRow is the flattened per-unit table row used by the business-units view
// and the CSV export.
type UnitRow struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Headcount          int      `json:"headcount"`
	RiskTier           string   `json:"risk_tier"`
	OverallScore       *float64 `json:"overall_score,omitempty"`
	Trend              string   `json:"trend"`
	OpenFindings       int      `json:"open_findings"`
	TrainingCompletion *float64 `json:"training_completion,omitempty"`
	FraudLossRate      *float64 `json:"fraud_loss_rate,omitempty"`
}

// BuildUnitRows flattens each unit snapshot into a table row, preserving
// input order.
func BuildUnitRows(units []fixtures.UnitFixture) []UnitRow {
	rows := make([]UnitRow, 0, len(units))
	for i := range units {
		u := &units[i]
		row := UnitRow{
			ID:       u.ID,
			Name:     u.Name,
			Category: fixtures.NormalizeCategory(u.Category),
			RiskTier: u.RiskTier,
			Trend:    "unknown",
		}
		if u.Headcount != nil {
			row.Headcount = *u.Headcount
		}
		row.OverallScore = UnitScore(u)
		if u.ExecutiveScorecard != nil && u.ExecutiveScorecard.OverallScore != nil {
			row.Trend = fixtures.NormalizeTrend(u.ExecutiveScorecard.OverallScore.Trend)
		}
		if u.AuditFindings != nil && u.AuditFindings.Summary != nil {
			for status, count := range u.AuditFindings.Summary.ByStatus {
				if fixtures.NormalizeStatus(status) == "open" {
					row.OpenFindings += count
				}
			}
		}
		if u.ComplianceMetrics != nil && u.ComplianceMetrics.Training != nil && u.ComplianceMetrics.Training.Completion != nil {
			row.TrainingCompletion = u.ComplianceMetrics.Training.Completion.Overall
		}
		if u.RiskMetrics != nil && u.RiskMetrics.FraudMetrics != nil && u.RiskMetrics.FraudMetrics.Losses != nil {
			row.FraudLossRate = u.RiskMetrics.FraudMetrics.Losses.Rate
		}
		rows = append(rows, row)
	}
	return rows
}

// ScoreDistribution buckets unit scores through the supplied classifier.
// Units without a score are left out of every bucket.
func ScoreDistribution(units []fixtures.UnitFixture, classify func(float64) string) map[string]int {
	out := map[string]int{}
	for i := range units {
		if score := UnitScore(&units[i]); score != nil {
			out[classify(*score)]++
		}
	}
	return out
}
