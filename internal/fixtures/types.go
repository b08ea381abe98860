// Package fixtures defines the typed model for the static JSON fixture files
// the dashboard reports on. Every optional numeric leaf is a pointer so that
// "field absent" and "field zero" stay distinguishable; aggregation code
// decides per field whether absence means skip or zero.
package fixtures

import "strings"

// Unit categories form a closed set. Anything else is CategoryUnknown.
const (
	CategoryCoreBanking       = "core-banking"
	CategorySupportOperations = "support-operations"
	CategoryGeographicRegion  = "geographic-region"
	CategoryUnknown           = "unknown"
)

// Trend directions form a closed set.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Finding severities, ordered from most to least severe.
var SeverityOrder = []string{"critical", "high", "medium", "low"}

// Finding statuses.
var StatusOrder = []string{"open", "in-progress", "closed"}

// UnitFixture is one business unit's full quarterly snapshot file.
type UnitFixture struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Headcount *int   `json:"headcount,omitempty"`
	RiskTier  string `json:"riskTier,omitempty"`
	Quarter   string `json:"quarter,omitempty"`
	Date      string `json:"date,omitempty"`

	ExecutiveScorecard *ExecutiveScorecard `json:"executiveScorecard,omitempty"`
	ComplianceMetrics  *ComplianceMetrics  `json:"complianceMetrics,omitempty"`
	RiskMetrics        *RiskMetrics        `json:"riskMetrics,omitempty"`
	OperationalMetrics *OperationalMetrics `json:"operationalMetrics,omitempty"`
	AuditFindings      *AuditFindings      `json:"auditFindings,omitempty"`
}

// ExecutiveScorecard carries the unit's headline score and KPI values.
type ExecutiveScorecard struct {
	OverallScore *ScoreValue        `json:"overallScore,omitempty"`
	RiskMetrics  map[string]float64 `json:"riskMetrics,omitempty"`
	Alerts       map[string]int     `json:"alerts,omitempty"`
	KPIs         []NamedValue       `json:"kpis,omitempty"`
}

// ScoreValue is a 0-100 score with a trend direction.
type ScoreValue struct {
	Value *float64 `json:"value,omitempty"`
	Trend string   `json:"trend,omitempty"`
}

// NamedValue is a single named KPI reading.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// ComplianceMetrics groups compliance percentages by audit domain.
type ComplianceMetrics struct {
	Training   *TrainingMetrics   `json:"training,omitempty"`
	Regulatory *RegulatoryMetrics `json:"regulatory,omitempty"`
	Policy     *PolicyMetrics     `json:"policy,omitempty"`
}

type TrainingMetrics struct {
	Completion *CompletionMetrics `json:"completion,omitempty"`
}

type CompletionMetrics struct {
	Overall *float64 `json:"overall,omitempty"`
	New     *float64 `json:"new,omitempty"`
}

type RegulatoryMetrics struct {
	SARFiling *SARFilingMetrics `json:"sarFiling,omitempty"`
}

type SARFilingMetrics struct {
	Timeliness *float64 `json:"timeliness,omitempty"`
	Quality    *float64 `json:"quality,omitempty"`
	Volume     *int     `json:"volume,omitempty"`
}

type PolicyMetrics struct {
	Currency     *CompletionMetrics   `json:"currency,omitempty"`
	Distribution *DistributionMetrics `json:"distribution,omitempty"`
}

type DistributionMetrics struct {
	Acknowledgment *float64 `json:"acknowledgment,omitempty"`
}

// RiskMetrics groups AML, fraud and sanctions readings.
type RiskMetrics struct {
	AMLMonitoring      *AMLMonitoring      `json:"amlMonitoring,omitempty"`
	FraudMetrics       *FraudMetrics       `json:"fraudMetrics,omitempty"`
	SanctionsScreening *SanctionsScreening `json:"sanctionsScreening,omitempty"`
}

type AMLMonitoring struct {
	AlertVolume   *AlertVolume      `json:"alertVolume,omitempty"`
	Effectiveness *AMLEffectiveness `json:"effectiveness,omitempty"`
}

type AlertVolume struct {
	Total *int `json:"total,omitempty"`
}

type AMLEffectiveness struct {
	ModelAccuracy     *float64 `json:"modelAccuracy,omitempty"`
	FalsePositiveRate *float64 `json:"falsePositiveRate,omitempty"`
	ReviewEfficiency  *float64 `json:"reviewEfficiency,omitempty"`
}

type FraudMetrics struct {
	Losses *FraudLosses `json:"losses,omitempty"`
}

type FraudLosses struct {
	Rate  *float64 `json:"rate,omitempty"`
	Total *float64 `json:"total,omitempty"`
}

type SanctionsScreening struct {
	Coverage *SanctionsCoverage `json:"coverage,omitempty"`
}

type SanctionsCoverage struct {
	Transactions *float64 `json:"transactions,omitempty"`
}

// OperationalMetrics groups KYC/CDD and operational AML readings.
type OperationalMetrics struct {
	KYCCDD        *KYCCDDMetrics `json:"kycCdd,omitempty"`
	AMLMonitoring *AMLMonitoring `json:"amlMonitoring,omitempty"`
}

type KYCCDDMetrics struct {
	Completion     *CompletionMetrics     `json:"completion,omitempty"`
	PeriodicReview *PeriodicReviewMetrics `json:"periodicReview,omitempty"`
}

type PeriodicReviewMetrics struct {
	OnTime *float64 `json:"onTime,omitempty"`
}

// AuditFindings is the unit's findings register with a precomputed summary.
type AuditFindings struct {
	Summary  *FindingsSummary `json:"summary,omitempty"`
	Testing  *TestingMetrics  `json:"testing,omitempty"`
	Findings []AuditFinding   `json:"findings,omitempty"`
}

type FindingsSummary struct {
	Total      *int           `json:"total,omitempty"`
	BySeverity map[string]int `json:"bySeverity,omitempty"`
	ByStatus   map[string]int `json:"byStatus,omitempty"`
}

type TestingMetrics struct {
	Results *TestingResults `json:"results,omitempty"`
}

type TestingResults struct {
	Pass *float64 `json:"pass,omitempty"`
}

// AuditFinding is a single finding row.
type AuditFinding struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
	DueDate  string `json:"dueDate,omitempty"`
	Owner    string `json:"owner,omitempty"`
}

// EnterpriseDashboard is the enterprise-summary fixture.
type EnterpriseDashboard struct {
	ReportingPeriod    string                         `json:"reportingPeriod"`
	GeneratedDate      string                         `json:"generatedDate,omitempty"`
	ExecutiveScorecard *EnterpriseExecutiveScorecard  `json:"executiveScorecard,omitempty"`
	BusinessUnits      []EnterpriseUnitRef            `json:"businessUnits,omitempty"`
	Highlights         []string                       `json:"highlights,omitempty"`
}

type EnterpriseExecutiveScorecard struct {
	EnterpriseRiskScore *float64 `json:"enterpriseRiskScore,omitempty"`
	ComplianceRate      *float64 `json:"complianceRate,omitempty"`
	ActiveFindings      *int     `json:"activeFindings,omitempty"`
}

// EnterpriseUnitRef is the enterprise file's shallow pointer to a unit file.
type EnterpriseUnitRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// HistoricalTrends is the historical-trends fixture: (period, metric, value)
// triples covering eleven fixed quarters.
type HistoricalTrends struct {
	Points []TrendPoint `json:"points"`
}

type TrendPoint struct {
	Period string  `json:"period"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// Series extracts the values for one metric in period-catalog order. Periods
// without a point are skipped, so the labels slice matches values 1:1.
func (h *HistoricalTrends) Series(metric string) (labels []string, values []float64) {
	if h == nil {
		return nil, nil
	}
	byPeriod := make(map[string]float64, len(h.Points))
	for _, p := range h.Points {
		if strings.EqualFold(p.Metric, metric) {
			byPeriod[strings.ToUpper(p.Period)] = p.Value
		}
	}
	for _, period := range TrendPeriods {
		if v, ok := byPeriod[period]; ok {
			labels = append(labels, period)
			values = append(values, v)
		}
	}
	return labels, values
}

// NormalizeSeverity lower-cases a severity label and maps anything outside
// the closed set to "unknown".
func NormalizeSeverity(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, known := range SeverityOrder {
		if s == known {
			return s
		}
	}
	return "unknown"
}

// NormalizeStatus maps finding status labels to the closed set. The fixtures
// mix spellings ("In Progress", "in_progress"); all collapse to "in-progress".
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for _, known := range StatusOrder {
		if s == known {
			return s
		}
	}
	return "unknown"
}

// NormalizeTrend maps trend labels to the closed set.
func NormalizeTrend(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case TrendImproving, TrendStable, TrendDeclining:
		return s
	default:
		return "unknown"
	}
}

// NormalizeCategory maps unit categories to the closed set.
func NormalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case CategoryCoreBanking, CategorySupportOperations, CategoryGeographicRegion:
		return s
	default:
		return CategoryUnknown
	}
}
