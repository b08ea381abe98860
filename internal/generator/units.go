package generator

import (
	"fmt"
	"strings"

	"enterprise-audit-dashboard/internal/fixtures"
)

// unitBaseline holds a unit's q3-2024 readings. Other quarters are derived
// by trending and jittering these numbers.
type unitBaseline struct {
	name          string
	headcount     int
	riskTier      string
	score         float64
	trend         string
	training      float64
	trainingNew   float64
	sarTimeliness float64
	sarQuality    float64
	sarVolume     int
	policyCur     float64
	policyAck     float64
	alertVolume   int
	modelAccuracy float64
	falsePositive float64
	reviewEff     float64
	fraudRate     float64
	fraudTotal    float64
	sanctions     float64
	kycOverall    float64
	kycNew        float64
	periodicOT    float64
	testingPass   float64
	// findings by severity at the baseline quarter
	critical int
	high     int
	medium   int
	low      int
}

var unitBaselines = map[string]unitBaseline{
	"consumer-banking": {
		name: "Consumer Banking", headcount: 12400, riskTier: "high", score: 84.2, trend: fixtures.TrendImproving,
		training: 93.1, trainingNew: 88.4, sarTimeliness: 96.2, sarQuality: 91.8, sarVolume: 412,
		policyCur: 94.5, policyAck: 92.1, alertVolume: 18450, modelAccuracy: 87.3, falsePositive: 62.4, reviewEff: 88.1,
		fraudRate: 0.0042, fraudTotal: 8_420_000, sanctions: 99.6, kycOverall: 94.8, kycNew: 97.2, periodicOT: 89.4,
		testingPass: 91.2, critical: 1, high: 3, medium: 5, low: 4,
	},
	"commercial-banking": {
		name: "Commercial Banking", headcount: 6800, riskTier: "high", score: 81.7, trend: fixtures.TrendStable,
		training: 91.4, trainingNew: 86.9, sarTimeliness: 94.8, sarQuality: 90.2, sarVolume: 238,
		policyCur: 92.8, policyAck: 90.6, alertVolume: 9620, modelAccuracy: 85.9, falsePositive: 65.8, reviewEff: 86.3,
		fraudRate: 0.0031, fraudTotal: 5_130_000, sanctions: 99.4, kycOverall: 92.6, kycNew: 95.8, periodicOT: 86.2,
		testingPass: 89.6, critical: 1, high: 4, medium: 4, low: 3,
	},
	"investment-banking": {
		name: "Investment Banking", headcount: 4100, riskTier: "high", score: 79.3, trend: fixtures.TrendDeclining,
		training: 89.8, trainingNew: 84.2, sarTimeliness: 92.6, sarQuality: 88.4, sarVolume: 96,
		policyCur: 90.2, policyAck: 88.7, alertVolume: 4180, modelAccuracy: 84.1, falsePositive: 68.9, reviewEff: 83.5,
		fraudRate: 0.0018, fraudTotal: 3_940_000, sanctions: 99.1, kycOverall: 90.4, kycNew: 93.6, periodicOT: 82.8,
		testingPass: 86.4, critical: 2, high: 5, medium: 6, low: 3,
	},
	"wealth-management": {
		name: "Wealth Management", headcount: 3200, riskTier: "medium", score: 86.9, trend: fixtures.TrendImproving,
		training: 94.6, trainingNew: 90.8, sarTimeliness: 97.1, sarQuality: 93.4, sarVolume: 64,
		policyCur: 95.3, policyAck: 93.8, alertVolume: 2340, modelAccuracy: 88.6, falsePositive: 58.2, reviewEff: 90.4,
		fraudRate: 0.0012, fraudTotal: 1_260_000, sanctions: 99.7, kycOverall: 95.9, kycNew: 97.8, periodicOT: 91.6,
		testingPass: 93.1, critical: 0, high: 2, medium: 4, low: 3,
	},
	"payments": {
		name: "Payments", headcount: 2900, riskTier: "high", score: 82.4, trend: fixtures.TrendStable,
		training: 92.2, trainingNew: 87.6, sarTimeliness: 95.4, sarQuality: 90.8, sarVolume: 318,
		policyCur: 93.1, policyAck: 91.4, alertVolume: 21760, modelAccuracy: 86.2, falsePositive: 64.1, reviewEff: 87.2,
		fraudRate: 0.0058, fraudTotal: 11_340_000, sanctions: 99.5, kycOverall: 93.2, kycNew: 96.1, periodicOT: 87.8,
		testingPass: 90.3, critical: 1, high: 3, medium: 6, low: 4,
	},
	"mortgage-lending": {
		name: "Mortgage Lending", headcount: 5400, riskTier: "medium", score: 83.6, trend: fixtures.TrendImproving,
		training: 92.8, trainingNew: 88.1, sarTimeliness: 95.9, sarQuality: 91.2, sarVolume: 142,
		policyCur: 93.9, policyAck: 91.8, alertVolume: 3860, modelAccuracy: 86.8, falsePositive: 61.7, reviewEff: 88.6,
		fraudRate: 0.0026, fraudTotal: 4_280_000, sanctions: 99.5, kycOverall: 93.8, kycNew: 96.4, periodicOT: 88.2,
		testingPass: 90.8, critical: 0, high: 3, medium: 5, low: 4,
	},
	"treasury-services": {
		name: "Treasury Services", headcount: 1800, riskTier: "medium", score: 87.8, trend: fixtures.TrendStable,
		training: 95.1, trainingNew: 91.6, sarTimeliness: 97.6, sarQuality: 94.1, sarVolume: 38,
		policyCur: 95.8, policyAck: 94.2, alertVolume: 1420, modelAccuracy: 89.2, falsePositive: 56.8, reviewEff: 91.1,
		fraudRate: 0.0008, fraudTotal: 640_000, sanctions: 99.8, kycOverall: 96.3, kycNew: 98.1, periodicOT: 92.4,
		testingPass: 93.8, critical: 0, high: 1, medium: 3, low: 3,
	},
	"operations": {
		name: "Operations", headcount: 8600, riskTier: "medium", score: 85.1, trend: fixtures.TrendImproving,
		training: 93.8, trainingNew: 89.4, sarTimeliness: 96.4, sarQuality: 92.2, sarVolume: 86,
		policyCur: 94.7, policyAck: 92.6, alertVolume: 2680, modelAccuracy: 87.6, falsePositive: 60.3, reviewEff: 89.2,
		fraudRate: 0.0014, fraudTotal: 1_820_000, sanctions: 99.6, kycOverall: 94.4, kycNew: 96.8, periodicOT: 90.1,
		testingPass: 92.2, critical: 0, high: 2, medium: 5, low: 4,
	},
	"technology": {
		name: "Technology", headcount: 7200, riskTier: "medium", score: 80.9, trend: fixtures.TrendDeclining,
		training: 90.6, trainingNew: 85.8, sarTimeliness: 93.8, sarQuality: 89.1, sarVolume: 12,
		policyCur: 91.4, policyAck: 89.2, alertVolume: 840, modelAccuracy: 85.2, falsePositive: 66.4, reviewEff: 84.8,
		fraudRate: 0.0006, fraudTotal: 480_000, sanctions: 99.3, kycOverall: 91.8, kycNew: 94.2, periodicOT: 84.6,
		testingPass: 87.9, critical: 1, high: 4, medium: 5, low: 5,
	},
	"human-resources": {
		name: "Human Resources", headcount: 1400, riskTier: "low", score: 89.4, trend: fixtures.TrendStable,
		training: 96.2, trainingNew: 93.1, sarTimeliness: 98.1, sarQuality: 95.2, sarVolume: 4,
		policyCur: 96.4, policyAck: 95.1, alertVolume: 120, modelAccuracy: 90.1, falsePositive: 54.2, reviewEff: 92.3,
		fraudRate: 0.0003, fraudTotal: 120_000, sanctions: 99.9, kycOverall: 97.1, kycNew: 98.6, periodicOT: 93.8,
		testingPass: 94.6, critical: 0, high: 1, medium: 2, low: 3,
	},
	"finance": {
		name: "Finance", headcount: 2100, riskTier: "low", score: 88.6, trend: fixtures.TrendImproving,
		training: 95.7, trainingNew: 92.4, sarTimeliness: 97.8, sarQuality: 94.6, sarVolume: 8,
		policyCur: 96.1, policyAck: 94.6, alertVolume: 260, modelAccuracy: 89.6, falsePositive: 55.6, reviewEff: 91.8,
		fraudRate: 0.0004, fraudTotal: 210_000, sanctions: 99.8, kycOverall: 96.8, kycNew: 98.3, periodicOT: 93.1,
		testingPass: 94.1, critical: 0, high: 1, medium: 3, low: 2,
	},
	"legal-compliance": {
		name: "Legal & Compliance", headcount: 1600, riskTier: "low", score: 90.8, trend: fixtures.TrendStable,
		training: 97.1, trainingNew: 94.6, sarTimeliness: 98.6, sarQuality: 96.1, sarVolume: 6,
		policyCur: 97.2, policyAck: 96.3, alertVolume: 90, modelAccuracy: 91.2, falsePositive: 52.1, reviewEff: 93.4,
		fraudRate: 0.0002, fraudTotal: 80_000, sanctions: 99.9, kycOverall: 97.8, kycNew: 99.1, periodicOT: 94.6,
		testingPass: 95.4, critical: 0, high: 0, medium: 2, low: 2,
	},
	"north-america-region": {
		name: "North America Region", headcount: 21400, riskTier: "high", score: 83.8, trend: fixtures.TrendImproving,
		training: 93.4, trainingNew: 88.9, sarTimeliness: 96.1, sarQuality: 91.6, sarVolume: 684,
		policyCur: 94.2, policyAck: 92.4, alertVolume: 29840, modelAccuracy: 87.1, falsePositive: 61.9, reviewEff: 88.4,
		fraudRate: 0.0038, fraudTotal: 14_680_000, sanctions: 99.6, kycOverall: 94.2, kycNew: 96.9, periodicOT: 88.9,
		testingPass: 91.0, critical: 1, high: 4, medium: 6, low: 5,
	},
	"emea-region": {
		name: "EMEA Region", headcount: 9800, riskTier: "high", score: 80.2, trend: fixtures.TrendDeclining,
		training: 90.8, trainingNew: 85.4, sarTimeliness: 93.4, sarQuality: 88.8, sarVolume: 296,
		policyCur: 91.6, policyAck: 89.4, alertVolume: 12480, modelAccuracy: 84.8, falsePositive: 67.2, reviewEff: 84.2,
		fraudRate: 0.0034, fraudTotal: 6_920_000, sanctions: 99.2, kycOverall: 91.4, kycNew: 94.1, periodicOT: 83.9,
		testingPass: 87.2, critical: 2, high: 5, medium: 5, low: 4,
	},
	"apac-region": {
		name: "APAC Region", headcount: 7600, riskTier: "high", score: 81.9, trend: fixtures.TrendStable,
		training: 91.9, trainingNew: 86.8, sarTimeliness: 94.6, sarQuality: 89.9, sarVolume: 214,
		policyCur: 92.6, policyAck: 90.2, alertVolume: 9240, modelAccuracy: 85.6, falsePositive: 65.1, reviewEff: 85.9,
		fraudRate: 0.0029, fraudTotal: 4_860_000, sanctions: 99.4, kycOverall: 92.2, kycNew: 95.2, periodicOT: 85.8,
		testingPass: 88.8, critical: 1, high: 3, medium: 5, low: 4,
	},
}

// Finding title and owner pools, cycled deterministically per unit.
var findingTitles = map[string][]string{
	"critical": {
		"Transaction monitoring scenario gap for wire transfers",
		"Sanctions screening list update backlog",
		"Unremediated segregation of duties conflict",
	},
	"high": {
		"SAR narrative quality below standard",
		"Periodic KYC review backlog exceeds threshold",
		"Alert disposition documentation incomplete",
		"Model validation overdue for AML scenarios",
		"High-risk customer refresh cycle missed",
	},
	"medium": {
		"Training completion below target for new hires",
		"Policy attestation lag in branch network",
		"Case management SLA breaches",
		"Quality assurance sampling coverage gap",
		"Vendor due diligence refresh overdue",
		"Data lineage documentation incomplete",
	},
	"low": {
		"Procedure document version control gaps",
		"Access recertification evidence inconsistencies",
		"Reporting template standardization pending",
		"Records retention tagging backlog",
		"Desk procedure updates pending review",
	},
}

var findingCategories = map[string]string{
	"critical": "AML Monitoring",
	"high":     "Regulatory Reporting",
	"medium":   "Governance",
	"low":      "Documentation",
}

var findingOwners = []string{
	"M. Okafor", "J. Lindqvist", "R. Patel", "S. Tanaka", "A. Moreau",
	"D. Kowalski", "L. Nguyen", "C. Ibarra",
}

var findingDueDates = map[string]string{
	"q4-2023": "2024-02-29",
	"q1-2024": "2024-05-31",
	"q2-2024": "2024-08-31",
	"q3-2024": "2024-11-30",
	"q4-2024": "2025-02-28",
}

func unitCode(slug string) string {
	var b strings.Builder
	for _, part := range strings.Split(slug, "-") {
		if part != "" {
			b.WriteByte(part[0])
		}
	}
	return strings.ToUpper(b.String())
}

// GenerateUnit builds one business unit snapshot for the requested quarter.
func (e *Engine) GenerateUnit(slug, quarter string) (fixtures.UnitFixture, error) {
	base, ok := unitBaselines[slug]
	if !ok {
		return fixtures.UnitFixture{}, fmt.Errorf("unknown business unit %q", slug)
	}
	if _, ok := quarterOffsets[quarter]; !ok {
		return fixtures.UnitFixture{}, fmt.Errorf("unknown quarter %q", quarter)
	}
	p := e.profile

	score := e.varyValue(base.score, quarter, p.Clamps.Score)
	training := e.varyValue(base.training, quarter, p.Clamps.Training)
	alertVolume := e.varyCount(base.alertVolume, quarter)
	findings := e.generateFindings(slug, quarter, base)

	u := fixtures.UnitFixture{
		ID:        slug,
		Name:      base.name,
		Category:  fixtures.UnitCategories[slug],
		Headcount: ptrInt(base.headcount),
		RiskTier:  base.riskTier,
		Quarter:   quarter,
		Date:      quarterDates[quarter],
		ExecutiveScorecard: &fixtures.ExecutiveScorecard{
			OverallScore: &fixtures.ScoreValue{Value: ptrFloat(score), Trend: base.trend},
			RiskMetrics: map[string]float64{
				"amlCompliance":   e.varyValue(base.modelAccuracy, quarter, p.Clamps.Score),
				"fraudRisk":       e.varyValue(base.score-4, quarter, p.Clamps.Score),
				"operationalRisk": e.varyValue(base.periodicOT, quarter, p.Clamps.Score),
				"cyberSecurity":   e.varyValue(base.testingPass, quarter, p.Clamps.Score),
			},
			Alerts: map[string]int{
				"critical": alertVolume / 200,
				"high":     alertVolume / 40,
				"medium":   alertVolume / 8,
			},
			KPIs: []fixtures.NamedValue{
				{Name: "Training Completion", Value: training, Unit: "%"},
				{Name: "KYC Completion", Value: e.varyValue(base.kycOverall, quarter, p.Clamps.Percent), Unit: "%"},
				{Name: "Testing Pass Rate", Value: e.varyValue(base.testingPass, quarter, p.Clamps.TestingPass), Unit: "%"},
			},
		},
		ComplianceMetrics: &fixtures.ComplianceMetrics{
			Training: &fixtures.TrainingMetrics{
				Completion: &fixtures.CompletionMetrics{
					Overall: ptrFloat(training),
					New:     ptrFloat(e.varyValue(base.trainingNew, quarter, p.Clamps.Training)),
				},
			},
			Regulatory: &fixtures.RegulatoryMetrics{
				SARFiling: &fixtures.SARFilingMetrics{
					Timeliness: ptrFloat(e.varyValue(base.sarTimeliness, quarter, p.Clamps.Percent)),
					Quality:    ptrFloat(e.varyValue(base.sarQuality, quarter, p.Clamps.Percent)),
					Volume:     ptrInt(e.varyCount(base.sarVolume, quarter)),
				},
			},
			Policy: &fixtures.PolicyMetrics{
				Currency: &fixtures.CompletionMetrics{
					Overall: ptrFloat(e.varyValue(base.policyCur, quarter, p.Clamps.Percent)),
				},
				Distribution: &fixtures.DistributionMetrics{
					Acknowledgment: ptrFloat(e.varyValue(base.policyAck, quarter, p.Clamps.Percent)),
				},
			},
		},
		RiskMetrics: &fixtures.RiskMetrics{
			AMLMonitoring: &fixtures.AMLMonitoring{
				AlertVolume: &fixtures.AlertVolume{Total: ptrInt(alertVolume)},
				Effectiveness: &fixtures.AMLEffectiveness{
					ModelAccuracy:     ptrFloat(e.varyValue(base.modelAccuracy, quarter, p.Clamps.Percent)),
					FalsePositiveRate: ptrFloat(e.varyRate(base.falsePositive, quarter, p.Clamps.Percent)),
					ReviewEfficiency:  ptrFloat(e.varyValue(base.reviewEff, quarter, p.Clamps.Percent)),
				},
			},
			FraudMetrics: &fixtures.FraudMetrics{
				Losses: &fixtures.FraudLosses{
					Rate:  ptrFloat(e.varyRate(base.fraudRate, quarter, p.Clamps.FraudRate)),
					Total: ptrFloat(float64(e.varyCount(int(base.fraudTotal), quarter))),
				},
			},
			SanctionsScreening: &fixtures.SanctionsScreening{
				Coverage: &fixtures.SanctionsCoverage{
					Transactions: ptrFloat(e.varyValue(base.sanctions, quarter, p.Clamps.Sanctions)),
				},
			},
		},
		OperationalMetrics: &fixtures.OperationalMetrics{
			KYCCDD: &fixtures.KYCCDDMetrics{
				Completion: &fixtures.CompletionMetrics{
					Overall: ptrFloat(e.varyValue(base.kycOverall, quarter, p.Clamps.Percent)),
					New:     ptrFloat(e.varyValue(base.kycNew, quarter, p.Clamps.Percent)),
				},
				PeriodicReview: &fixtures.PeriodicReviewMetrics{
					OnTime: ptrFloat(e.varyValue(base.periodicOT, quarter, p.Clamps.Percent)),
				},
			},
			AMLMonitoring: &fixtures.AMLMonitoring{
				Effectiveness: &fixtures.AMLEffectiveness{
					ReviewEfficiency: ptrFloat(e.varyValue(base.reviewEff, quarter, p.Clamps.Percent)),
				},
			},
		},
		AuditFindings: &fixtures.AuditFindings{
			Summary: summarizeFindings(findings),
			Testing: &fixtures.TestingMetrics{
				Results: &fixtures.TestingResults{
					Pass: ptrFloat(e.varyValue(base.testingPass, quarter, p.Clamps.TestingPass)),
				},
			},
			Findings: findings,
		},
	}
	return u, nil
}

// generateFindings lays out the baseline register for the unit and then moves
// statuses with the quarter: later quarters close some open work, earlier
// quarters reopen some of what the baseline shows closed.
func (e *Engine) generateFindings(slug, quarter string, base unitBaseline) []fixtures.AuditFinding {
	counts := []struct {
		severity string
		n        int
	}{
		{"critical", base.critical},
		{"high", base.high},
		{"medium", base.medium},
		{"low", base.low},
	}
	code := unitCode(slug)
	var out []fixtures.AuditFinding
	seq := 0
	for _, c := range counts {
		titles := findingTitles[c.severity]
		for i := 0; i < c.n; i++ {
			seq++
			// baseline split: first slots open, middle in progress, tail closed
			status := "open"
			switch {
			case i >= (c.n*2+2)/3:
				status = "closed"
			case i >= c.n/3:
				status = "in-progress"
			}
			out = append(out, fixtures.AuditFinding{
				ID:       fmt.Sprintf("%s-%s-%03d", code, strings.ToUpper(quarter), seq),
				Title:    titles[i%len(titles)],
				Severity: c.severity,
				Category: findingCategories[c.severity],
				Status:   status,
				DueDate:  findingDueDates[quarter],
				Owner:    findingOwners[(seq-1)%len(findingOwners)],
			})
		}
	}
	offset := quarterOffsets[quarter]
	for i := range out {
		switch {
		case offset > 0 && out[i].Status != "closed" && e.chance(0.3):
			out[i].Status = "closed"
		case offset < 0 && out[i].Status == "closed" && e.chance(0.2):
			out[i].Status = "open"
		}
	}
	return out
}

func summarizeFindings(findings []fixtures.AuditFinding) *fixtures.FindingsSummary {
	s := &fixtures.FindingsSummary{
		Total:      ptrInt(len(findings)),
		BySeverity: map[string]int{},
		ByStatus:   map[string]int{},
	}
	for _, f := range findings {
		s.BySeverity[f.Severity]++
		s.ByStatus[f.Status]++
	}
	return s
}
