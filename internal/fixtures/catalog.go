package fixtures

import (
	"fmt"
	"strings"
)

// The dashboard reports on a fixed set of fifteen business units. The slugs
// double as fixture file name stems, e.g. consumer-banking-q3-2024.json.
var UnitSlugs = []string{
	"consumer-banking",
	"commercial-banking",
	"investment-banking",
	"wealth-management",
	"payments",
	"mortgage-lending",
	"treasury-services",
	"operations",
	"technology",
	"human-resources",
	"finance",
	"legal-compliance",
	"north-america-region",
	"emea-region",
	"apac-region",
}

// UnitCategories maps each slug to its category.
var UnitCategories = map[string]string{
	"consumer-banking":     CategoryCoreBanking,
	"commercial-banking":   CategoryCoreBanking,
	"investment-banking":   CategoryCoreBanking,
	"wealth-management":    CategoryCoreBanking,
	"payments":             CategoryCoreBanking,
	"mortgage-lending":     CategoryCoreBanking,
	"treasury-services":    CategoryCoreBanking,
	"operations":           CategorySupportOperations,
	"technology":           CategorySupportOperations,
	"human-resources":      CategorySupportOperations,
	"finance":              CategorySupportOperations,
	"legal-compliance":     CategorySupportOperations,
	"north-america-region": CategoryGeographicRegion,
	"emea-region":          CategoryGeographicRegion,
	"apac-region":          CategoryGeographicRegion,
}

// CategoryOrder fixes how category filters and groupings are presented.
var CategoryOrder = []string{
	CategoryCoreBanking,
	CategorySupportOperations,
	CategoryGeographicRegion,
}

// Reporting quarters available to the UI, oldest first. DefaultQuarter is the
// baseline the fixture generator varies from.
var Quarters = []string{"q4-2023", "q1-2024", "q2-2024", "q3-2024", "q4-2024"}

const DefaultQuarter = "q3-2024"

// TrendPeriods are the eleven fixed quarters covered by the historical-trends
// fixture, oldest first.
var TrendPeriods = []string{
	"Q2-2022", "Q3-2022", "Q4-2022",
	"Q1-2023", "Q2-2023", "Q3-2023", "Q4-2023",
	"Q1-2024", "Q2-2024", "Q3-2024", "Q4-2024",
}

// UnitPath returns the fixture path for one unit snapshot.
func UnitPath(slug, quarter string) string {
	return fmt.Sprintf("business-units/%s-%s.json", slug, quarter)
}

// EnterprisePath returns the fixture path for the enterprise summary.
func EnterprisePath(quarter string) string {
	return fmt.Sprintf("enterprise-dashboard-%s.json", quarter)
}

// TrendsPath is the single historical-trends fixture.
const TrendsPath = "historical-trends.json"

// ValidQuarter reports whether q names a known reporting quarter.
func ValidQuarter(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, known := range Quarters {
		if q == known {
			return true
		}
	}
	return false
}

// ValidUnit reports whether slug names a known business unit.
func ValidUnit(slug string) bool {
	_, ok := UnitCategories[strings.ToLower(strings.TrimSpace(slug))]
	return ok
}
