// Package render projects aggregate records into visual output: the
// four-tier classification bands shared by tables, heat-map cells and metric
// cards, the chart handle registry, and the printable go-echarts report
// pages. No business decisions happen here.
package render

// Four-tier score bands. The thresholds are part of the visible contract and
// apply uniformly wherever a 0-100 score is shown.
const (
	BandExcellent = "excellent"
	BandGood      = "good"
	BandWarning   = "warning"
	BandCritical  = "critical"
)

// ScoreBand classifies a 0-100 score: >=90 excellent, >=80 good, >=70
// warning, else critical.
func ScoreBand(score float64) string {
	switch {
	case score >= 90:
		return BandExcellent
	case score >= 80:
		return BandGood
	case score >= 70:
		return BandWarning
	default:
		return BandCritical
	}
}

// ScoreBandColor maps a band to its display color.
func ScoreBandColor(band string) string {
	switch band {
	case BandExcellent:
		return "#1e8e3e"
	case BandGood:
		return "#7cb342"
	case BandWarning:
		return "#f9a825"
	default:
		return "#c62828"
	}
}

// Five-tier severity color scheme, most severe first. "info" covers rows
// whose severity fell outside the closed set but still render.
var SeverityColors = map[string]string{
	"critical": "#b71c1c",
	"high":     "#e53935",
	"medium":   "#fb8c00",
	"low":      "#fdd835",
	"info":     "#90a4ae",
}

// SeverityColor returns the severity tier color, falling back to info.
func SeverityColor(severity string) string {
	if c, ok := SeverityColors[severity]; ok {
		return c
	}
	return SeverityColors["info"]
}

// TrendColors is the trend direction color scheme.
var TrendColors = map[string]string{
	"improving": "#1e8e3e",
	"stable":    "#607d8b",
	"declining": "#c62828",
}

// TrendColor returns the trend color, falling back to stable grey.
func TrendColor(trend string) string {
	if c, ok := TrendColors[trend]; ok {
		return c
	}
	return TrendColors["stable"]
}
