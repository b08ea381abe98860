package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"enterprise-audit-dashboard/internal/aggregate"
)

// ReportData carries every aggregate a printable report page can draw from.
type ReportData struct {
	Quarter    string
	Executive  aggregate.ExecutiveSummary
	Compliance aggregate.ComplianceSummary
	Risk       aggregate.RiskSummary
	Findings   aggregate.FindingsRollup
	Trends     aggregate.TrendsSummary
	Units      []aggregate.UnitRow
}

// WriteReport renders a standalone printable HTML page for the named view.
// The browser's print dialog handles the PDF half of the export contract.
func WriteReport(w io.Writer, view string, d ReportData) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Enterprise Audit Report: %s (%s)", view, d.Quarter)

	switch view {
	case "executive":
		page.AddCharts(unitScoreBar(d), trendPie(d), alertsBar(d))
	case "business-units":
		page.AddCharts(unitScoreBar(d), categoryScoreBar(d))
	case "risk-analysis":
		page.AddCharts(fraudLossBar(d), alertVolumeBar(d), riskHeatMap(d))
	case "compliance":
		page.AddCharts(complianceBar(d))
	case "findings":
		page.AddCharts(severityPie(d), statusBar(d))
	case "trends":
		page.AddCharts(trendLines(d)...)
	default:
		return fmt.Errorf("unknown report view: %s", view)
	}

	return page.Render(w)
}

func unitScoreBar(d ReportData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Overall Risk Score by Business Unit"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(d.Units))
	data := make([]opts.BarData, 0, len(d.Units))
	for _, u := range d.Units {
		if u.OverallScore == nil {
			continue
		}
		names = append(names, u.Name)
		data = append(data, opts.BarData{
			Value:     *u.OverallScore,
			ItemStyle: &opts.ItemStyle{Color: ScoreBandColor(ScoreBand(*u.OverallScore))},
		})
	}
	bar.SetXAxis(names).AddSeries("score", data)
	return bar
}

func categoryScoreBar(d ReportData) *charts.Bar {
	type accum struct {
		sum float64
		n   int
	}
	byCategory := map[string]*accum{}
	var order []string
	for _, u := range d.Units {
		if u.OverallScore == nil {
			continue
		}
		a, ok := byCategory[u.Category]
		if !ok {
			a = &accum{}
			byCategory[u.Category] = a
			order = append(order, u.Category)
		}
		a.sum += *u.OverallScore
		a.n++
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Average Score by Category"}))
	data := make([]opts.BarData, 0, len(order))
	for _, cat := range order {
		a := byCategory[cat]
		data = append(data, opts.BarData{Value: a.sum / float64(a.n)})
	}
	bar.SetXAxis(order).AddSeries("avg score", data)
	return bar
}

func trendPie(d ReportData) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Trend Direction"}))
	var data []opts.PieData
	for _, trend := range []string{"improving", "stable", "declining"} {
		if n := d.Executive.TrendCounts[trend]; n > 0 {
			data = append(data, opts.PieData{
				Name:      trend,
				Value:     n,
				ItemStyle: &opts.ItemStyle{Color: TrendColor(trend)},
			})
		}
	}
	pie.AddSeries("trend", data)
	return pie
}

func alertsBar(d ReportData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Open Alerts by Severity"}))
	severities := []string{"critical", "high", "medium", "low"}
	data := make([]opts.BarData, 0, len(severities))
	for _, s := range severities {
		data = append(data, opts.BarData{
			Value:     d.Executive.AlertTotals[s],
			ItemStyle: &opts.ItemStyle{Color: SeverityColor(s)},
		})
	}
	bar.SetXAxis(severities).AddSeries("alerts", data)
	return bar
}

func fraudLossBar(d ReportData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Units by Fraud Loss Rate"}))
	var names []string
	var data []opts.BarData
	for _, r := range d.Risk.TopFraudLoss {
		names = append(names, r.UnitName)
		data = append(data, opts.BarData{Value: r.Value})
	}
	bar.SetXAxis(names).AddSeries("loss rate", data)
	return bar
}

func alertVolumeBar(d ReportData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Units by AML Alert Volume"}))
	var names []string
	var data []opts.BarData
	for _, r := range d.Risk.TopAlertVolume {
		names = append(names, r.UnitName)
		data = append(data, opts.BarData{Value: r.Value})
	}
	bar.SetXAxis(names).AddSeries("alerts", data)
	return bar
}

func riskHeatMap(d ReportData) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Risk Heat Map"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: unitNames(d.Risk.HeatMap)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        100,
			InRange: &opts.VisualMapInRange{
				Color: []string{"#c62828", "#f9a825", "#7cb342", "#1e8e3e"},
			},
		}),
	)

	var data []opts.HeatMapData
	for yi, row := range d.Risk.HeatMap.Rows {
		for xi, score := range row.Scores {
			if score == nil {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, yi, *score}})
		}
	}
	hm.SetXAxis(d.Risk.HeatMap.Categories).AddSeries("score", data)
	return hm
}

func unitNames(hm aggregate.HeatMap) []string {
	names := make([]string, 0, len(hm.Rows))
	for _, row := range hm.Rows {
		names = append(names, row.UnitName)
	}
	return names
}

func complianceBar(d ReportData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Compliance Averages"}))
	labels := []string{
		"training completion", "SAR timeliness", "SAR quality",
		"policy currency", "policy acknowledgment", "KYC new", "KYC review on-time",
	}
	values := []float64{
		d.Compliance.TrainingCompletion.Mean,
		d.Compliance.SARTimeliness.Mean,
		d.Compliance.SARQuality.Mean,
		d.Compliance.PolicyCurrency.Mean,
		d.Compliance.PolicyAcknowledgment.Mean,
		d.Compliance.KYCNewCompletion.Mean,
		d.Compliance.KYCReviewOnTime.Mean,
	}
	data := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.BarData{
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: ScoreBandColor(ScoreBand(v))},
		})
	}
	bar.SetXAxis(labels).AddSeries("percent", data)
	return bar
}

func severityPie(d ReportData) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Findings by Severity"}))
	var data []opts.PieData
	for _, s := range []string{"critical", "high", "medium", "low"} {
		if n := d.Findings.BySeverity[s]; n > 0 {
			data = append(data, opts.PieData{
				Name:      s,
				Value:     n,
				ItemStyle: &opts.ItemStyle{Color: SeverityColor(s)},
			})
		}
	}
	pie.AddSeries("severity", data)
	return pie
}

func statusBar(d ReportData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Findings by Status"}))
	statuses := []string{"open", "in-progress", "closed"}
	data := make([]opts.BarData, 0, len(statuses))
	for _, s := range statuses {
		data = append(data, opts.BarData{Value: d.Findings.ByStatus[s]})
	}
	bar.SetXAxis(statuses).AddSeries("findings", data)
	return bar
}

func trendLines(d ReportData) []components.Charter {
	var out []components.Charter
	for _, series := range d.Trends.Historical {
		out = append(out, trendLine(series.Name, series))
	}
	for _, series := range d.Trends.Synthetic {
		out = append(out, trendLine(series.Name+" (projected)", series))
	}
	return out
}

func trendLine(title string, s aggregate.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	data := make([]opts.LineData, 0, len(s.Values))
	for _, v := range s.Values {
		data = append(data, opts.LineData{Value: v})
	}
	line.SetXAxis(s.Labels).AddSeries(s.Name, data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}
