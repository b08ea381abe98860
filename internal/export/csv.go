// Package export produces CSV downloads of the dashboard's tabular views.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"enterprise-audit-dashboard/internal/aggregate"
)

// utf8BOM is prepended so Excel detects the encoding instead of
// falling back to the local codepage.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteUnitsCSV writes the business-unit table. Columns mirror the
// on-screen table so the download matches what the user is looking at.
func WriteUnitsCSV(w io.Writer, rows []aggregate.UnitRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Unit ID", "Business Unit", "Category", "Headcount",
		"Risk Tier", "Overall Score", "Trend", "Open Findings",
		"Training Completion", "Fraud Loss Rate",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID, r.Name, r.Category, strconv.Itoa(r.Headcount),
			r.RiskTier, formatScore(r.OverallScore), r.Trend,
			strconv.Itoa(r.OpenFindings),
			formatPercent(r.TrainingCompletion), formatRate(r.FraudLossRate),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFindingsCSV writes the findings register.
func WriteFindingsCSV(w io.Writer, rows []aggregate.FindingRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Unit ID", "Business Unit", "Finding ID", "Title",
		"Severity", "Category", "Status", "Due Date", "Owner",
	}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.UnitID, r.UnitName, r.ID, r.Title,
			r.Severity, r.Category, r.Status, r.DueDate, r.Owner,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCompareCSV writes a side-by-side comparison, one column per unit.
func WriteCompareCSV(w io.Writer, rows []aggregate.UnitRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	header := []string{"Metric"}
	for _, r := range rows {
		header = append(header, r.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	metrics := []struct {
		label string
		value func(aggregate.UnitRow) string
	}{
		{"Category", func(r aggregate.UnitRow) string { return r.Category }},
		{"Headcount", func(r aggregate.UnitRow) string { return strconv.Itoa(r.Headcount) }},
		{"Risk Tier", func(r aggregate.UnitRow) string { return r.RiskTier }},
		{"Overall Score", func(r aggregate.UnitRow) string { return formatScore(r.OverallScore) }},
		{"Trend", func(r aggregate.UnitRow) string { return r.Trend }},
		{"Open Findings", func(r aggregate.UnitRow) string { return strconv.Itoa(r.OpenFindings) }},
		{"Training Completion", func(r aggregate.UnitRow) string { return formatPercent(r.TrainingCompletion) }},
		{"Fraud Loss Rate", func(r aggregate.UnitRow) string { return formatRate(r.FraudLossRate) }},
	}
	for _, m := range metrics {
		record := []string{m.label}
		for _, r := range rows {
			record = append(record, m.value(r))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func formatRate(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f%%", *v*100)
}
