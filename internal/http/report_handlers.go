package http

import (
	nethttp "net/http"
	"strings"

	"enterprise-audit-dashboard/internal/aggregate"
	"enterprise-audit-dashboard/internal/render"
)

type reportHandle struct{ view string }

func (reportHandle) Release() {}

// printableReportHandler serves a standalone chart page for one view, meant
// for the browser's print-to-PDF path.
func (s *Server) printableReportHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := strings.Trim(strings.TrimPrefix(r.URL.Path, "/reports/"), "/")
		if view == "" || !knownViews[view] {
			writeError(w, nethttp.StatusNotFound, "unknown report view %q", view)
			return
		}

		quarter, ok := s.parseQuarter(r)
		if !ok {
			writeError(w, nethttp.StatusBadRequest, "unknown quarter %q", quarter)
			return
		}
		snap, err := s.snapshot(r.Context(), quarter)
		if err != nil {
			writeError(w, nethttp.StatusBadGateway, "enterprise summary unavailable: %v", err)
			return
		}

		data := render.ReportData{
			Quarter:    snap.Quarter,
			Executive:  aggregate.BuildExecutiveSummary(snap.Quarter, snap.Enterprise, snap.Units),
			Compliance: aggregate.BuildComplianceSummary(snap.Units),
			Risk:       aggregate.BuildRiskSummary(snap.Units),
			Findings:   aggregate.BuildFindingsRollup(snap.Units),
			Units:      aggregate.BuildUnitRows(snap.Units),
		}
		if snap.Trends != nil {
			data.Trends = aggregate.BuildTrendsSummary(snap.Trends, snap.Units)
		}

		// One handle per view; rebinding releases the previous render.
		s.charts.Bind("report:"+view, reportHandle{view: view})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render.WriteReport(w, view, data); err != nil {
			writeError(w, nethttp.StatusInternalServerError, "failed to render report: %v", err)
		}
	}
}
