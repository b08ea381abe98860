package http

import (
	"fmt"
	"log"
	nethttp "net/http"
	"strings"
	"time"

	"enterprise-audit-dashboard/internal/aggregate"
	"enterprise-audit-dashboard/internal/export"
)

// exportCSVHandler streams a UTF-8 BOM prefixed CSV of the requested view.
// Supported views: business-units, findings, compare. For business-units and
// findings an optional ids parameter restricts the export to the units the
// visitor's filters left on screen.
func (s *Server) exportCSVHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		view := strings.TrimSpace(r.URL.Query().Get("view"))
		if view == "" {
			view = "business-units"
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

		var (
			rows     int
			filename string
			writeErr error
		)
		switch view {
		case "business-units":
			table := aggregate.BuildUnitRows(filterUnits(snap.Units, splitIDs(r.URL.Query().Get("ids"))))
			rows = len(table)
			filename = fmt.Sprintf("business-units-%s.csv", snap.Quarter)
			setCSVHeaders(w, filename)
			writeErr = export.WriteUnitsCSV(w, table)
		case "findings":
			table := aggregate.BuildFindingRows(filterUnits(snap.Units, splitIDs(r.URL.Query().Get("ids"))))
			rows = len(table)
			filename = fmt.Sprintf("findings-%s.csv", snap.Quarter)
			setCSVHeaders(w, filename)
			writeErr = export.WriteFindingsCSV(w, table)
		case "compare":
			ids := splitIDs(r.URL.Query().Get("ids"))
			if len(ids) < compareMin || len(ids) > compareMax {
				writeError(w, nethttp.StatusBadRequest,
					"select between %d and %d business units to compare (got %d)",
					compareMin, compareMax, len(ids))
				return
			}
			table := compareRows(snap.Units, ids)
			rows = len(table)
			filename = fmt.Sprintf("unit-comparison-%s.csv", snap.Quarter)
			setCSVHeaders(w, filename)
			writeErr = export.WriteCompareCSV(w, table)
		default:
			writeError(w, nethttp.StatusBadRequest, "unknown export view %q", view)
			return
		}

		if writeErr != nil {
			// Headers are already out; log it, nothing sensible left to send.
			log.Printf("export: writing %s CSV for %s failed mid-stream: %v", view, snap.Quarter, writeErr)
			return
		}
		recordExport(view, "csv", rows)
		if s.viewStore != nil {
			start := time.Now()
			_, err := s.viewStore.RecordExport(r.Context(), view, "csv", snap.Quarter, rows)
			recordDBQuery("viewstore", "RecordExport", time.Since(start).Seconds(), err)
		}
	}
}

// exportLogHandler returns the recent export audit records.
func (s *Server) exportLogHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if s.viewStore == nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"error": "view store disabled (set APP_VIEWSTORE_SQLITE_PATH)",
			})
			return
		}
		limit := parseLimit(r, 50)
		start := time.Now()
		items, err := s.viewStore.RecentExports(r.Context(), limit)
		recordDBQuery("viewstore", "RecentExports", time.Since(start).Seconds(), err)
		if err != nil {
			writeError(w, nethttp.StatusInternalServerError, "failed to list exports")
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{"limit": limit, "count": len(items)},
			"data": items,
		})
	}
}

func setCSVHeaders(w nethttp.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

