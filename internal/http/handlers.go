package http

import (
	"context"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"enterprise-audit-dashboard/internal/aggregate"
	"enterprise-audit-dashboard/internal/fixtures"
	"enterprise-audit-dashboard/internal/loader"
	"enterprise-audit-dashboard/internal/render"
)

// compareMin and compareMax bound how many units a comparison may hold.
const (
	compareMin = 2
	compareMax = 5
)

// snapshot builds the quarter snapshot every view handler works from.
func (s *Server) snapshot(ctx context.Context, quarter string) (*loader.Snapshot, error) {
	start := time.Now()
	snap, err := s.fixtures.LoadSnapshot(ctx, quarter, s.unitSource())
	recordSnapshotBuild(quarter, time.Since(start).Seconds(), err)
	return snap, err
}

func (s *Server) parseQuarter(r *nethttp.Request) (string, bool) {
	quarter := strings.TrimSpace(r.URL.Query().Get("quarter"))
	if quarter == "" {
		return s.defaultQuarter, true
	}
	if !fixtures.ValidQuarter(quarter) {
		return quarter, false
	}
	return quarter, true
}

func snapshotMeta(snap *loader.Snapshot) map[string]any {
	return map[string]any{
		"quarter":      snap.Quarter,
		"unit_count":   len(snap.Units),
		"missing":      snap.Missing,
		"generated_at": time.Now().UTC(),
	}
}

func (s *Server) executiveViewHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
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

		summary := aggregate.BuildExecutiveSummary(snap.Quarter, snap.Enterprise, snap.Units)
		distribution := aggregate.ScoreDistribution(snap.Units, render.ScoreBand)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": snapshotMeta(snap),
			"data": map[string]any{
				"summary":            summary,
				"score_distribution": distribution,
			},
		})
	}
}

func (s *Server) businessUnitsViewHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
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

		rows := aggregate.BuildUnitRows(snap.Units)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": snapshotMeta(snap),
			"data": map[string]any{
				"units":      rows,
				"categories": fixtures.CategoryOrder,
			},
		})
	}
}

func (s *Server) riskViewHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
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

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": snapshotMeta(snap),
			"data": aggregate.BuildRiskSummary(snap.Units),
		})
	}
}

func (s *Server) complianceViewHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
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

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": snapshotMeta(snap),
			"data": aggregate.BuildComplianceSummary(snap.Units),
		})
	}
}

func (s *Server) findingsViewHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
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

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": snapshotMeta(snap),
			"data": map[string]any{
				"rollup":   aggregate.BuildFindingsRollup(snap.Units),
				"findings": aggregate.BuildFindingRows(snap.Units),
			},
		})
	}
}

func (s *Server) trendsViewHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
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
		meta := snapshotMeta(snap)
		if snap.Trends == nil {
			// Degrade to the synthetic series and report the gap.
			missing := append([]string{}, snap.Missing...)
			meta["missing"] = append(missing, fixtures.TrendsPath)
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": meta,
			"data": aggregate.BuildTrendsSummary(snap.Trends, snap.Units),
		})
	}
}

func (s *Server) unitListHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		units := make([]map[string]string, 0, len(fixtures.UnitSlugs))
		for _, slug := range fixtures.UnitSlugs {
			units = append(units, map[string]string{
				"id":       slug,
				"category": fixtures.UnitCategories[slug],
			})
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"count":           len(units),
				"quarters":        fixtures.Quarters,
				"default_quarter": s.defaultQuarter,
			},
			"data": units,
		})
	}
}

func (s *Server) unitDetailHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/units/"), "/")
		if slug == "" || strings.Contains(slug, "/") {
			writeError(w, nethttp.StatusNotFound, "not found")
			return
		}
		if !fixtures.ValidUnit(slug) {
			writeError(w, nethttp.StatusNotFound, "unknown business unit %q", slug)
			return
		}
		quarter, ok := s.parseQuarter(r)
		if !ok {
			writeError(w, nethttp.StatusBadRequest, "unknown quarter %q", quarter)
			return
		}

		unit, err := s.unitSource().FetchUnit(r.Context(), slug, quarter)
		if err != nil {
			writeError(w, nethttp.StatusBadGateway, "unit snapshot unavailable: %v", err)
			return
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"quarter":      quarter,
				"unit":         slug,
				"generated_at": time.Now().UTC(),
			},
			"data": unit,
		})
	}
}

// compareHandler returns side-by-side rows for 2 to 5 units. Anything outside
// that range is rejected so the comparison stays readable.
func (s *Server) compareHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		quarter, ok := s.parseQuarter(r)
		if !ok {
			writeError(w, nethttp.StatusBadRequest, "unknown quarter %q", quarter)
			return
		}

		ids := splitIDs(r.URL.Query().Get("ids"))
		if len(ids) < compareMin || len(ids) > compareMax {
			writeError(w, nethttp.StatusBadRequest,
				"select between %d and %d business units to compare (got %d)",
				compareMin, compareMax, len(ids))
			return
		}
		for _, id := range ids {
			if !fixtures.ValidUnit(id) {
				writeError(w, nethttp.StatusBadRequest, "unknown business unit %q", id)
				return
			}
		}

		snap, err := s.snapshot(r.Context(), quarter)
		if err != nil {
			writeError(w, nethttp.StatusBadGateway, "enterprise summary unavailable: %v", err)
			return
		}

		rows := compareRows(snap.Units, ids)
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{
				"quarter":      snap.Quarter,
				"requested":    ids,
				"loaded":       len(rows),
				"generated_at": time.Now().UTC(),
			},
			"data": rows,
		})
	}
}

// compareRows selects the requested units in request order and flattens them.
func compareRows(units []fixtures.UnitFixture, ids []string) []aggregate.UnitRow {
	selected := make([]fixtures.UnitFixture, 0, len(ids))
	for _, id := range ids {
		for _, u := range units {
			if u.ID == id {
				selected = append(selected, u)
				break
			}
		}
	}
	return aggregate.BuildUnitRows(selected)
}

// filterUnits keeps only the units named by ids, preserving snapshot order.
// An empty ids list means no filter is active and every unit passes.
func filterUnits(units []fixtures.UnitFixture, ids []string) []fixtures.UnitFixture {
	if len(ids) == 0 {
		return units
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]fixtures.UnitFixture, 0, len(ids))
	for _, u := range units {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func parseLimit(r *nethttp.Request, defaultLimit int) int {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	return limit
}
