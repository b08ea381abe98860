package http

import (
	"context"
	nethttp "net/http"
	"time"
)

// servicesStatusHandler probes every configured backend for the settings page.
func (s *Server) servicesStatusHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
		defer cancel()

		payload := map[string]any{
			"generated_at":   time.Now().UTC(),
			"fixture_source": s.fixtures.Source(),
			"services":       map[string]any{},
		}
		services := payload["services"].(map[string]any)

		services["warehouse"] = s.warehouseStatus(ctx)
		services["view_store"] = s.viewStoreStatus(ctx)
		services["redis_cache"] = s.redisStatus(ctx)

		writeJSON(w, nethttp.StatusOK, payload)
	}
}

func (s *Server) warehouseStatus(ctx context.Context) map[string]any {
	if s.warehouseStore == nil {
		return map[string]any{"enabled": false, "ok": false, "error": "warehouse integration disabled"}
	}

	start := time.Now()
	err := s.warehouseStore.Ping(ctx)
	recordDBQuery("warehouse", "Ping", time.Since(start).Seconds(), err)
	if err != nil {
		return map[string]any{"enabled": true, "ok": false, "error": err.Error()}
	}

	counts, err := s.warehouseStore.SnapshotCounts(ctx)
	if err != nil {
		return map[string]any{"enabled": true, "ok": false, "error": err.Error()}
	}
	return map[string]any{"enabled": true, "ok": true, "snapshot_counts": counts}
}

func (s *Server) viewStoreStatus(ctx context.Context) map[string]any {
	if s.viewStore == nil {
		return map[string]any{"enabled": false, "ok": false, "error": "view store disabled"}
	}

	start := time.Now()
	views, err := s.viewStore.ListViews(ctx)
	recordDBQuery("viewstore", "ListViews", time.Since(start).Seconds(), err)
	if err != nil {
		return map[string]any{"enabled": true, "ok": false, "error": err.Error()}
	}
	return map[string]any{"enabled": true, "ok": true, "saved_views": len(views)}
}

func (s *Server) redisStatus(ctx context.Context) map[string]any {
	if s.redisCache == nil {
		return map[string]any{"enabled": false, "ok": false, "error": "redis cache disabled"}
	}

	if err := s.redisCache.Ping(ctx); err != nil {
		return map[string]any{"enabled": true, "ok": false, "error": err.Error()}
	}
	return map[string]any{"enabled": true, "ok": true}
}
