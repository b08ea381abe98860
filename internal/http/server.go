package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	nethttp "net/http"
	"strconv"
	"time"

	"enterprise-audit-dashboard/internal/config"
	"enterprise-audit-dashboard/internal/connectors/viewstore"
	"enterprise-audit-dashboard/internal/connectors/warehouse"
	"enterprise-audit-dashboard/internal/loader"
	"enterprise-audit-dashboard/internal/render"
)

// Server wraps an HTTP server and route handlers.
type Server struct {
	httpServer     *nethttp.Server
	fixtures       *loader.Loader
	warehouseStore *warehouse.Store
	viewStore      *viewstore.Store
	redisCache     *loader.RedisCache
	charts         *render.ChartRegistry
	defaultQuarter string
}

// NewServer creates a configured HTTP server with v1 endpoints.
func NewServer(cfg config.Config) (*Server, error) {
	var cache loader.Cache
	var redisCache *loader.RedisCache
	if cfg.RedisEnabled {
		rc, err := loader.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		redisCache = rc
		cache = rc
	}

	fixtures := loader.New(loader.Options{
		BaseURL: cfg.FixtureBaseURL,
		BaseDir: cfg.FixtureBaseDir,
		Timeout: cfg.FixtureTimeout,
		TTL:     cfg.CacheTTL,
		Cache:   cache,
		Fanout:  cfg.UnitFanout,
	})

	var warehouseStore *warehouse.Store
	if cfg.WarehouseEnabled {
		created, err := warehouse.NewStore(cfg)
		if err != nil {
			return nil, err
		}
		warehouseStore = created
	}

	var views *viewstore.Store
	if cfg.ViewStorePath != "" {
		created, err := viewstore.NewSQLiteStore(cfg.ViewStorePath)
		if err != nil {
			return nil, err
		}
		views = created
	}

	s := &Server{
		fixtures:       fixtures,
		warehouseStore: warehouseStore,
		viewStore:      views,
		redisCache:     redisCache,
		charts:         render.NewChartRegistry(),
		defaultQuarter: cfg.DefaultQuarter,
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/", dashboardHandler)
	mux.HandleFunc("/favicon.ico", faviconHandler)
	mux.Handle("/metrics", metricsHandler())
	mux.HandleFunc("/api/v1/metrics/app", appMetricsSummaryHandler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)
	mux.HandleFunc("/api/v1/views/executive", s.executiveViewHandler())
	mux.HandleFunc("/api/v1/views/business-units", s.businessUnitsViewHandler())
	mux.HandleFunc("/api/v1/views/risk-analysis", s.riskViewHandler())
	mux.HandleFunc("/api/v1/views/compliance", s.complianceViewHandler())
	mux.HandleFunc("/api/v1/views/findings", s.findingsViewHandler())
	mux.HandleFunc("/api/v1/views/trends", s.trendsViewHandler())
	mux.HandleFunc("/api/v1/units", s.unitListHandler())
	mux.HandleFunc("/api/v1/units/compare", s.compareHandler())
	mux.HandleFunc("/api/v1/units/", s.unitDetailHandler())
	mux.HandleFunc("/api/v1/export/csv", s.exportCSVHandler())
	mux.HandleFunc("/api/v1/export/log", s.exportLogHandler())
	mux.HandleFunc("/api/v1/saved-views", s.savedViewsHandler())
	mux.HandleFunc("/api/v1/saved-views/", s.savedViewDetailHandler())
	mux.HandleFunc("/api/v1/status/services", s.servicesStatusHandler())
	mux.HandleFunc("/api/v1/settings/cache/purge", s.cachePurgeHandler())
	mux.HandleFunc("/reports/", s.printableReportHandler())

	var handler nethttp.Handler = observabilityMiddleware(mux)
	if cfg.LogRequests {
		handler = loggingMiddleware(handler)
	}

	s.httpServer = &nethttp.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and closes connectors.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.warehouseStore != nil {
		_ = s.warehouseStore.Close()
	}
	if s.viewStore != nil {
		_ = s.viewStore.Close()
	}
	if s.redisCache != nil {
		_ = s.redisCache.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

// unitSource picks the warehouse when enabled, fixture files otherwise.
func (s *Server) unitSource() loader.UnitSource {
	if s.warehouseStore != nil {
		return s.warehouseStore
	}
	return s.fixtures
}

func healthHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func readyHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ready",
	})
}

func loggingMiddleware(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %s %s", r.Method, r.URL.Path, strconv.Itoa(rec.status), time.Since(start))
	})
}

func writeJSON(w nethttp.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w nethttp.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": fmt.Sprintf(format, args...),
	})
}
