package http

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"enterprise-audit-dashboard/internal/loader"
)

var (
	appStartedAtUnix = time.Now().Unix()
	inFlightRequests int64
	metricsMu        sync.Mutex
	httpSeries       = map[httpMetricKey]*httpMetricSeries{}
	dbQuerySeries    = map[dbMetricKey]*dbMetricSeries{}
	snapshotSeries   = map[snapshotMetricKey]*snapshotMetricSeries{}
	exportSeries     = map[exportMetricKey]*exportMetricSeries{}
)

func metricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		metricsMu.Lock()
		keys := make([]httpMetricKey, 0, len(httpSeries))
		for k := range httpSeries {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Method != keys[j].Method {
				return keys[i].Method < keys[j].Method
			}
			if keys[i].Path != keys[j].Path {
				return keys[i].Path < keys[j].Path
			}
			return keys[i].Status < keys[j].Status
		})
		snapshot := make([]struct {
			Key    httpMetricKey
			Series httpMetricSeries
		}, 0, len(keys))
		for _, k := range keys {
			snapshot = append(snapshot, struct {
				Key    httpMetricKey
				Series httpMetricSeries
			}{k, *httpSeries[k]})
		}

		dbKeys := make([]dbMetricKey, 0, len(dbQuerySeries))
		for k := range dbQuerySeries {
			dbKeys = append(dbKeys, k)
		}
		sort.Slice(dbKeys, func(i, j int) bool {
			if dbKeys[i].Connector != dbKeys[j].Connector {
				return dbKeys[i].Connector < dbKeys[j].Connector
			}
			return dbKeys[i].Operation < dbKeys[j].Operation
		})
		dbSnapshot := make([]struct {
			Key    dbMetricKey
			Series dbMetricSeries
		}, 0, len(dbKeys))
		for _, k := range dbKeys {
			dbSnapshot = append(dbSnapshot, struct {
				Key    dbMetricKey
				Series dbMetricSeries
			}{k, *dbQuerySeries[k]})
		}

		snapKeys := make([]snapshotMetricKey, 0, len(snapshotSeries))
		for k := range snapshotSeries {
			snapKeys = append(snapKeys, k)
		}
		sort.Slice(snapKeys, func(i, j int) bool {
			if snapKeys[i].Quarter != snapKeys[j].Quarter {
				return snapKeys[i].Quarter < snapKeys[j].Quarter
			}
			return snapKeys[i].Status < snapKeys[j].Status
		})
		snapSnapshot := make([]struct {
			Key    snapshotMetricKey
			Series snapshotMetricSeries
		}, 0, len(snapKeys))
		for _, k := range snapKeys {
			snapSnapshot = append(snapSnapshot, struct {
				Key    snapshotMetricKey
				Series snapshotMetricSeries
			}{k, *snapshotSeries[k]})
		}

		exKeys := make([]exportMetricKey, 0, len(exportSeries))
		for k := range exportSeries {
			exKeys = append(exKeys, k)
		}
		sort.Slice(exKeys, func(i, j int) bool {
			if exKeys[i].View != exKeys[j].View {
				return exKeys[i].View < exKeys[j].View
			}
			return exKeys[i].Format < exKeys[j].Format
		})
		exSnapshot := make([]struct {
			Key    exportMetricKey
			Series exportMetricSeries
		}, 0, len(exKeys))
		for _, k := range exKeys {
			exSnapshot = append(exSnapshot, struct {
				Key    exportMetricKey
				Series exportMetricSeries
			}{k, *exportSeries[k]})
		}
		metricsMu.Unlock()

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_http_requests_total Total HTTP requests handled by this app.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_http_requests_total counter")
		for _, it := range snapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_http_requests_total{method=%q,path=%q,status=%q} %d\n",
				escapeLabel(it.Key.Method), escapeLabel(it.Key.Path), escapeLabel(it.Key.Status), it.Series.Count)
		}

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_http_request_duration_seconds_sum Total duration in seconds for observed requests.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_http_request_duration_seconds_sum counter")
		for _, it := range snapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_http_request_duration_seconds_sum{method=%q,path=%q,status=%q} %.9f\n",
				escapeLabel(it.Key.Method), escapeLabel(it.Key.Path), escapeLabel(it.Key.Status), it.Series.DurationSecondsSum)
		}

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_http_request_duration_seconds_count Number of observed requests in duration series.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_http_request_duration_seconds_count counter")
		for _, it := range snapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_http_request_duration_seconds_count{method=%q,path=%q,status=%q} %d\n",
				escapeLabel(it.Key.Method), escapeLabel(it.Key.Path), escapeLabel(it.Key.Status), it.Series.Count)
		}

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_http_in_flight_requests In-flight HTTP requests currently served by this app.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_http_in_flight_requests gauge")
		_, _ = fmt.Fprintf(w, "audit_dash_http_in_flight_requests %d\n", atomic.LoadInt64(&inFlightRequests))

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_fixture_loads_total Fixture load outcomes by path and result.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_fixture_loads_total counter")
		loadStats := loader.Stats()
		loadKeys := make([]string, 0, len(loadStats))
		for k := range loadStats {
			loadKeys = append(loadKeys, k)
		}
		sort.Strings(loadKeys)
		for _, k := range loadKeys {
			path, result := splitLoadKey(k)
			_, _ = fmt.Fprintf(w, "audit_dash_fixture_loads_total{path=%q,result=%q} %d\n",
				escapeLabel(path), escapeLabel(result), loadStats[k])
		}

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_db_query_duration_seconds_sum Store query duration sum in seconds by connector/operation.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_db_query_duration_seconds_sum counter")
		for _, it := range dbSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_db_query_duration_seconds_sum{connector=%q,operation=%q} %.9f\n",
				escapeLabel(it.Key.Connector), escapeLabel(it.Key.Operation), it.Series.DurationSecondsSum)
		}
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_db_query_duration_seconds_count Store query observation count by connector/operation.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_db_query_duration_seconds_count counter")
		for _, it := range dbSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_db_query_duration_seconds_count{connector=%q,operation=%q} %d\n",
				escapeLabel(it.Key.Connector), escapeLabel(it.Key.Operation), it.Series.Count)
		}
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_db_query_errors_total Store query errors by connector/operation.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_db_query_errors_total counter")
		for _, it := range dbSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_db_query_errors_total{connector=%q,operation=%q} %d\n",
				escapeLabel(it.Key.Connector), escapeLabel(it.Key.Operation), it.Series.Errors)
		}

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_snapshot_builds_total Quarter snapshot builds by quarter and status.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_snapshot_builds_total counter")
		for _, it := range snapSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_snapshot_builds_total{quarter=%q,status=%q} %d\n",
				escapeLabel(it.Key.Quarter), escapeLabel(it.Key.Status), it.Series.Count)
		}
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_snapshot_build_duration_seconds_sum Snapshot build duration sum in seconds.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_snapshot_build_duration_seconds_sum counter")
		for _, it := range snapSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_snapshot_build_duration_seconds_sum{quarter=%q,status=%q} %.9f\n",
				escapeLabel(it.Key.Quarter), escapeLabel(it.Key.Status), it.Series.DurationSecondsSum)
		}

		_, _ = fmt.Fprintln(w, "# HELP audit_dash_exports_total CSV export runs by view and format.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_exports_total counter")
		for _, it := range exSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_exports_total{view=%q,format=%q} %d\n",
				escapeLabel(it.Key.View), escapeLabel(it.Key.Format), it.Series.Count)
		}
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_export_rows_total Rows written by CSV exports, by view and format.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_export_rows_total counter")
		for _, it := range exSnapshot {
			_, _ = fmt.Fprintf(w, "audit_dash_export_rows_total{view=%q,format=%q} %d\n",
				escapeLabel(it.Key.View), escapeLabel(it.Key.Format), it.Series.Rows)
		}

		uptime := time.Now().Unix() - appStartedAtUnix
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_uptime_seconds Process uptime in seconds.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_uptime_seconds gauge")
		_, _ = fmt.Fprintf(w, "audit_dash_uptime_seconds %d\n", uptime)

		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_runtime_goroutines Number of goroutines.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_runtime_goroutines gauge")
		_, _ = fmt.Fprintf(w, "audit_dash_runtime_goroutines %d\n", runtime.NumGoroutine())
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_runtime_memory_alloc_bytes Heap allocation bytes.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_runtime_memory_alloc_bytes gauge")
		_, _ = fmt.Fprintf(w, "audit_dash_runtime_memory_alloc_bytes %d\n", ms.Alloc)
		_, _ = fmt.Fprintln(w, "# HELP audit_dash_runtime_gc_total Total GC runs since process start.")
		_, _ = fmt.Fprintln(w, "# TYPE audit_dash_runtime_gc_total counter")
		_, _ = fmt.Fprintf(w, "audit_dash_runtime_gc_total %d\n", ms.NumGC)

		if cpuSec, ok := processCPUSeconds(); ok {
			_, _ = fmt.Fprintln(w, "# HELP audit_dash_runtime_cpu_seconds_total Total CPU time consumed by this process in seconds.")
			_, _ = fmt.Fprintln(w, "# TYPE audit_dash_runtime_cpu_seconds_total counter")
			_, _ = fmt.Fprintf(w, "audit_dash_runtime_cpu_seconds_total %.6f\n", cpuSec)
		}
		if io := processIOStats(); io != nil {
			_, _ = fmt.Fprintln(w, "# HELP audit_dash_runtime_io_read_bytes_total Bytes read by this process from storage.")
			_, _ = fmt.Fprintln(w, "# TYPE audit_dash_runtime_io_read_bytes_total counter")
			_, _ = fmt.Fprintf(w, "audit_dash_runtime_io_read_bytes_total %d\n", io.ReadBytes)
			_, _ = fmt.Fprintln(w, "# HELP audit_dash_runtime_io_write_bytes_total Bytes written by this process to storage.")
			_, _ = fmt.Fprintln(w, "# TYPE audit_dash_runtime_io_write_bytes_total counter")
			_, _ = fmt.Fprintf(w, "audit_dash_runtime_io_write_bytes_total %d\n", io.WriteBytes)
		}
	})
}

// appMetricsSummaryHandler is the JSON companion to /metrics: the handful of
// numbers the dashboard's status widgets want without parsing exposition text.
func appMetricsSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type endpointRow struct {
			Method  string  `json:"method"`
			Path    string  `json:"path"`
			Status  string  `json:"status"`
			Count   uint64  `json:"count"`
			AvgMS   float64 `json:"avg_ms"`
			TotalMS float64 `json:"total_ms"`
		}
		type dbRow struct {
			Connector string  `json:"connector"`
			Operation string  `json:"operation"`
			Count     uint64  `json:"count"`
			Errors    uint64  `json:"errors"`
			AvgMS     float64 `json:"avg_ms"`
		}
		type snapshotRow struct {
			Quarter string  `json:"quarter"`
			Status  string  `json:"status"`
			Count   uint64  `json:"count"`
			AvgMS   float64 `json:"avg_ms"`
		}

		metricsMu.Lock()
		httpRows := make([]endpointRow, 0, len(httpSeries))
		for k, s := range httpSeries {
			avg := 0.0
			if s.Count > 0 {
				avg = (s.DurationSecondsSum / float64(s.Count)) * 1000.0
			}
			httpRows = append(httpRows, endpointRow{
				Method:  k.Method,
				Path:    k.Path,
				Status:  k.Status,
				Count:   s.Count,
				AvgMS:   avg,
				TotalMS: s.DurationSecondsSum * 1000.0,
			})
		}

		dbRows := make([]dbRow, 0, len(dbQuerySeries))
		totalDBErrors := uint64(0)
		for k, s := range dbQuerySeries {
			avg := 0.0
			if s.Count > 0 {
				avg = (s.DurationSecondsSum / float64(s.Count)) * 1000.0
			}
			dbRows = append(dbRows, dbRow{
				Connector: k.Connector,
				Operation: k.Operation,
				Count:     s.Count,
				Errors:    s.Errors,
				AvgMS:     avg,
			})
			totalDBErrors += s.Errors
		}

		snapshotRows := make([]snapshotRow, 0, len(snapshotSeries))
		snapshotErrors := uint64(0)
		for k, s := range snapshotSeries {
			avg := 0.0
			if s.Count > 0 {
				avg = (s.DurationSecondsSum / float64(s.Count)) * 1000.0
			}
			snapshotRows = append(snapshotRows, snapshotRow{
				Quarter: k.Quarter,
				Status:  k.Status,
				Count:   s.Count,
				AvgMS:   avg,
			})
			if k.Status == "error" {
				snapshotErrors += s.Count
			}
		}

		exportRuns := uint64(0)
		exportRows := uint64(0)
		for _, s := range exportSeries {
			exportRuns += s.Count
			exportRows += s.Rows
		}
		metricsMu.Unlock()

		sort.Slice(httpRows, func(i, j int) bool { return httpRows[i].AvgMS > httpRows[j].AvgMS })
		sort.Slice(dbRows, func(i, j int) bool { return dbRows[i].AvgMS > dbRows[j].AvgMS })
		sort.Slice(snapshotRows, func(i, j int) bool { return snapshotRows[i].Quarter < snapshotRows[j].Quarter })

		topHTTP := httpRows
		if len(topHTTP) > 5 {
			topHTTP = topHTTP[:5]
		}
		topDB := dbRows
		if len(topDB) > 5 {
			topDB = topDB[:5]
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"meta": map[string]any{
				"generated_at": time.Now().UTC(),
			},
			"data": map[string]any{
				"top_http_slowest_avg_ms": topHTTP,
				"top_db_slowest_avg_ms":   topDB,
				"snapshot_builds":         snapshotRows,
				"exports": map[string]any{
					"runs": exportRuns,
					"rows": exportRows,
				},
				"errors": map[string]any{
					"db_query_total":       totalDBErrors,
					"snapshot_build_total": snapshotErrors,
				},
			},
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func observabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		atomic.AddInt64(&inFlightRequests, 1)
		defer atomic.AddInt64(&inFlightRequests, -1)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := normalizeMetricPath(r.URL.Path)
		sec := time.Since(start).Seconds()
		recordHTTPMetric(r.Method, route, rec.status, sec)
	})
}

func normalizeMetricPath(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/metrics":
		return "/metrics"
	case strings.HasPrefix(path, "/api/v1/units/") && path != "/api/v1/units/compare":
		return "/api/v1/units/{slug}"
	case strings.HasPrefix(path, "/api/v1/saved-views/"):
		return "/api/v1/saved-views/{id}"
	case strings.HasPrefix(path, "/reports/"):
		return "/reports/{view}"
	default:
		return path
	}
}

type httpMetricKey struct {
	Method string
	Path   string
	Status string
}

type httpMetricSeries struct {
	Count              uint64
	DurationSecondsSum float64
}

type dbMetricKey struct {
	Connector string
	Operation string
}

type dbMetricSeries struct {
	Count              uint64
	Errors             uint64
	DurationSecondsSum float64
}

type snapshotMetricKey struct {
	Quarter string
	Status  string
}

type snapshotMetricSeries struct {
	Count              uint64
	DurationSecondsSum float64
}

type exportMetricKey struct {
	View   string
	Format string
}

type exportMetricSeries struct {
	Count uint64
	Rows  uint64
}

func recordHTTPMetric(method, path string, status int, durationSeconds float64) {
	key := httpMetricKey{
		Method: method,
		Path:   path,
		Status: fmt.Sprintf("%d", status),
	}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	row, ok := httpSeries[key]
	if !ok {
		row = &httpMetricSeries{}
		httpSeries[key] = row
	}
	row.Count++
	row.DurationSecondsSum += durationSeconds
}

func recordDBQuery(connector, operation string, durationSeconds float64, err error) {
	if connector == "" || operation == "" {
		return
	}
	key := dbMetricKey{Connector: connector, Operation: operation}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	row, ok := dbQuerySeries[key]
	if !ok {
		row = &dbMetricSeries{}
		dbQuerySeries[key] = row
	}
	row.Count++
	row.DurationSecondsSum += durationSeconds
	if err != nil {
		row.Errors++
	}
}

func recordSnapshotBuild(quarter string, durationSeconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	key := snapshotMetricKey{Quarter: quarter, Status: status}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	row, ok := snapshotSeries[key]
	if !ok {
		row = &snapshotMetricSeries{}
		snapshotSeries[key] = row
	}
	row.Count++
	row.DurationSecondsSum += durationSeconds
}

func recordExport(view, format string, rows int) {
	key := exportMetricKey{View: view, Format: format}
	metricsMu.Lock()
	defer metricsMu.Unlock()
	row, ok := exportSeries[key]
	if !ok {
		row = &exportMetricSeries{}
		exportSeries[key] = row
	}
	row.Count++
	row.Rows += uint64(rows)
}

func splitLoadKey(key string) (path, result string) {
	if i := strings.LastIndex(key, "|"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, "unknown"
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return v
}

func processCPUSeconds() (float64, bool) {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return 0, false
	}
	user := float64(ru.Utime.Sec) + (float64(ru.Utime.Usec) / 1_000_000.0)
	sys := float64(ru.Stime.Sec) + (float64(ru.Stime.Usec) / 1_000_000.0)
	return user + sys, true
}

type ioStats struct {
	ReadBytes  uint64
	WriteBytes uint64
}

func processIOStats() *ioStats {
	b, err := os.ReadFile("/proc/self/io")
	if err != nil {
		return nil
	}
	out := &ioStats{}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			continue
		}
		switch strings.TrimSpace(parts[0]) {
		case "read_bytes":
			out.ReadBytes = v
		case "write_bytes":
			out.WriteBytes = v
		}
	}
	return out
}
