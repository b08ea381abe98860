package http

import (
	nethttp "net/http"
	"time"
)

// cachePurgeHandler drops every cached fixture so the next view reloads fresh.
func (s *Server) cachePurgeHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.fixtures.Purge(r.Context())
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"data": map[string]any{
				"purged_at": time.Now().UTC(),
			},
		})
	}
}
