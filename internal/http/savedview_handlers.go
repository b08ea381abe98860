package http

import (
	"encoding/json"
	nethttp "net/http"
	"strings"
	"time"
)

type saveViewRequest struct {
	Name  string          `json:"name"`
	View  string          `json:"view"`
	State json.RawMessage `json:"state"`
}

var knownViews = map[string]bool{
	"executive":      true,
	"business-units": true,
	"risk-analysis":  true,
	"compliance":     true,
	"findings":       true,
	"trends":         true,
}

// savedViewsHandler lists and creates persisted filter/sort/compare states.
func (s *Server) savedViewsHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if s.viewStore == nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"error": "view store disabled (set APP_VIEWSTORE_SQLITE_PATH)",
			})
			return
		}

		switch r.Method {
		case nethttp.MethodGet:
			start := time.Now()
			items, err := s.viewStore.ListViews(r.Context())
			recordDBQuery("viewstore", "ListViews", time.Since(start).Seconds(), err)
			if err != nil {
				writeError(w, nethttp.StatusInternalServerError, "failed to list saved views")
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]any{
				"meta": map[string]any{"count": len(items)},
				"data": items,
			})
		case nethttp.MethodPost:
			var req saveViewRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, nethttp.StatusBadRequest, "invalid JSON body")
				return
			}
			if strings.TrimSpace(req.Name) == "" {
				writeError(w, nethttp.StatusBadRequest, "name is required")
				return
			}
			if !knownViews[req.View] {
				writeError(w, nethttp.StatusBadRequest, "unknown view %q", req.View)
				return
			}
			if len(req.State) == 0 {
				writeError(w, nethttp.StatusBadRequest, "state is required")
				return
			}
			start := time.Now()
			id, err := s.viewStore.UpsertView(r.Context(), req.Name, req.View, string(req.State))
			recordDBQuery("viewstore", "UpsertView", time.Since(start).Seconds(), err)
			if err != nil {
				writeError(w, nethttp.StatusInternalServerError, "failed to save view")
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]any{
				"data": map[string]any{"id": id},
			})
		default:
			writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// savedViewDetailHandler fetches or deletes one saved view by id.
func (s *Server) savedViewDetailHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if s.viewStore == nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"error": "view store disabled (set APP_VIEWSTORE_SQLITE_PATH)",
			})
			return
		}

		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/saved-views/"), "/")
		if id == "" {
			writeError(w, nethttp.StatusBadRequest, "saved view id is required")
			return
		}

		switch r.Method {
		case nethttp.MethodGet:
			start := time.Now()
			view, err := s.viewStore.GetView(r.Context(), id)
			recordDBQuery("viewstore", "GetView", time.Since(start).Seconds(), err)
			if err != nil {
				writeError(w, nethttp.StatusInternalServerError, "failed to fetch saved view")
				return
			}
			if view == nil {
				writeError(w, nethttp.StatusNotFound, "saved view not found")
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]any{"data": view})
		case nethttp.MethodDelete:
			start := time.Now()
			err := s.viewStore.DeleteView(r.Context(), id)
			recordDBQuery("viewstore", "DeleteView", time.Since(start).Seconds(), err)
			if err != nil {
				writeError(w, nethttp.StatusInternalServerError, "failed to delete saved view")
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]any{"data": map[string]any{"deleted": id}})
		default:
			writeError(w, nethttp.StatusMethodNotAllowed, "method not allowed")
		}
	}
}
