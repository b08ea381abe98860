package render

import "sync"

// ChartRegistry owns the live chart handles, keyed by canvas id. Creating a
// chart for a canvas id first releases any prior handle, so each id maps to
// at most one live chart at any time. The embedded UI mirrors this with an
// echarts dispose() before re-init.
type ChartRegistry struct {
	mu     sync.Mutex
	charts map[string]ChartHandle
}

// ChartHandle is anything whose resources must be released before a
// replacement chart takes over its canvas.
type ChartHandle interface {
	Release()
}

func NewChartRegistry() *ChartRegistry {
	return &ChartRegistry{charts: map[string]ChartHandle{}}
}

// Bind installs handle for canvasID, releasing whatever was bound before.
func (r *ChartRegistry) Bind(canvasID string, handle ChartHandle) {
	r.mu.Lock()
	prev := r.charts[canvasID]
	r.charts[canvasID] = handle
	r.mu.Unlock()
	if prev != nil {
		prev.Release()
	}
}

// Get returns the live handle for canvasID, if any.
func (r *ChartRegistry) Get(canvasID string) (ChartHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.charts[canvasID]
	return h, ok
}

// ReleaseView releases every chart whose canvas id has the view prefix,
// e.g. "compliance-" on tab teardown.
func (r *ChartRegistry) ReleaseView(prefix string) {
	r.mu.Lock()
	var released []ChartHandle
	for id, h := range r.charts {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			released = append(released, h)
			delete(r.charts, id)
		}
	}
	r.mu.Unlock()
	for _, h := range released {
		h.Release()
	}
}

// Len reports the number of live handles.
func (r *ChartRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.charts)
}
