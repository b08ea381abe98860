package loader

import "sync"

var (
	statsMu    sync.Mutex
	loadCounts = map[string]uint64{}
)

func recordFixtureLoad(path string, outcome string) {
	statsMu.Lock()
	defer statsMu.Unlock()
	loadCounts[path+"|"+outcome]++
}

// Stats returns cumulative fixture load counts keyed "path|outcome", where
// outcome is hit, miss, or error. Consumed by the /metrics exposition handler.
func Stats() map[string]uint64 {
	statsMu.Lock()
	defer statsMu.Unlock()
	out := make(map[string]uint64, len(loadCounts))
	for k, v := range loadCounts {
		out[k] = v
	}
	return out
}
