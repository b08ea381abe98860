package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMemoryCacheExpiresAfterTTL(t *testing.T) {
	c := NewMemoryCache()
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	c.Set(ctx, "enterprise-dashboard-q3-2024.json", []byte(`{}`), 5*time.Minute)

	if _, ok := c.Get(ctx, "enterprise-dashboard-q3-2024.json"); !ok {
		t.Fatalf("fresh entry must be served")
	}

	now = now.Add(5*time.Minute + time.Second)
	if _, ok := c.Get(ctx, "enterprise-dashboard-q3-2024.json"); ok {
		t.Fatalf("entry past its TTL must not be served")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry must be dropped on read, len=%d", c.Len())
	}
}

func TestMemoryCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	c.Set(ctx, "x", []byte(`{}`), 0)
	if c.Len() != 0 {
		t.Fatalf("zero TTL must not store")
	}
}

func TestLoadServesFromCacheWithinTTL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Write([]byte(`{"id":"consumer-banking"}`))
	}))
	defer srv.Close()

	l := New(Options{BaseURL: srv.URL, TTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		var out map[string]any
		if err := l.Load(ctx, "business-units/consumer-banking-q3-2024.json", &out); err != nil {
			t.Fatalf("load %d failed: %v", i, err)
		}
		if out["id"] != "consumer-banking" {
			t.Fatalf("unexpected payload: %v", out)
		}
	}
	if hits != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", hits)
	}
}

func TestLoadParseFailureNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	cache := NewMemoryCache()
	l := New(Options{BaseURL: srv.URL, Cache: cache})

	var out map[string]any
	err := l.Load(context.Background(), "historical-trends.json", &out)
	if err == nil {
		t.Fatalf("expected parse error")
	}

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if le.Path != "historical-trends.json" {
		t.Fatalf("error must carry the fixture path, got %q", le.Path)
	}
	if le.Unwrap() == nil {
		t.Fatalf("error must wrap its cause")
	}
	if cache.Len() != 0 {
		t.Fatalf("unparseable payload must not be cached, len=%d", cache.Len())
	}
}

func TestLoadNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := New(Options{BaseURL: srv.URL})
	var out map[string]any
	err := l.Load(context.Background(), "enterprise-dashboard-q3-2024.json", &out)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestPurgeDropsCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	l := New(Options{BaseURL: srv.URL, TTL: time.Hour})
	ctx := context.Background()

	var out map[string]any
	if err := l.Load(ctx, "historical-trends.json", &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	l.Purge(ctx)
	if err := l.Load(ctx, "historical-trends.json", &out); err != nil {
		t.Fatalf("load after purge failed: %v", err)
	}
	if hits != 2 {
		t.Fatalf("purge must force a refetch, got %d hits", hits)
	}
}
