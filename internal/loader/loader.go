// Package loader fetches fixture files over HTTP or from a local directory,
// with a time-boxed cache keyed by file path.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTTL is how long a fetched fixture is served from cache.
const DefaultTTL = 5 * time.Minute

// LoadError carries the failing fixture path alongside the underlying cause.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load fixture %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Options configures a Loader.
type Options struct {
	// BaseURL serves fixtures over HTTP when set; otherwise BaseDir is read
	// from the local filesystem.
	BaseURL string
	BaseDir string
	Timeout time.Duration
	TTL     time.Duration
	Cache   Cache
	// Fanout caps concurrent unit fetches during LoadSnapshot.
	Fanout int
}

// Loader resolves fixture paths to parsed JSON, serving from cache when the
// path was fetched within the TTL. Concurrent loads of the same uncached path
// are not de-duplicated; two simultaneous callers may both hit the source.
type Loader struct {
	baseURL string
	baseDir string
	http    *http.Client
	cache   Cache
	ttl     time.Duration
	fanout  int
}

func New(opts Options) *Loader {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}
	fanout := opts.Fanout
	if fanout <= 0 {
		fanout = 8
	}
	return &Loader{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		baseDir: strings.TrimSpace(opts.BaseDir),
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		ttl:     ttl,
		fanout:  fanout,
	}
}

// Load resolves path to JSON and unmarshals it into out. A non-2xx response,
// read failure, or parse failure yields a *LoadError; nothing is cached in
// that case.
func (l *Loader) Load(ctx context.Context, path string, out any) error {
	data, ok := l.cache.Get(ctx, path)
	if !ok {
		fetched, err := l.fetch(ctx, path)
		if err != nil {
			recordFixtureLoad(path, "error")
			return &LoadError{Path: path, Cause: err}
		}
		data = fetched
		recordFixtureLoad(path, "miss")
	} else {
		recordFixtureLoad(path, "hit")
	}

	if err := json.Unmarshal(data, out); err != nil {
		recordFixtureLoad(path, "error")
		return &LoadError{Path: path, Cause: fmt.Errorf("parse: %w", err)}
	}

	if !ok {
		l.cache.Set(ctx, path, data, l.ttl)
	}
	return nil
}

func (l *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	if l.baseURL != "" {
		return l.fetchHTTP(ctx, path)
	}
	return os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(path)))
}

func (l *Loader) fetchHTTP(ctx context.Context, path string) ([]byte, error) {
	u, err := url.Parse(l.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		blob, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(blob)))
	}

	return io.ReadAll(resp.Body)
}

// Purge drops every cached fixture. Exposed for the settings endpoint.
func (l *Loader) Purge(ctx context.Context) {
	l.cache.Purge(ctx)
}

// Source describes where fixtures come from, for the status endpoint.
func (l *Loader) Source() string {
	if l.baseURL != "" {
		return l.baseURL
	}
	return l.baseDir
}
