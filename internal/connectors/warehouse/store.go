// Package warehouse reads business-unit snapshots from the metrics warehouse
// instead of the fixture files. It is config-gated; when disabled the API
// serves fixtures only.
package warehouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"enterprise-audit-dashboard/internal/config"
	"enterprise-audit-dashboard/internal/fixtures"
	"enterprise-audit-dashboard/internal/loader"
)

// Store wraps MySQL access to the audit metrics warehouse.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
	dbName       string
}

// NewStore creates a MySQL-backed store and verifies connectivity.
func NewStore(cfg config.Config) (*Store, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// The warehouse often comes up after the dashboard under systemd; give it
	// a couple of chances before failing startup.
	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.DBConnTimeout)
	defer cancel()
	if err := loader.Retry(ctx, 3, time.Second, func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, cfg.DBConnTimeout)
		defer pingCancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:           db,
		queryTimeout: cfg.DBQueryTimeout,
		dbName:       cfg.DBName,
	}, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Ping reports connectivity for the status endpoint.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// FetchUnit implements loader.UnitSource against the unit_snapshots table.
// The warehouse stores the same JSON document the fixture files hold, one row
// per unit per quarter, so downstream aggregation is source-agnostic.
func (s *Store) FetchUnit(ctx context.Context, slug, quarter string) (*fixtures.UnitFixture, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	const q = `
SELECT payload
FROM unit_snapshots
WHERE unit_slug = ? AND quarter = ?
ORDER BY loaded_at DESC
LIMIT 1;
`
	var payload []byte
	if err := s.db.QueryRowContext(ctx, q, slug, quarter).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no snapshot for %s %s", slug, quarter)
		}
		return nil, err
	}

	var unit fixtures.UnitFixture
	if err := json.Unmarshal(payload, &unit); err != nil {
		return nil, fmt.Errorf("decode snapshot %s %s: %w", slug, quarter, err)
	}
	return &unit, nil
}

// ListQuarters returns the quarters present in the warehouse, newest first.
func (s *Store) ListQuarters(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	const q = `
SELECT DISTINCT quarter
FROM unit_snapshots
ORDER BY quarter DESC;
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quarters []string
	for rows.Next() {
		var quarter string
		if err := rows.Scan(&quarter); err != nil {
			return nil, err
		}
		quarters = append(quarters, quarter)
	}
	return quarters, rows.Err()
}

// SnapshotCounts returns per-quarter row counts for the status endpoint.
func (s *Store) SnapshotCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	const q = `
SELECT quarter, COUNT(*) AS units
FROM unit_snapshots
GROUP BY quarter;
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			quarter string
			n       int64
		)
		if err := rows.Scan(&quarter, &n); err != nil {
			return nil, err
		}
		counts[quarter] = n
	}
	return counts, rows.Err()
}
