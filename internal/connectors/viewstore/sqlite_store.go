// Package viewstore persists saved dashboard views and the export audit log
// in SQLite, so analyst state survives restarts.
package viewstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SavedView is a persisted filter/sort/compare state for one dashboard view.
type SavedView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	View      string     `json:"view"`
	StateJSON string     `json:"state_json"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ExportRecord is one row of the export audit log.
type ExportRecord struct {
	ID         string     `json:"id"`
	View       string     `json:"view"`
	Format     string     `json:"format"`
	Quarter    string     `json:"quarter"`
	RowCount   int64      `json:"row_count"`
	ExportedAt *time.Time `json:"exported_at,omitempty"`
}

// Store manages saved views and export records in SQLite.
type Store struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS saved_views (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  view TEXT NOT NULL,
  state_json TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_sv_view ON saved_views(view);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS export_log (
  id TEXT PRIMARY KEY,
  view TEXT NOT NULL,
  format TEXT NOT NULL,
  quarter TEXT NOT NULL,
  row_count INTEGER NOT NULL DEFAULT 0,
  exported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertView saves a view state by name, returning the stable id.
func (s *Store) UpsertView(ctx context.Context, name, view, stateJSON string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("view name required")
	}
	if strings.TrimSpace(stateJSON) == "" {
		return "", errors.New("view state required")
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO saved_views (id, name, view, state_json, created_at, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET
  view = excluded.view,
  state_json = excluded.state_json,
  updated_at = CURRENT_TIMESTAMP;
`, id, name, view, stateJSON); err != nil {
		return "", err
	}

	var stored string
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM saved_views WHERE name = ?;`, name).Scan(&stored); err != nil {
		return "", err
	}
	return stored, nil
}

// ListViews returns saved views, newest update first.
func (s *Store) ListViews(ctx context.Context) ([]SavedView, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, view, state_json, created_at, updated_at
FROM saved_views
ORDER BY updated_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedView
	for rows.Next() {
		var v SavedView
		if err := rows.Scan(&v.ID, &v.Name, &v.View, &v.StateJSON, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetView returns one saved view by id.
func (s *Store) GetView(ctx context.Context, id string) (*SavedView, error) {
	var v SavedView
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, view, state_json, created_at, updated_at
FROM saved_views
WHERE id = ?;
`, id).Scan(&v.ID, &v.Name, &v.View, &v.StateJSON, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteView removes a saved view. Deleting a missing id is not an error.
func (s *Store) DeleteView(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_views WHERE id = ?;`, id)
	return err
}

// RecordExport appends one row to the export audit log.
func (s *Store) RecordExport(ctx context.Context, view, format, quarter string, rowCount int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO export_log (id, view, format, quarter, row_count, exported_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
`, id, view, format, quarter, rowCount)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecentExports returns the newest export records.
func (s *Store) RecentExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, view, format, quarter, row_count, exported_at
FROM export_log
ORDER BY exported_at DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExportRecord, 0, limit)
	for rows.Next() {
		var r ExportRecord
		if err := rows.Scan(&r.ID, &r.View, &r.Format, &r.Quarter, &r.RowCount, &r.ExportedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
