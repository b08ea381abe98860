package viewstore

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "views.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertViewKeepsStableID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertView(ctx, "my filters", "business-units", `{"category":"core-banking"}`)
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	id2, err := s.UpsertView(ctx, "my filters", "business-units", `{"category":"geographic-region"}`)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("upserting the same name must keep the id: %s vs %s", id1, id2)
	}

	view, err := s.GetView(ctx, id1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view == nil {
		t.Fatalf("expected saved view")
	}
	if view.StateJSON != `{"category":"geographic-region"}` {
		t.Fatalf("state not updated: %s", view.StateJSON)
	}
}

func TestUpsertViewValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertView(ctx, "  ", "executive", `{}`); err == nil {
		t.Fatalf("blank name must be rejected")
	}
	if _, err := s.UpsertView(ctx, "x", "executive", ""); err == nil {
		t.Fatalf("empty state must be rejected")
	}
}

func TestGetViewMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	view, err := s.GetView(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if view != nil {
		t.Fatalf("missing id must return nil, got %+v", view)
	}
}

func TestDeleteViewIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertView(ctx, "doomed", "findings", `{}`)
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := s.DeleteView(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.DeleteView(ctx, id); err != nil {
		t.Fatalf("deleting a missing id must not error: %v", err)
	}

	views, err := s.ListViews(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty store, got %d views", len(views))
	}
}

func TestRecordAndListExports(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.RecordExport(ctx, "business-units", "csv", "q3-2024", 15); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := s.RecordExport(ctx, "findings", "csv", "q3-2024", 42); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	items, err := s.RecentExports(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 records, got %d", len(items))
	}
	for _, it := range items {
		if it.Quarter != "q3-2024" || it.Format != "csv" {
			t.Fatalf("unexpected record: %+v", it)
		}
	}
}
