package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2023, 9, 29, 12, 0, 0, 0, time.UTC)
	for i, status := range []string{"200", "500", "200"} {
		err := store.Record(ctx, Record{
			ArtifactID: "artifact-" + status,
			Command:    "artifacts/GenerateArtifact",
			Template:   "ce.html",
			Bucket:     "artifacts",
			Status:     status,
			Duration:   time.Duration(i+1) * time.Millisecond,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	// Newest first.
	if !records[0].CreatedAt.After(records[1].CreatedAt) {
		t.Errorf("records not newest-first: %v then %v", records[0].CreatedAt, records[1].CreatedAt)
	}
	if records[0].ID == "" {
		t.Error("missing generated record ID")
	}
	if records[0].Duration != 3*time.Millisecond {
		t.Errorf("duration = %v, want 3ms", records[0].Duration)
	}
}

func TestRecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Record{
			ArtifactID: "a",
			Command:    "artifacts/GetLinkToArtifact",
			Status:     "200",
		}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}
}

func TestRecentEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}
