package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/papapumpkin/newsrank/internal/rank"
)

// testStore creates a temporary SQLite store for testing and registers cleanup.
func testStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Open(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var entries = rank.List{
	{ID: 2, Name: "B", Score: 0.5},
	{ID: 1, Name: "A", Score: 0.25},
	{ID: 3, Name: "C", Score: 0.25},
}

func TestOpen_WAL(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestOpen_Reopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Record(ctx, Run{Input: "data.txt"}, entries); err != nil {
		t.Fatalf("Record: %v", err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	runs, err := s.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}

func TestRecordAndRuns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	first := Run{
		StartedAt: base, Input: "a.txt", Vertices: 3, Edges: 2,
		TeleportRate: 0.15, Iterations: 140, Converged: true, Delta: 5e-11,
	}
	id1, err := s.Record(ctx, first, entries)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id1 == "" {
		t.Fatal("Record returned empty id")
	}

	second := Run{ID: "fixed-id", StartedAt: base.Add(time.Hour), Input: "b.txt", Vertices: 1}
	id2, err := s.Record(ctx, second, nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id2 != "fixed-id" {
		t.Errorf("id = %q, want fixed-id", id2)
	}

	runs, err := s.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "fixed-id" || runs[0].Leader != "" {
		t.Errorf("runs[0] = %+v, want newest run without scores", runs[0])
	}
	got := runs[1]
	if got.ID != id1 || got.Input != "a.txt" || got.Iterations != 140 || !got.Converged || got.Leader != "B" {
		t.Errorf("runs[1] = %+v", got)
	}
	if !got.StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, base)
	}

	limited, err := s.Runs(ctx, 1)
	if err != nil {
		t.Fatalf("Runs(1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Runs(1) returned %d runs", len(limited))
	}
}

func TestScores(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	id, err := s.Record(ctx, Run{Input: "a.txt"}, entries)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := s.Scores(ctx, id)
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d scores, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Errorf("score %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestScores_UnknownRun(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	_, err := s.Scores(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("got %v, want ErrRunNotFound", err)
	}
}

func TestRecord_DuplicateID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testStore(t)

	if _, err := s.Record(ctx, Run{ID: "x"}, entries); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := s.Record(ctx, Run{ID: "x"}, entries); err == nil {
		t.Error("second Record with the same id succeeded, want error")
	}
	got, err := s.Scores(ctx, "x")
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if len(got) != len(entries) {
		t.Errorf("got %d scores after failed insert, want %d", len(got), len(entries))
	}
}
