package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/mcscoreboards/internal/emit"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTop_NoRuns(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.Top(context.Background(), "m-stone", 10)
	if !errors.Is(err, ErrNoRuns) {
		t.Errorf("Top error = %v, want ErrNoRuns", err)
	}
}

func TestRecordRun_AndTop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	first := []emit.Score{
		{Player: "Alice", Objective: "m-stone", Value: 1},
		{Player: "Bob", Objective: "m-stone", Value: 50},
	}
	if _, err := s.RecordRun(ctx, "1.19.4", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), first); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	second := []emit.Score{
		{Player: "Alice", Objective: "m-stone", Value: 80},
		{Player: "Bob", Objective: "m-stone", Value: 60},
		{Player: "Carol", Objective: "m-stone", Value: 60},
		{Player: "Carol", Objective: "z-jump", Value: 7},
	}
	runID, err := s.RecordRun(ctx, "1.19.4", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), second)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID != 2 {
		t.Errorf("runID = %d, want 2", runID)
	}

	got, err := s.Top(ctx, "m-stone", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []Standing{
		{Rank: 1, Player: "Alice", Value: 80},
		{Rank: 2, Player: "Bob", Value: 60},
		{Rank: 2, Player: "Carol", Value: 60},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Top mismatch (-want +got):\n%s", diff)
	}

	limited, err := s.Top(ctx, "m-stone", 1)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(limited) != 1 || limited[0].Player != "Alice" {
		t.Errorf("Top(limit 1) = %+v, want Alice only", limited)
	}
}

func TestRuns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	at := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	scores := []emit.Score{
		{Player: "Alice", Objective: "m-stone", Value: 1},
		{Player: "Alice", Objective: "c-torch", Value: 2},
		{Player: "Bob", Objective: "m-stone", Value: 3},
	}
	if _, err := s.RecordRun(ctx, "1.18.2", at, scores); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := s.RecordRun(ctx, "1.19.4", at.Add(time.Hour), nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := s.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	want := []Run{
		{ID: 2, Version: "1.19.4", GeneratedAt: at.Add(time.Hour), Players: 0, Scores: 0},
		{ID: 1, Version: "1.18.2", GeneratedAt: at, Players: 2, Scores: 3},
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Errorf("Runs mismatch (-want +got):\n%s", diff)
	}
}
