package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcher_BatchesMatchingChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(50*time.Millisecond, func(p string) bool {
		return strings.HasSuffix(p, ".json")
	}, dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	for _, name := range []string{"a.json", "b.json", "ignored.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case batch := <-w.Changes:
		for _, p := range batch {
			if !strings.HasSuffix(p, ".json") {
				t.Errorf("unmatched path %q reported", p)
			}
		}
		if len(batch) == 0 {
			t.Error("empty batch")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}
}

func TestWatcher_StartFailsOnMissingDir(t *testing.T) {
	t.Parallel()

	w, err := New(0, nil, filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("Start on missing directory should fail")
	}
	w.Stop()
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	t.Parallel()

	w, err := New(10*time.Millisecond, nil, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()

	select {
	case _, ok := <-w.Changes:
		if ok {
			t.Error("expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("Changes not closed after Stop")
	}
}
