package datapack

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/papapumpkin/mcscoreboards/internal/schema"
)

var testVersion = schema.Version{Name: "1.19.4", PackFormat: 12}

func TestLayoutFor(t *testing.T) {
	t.Parallel()

	l := LayoutFor("/out", "1.19.4")
	if want := filepath.Join("/out", "datapacks", "mc-scoreboards-1.19.4"); l.Base != want {
		t.Errorf("Base = %q, want %q", l.Base, want)
	}
	if want := filepath.Join(l.Base, "data", "mc-scoreboards", "functions", "create.mcfunction"); l.FunctionPath("create") != want {
		t.Errorf("FunctionPath = %q, want %q", l.FunctionPath("create"), want)
	}
}

func TestMeta(t *testing.T) {
	t.Parallel()

	data, err := Meta(testVersion)
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	var got packMeta
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("pack.mcmeta is not valid JSON: %v", err)
	}
	if got.Pack.PackFormat != 12 {
		t.Errorf("pack_format = %d, want 12", got.Pack.PackFormat)
	}
	if got.Pack.Description != "All scoreboards for Minecraft 1.19.4" {
		t.Errorf("description = %q", got.Pack.Description)
	}
}

func TestBuild_CommitWritesLayout(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	b, err := Begin(out, testVersion)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Nothing visible until commit.
	if _, err := os.Stat(b.Layout.Base); !os.IsNotExist(err) {
		t.Fatalf("final directory exists before commit: %v", err)
	}

	if err := b.WriteFunction("create", []string{"a", "b"}); err != nil {
		t.Fatalf("WriteFunction: %v", err)
	}
	if err := b.WriteFunction("remove", nil); err != nil {
		t.Fatalf("WriteFunction: %v", err)
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	data, err := os.ReadFile(b.Layout.FunctionPath("create"))
	if err != nil {
		t.Fatalf("reading create: %v", err)
	}
	if string(data) != "a\nb\n" {
		t.Errorf("create = %q, want %q", data, "a\nb\n")
	}
	data, err = os.ReadFile(b.Layout.FunctionPath("remove"))
	if err != nil || len(data) != 0 {
		t.Errorf("remove = %q, %v; want empty file", data, err)
	}
	if _, err := os.Stat(filepath.Join(b.Layout.Base, "pack.mcmeta")); err != nil {
		t.Errorf("pack.mcmeta missing: %v", err)
	}
	if _, err := os.Stat(b.Layout.Base + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp directory left behind: %v", err)
	}
	if got := b.Written(); len(got) != 2 {
		t.Errorf("Written() = %v, want two names", got)
	}
}

func TestBuild_CommitReplacesPrevious(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	layout := LayoutFor(out, testVersion.Name)
	if err := os.MkdirAll(layout.Functions, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := layout.FunctionPath("update")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Begin(out, testVersion)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.WriteFunction("create", []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale update function survived commit: %v", err)
	}
}

func TestBuild_AbortKeepsPrevious(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	layout := LayoutFor(out, testVersion.Name)
	if err := os.MkdirAll(layout.Functions, 0o755); err != nil {
		t.Fatal(err)
	}
	keep := layout.FunctionPath("create")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Begin(out, testVersion)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := b.WriteFunction("create", []string{"new"}); err != nil {
		t.Fatal(err)
	}
	b.Abort()

	data, err := os.ReadFile(keep)
	if err != nil || string(data) != "keep" {
		t.Errorf("previous datapack changed: %q, %v", data, err)
	}
	if _, err := os.Stat(layout.Base + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp directory left behind: %v", err)
	}
	if err := b.WriteFunction("update", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("write after abort = %v, want ErrClosed", err)
	}
}

func TestBegin_UnwritableOutput(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(out, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Begin(out, testVersion)
	var sinkErr *SinkError
	if !errors.As(err, &sinkErr) {
		t.Errorf("Begin error = %v, want *SinkError", err)
	}
}
