// Package datapack writes generated function files into the datapack
// directory layout the game loads from a world's datapacks/ folder.
package datapack

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/mcscoreboards/internal/schema"
)

// Namespace is both the datapack's directory suffix and its function namespace.
const Namespace = "mc-scoreboards"

// FunctionExt is the extension of function files.
const FunctionExt = ".mcfunction"

// Layout holds the paths of a datapack for one game version.
type Layout struct {
	Base      string // <out>/datapacks/mc-scoreboards-<version>
	Functions string // <base>/data/mc-scoreboards/functions
}

// LayoutFor returns the datapack layout rooted at outDir.
func LayoutFor(outDir, version string) Layout {
	base := filepath.Join(outDir, "datapacks", Namespace+"-"+version)
	return Layout{
		Base:      base,
		Functions: functionsDir(base),
	}
}

func functionsDir(base string) string {
	return filepath.Join(base, "data", Namespace, "functions")
}

// FunctionPath returns where a named function is written.
func (l Layout) FunctionPath(name string) string {
	return filepath.Join(l.Functions, name+FunctionExt)
}

type packMeta struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

// Meta renders pack.mcmeta for a version.
func Meta(v schema.Version) ([]byte, error) {
	var m packMeta
	m.Pack.PackFormat = v.PackFormat
	m.Pack.Description = "All scoreboards for Minecraft " + v.Name
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Build assembles a datapack in a temporary sibling directory. Nothing at the
// final location changes until Commit.
type Build struct {
	Layout Layout

	tmp       string
	functions string
	written   []string
	done      bool
}

// Begin starts a datapack build for version v under outDir and writes its
// pack.mcmeta.
func Begin(outDir string, v schema.Version) (*Build, error) {
	layout := LayoutFor(outDir, v.Name)
	tmp := layout.Base + ".tmp"

	if err := os.RemoveAll(tmp); err != nil {
		return nil, &SinkError{Path: tmp, Err: fmt.Errorf("cleaning temp directory: %w", err)}
	}
	b := &Build{Layout: layout, tmp: tmp, functions: functionsDir(tmp)}
	if err := os.MkdirAll(b.functions, 0o755); err != nil {
		return nil, &SinkError{Path: b.functions, Err: err}
	}

	meta, err := Meta(v)
	if err != nil {
		b.Abort()
		return nil, &SinkError{Path: "pack.mcmeta", Err: err}
	}
	if err := b.writeFile(filepath.Join(tmp, "pack.mcmeta"), meta); err != nil {
		b.Abort()
		return nil, err
	}
	return b, nil
}

// WriteFunction writes a function file, one command per line.
func (b *Build) WriteFunction(name string, lines []string) error {
	if b.done {
		return &SinkError{Path: name, Err: ErrClosed}
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if err := b.writeFile(filepath.Join(b.functions, name+FunctionExt), []byte(sb.String())); err != nil {
		return err
	}
	b.written = append(b.written, name)
	return nil
}

// Written returns the function names written so far.
func (b *Build) Written() []string {
	out := make([]string, len(b.written))
	copy(out, b.written)
	return out
}

func (b *Build) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &SinkError{Path: path, Err: err}
	}
	return nil
}

// Commit replaces any previous datapack at the final location with the
// build.
func (b *Build) Commit() error {
	if b.done {
		return &SinkError{Path: b.Layout.Base, Err: ErrClosed}
	}
	b.done = true

	if err := os.RemoveAll(b.Layout.Base); err != nil {
		os.RemoveAll(b.tmp)
		return &SinkError{Path: b.Layout.Base, Err: fmt.Errorf("removing previous datapack: %w", err)}
	}
	if err := os.Rename(b.tmp, b.Layout.Base); err != nil {
		os.RemoveAll(b.tmp)
		return &SinkError{Path: b.Layout.Base, Err: fmt.Errorf("moving datapack into place: %w", err)}
	}
	return nil
}

// Abort discards an uncommitted build. It is safe to call after Commit.
func (b *Build) Abort() {
	if b.done {
		return
	}
	b.done = true
	os.RemoveAll(b.tmp)
}
