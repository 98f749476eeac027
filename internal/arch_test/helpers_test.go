package arch_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
)

const (
	modulePath  = "github.com/papapumpkin/mcscoreboards"
	internalPfx = modulePath + "/internal/"
)

var (
	repoRootOnce sync.Once
	repoRootPath string
)

// repoRoot returns the absolute path to the repository root by walking up
// from this test file's directory until go.mod is found.
func repoRoot(t *testing.T) string {
	t.Helper()
	repoRootOnce.Do(func() {
		_, thisFile, _, ok := runtime.Caller(0)
		if !ok {
			return
		}
		dir := filepath.Dir(thisFile)
		for {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				repoRootPath = dir
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	})
	if repoRootPath == "" {
		t.Fatal("could not find go.mod in any parent directory")
	}
	return repoRootPath
}

func internalDirPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "internal")
}

// internalPackages returns the Go packages under internal/, excluding
// arch_test itself.
func internalPackages(t *testing.T) []string {
	t.Helper()

	dir := internalDirPath(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	var pkgs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		if len(goFilesIn(t, filepath.Join(dir, e.Name()))) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// goFilesIn returns the .go files in dir, sorted. Test files are included
// only when withTests is set.
func goFilesIn(t *testing.T, dir string, withTests ...bool) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading directory %s: %v", dir, err)
	}
	tests := len(withTests) > 0 && withTests[0]

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !tests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// importsOf returns the deduplicated internal packages (e.g. "schema",
// "stats") imported by the non-test files in pkgDir.
func importsOf(t *testing.T, pkgDir string) []string {
	t.Helper()

	seen := make(map[string]bool)
	fset := token.NewFileSet()
	for _, f := range goFilesIn(t, pkgDir) {
		node, err := parser.ParseFile(fset, f, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing imports in %s: %v", f, err)
		}
		for _, imp := range node.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rel, ok := strings.CutPrefix(path, internalPfx); ok {
				rel, _, _ = strings.Cut(rel, "/")
				seen[rel] = true
			}
		}
	}

	result := make([]string, 0, len(seen))
	for pkg := range seen {
		result = append(result, pkg)
	}
	sort.Strings(result)
	return result
}

// lineCount returns the number of lines in the file at filePath.
func lineCount(t *testing.T, filePath string) int {
	t.Helper()

	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("reading %s: %v", filePath, err)
	}
	if len(data) == 0 {
		return 0
	}
	count := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		count++
	}
	return count
}

func TestInternalPackages(t *testing.T) {
	t.Parallel()

	pkgs := internalPackages(t)
	known := map[string]bool{"category": false, "schema": false, "stats": false, "emit": false, "pipeline": false}
	for _, p := range pkgs {
		if p == "arch_test" {
			t.Error("internalPackages should exclude arch_test")
		}
		if _, ok := known[p]; ok {
			known[p] = true
		}
	}
	for pkg, found := range known {
		if !found {
			t.Errorf("expected package %q in internalPackages result", pkg)
		}
	}
}

func TestImportsOf(t *testing.T) {
	t.Parallel()

	imports := importsOf(t, filepath.Join(internalDirPath(t), "emit"))
	want := map[string]bool{"category": true, "schema": true, "stats": true}
	for _, imp := range imports {
		delete(want, imp)
	}
	if len(want) != 0 {
		t.Errorf("internal/emit imports %v, missing %v", imports, want)
	}
}
