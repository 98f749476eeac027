package arch_test

import (
	"path/filepath"
	"testing"
)

// layers assigns each internal package to a numeric layer. A package at
// layer N may only import packages at layer N or below.
var layers = map[string]int{
	"ansi":      0,
	"category":  0,
	"config":    0,
	"telemetry": 0,
	"watch":     0,

	"schema": 1,
	"stats":  1,

	"datapack": 2,
	"emit":     2,

	"history":  3,
	"pipeline": 3,

	"ui": 4,
}

// TestDependencyLayering verifies that no internal package imports a package
// from a higher layer.
func TestDependencyLayering(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		importerLayer, ok := layers[pkg]
		if !ok {
			// Caught by TestNoUnknownPackages.
			continue
		}
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			importedLayer, ok := layers[imp]
			if !ok || importerLayer >= importedLayer {
				continue
			}
			t.Errorf("layer violation: %s (layer %d) imports %s (layer %d)",
				pkg, importerLayer, imp, importedLayer)
		}
	}
}

// TestNoSameLayerImports keeps packages sharing a layer independent of each
// other, so either can be tested or replaced alone.
func TestNoSameLayerImports(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		layer, ok := layers[pkg]
		if !ok {
			continue
		}
		for _, imp := range importsOf(t, filepath.Join(dir, pkg)) {
			if l, ok := layers[imp]; ok && l == layer && imp != pkg {
				t.Errorf("%s imports %s from the same layer %d", pkg, imp, layer)
			}
		}
	}
}

// TestNoUnknownPackages forces new packages to be placed in the layer map.
func TestNoUnknownPackages(t *testing.T) {
	t.Parallel()

	for _, pkg := range internalPackages(t) {
		if _, ok := layers[pkg]; !ok {
			t.Errorf("package %s has no layer assignment; add it to the layers map", pkg)
		}
	}
}
