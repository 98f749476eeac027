package schema

import (
	_ "embed"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed versions.toml
var versionsTOML []byte

// Version describes a supported game version.
type Version struct {
	Name       string `toml:"name"`
	PackFormat int    `toml:"pack_format"`
}

type versionTable struct {
	Version []Version `toml:"version"`
}

// versions is decoded once at startup and never mutated.
var versions = mustParseVersions(versionsTOML)

func mustParseVersions(data []byte) []Version {
	vs, err := parseVersions(data)
	if err != nil {
		panic(fmt.Sprintf("schema: bundled versions.toml: %v", err))
	}
	return vs
}

func parseVersions(data []byte) ([]Version, error) {
	var table versionTable
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing version table: %w", err)
	}
	seen := make(map[string]bool, len(table.Version))
	for _, v := range table.Version {
		if v.Name == "" || v.PackFormat <= 0 {
			return nil, fmt.Errorf("version table: incomplete entry %+v", v)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("version table: duplicate version %q", v.Name)
		}
		seen[v.Name] = true
	}
	return table.Version, nil
}

// Versions returns every supported version in table order.
func Versions() []Version {
	out := make([]Version, len(versions))
	copy(out, versions)
	return out
}

// LookupVersion returns the table entry for a version name.
func LookupVersion(name string) (Version, error) {
	for _, v := range versions {
		if v.Name == name {
			return v, nil
		}
	}
	return Version{}, &ConfigError{Version: name, Err: ErrUnsupportedVersion}
}
