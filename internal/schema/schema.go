// Package schema loads the per-version list of game statistics and derives a
// scoreboard objective name for each of them.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/papapumpkin/mcscoreboards/internal/category"
)

// NamespacePrefixLen is the length of the "minecraft:" (or "minecraft.")
// prefix removed from item ids when deriving objective names.
const NamespacePrefixLen = len(category.Namespace) + 1

//go:embed assets/*.json
var assets embed.FS

// Entry is one scoreboard objective derived from a stat schema record.
type Entry struct {
	Stat        string `json:"stat"`
	Translation string `json:"translation"`
	// Name is the derived objective name. Empty when the stat key could not
	// be split into a category and an item id.
	Name string `json:"-"`
}

// NewEntry builds an Entry and derives its objective name.
func NewEntry(stat, translation string) Entry {
	e := Entry{Stat: stat, Translation: translation}
	e.Name = deriveName(stat)
	return e
}

// Named reports whether an objective name could be derived.
func (e Entry) Named() bool {
	return e.Name != ""
}

// Category returns the category part of the stat key, e.g. "minecraft.mined".
func (e Entry) Category() string {
	cat, _, _ := strings.Cut(e.Stat, ":")
	return cat
}

// deriveName turns "minecraft.mined:minecraft.diamond_ore" (or the
// colon-separated "minecraft.mined:minecraft:diamond_ore") into
// "m-diamond_ore".
func deriveName(stat string) string {
	cat, item, ok := strings.Cut(stat, ":")
	if !ok || len(item) <= NamespacePrefixLen {
		return ""
	}
	return category.Shorten(cat) + "-" + item[NamespacePrefixLen:]
}

// Parse decodes a JSON stat schema and derives names in input order.
func Parse(data []byte) ([]Entry, error) {
	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaParse, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no stats listed", ErrSchemaParse)
	}

	entries := make([]Entry, len(raw))
	for i, r := range raw {
		if r.Stat == "" {
			return nil, fmt.Errorf("%w: record %d has no stat", ErrSchemaParse, i)
		}
		entries[i] = NewEntry(r.Stat, r.Translation)
	}
	return entries, nil
}

// Loader reads stat schemas from a filesystem laid out as stats_<version>.json.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a Loader reading from fsys. A nil fsys selects the
// schemas bundled with the binary.
func NewLoader(fsys fs.FS) *Loader {
	if fsys == nil {
		fsys = Bundled()
	}
	return &Loader{fsys: fsys}
}

// Bundled returns the schemas embedded in the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(fmt.Sprintf("schema: bundled assets: %v", err))
	}
	return sub
}

// FileName returns the schema file name for a version.
func FileName(version string) string {
	return "stats_" + version + ".json"
}

// Load returns the scoreboard entries for a game version.
func (l *Loader) Load(version string) ([]Entry, error) {
	name := FileName(version)
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, &ConfigError{Version: version, Path: name, Err: ErrSchemaNotFound}
		}
		return nil, &ConfigError{Version: version, Path: name, Err: fmt.Errorf("reading schema: %w", err)}
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, &ConfigError{Version: version, Path: name, Err: err}
	}
	return entries, nil
}
