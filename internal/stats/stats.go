// Package stats reads per-player statistic files for whitelisted players and
// normalizes them into per-category counts.
package stats

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/papapumpkin/mcscoreboards/internal/category"
)

// Extension is the file extension of per-player stat files.
const Extension = ".json"

// legacyMarker is what the pre-1.13 format ({"stat.xxx": n, ...}) shows at
// legacyOffset. The dot keeps modern files ({"stats": ...}) from matching.
const (
	legacyMarker = "stat."
	legacyOffset = 2
)

// Counts maps each category to its item counts. Item keys keep their
// namespace, e.g. "minecraft:stone".
type Counts map[category.Category]map[string]uint32

// Total returns the number of (item, count) pairs across all categories.
func (c Counts) Total() int {
	n := 0
	for _, items := range c {
		n += len(items)
	}
	return n
}

// Record is one whitelisted player's parsed statistics.
type Record struct {
	Player string
	UUID   uuid.UUID
	Counts Counts
}

type statFile struct {
	Stats map[string]map[string]uint32 `json:"stats"`
}

// ParseCounts decodes a stat file body. Categories outside the nine known
// ones are ignored; absent ones are left empty.
func ParseCounts(data []byte) (Counts, error) {
	var f statFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Stats == nil {
		return nil, ErrMissingStats
	}

	counts := make(Counts, len(category.All))
	for key, items := range f.Stats {
		cat, ok := category.ParseQualified(key)
		if !ok {
			continue
		}
		if items == nil {
			items = map[string]uint32{}
		}
		counts[cat] = items
	}
	return counts, nil
}

// IsLegacyFormat reports whether a stat file that failed to parse looks like
// the old flat format.
func IsLegacyFormat(data []byte) bool {
	end := legacyOffset + len(legacyMarker)
	return len(data) >= end && string(data[legacyOffset:end]) == legacyMarker
}

// Candidate is a stat file whose name resolved to a whitelisted player.
type Candidate struct {
	Path   string
	Player string
	UUID   uuid.UUID
}

// Result is the outcome of loading one candidate: a Record, or the reason it
// was dropped.
type Result struct {
	Record Record
	Err    *PlayerFileError
}

// OK reports whether the candidate produced a record.
func (r Result) OK() bool {
	return r.Err == nil
}

// Load reads and parses a candidate's stat file.
func Load(c Candidate) Result {
	fail := func(err error, legacy bool) Result {
		return Result{Err: &PlayerFileError{
			Player: c.Player,
			UUID:   c.UUID,
			Path:   c.Path,
			Legacy: legacy,
			Err:    err,
		}}
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fail(fmt.Errorf("reading file: %w", err), false)
	}

	counts, err := ParseCounts(data)
	if err != nil {
		return fail(err, IsLegacyFormat(data))
	}

	return Result{Record: Record{Player: c.Player, UUID: c.UUID, Counts: counts}}
}
