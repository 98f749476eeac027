package stats

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SkipReason explains why a directory entry was not treated as a player file.
type SkipReason int

const (
	SkipUnreadable     SkipReason = iota // Entry could not be stat'ed
	SkipNotFile                          // Directory or other non-regular file
	SkipExtension                        // Not a .json file
	SkipNotUUID                          // File stem is not a UUID
	SkipNotWhitelisted                   // UUID is valid but not on the whitelist
	SkipDuplicate                        // Another file already supplied this UUID
)

func (r SkipReason) String() string {
	switch r {
	case SkipUnreadable:
		return "unreadable"
	case SkipNotFile:
		return "not a regular file"
	case SkipExtension:
		return "not a " + Extension + " file"
	case SkipNotUUID:
		return "file name is not a UUID"
	case SkipNotWhitelisted:
		return "player not whitelisted"
	case SkipDuplicate:
		return "duplicate file for player"
	default:
		return "unknown"
	}
}

// Diagnostics receives per-file outcomes that do not change whether the batch
// succeeds.
type Diagnostics interface {
	FileSkipped(path string, reason SkipReason)
	PlayerDropped(err *PlayerFileError)
	PlayerLoaded(rec Record)
}

// Discard is a Diagnostics that ignores everything.
type Discard struct{}

func (Discard) FileSkipped(string, SkipReason) {}
func (Discard) PlayerDropped(*PlayerFileError) {}
func (Discard) PlayerLoaded(Record)            {}

// Aggregator turns a whitelist and a stats directory into player records.
type Aggregator struct {
	diag Diagnostics
}

// NewAggregator creates an Aggregator reporting to diag. A nil diag discards
// all per-file diagnostics.
func NewAggregator(diag Diagnostics) *Aggregator {
	if diag == nil {
		diag = Discard{}
	}
	return &Aggregator{diag: diag}
}

// Aggregate loads the whitelist and every whitelisted stat file in statsDir.
// Files that fail to parse are reported and left out; the returned records
// follow directory order and hold at most one record per UUID.
func (a *Aggregator) Aggregate(whitelistPath, statsDir string) ([]Record, error) {
	wl, err := LoadWhitelist(whitelistPath)
	if err != nil {
		return nil, err
	}

	candidates, err := a.Candidates(wl, statsDir)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(candidates))
	for _, c := range candidates {
		res := Load(c)
		if !res.OK() {
			a.diag.PlayerDropped(res.Err)
			continue
		}
		a.diag.PlayerLoaded(res.Record)
		records = append(records, res.Record)
	}
	return records, nil
}

// Candidates lists the stat files in dir that belong to whitelisted players.
func (a *Aggregator) Candidates(wl Whitelist, dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryError{Path: dir, Err: err}
	}

	var candidates []Candidate
	seen := make(map[uuid.UUID]bool)
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		info, err := os.Stat(path)
		if err != nil {
			a.diag.FileSkipped(path, SkipUnreadable)
			continue
		}
		if !info.Mode().IsRegular() {
			a.diag.FileSkipped(path, SkipNotFile)
			continue
		}
		if filepath.Ext(e.Name()) != Extension {
			a.diag.FileSkipped(path, SkipExtension)
			continue
		}

		id, ok := parseFileUUID(e.Name())
		if !ok {
			a.diag.FileSkipped(path, SkipNotUUID)
			continue
		}
		name, ok := wl.Lookup(id)
		if !ok {
			a.diag.FileSkipped(path, SkipNotWhitelisted)
			continue
		}
		// Two spellings of one UUID (e.g. upper and lower case) on a
		// case-sensitive filesystem: keep the first.
		if seen[id] {
			a.diag.FileSkipped(path, SkipDuplicate)
			continue
		}
		seen[id] = true

		candidates = append(candidates, Candidate{Path: path, Player: name, UUID: id})
	}

	if len(candidates) == 0 {
		return nil, &DirectoryError{Path: dir, Err: ErrNoStatsFiles}
	}
	return candidates, nil
}

// parseFileUUID parses the UUID encoded in a stat file name.
func parseFileUUID(fileName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSuffix(fileName, Extension))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}
