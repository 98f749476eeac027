package stats

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for whitelist and stats directory problems.
var (
	// ErrNoWhitelistEntries indicates the whitelist parsed but lists no players.
	ErrNoWhitelistEntries = errors.New("no player profiles found in whitelist")
	// ErrNoStatsFiles indicates the stats directory holds no whitelisted player files.
	ErrNoStatsFiles = errors.New("no whitelisted player stat files found")
	// ErrMissingStats indicates a player file has no top-level "stats" object.
	ErrMissingStats = errors.New(`missing "stats" object`)
)

// WhitelistError is a fatal problem reading or decoding the whitelist.
type WhitelistError struct {
	Path string
	Err  error
}

func (e *WhitelistError) Error() string {
	return "whitelist " + e.Path + ": " + e.Err.Error()
}

func (e *WhitelistError) Unwrap() error {
	return e.Err
}

// DirectoryError is a fatal problem with the stats directory as a whole.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return "stats directory " + e.Path + ": " + e.Err.Error()
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// PlayerFileError records why a single player's stat file was dropped.
// It never aborts a batch.
type PlayerFileError struct {
	Player string
	UUID   uuid.UUID
	Path   string
	// Legacy is set when the file looks like the pre-1.13 flat stat format.
	Legacy bool
	Err    error
}

func (e *PlayerFileError) Error() string {
	msg := fmt.Sprintf("parsing stats file for %s (%s): %v", e.Player, e.UUID, e.Err)
	if e.Legacy {
		msg += " (legacy stat format)"
	}
	return msg
}

func (e *PlayerFileError) Unwrap() error {
	return e.Err
}
