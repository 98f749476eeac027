package stats

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Profile is one entry of the server's whitelist.json.
type Profile struct {
	UUID uuid.UUID `json:"uuid"`
	Name string    `json:"name"`
}

// Whitelist maps player UUIDs to display names.
type Whitelist map[uuid.UUID]string

// Lookup returns the display name for id.
func (w Whitelist) Lookup(id uuid.UUID) (string, bool) {
	name, ok := w[id]
	return name, ok
}

// LoadWhitelist reads a whitelist file. A file that lists no players is an
// error: without it no stat file could ever be selected.
func LoadWhitelist(path string) (Whitelist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &WhitelistError{Path: path, Err: err}
	}

	wl, err := ParseWhitelist(data)
	if err != nil {
		return nil, &WhitelistError{Path: path, Err: err}
	}
	return wl, nil
}

// ParseWhitelist decodes whitelist JSON. Later duplicates of a UUID win.
func ParseWhitelist(data []byte) (Whitelist, error) {
	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decoding whitelist: %w", err)
	}

	wl := make(Whitelist, len(profiles))
	for i, p := range profiles {
		if p.UUID == uuid.Nil {
			return nil, fmt.Errorf("profile %d has no uuid", i)
		}
		wl[p.UUID] = p.Name
	}
	if len(wl) == 0 {
		return nil, ErrNoWhitelistEntries
	}
	return wl, nil
}
