// Package telemetry records a JSONL event stream for each generation run:
// which schema was loaded, which stat files were skipped or dropped, which
// players were loaded, and what was written. The stream makes a run over a
// large stats directory auditable after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds.
const (
	KindRunStart        = "run_start"
	KindSchemaLoaded    = "schema_loaded"
	KindFileSkipped     = "file_skipped"
	KindPlayerDropped   = "player_dropped"
	KindPlayerLoaded    = "player_loaded"
	KindEntrySkipped    = "entry_skipped"
	KindDatapackWritten = "datapack_written"
	KindRunDone         = "run_done"
	KindRunFailed       = "run_failed"
)

// Event is a single telemetry record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Version   string    `json:"version,omitempty"`
	Player    string    `json:"player,omitempty"`
	Path      string    `json:"path,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter appends events to a JSONL file. A nil *Emitter is a valid no-op
// emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
	now  func() time.Time
}

// NewEmitter opens path for appending, creating it if needed.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
		now:  time.Now,
	}, nil
}

// Emit writes evt, stamping it with the current time when Timestamp is zero.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file. Calling Close on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
