// Package emit renders scoreboard definitions and player scores as game
// commands and hands them to a Sink.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/papapumpkin/mcscoreboards/internal/category"
	"github.com/papapumpkin/mcscoreboards/internal/schema"
	"github.com/papapumpkin/mcscoreboards/internal/stats"
)

// Function names written by the emitter.
const (
	CreateFunction = "create"
	RemoveFunction = "remove"
	UpdateFunction = "update"
)

// Sink stores a named function file made of command lines.
type Sink interface {
	WriteFunction(name string, lines []string) error
}

// Diagnostics receives entries that could not be rendered.
type Diagnostics interface {
	EntrySkipped(e schema.Entry)
}

type discard struct{}

func (discard) EntrySkipped(schema.Entry) {}

// Options controls command rendering.
type Options struct {
	// FullCriteria uses the whole stat key ("minecraft.mined:minecraft.stone")
	// as the objective criterion instead of just its category part.
	FullCriteria bool
}

// quoteEscaper escapes the two characters the game's quoted-string reader
// treats specially.
var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Score is one flattened (player, objective, value) triple.
type Score struct {
	Player    string
	Objective string
	Value     uint32
}

// DefinitionLines renders the create and remove commands for every named
// entry, in input order. Entries without a derived name go to diag.
func DefinitionLines(entries []schema.Entry, opts Options, diag Diagnostics) (create, remove []string) {
	if diag == nil {
		diag = discard{}
	}
	create = make([]string, 0, len(entries))
	remove = make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Named() {
			diag.EntrySkipped(e)
			continue
		}
		criterion := e.Category()
		if opts.FullCriteria {
			criterion = e.Stat
		}
		create = append(create, fmt.Sprintf("scoreboard objectives add %s %s \"%s\"", e.Name, criterion, quoteEscaper.Replace(e.Translation)))
		remove = append(remove, "scoreboard objectives remove "+e.Name)
	}
	return create, remove
}

// Flatten expands each record into scores. Categories follow category.All;
// items within a category are sorted by key so output is reproducible.
// Item keys too short to carry a namespace are dropped.
func Flatten(records []stats.Record) []Score {
	var scores []Score
	for _, rec := range records {
		for _, cat := range category.All {
			items := rec.Counts[cat]
			keys := make([]string, 0, len(items))
			for k := range items {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				if len(k) <= schema.NamespacePrefixLen {
					continue
				}
				scores = append(scores, Score{
					Player:    rec.Player,
					Objective: cat.Code() + "-" + k[schema.NamespacePrefixLen:],
					Value:     items[k],
				})
			}
		}
	}
	return scores
}

// UpdateLines renders one set-score command per flattened score.
func UpdateLines(records []stats.Record) []string {
	scores := Flatten(records)
	lines := make([]string, len(scores))
	for i, s := range scores {
		lines[i] = fmt.Sprintf("scoreboard players set %s %s %d", s.Player, s.Objective, s.Value)
	}
	return lines
}

// Emitter writes rendered commands through a Sink.
type Emitter struct {
	sink Sink
	opts Options
	diag Diagnostics
}

// New creates an Emitter. A nil diag discards skipped entries.
func New(sink Sink, opts Options, diag Diagnostics) *Emitter {
	if diag == nil {
		diag = discard{}
	}
	return &Emitter{sink: sink, opts: opts, diag: diag}
}

// EmitDefinitions writes the create and remove functions and returns how many
// objectives were defined.
func (e *Emitter) EmitDefinitions(entries []schema.Entry) (int, error) {
	create, remove := DefinitionLines(entries, e.opts, e.diag)
	if err := e.sink.WriteFunction(CreateFunction, create); err != nil {
		return 0, err
	}
	if err := e.sink.WriteFunction(RemoveFunction, remove); err != nil {
		return 0, err
	}
	return len(create), nil
}

// EmitUpdates writes the update function and returns how many scores it sets.
func (e *Emitter) EmitUpdates(records []stats.Record) (int, error) {
	lines := UpdateLines(records)
	if err := e.sink.WriteFunction(UpdateFunction, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}
