// Package pipeline runs one datapack generation: schema load, optional stat
// aggregation, command emission and the datapack write.
package pipeline

import (
	"errors"
	"time"

	"github.com/papapumpkin/mcscoreboards/internal/datapack"
	"github.com/papapumpkin/mcscoreboards/internal/emit"
	"github.com/papapumpkin/mcscoreboards/internal/schema"
	"github.com/papapumpkin/mcscoreboards/internal/stats"
	"github.com/papapumpkin/mcscoreboards/internal/telemetry"
)

// ErrWhitelistRequired indicates a stats directory was given without a whitelist.
var ErrWhitelistRequired = errors.New("a whitelist is required when a stats directory is given; pass --whitelist (-w)")

// Options selects what a run generates and where.
type Options struct {
	Version      string
	OutputDir    string
	StatsDir     string // Empty skips the update function.
	Whitelist    string
	FullCriteria bool
}

// Reporter receives every non-fatal diagnostic of a run.
type Reporter interface {
	stats.Diagnostics
	emit.Diagnostics
}

// Result describes a completed run.
type Result struct {
	Version    schema.Version
	Layout     datapack.Layout
	Objectives int
	Players    int
	Scores     []emit.Score
	Functions  []string
	Duration   time.Duration
}

// Pipeline holds the collaborators shared by every run.
type Pipeline struct {
	loader *schema.Loader
	report Reporter
	events *telemetry.Emitter
	now    func() time.Time
}

// New creates a Pipeline. report may be nil; events may be nil.
func New(loader *schema.Loader, report Reporter, events *telemetry.Emitter) *Pipeline {
	if loader == nil {
		loader = schema.NewLoader(nil)
	}
	return &Pipeline{
		loader: loader,
		report: &tee{next: report, events: events},
		events: events,
		now:    time.Now,
	}
}

// Run performs one generation. Every fatal check happens before the output
// directory is touched; the datapack only replaces a previous one once all
// of its files are written.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	start := p.now()
	_ = p.events.Emit(telemetry.Event{Kind: telemetry.KindRunStart, Version: opts.Version, Path: opts.OutputDir})

	res, err := p.run(opts)
	if err != nil {
		_ = p.events.Emit(telemetry.Event{Kind: telemetry.KindRunFailed, Version: opts.Version, Data: err.Error()})
		return nil, err
	}

	res.Duration = p.now().Sub(start)
	_ = p.events.Emit(telemetry.Event{
		Kind:    telemetry.KindRunDone,
		Version: opts.Version,
		Data: map[string]int{
			"objectives": res.Objectives,
			"players":    res.Players,
			"scores":     len(res.Scores),
		},
	})
	return res, nil
}

func (p *Pipeline) run(opts Options) (*Result, error) {
	version, err := schema.LookupVersion(opts.Version)
	if err != nil {
		return nil, err
	}
	entries, err := p.loader.Load(opts.Version)
	if err != nil {
		return nil, err
	}
	_ = p.events.Emit(telemetry.Event{Kind: telemetry.KindSchemaLoaded, Version: opts.Version, Data: map[string]int{"entries": len(entries)}})

	var records []stats.Record
	withStats := opts.StatsDir != ""
	if withStats {
		if opts.Whitelist == "" {
			return nil, ErrWhitelistRequired
		}
		records, err = stats.NewAggregator(p.report).Aggregate(opts.Whitelist, opts.StatsDir)
		if err != nil {
			return nil, err
		}
	}

	build, err := datapack.Begin(opts.OutputDir, version)
	if err != nil {
		return nil, err
	}
	defer build.Abort()

	em := emit.New(build, emit.Options{FullCriteria: opts.FullCriteria}, p.report)
	objectives, err := em.EmitDefinitions(entries)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Version:    version,
		Layout:     build.Layout,
		Objectives: objectives,
		Players:    len(records),
	}
	if withStats {
		if _, err := em.EmitUpdates(records); err != nil {
			return nil, err
		}
		res.Scores = emit.Flatten(records)
	}

	if err := build.Commit(); err != nil {
		return nil, err
	}
	res.Functions = build.Written()
	_ = p.events.Emit(telemetry.Event{Kind: telemetry.KindDatapackWritten, Version: opts.Version, Path: build.Layout.Base, Data: res.Functions})
	return res, nil
}

// tee forwards diagnostics to the reporter and records them as events.
type tee struct {
	next   Reporter
	events *telemetry.Emitter
}

func (t *tee) FileSkipped(path string, reason stats.SkipReason) {
	if t.next != nil {
		t.next.FileSkipped(path, reason)
	}
	_ = t.events.Emit(telemetry.Event{Kind: telemetry.KindFileSkipped, Path: path, Data: reason.String()})
}

func (t *tee) PlayerDropped(err *stats.PlayerFileError) {
	if t.next != nil {
		t.next.PlayerDropped(err)
	}
	_ = t.events.Emit(telemetry.Event{
		Kind:   telemetry.KindPlayerDropped,
		Player: err.Player,
		Path:   err.Path,
		Data:   map[string]any{"error": err.Err.Error(), "legacy": err.Legacy},
	})
}

func (t *tee) PlayerLoaded(rec stats.Record) {
	if t.next != nil {
		t.next.PlayerLoaded(rec)
	}
	_ = t.events.Emit(telemetry.Event{Kind: telemetry.KindPlayerLoaded, Player: rec.Player, Data: map[string]int{"stats": rec.Counts.Total()}})
}

func (t *tee) EntrySkipped(e schema.Entry) {
	if t.next != nil {
		t.next.EntrySkipped(e)
	}
	_ = t.events.Emit(telemetry.Event{Kind: telemetry.KindEntrySkipped, Data: e.Stat})
}
