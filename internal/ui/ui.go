package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/papapumpkin/mcscoreboards/internal/ansi"
	"github.com/papapumpkin/mcscoreboards/internal/schema"
	"github.com/papapumpkin/mcscoreboards/internal/stats"
)

// Printer writes command results to out and diagnostics to errOut.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	color   bool
	verbose bool
	styles  styles
}

// New returns a Printer on out and errOut. Color is enabled when errOut is a
// terminal and NO_COLOR is unset.
func New(out, errOut io.Writer) *Printer {
	color := false
	if f, ok := errOut.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) && os.Getenv("NO_COLOR") == ""
	}
	return NewWriters(out, errOut, color)
}

// NewWriters returns a Printer on arbitrary writers.
func NewWriters(out, errOut io.Writer, color bool) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		color:  color,
		styles: newStyles(out, color),
	}
}

// SetVerbose enables per-file detail in diagnostics.
func (p *Printer) SetVerbose(v bool) {
	p.verbose = v
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.errOut, ansi.Wrap(p.color, msg, ansi.Dim))
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.errOut, ansi.Wrap(p.color, "✓ ", ansi.Green, ansi.Bold)+msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.errOut, ansi.Wrap(p.color, "⚠ ", ansi.Yellow, ansi.Bold)+msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.errOut, ansi.Wrap(p.color, "error: ", ansi.Red, ansi.Bold)+msg)
}

// --- Diagnostics ---

// FileSkipped reports a stats directory entry that was not a player file.
// Files of players missing from the whitelist are expected and only shown
// in verbose mode.
func (p *Printer) FileSkipped(path string, reason stats.SkipReason) {
	if reason == stats.SkipNotWhitelisted && !p.verbose {
		return
	}
	p.Info(fmt.Sprintf("skipping %s: %s", path, reason))
}

// PlayerDropped reports a player whose stat file could not be used.
func (p *Printer) PlayerDropped(err *stats.PlayerFileError) {
	p.Warn(err.Error())
	if err.Legacy {
		p.Warn(fmt.Sprintf("%s still has the old stat format, skipping", err.Player))
	}
}

func (p *Printer) PlayerLoaded(rec stats.Record) {
	if !p.verbose {
		return
	}
	p.Info(fmt.Sprintf("loaded %s (%d stats)", rec.Player, rec.Counts.Total()))
}

// EntrySkipped reports a schema entry without a derivable objective name.
func (p *Printer) EntrySkipped(e schema.Entry) {
	p.Warn(fmt.Sprintf("could not derive an objective name for stat %q", e.Stat))
}
