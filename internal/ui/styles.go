package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // headings, borders
	colorAccent  = lipgloss.Color("#FFD700") // ranks
	colorSuccess = lipgloss.Color("#00E676") // values
	colorMuted   = lipgloss.Color("#8C8C8C") // labels
)

type styles struct {
	box     lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	header  lipgloss.Style
	rank    lipgloss.Style
	cell    lipgloss.Style
	numeric lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		label:   r.NewStyle().Foreground(colorMuted).Width(12),
		value:   r.NewStyle().Foreground(colorSuccess),
		header:  r.NewStyle().Bold(true).Foreground(colorPrimary).PaddingRight(2),
		rank:    r.NewStyle().Foreground(colorAccent).Width(5),
		cell:    r.NewStyle().PaddingRight(2),
		numeric: r.NewStyle().Align(lipgloss.Right).PaddingRight(2),
	}
}
