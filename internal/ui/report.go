package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/mcscoreboards/internal/history"
	"github.com/papapumpkin/mcscoreboards/internal/pipeline"
	"github.com/papapumpkin/mcscoreboards/internal/schema"
)

// RunSummary prints a boxed summary of a completed generation.
func (p *Printer) RunSummary(res *pipeline.Result) {
	s := p.styles
	row := func(label, value string) string {
		return s.label.Render(label) + s.value.Render(value)
	}

	lines := []string{
		s.title.Render("Minecraft " + res.Version.Name + " datapack"),
		row("path", res.Layout.Base),
		row("format", strconv.Itoa(res.Version.PackFormat)),
		row("objectives", strconv.Itoa(res.Objectives)),
	}
	if len(res.Scores) > 0 || res.Players > 0 {
		lines = append(lines,
			row("players", strconv.Itoa(res.Players)),
			row("scores", strconv.Itoa(len(res.Scores))),
		)
	}
	lines = append(lines,
		row("functions", strings.Join(res.Functions, ", ")),
		row("took", res.Duration.Round(time.Millisecond).String()),
	)

	fmt.Fprintln(p.out, s.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

// Versions prints the supported versions and their pack formats.
func (p *Printer) Versions(vs []schema.Version) {
	rows := make([][]string, len(vs))
	for i, v := range vs {
		rows[i] = []string{v.Name, strconv.Itoa(v.PackFormat)}
	}
	fmt.Fprint(p.out, p.table([]string{"VERSION", "PACK FORMAT"}, rows, 1))
}

// Runs prints recorded generation runs, newest first.
func (p *Printer) Runs(runs []history.Run) {
	if len(runs) == 0 {
		p.Info("no runs recorded")
		return
	}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.Version,
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.Players),
			strconv.Itoa(r.Scores),
		}
	}
	fmt.Fprint(p.out, p.table([]string{"RUN", "VERSION", "GENERATED", "PLAYERS", "SCORES"}, rows, 3, 4))
}

// Standings prints a leaderboard for one objective.
func (p *Printer) Standings(objective string, standings []history.Standing) {
	if len(standings) == 0 {
		p.Info(fmt.Sprintf("no scores recorded for %s in the latest run", objective))
		return
	}
	fmt.Fprintln(p.out, p.styles.title.Render(objective))
	for _, st := range standings {
		fmt.Fprintln(p.out,
			p.styles.rank.Render(fmt.Sprintf("#%d", st.Rank))+
				p.styles.cell.Render(st.Player)+
				p.styles.value.Render(strconv.FormatInt(st.Value, 10)))
	}
}

// table renders rows under headers with columns padded to their widest cell.
// Columns listed in right are right-aligned.
func (p *Printer) table(headers []string, rows [][]string, right ...int) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	isRight := make(map[int]bool, len(right))
	for _, i := range right {
		isRight[i] = true
	}

	render := func(cells []string, header bool) string {
		var sb strings.Builder
		for i, c := range cells {
			st := p.styles.cell
			if isRight[i] {
				st = p.styles.numeric
			}
			if header {
				st = p.styles.header
			}
			// Width includes the two columns of right padding.
			sb.WriteString(st.Width(widths[i] + 2).Render(c))
		}
		return strings.TrimRight(sb.String(), " ") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(render(headers, true))
	for _, r := range rows {
		sb.WriteString(render(r, false))
	}
	return sb.String()
}
