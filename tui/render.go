package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/sim"
	"github.com/jonwraymond/gridrun/trace"
)

// Cell glyphs.
const (
	glyphEmpty     = "·"
	glyphWall      = "#"
	glyphOpen      = "*"
	glyphCollected = "o"
	glyphLocked    = "x"
)

var playerGlyphs = map[level.Direction]string{
	level.Up:    "^",
	level.Down:  "v",
	level.Left:  "<",
	level.Right: ">",
}

var titleCaser = cases.Title(language.Und)

// Styles used by the viewer.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	gridStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	logStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	busyStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("81"))
)

// RenderGrid draws frame f on a grid of the given size as plain text, one
// line per row.
func RenderGrid(size level.GridSize, f trace.Frame) string {
	cells := make([][]string, size.Rows)
	for y := range cells {
		cells[y] = make([]string, size.Cols)
		for x := range cells[y] {
			cells[y][x] = glyphEmpty
		}
	}
	put := func(p level.Position, glyph string) {
		if size.Contains(p) {
			cells[p.Y][p.X] = glyph
		}
	}
	for _, obj := range f.Objects {
		switch {
		case obj.Kind == level.KindWall:
			put(obj.Position, glyphWall)
		case obj.State == level.StateCollected:
			put(obj.Position, glyphCollected)
		case obj.State == level.StateLocked:
			put(obj.Position, glyphLocked)
		default:
			put(obj.Position, glyphOpen)
		}
	}
	glyph, ok := playerGlyphs[f.PlayerDirection]
	if !ok {
		glyph = "@"
	}
	put(f.PlayerPosition, glyph)

	rows := make([]string, len(cells))
	for y, row := range cells {
		rows[y] = strings.Join(row, " ")
	}
	return strings.Join(rows, "\n")
}

// DirectionLabel returns a display label for d.
func DirectionLabel(d level.Direction) string {
	return titleCaser.String(string(d))
}

// LogLines returns the log pane content of frame f. The terminal error of
// a failed run is styled apart from blocked moves, which read as ordinary
// log lines.
func LogLines(f trace.Frame, terminal bool) []string {
	var lines []string
	if f.Log != nil {
		for _, line := range strings.Split(*f.Log, "\n") {
			if line == sim.HitWallMessage {
				lines = append(lines, blockedStyle.Render(line))
				continue
			}
			lines = append(lines, logStyle.Render(line))
		}
	}
	if terminal && f.Error != nil {
		lines = append(lines, errorStyle.Render("error: "+*f.Error))
	}
	return lines
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := m.level.Title
	if title == "" {
		title = m.level.ID
	}
	if title == "" {
		title = "gridrun"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case m.ctrl.Running():
		b.WriteString(busyStyle.Render("running..."))
		b.WriteString("\n")
	case m.runErr != nil:
		b.WriteString(errorStyle.Render("run failed: " + m.runErr.Error()))
		b.WriteString("\n")
	}

	f, ok := m.ctrl.Frame()
	if !ok {
		b.WriteString(statusStyle.Render("no trace loaded"))
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(gridStyle.Render(RenderGrid(m.level.GridSize, f)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("frame %d/%d  step %d  %s  facing %s  %s",
		m.ctrl.CurrentStep(), m.ctrl.Len()-1, f.Step, f.PlayerPosition,
		DirectionLabel(f.PlayerDirection), m.ctrl.Status())))
	b.WriteString("\n")

	terminal := m.ctrl.AtEnd() && m.ctrl.Failed()
	for _, line := range LogLines(f, terminal) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
