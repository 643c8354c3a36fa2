package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field dimensions in grid squares, matching the level coordinate
// space.
const (
	fieldW = 24
	fieldH = 16
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
	fieldBG    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	toastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	sectionColors = map[string]lipgloss.Style{
		"WINDS": lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		"PERC":  lipgloss.NewStyle().Foreground(lipgloss.Color("147")),
		"BRASS": lipgloss.NewStyle().Foreground(lipgloss.Color("210")),
		"GUARD": lipgloss.NewStyle().Foreground(lipgloss.Color("177")),
		"OBST":  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
	genStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.headerLine()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render("CODE\n"+m.editor.View()),
		paneStyle.Render("FIELD\n"+m.fieldView()),
	)

	lines := []string{
		headerStyle.Render(header),
		body,
		m.session.ObjectiveText(),
		m.scrubView(),
	}
	if m.errMsg != "" {
		msg := m.errMsg
		if m.errLine > 0 {
			msg = fmt.Sprintf("line %d: %s", m.errLine, msg)
		}
		lines = append(lines, errStyle.Render(msg))
	} else if m.pass {
		lines = append(lines, passStyle.Render(m.toast))
	} else if m.toast != "" {
		lines = append(lines, toastStyle.Render(m.toast))
	}
	lines = append(lines, helpStyle.Render(
		"ctrl+r run · ctrl+e reset · ctrl+h hint · tab focus · space play · ←/→ scrub · esc quit"))

	return strings.Join(lines, "\n")
}

func (m Model) headerLine() string {
	title := "SANDBOX"
	if lv := m.session.Level; lv != nil {
		title = fmt.Sprintf("WEEK %d: %s", lv.Week, lv.Title)
	}
	if m.store != nil && m.store.Slot != nil {
		title += fmt.Sprintf("  ·  PP %d", m.store.Slot.PridePoints)
	}
	return title
}

// fieldView draws the yard grid with one rune per square.
func (m Model) fieldView() string {
	grid := make([][]string, fieldH)
	dot := fieldBG.Render("·")
	for y := range grid {
		grid[y] = make([]string, fieldW)
		for x := range grid[y] {
			grid[y][x] = dot
		}
	}

	for _, name := range m.session.Band().Names() {
		e := m.session.Band().Entity(name)
		if e == nil || e.X < 0 || e.X >= fieldW || e.Y < 0 || e.Y >= fieldH {
			continue
		}
		style, ok := sectionColors[e.Section]
		if !ok {
			style = genStyle
		}
		glyph := "?"
		if name != "" {
			glyph = strings.ToUpper(name[:1])
		}
		grid[e.Y][e.X] = style.Render(glyph)
	}

	rows := make([]string, fieldH)
	for y := range grid {
		rows[y] = strings.Join(grid[y], " ")
	}
	return strings.Join(rows, "\n")
}

// scrubView renders the count bar with action-end markers.
func (m Model) scrubView() string {
	tl := m.session.Timeline()
	if len(tl) == 0 {
		return "COUNTS  (run to build a timeline)"
	}
	total := len(tl) - 1
	const width = 48

	cells := make([]byte, width)
	for i := range cells {
		cells[i] = '-'
	}
	for _, mark := range m.session.Markers() {
		if mark > total {
			break
		}
		p := mark * (width - 1) / max(1, total)
		cells[p] = '|'
	}
	cursor := m.idx * (width - 1) / max(1, total)
	cells[cursor] = '>'

	mode := "paused"
	if m.playing {
		mode = "playing"
	}
	return fmt.Sprintf("COUNTS [%s] SET %d/%d (%s)", string(cells), m.idx, total, mode)
}
