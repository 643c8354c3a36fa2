// Package tui is the terminal front end for rehearsals: a code editor,
// the field view, and timeline playback with scrubbing. It consumes the
// session's timeline strictly by index; all simulation semantics live
// in internal/band and internal/rehearsal.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances playback by one count.
type TickMsg time.Time

// tickCmd schedules the next playback count.
func tickCmd(step time.Duration) tea.Cmd {
	return tea.Tick(step, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
