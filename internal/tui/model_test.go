package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bandgo/server/internal/config"
	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/rehearsal"
	"github.com/bandgo/server/internal/scripting"
)

func testModel(t *testing.T, level *data.Level) Model {
	t.Helper()
	log := zap.NewNop()
	sess := rehearsal.NewSession(level, scripting.New(0, log), nil, 64, log)
	starter := ""
	if level != nil {
		starter = level.StarterCode
	}
	return NewModel(sess, starter, config.Default(), nil, log)
}

func reachLevel() *data.Level {
	return &data.Level{
		Week:        1,
		Title:       "First Steps",
		Start:       []data.StartEntity{{Name: "W1", Section: "WINDS", X: 4, Y: 9}},
		Objective:   data.Objective{Kind: data.ObjectiveReach, Entity: "W1", Target: &data.Coord{X: 8, Y: 9}},
		StarterCode: "band.step_to(\"W1\", 8, 9, 4)\n",
	}
}

func TestRunStartsPlayback(t *testing.T) {
	m := testModel(t, reachLevel())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)

	require.True(t, m.playing)
	require.NotNil(t, cmd, "playback needs a tick scheduled")
	require.Empty(t, m.errMsg)
	require.Len(t, m.session.Timeline(), 5)
}

func TestRunSurfacesScriptErrors(t *testing.T) {
	m := testModel(t, reachLevel())
	m.editor.SetValue("x = 1\nprint(y)\n")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)

	require.False(t, m.playing)
	require.Equal(t, 2, m.errLine)
	require.Contains(t, m.errMsg, `name "y" is not defined`)
	require.Contains(t, m.View(), "line 2")
}

func TestPlaybackJudgesAtFinalCount(t *testing.T) {
	m := testModel(t, reachLevel())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	for i := 0; i < 10; i++ {
		next, _ = m.Update(TickMsg{})
		m = next.(Model)
	}

	require.False(t, m.playing)
	require.True(t, m.pass)
	p, err := m.session.Band().GetPos("W1")
	require.NoError(t, err)
	require.Equal(t, 8, p.X)
	require.Equal(t, 9, p.Y)
}

func TestScrubSeeksWithinTimeline(t *testing.T) {
	m := testModel(t, reachLevel())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	m.playing = false
	m.evalOnEnd = false

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	require.True(t, m.scrubFocus)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	require.Equal(t, 0, m.idx, "seek clamps at the first count")

	for i := 0; i < 20; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
		m = next.(Model)
	}
	require.Equal(t, len(m.session.Timeline())-1, m.idx)
}

func TestViewRendersFieldAndScrub(t *testing.T) {
	m := testModel(t, reachLevel())
	out := m.View()
	require.Contains(t, out, "WEEK 1: First Steps")
	require.Contains(t, out, "run to build a timeline")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	out = m.View()
	require.Contains(t, out, "SET 0/4")
	require.True(t, strings.Contains(out, "W"), "marcher glyph on the field")
}
