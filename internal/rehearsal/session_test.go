package rehearsal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bandgo/server/internal/band"
	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/scripting"
)

func reachLevel() *data.Level {
	return &data.Level{
		ID:    1,
		Week:  1,
		Title: "First Steps",
		Start: []data.StartEntity{
			{Name: "W1", Section: "winds", X: 4, Y: 9},
		},
		Objective: data.Objective{
			Kind:   data.ObjectiveReach,
			Entity: "W1",
			Target: &data.Coord{X: 16, Y: 9},
		},
	}
}

func newTestSession(t *testing.T, level *data.Level) *Session {
	t.Helper()
	sb := scripting.New(scripting.DefaultStepLimit, zap.NewNop())
	return NewSession(level, sb, nil, 128, zap.NewNop())
}

func TestSessionRunAndPass(t *testing.T) {
	s := newTestSession(t, reachLevel())
	require.Equal(t, "week_1", s.LevelKey())

	res := s.Run("band.step_to(\"W1\", 16, 9, counts=12)\n")
	require.True(t, res.OK, "message: %s", res.Message)

	tl := s.Timeline()
	require.Len(t, tl, 13)
	require.Equal(t, []int{12}, s.Markers())

	// Band parked at index 0: pre-run layout.
	p, err := s.Band().GetPos("W1")
	require.NoError(t, err)
	require.Equal(t, band.Point{X: 4, Y: 9}, p)
	require.False(t, s.ObjectiveMet())

	// Advance to the end of playback, then judge.
	s.Seek(len(tl) - 1)
	require.True(t, s.ObjectiveMet())
}

func TestSessionRunFailureKeepsLayout(t *testing.T) {
	s := newTestSession(t, reachLevel())

	res := s.Run("band.step_to(\"W1\", 16, 9)\nboom(\n")
	require.False(t, res.OK)
	require.Equal(t, scripting.KindParse, res.Kind)
	require.Nil(t, s.Timeline())

	p, err := s.Band().GetPos("W1")
	require.NoError(t, err)
	require.Equal(t, band.Point{X: 4, Y: 9}, p)
}

func TestSessionRerunClearsQueue(t *testing.T) {
	s := newTestSession(t, reachLevel())

	res := s.Run("band.wait(4)\n")
	require.True(t, res.OK)
	require.Len(t, s.Timeline(), 5)

	// Second run must not inherit the first run's actions.
	res = s.Run("band.wait(2)\n")
	require.True(t, res.OK)
	require.Len(t, s.Timeline(), 3)
}

func TestSessionRerunRestartsFromLayout(t *testing.T) {
	s := newTestSession(t, reachLevel())

	res := s.Run("band.step_to(\"W1\", 16, 9, counts=4)\n")
	require.True(t, res.OK)
	s.Seek(len(s.Timeline()) - 1)

	// The next run begins from the level layout, not from (16,9).
	res = s.Run("band.wait(1)\n")
	require.True(t, res.OK)
	require.Equal(t, band.Point{X: 4, Y: 9}, s.Timeline()[0]["W1"])
}

func TestSessionSeekClamps(t *testing.T) {
	s := newTestSession(t, reachLevel())
	res := s.Run("band.step_to(\"W1\", 8, 9, counts=4)\n")
	require.True(t, res.OK)

	s.Seek(999)
	p, err := s.Band().GetPos("W1")
	require.NoError(t, err)
	require.Equal(t, band.Point{X: 8, Y: 9}, p)

	s.Seek(-5)
	p, err = s.Band().GetPos("W1")
	require.NoError(t, err)
	require.Equal(t, band.Point{X: 4, Y: 9}, p)
}

func TestSessionFreePlay(t *testing.T) {
	s := newTestSession(t, nil)
	require.Equal(t, "sandbox", s.LevelKey())
	require.Equal(t, "Objective: Free rehearsal", s.ObjectiveText())

	res := s.Run("band.spawn(\"X\", \"GEN\", 0, 0)\nband.step_to(\"X\", 3, 0, counts=3)\n")
	require.True(t, res.OK)
	require.False(t, s.ObjectiveMet())
	require.Len(t, s.Timeline(), 4)
}
