package band

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnAndNamesOrder(t *testing.T) {
	b := New()
	b.Spawn("W1", "winds", 2, 3)
	b.Spawn("P1", "perc", 4, 5)
	b.Spawn("W1", "winds", 9, 9) // respawn keeps slot

	require.Equal(t, []string{"W1", "P1"}, b.Names())

	p, err := b.GetPos("W1")
	require.NoError(t, err)
	require.Equal(t, Point{X: 9, Y: 9}, p)
}

func TestSetPosAutoSpawnsGenerated(t *testing.T) {
	b := New()
	b.SetPos("GHOST", 7, 1)

	e := b.Entity("GHOST")
	require.NotNil(t, e)
	require.Equal(t, SectionGenerated, e.Section)
	require.Equal(t, 7, e.X)
	require.Equal(t, 1, e.Y)

	// Existing marchers keep their section on SetPos.
	b.Spawn("W1", "winds", 0, 0)
	b.SetPos("W1", 3, 3)
	require.Equal(t, "winds", b.Entity("W1").Section)
}

func TestGetPosUnknownFails(t *testing.T) {
	b := New()
	_, err := b.GetPos("NOBODY")
	require.Error(t, err)

	var ue *UnknownEntityError
	require.True(t, errors.As(err, &ue))
	require.Equal(t, "NOBODY", ue.Name)

	// Reads never auto-spawn.
	require.Equal(t, 0, b.Len())
}

func TestIsOccupied(t *testing.T) {
	b := New()
	b.Spawn("W1", "winds", 4, 4)
	require.True(t, b.IsOccupied(4, 4))
	require.False(t, b.IsOccupied(4, 5))
}

func TestStepToCapturesStartPerMarcher(t *testing.T) {
	b := New()
	b.Spawn("A", "winds", 1, 0)
	b.Spawn("B", "perc", 2, 0)

	b.StepTo([]string{"A", "B"}, 5, 5, 3)

	q := b.Queue()
	require.Len(t, q, 2)
	require.Equal(t, Point{X: 1, Y: 0}, q[0].Start)
	require.Equal(t, Point{X: 2, Y: 0}, q[1].Start)
	for _, a := range q {
		require.Equal(t, Point{X: 5, Y: 5}, a.End)
		require.Equal(t, 3, a.Counts)
	}

	// Moving A afterwards must not change the queued start.
	b.SetPos("A", 8, 8)
	require.Equal(t, Point{X: 1, Y: 0}, b.Queue()[0].Start)
}

func TestStepToAutoSpawnsAtOrigin(t *testing.T) {
	b := New()
	b.StepTo([]string{"NEW"}, 3, 3, 2)

	e := b.Entity("NEW")
	require.NotNil(t, e)
	require.Equal(t, SectionGenerated, e.Section)
	require.Equal(t, Point{X: 0, Y: 0}, b.Queue()[0].Start)
}

func TestStepToClampsCounts(t *testing.T) {
	b := New()
	b.Spawn("A", "winds", 0, 0)
	b.StepTo([]string{"A"}, 1, 1, 0)
	require.Equal(t, 1, b.Queue()[0].Counts)
}

func TestWaitAndReset(t *testing.T) {
	b := New()
	b.Wait(4)
	b.Wait(-1)

	q := b.Queue()
	require.Len(t, q, 2)
	require.True(t, q[0].IsWait())
	require.Equal(t, 4, q[0].Counts)
	require.Equal(t, 1, q[1].Counts)
	require.Equal(t, 5, b.QueuedCounts())

	b.ResetActions()
	require.Empty(t, b.Queue())
	require.Equal(t, 0, b.Time())
}

func TestApplySnapshotSpawnsMissing(t *testing.T) {
	b := New()
	b.Spawn("W1", "winds", 0, 0)

	b.ApplySnapshot(Snapshot{
		"W1": {X: 2, Y: 2},
		"P1": {X: 5, Y: 5},
	})

	require.Equal(t, "winds", b.Entity("W1").Section)
	require.Equal(t, 2, b.Entity("W1").X)
	require.Equal(t, SectionGenerated, b.Entity("P1").Section)
	require.Equal(t, Point{X: 5, Y: 5}, b.Snapshot()["P1"])
}
