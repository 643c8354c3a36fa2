package rehearsal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bandgo/server/internal/band"
	"github.com/bandgo/server/internal/data"
)

func TestObjectiveReach(t *testing.T) {
	obj := data.Objective{Kind: data.ObjectiveReach, Entity: "W1", Target: &data.Coord{X: 16, Y: 9}}

	b := band.New()
	b.Spawn("W1", "winds", 16, 9)
	require.True(t, objectiveMet(b, obj, nil))

	b.SetPos("W1", 15, 9)
	require.False(t, objectiveMet(b, obj, nil))

	require.False(t, objectiveMet(band.New(), obj, nil), "missing marcher")
}

func TestObjectiveLine(t *testing.T) {
	obj := data.Objective{Kind: data.ObjectiveLine, Y: 9, XStart: 8, DX: 2, Count: 3}

	b := band.New()
	b.Spawn("W1", "winds", 8, 9)
	b.Spawn("W2", "winds", 10, 9)
	b.Spawn("W3", "winds", 12, 9)
	require.True(t, objectiveMet(b, obj, nil))

	b.SetPos("W2", 10, 8)
	require.False(t, objectiveMet(b, obj, nil))
}

func TestObjectiveSyncSwap(t *testing.T) {
	obj := data.Objective{Kind: data.ObjectiveSyncSwap, Names: []string{"W1", "P1"}, TargetX: 16}

	b := band.New()
	b.Spawn("W1", "winds", 16, 4)
	b.Spawn("P1", "perc", 16, 12)
	require.True(t, objectiveMet(b, obj, nil))

	b.SetPos("P1", 14, 12)
	require.False(t, objectiveMet(b, obj, nil))
}

func TestObjectiveAvoidCollision(t *testing.T) {
	obj := data.Objective{
		Kind:     data.ObjectiveAvoidCollision,
		Entity:   "W1",
		Obstacle: "OB1",
		Target:   &data.Coord{X: 10, Y: 10},
	}

	b := band.New()
	b.Spawn("W1", "winds", 10, 10)
	b.Spawn("OB1", "OBST", 5, 5)
	require.True(t, objectiveMet(b, obj, nil))

	// Standing on the obstacle never passes, even on target.
	b.SetPos("OB1", 10, 10)
	require.False(t, objectiveMet(b, obj, nil))
}

func TestObjectiveArc(t *testing.T) {
	obj := data.Objective{
		Kind:     data.ObjectiveArc,
		Center:   &data.Coord{X: 10, Y: 10},
		Radius:   5,
		Entities: []string{"W1", "W2"},
	}

	b := band.New()
	b.Spawn("W1", "winds", 15, 10) // exactly r
	b.Spawn("W2", "winds", 10, 6)  // r=4, within 1.5
	require.True(t, objectiveMet(b, obj, nil))

	b.SetPos("W2", 10, 3) // r=7, off by 2
	require.False(t, objectiveMet(b, obj, nil))
}

func TestObjectiveEmptyOrUnknownKind(t *testing.T) {
	b := band.New()
	require.False(t, objectiveMet(b, data.Objective{Kind: "confetti"}, nil))
	require.False(t, objectiveMet(b, data.Objective{Kind: data.ObjectiveLine, Count: 0}, nil))
}

func TestObjectiveText(t *testing.T) {
	require.Equal(t, "Objective: W1 to (16,9)",
		objectiveText(data.Objective{Kind: data.ObjectiveReach, Entity: "W1", Target: &data.Coord{X: 16, Y: 9}}))
	require.Equal(t, "Objective: Form line of 5 at y=9",
		objectiveText(data.Objective{Kind: data.ObjectiveLine, Count: 5, Y: 9}))
	require.Equal(t, "Objective: Complete the drill",
		objectiveText(data.Objective{Kind: "confetti"}))
}
