package rehearsal

import (
	"fmt"
	"math"

	"github.com/bandgo/server/internal/band"
	"github.com/bandgo/server/internal/data"
	"github.com/bandgo/server/internal/rules"
)

// arcTolerance is how far off the ideal radius a marcher may stand and
// still count as on the arc.
const arcTolerance = 1.5

// objectiveMet evaluates a level objective against the band's current
// positions. A Lua check, when the level names one and it is loaded,
// takes precedence over the built-in kinds.
func objectiveMet(b *band.Band, obj data.Objective, re *rules.Engine) bool {
	if obj.Check != "" && re != nil && re.HasCheck(obj.Check) {
		return re.Check(obj.Check, obj.Params, b.Snapshot())
	}

	switch obj.Kind {
	case data.ObjectiveReach:
		if obj.Target == nil {
			return false
		}
		p, err := b.GetPos(obj.Entity)
		if err != nil {
			return false
		}
		return p.X == obj.Target.X && p.Y == obj.Target.Y

	case data.ObjectiveLine:
		for i := 0; i < obj.Count; i++ {
			name := fmt.Sprintf("W%d", i+1)
			p, err := b.GetPos(name)
			if err != nil {
				return false
			}
			if p.X != obj.XStart+i*obj.DX || p.Y != obj.Y {
				return false
			}
		}
		return obj.Count > 0

	case data.ObjectiveSyncSwap:
		for _, name := range obj.Names {
			p, err := b.GetPos(name)
			if err != nil {
				return false
			}
			if p.X != obj.TargetX {
				return false
			}
		}
		return len(obj.Names) > 0

	case data.ObjectiveAvoidCollision:
		if obj.Target == nil {
			return false
		}
		p, err := b.GetPos(obj.Entity)
		if err != nil {
			return false
		}
		op, err := b.GetPos(obj.Obstacle)
		if err != nil {
			return false
		}
		if p == op {
			return false
		}
		return p.X == obj.Target.X && p.Y == obj.Target.Y

	case data.ObjectiveArc:
		if obj.Center == nil {
			return false
		}
		for _, name := range obj.Entities {
			p, err := b.GetPos(name)
			if err != nil {
				return false
			}
			dx := float64(p.X - obj.Center.X)
			dy := float64(p.Y - obj.Center.Y)
			if math.Abs(math.Hypot(dx, dy)-obj.Radius) > arcTolerance {
				return false
			}
		}
		return len(obj.Entities) > 0
	}
	return false
}

func objectiveText(obj data.Objective) string {
	switch obj.Kind {
	case data.ObjectiveReach:
		if obj.Target != nil {
			return fmt.Sprintf("Objective: %s to (%d,%d)", obj.Entity, obj.Target.X, obj.Target.Y)
		}
	case data.ObjectiveLine:
		return fmt.Sprintf("Objective: Form line of %d at y=%d", obj.Count, obj.Y)
	case data.ObjectiveSyncSwap:
		return fmt.Sprintf("Objective: Sync swap to x=%d", obj.TargetX)
	case data.ObjectiveAvoidCollision:
		if obj.Target != nil {
			return fmt.Sprintf("Objective: Reach (%d,%d) avoiding %s", obj.Target.X, obj.Target.Y, obj.Obstacle)
		}
	case data.ObjectiveArc:
		if obj.Center != nil {
			return fmt.Sprintf("Objective: Arc radius %g around (%d,%d)", obj.Radius, obj.Center.X, obj.Center.Y)
		}
	}
	return "Objective: Complete the drill"
}
