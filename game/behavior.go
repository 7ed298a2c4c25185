package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/config"
)

// wanderState holds the roaming target for one microbe. Behavior/AI proper
// is out of scope for the movement core; this driver only produces the
// control intent the core consumes.
type wanderState struct {
	target   mgl32.Vec3
	idleTill int32
	repickAt int32
}

// arriveDistSq is the squared distance at which a wander target counts as
// reached.
const arriveDistSq = 25.0

// updateBehavior sets look-at points and movement directions for every
// alive, independently controlled microbe.
func (g *Game) updateBehavior() {
	cfg := config.Cfg()

	query := g.behaviorFilter.Query()
	for query.Next() {
		e := query.Entity()
		intent, spatial, health := query.Get()

		if health.Dead || g.attachmentMap.HasAll(e) {
			continue
		}

		w := g.wander[e]
		if w == nil {
			w = &wanderState{}
			g.wander[e] = w
		}

		toTarget := w.target.Sub(spatial.Position)
		toTarget[1] = 0
		if g.tick >= w.repickAt || toTarget.Dot(toTarget) < arriveDistSq {
			w.target = mgl32.Vec3{
				g.rng.Float32() * cfg.Derived.WorldW32,
				0,
				g.rng.Float32() * cfg.Derived.WorldD32,
			}
			// Re-pick after at most ~10 seconds even if never reached
			w.repickAt = g.tick + 600
			// Occasionally drift for a moment; jets still fire while idle
			if g.rng.Float32() < 0.1 {
				w.idleTill = g.tick + 60
			}
		}

		intent.LookAtPoint = w.target
		if g.tick < w.idleTill {
			intent.MovementDirection = mgl32.Vec3{}
		} else {
			// Full throttle along local forward; the core clamps magnitude
			intent.MovementDirection = mgl32.Vec3{0, 0, -1}
		}
	}
}
