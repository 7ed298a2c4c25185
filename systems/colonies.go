package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
)

// aggregateColony folds member thrust into the leader's force value.
// Members are already orientation-synchronized with the leader this tick
// because control intent comes from a single non-concurrent upstream source.
func (s *MovementControlSystem) aggregateColony(colony *components.Colony, dir mgl32.Vec3, delta float32, force *float32) {
	cfg := config.Cfg()
	n := colony.MemberCount()
	colonyForce := float32(cfg.Colony.ForceMultiplier)

	// Colonies are under-powered relative to member count without this.
	*force *= float32(n) * colonyForce

	// Diminishing returns: the correction converges, so colony speed tops
	// out near (1 - correction) of the naive linear scaling however large
	// the colony grows.
	*force -= *force * float32(cfg.Colony.Correction) * colonySeries(n)

	// Member flagella push with their own ATP and their own orientation
	// offset. Member jets are handled at the movement vector stage instead:
	// they are impulses, not scalar force.
	for i := 1; i < n; i++ {
		member := colony.Members[i]
		organelles := s.organelleMap.Get(member.Entity)
		bag := s.compoundMap.Get(member.Entity)
		props := s.propsMap.Get(member.Entity)
		if organelles == nil || bag == nil || props == nil {
			continue
		}
		for j := range organelles.Flagella {
			*force += organelles.Flagella[j].UseForMovement(dir, bag, member.Offset, props.IsBacteria, delta) * colonyForce
		}
	}
}

// colonySeries returns 1 - 1/2^(n-1): zero for a single body, approaching
// one as membership grows.
func colonySeries(memberCount int) float32 {
	if memberCount < 1 {
		return 0
	}
	return 1 - float32(math.Exp2(-float64(memberCount-1)))
}

// colonyJetImpulse sums the queued jet impulses of every subordinate member.
// The leader's own jets are drained by the caller.
func (s *MovementControlSystem) colonyJetImpulse(colony *components.Colony) mgl32.Vec3 {
	var sum mgl32.Vec3
	for i := 1; i < len(colony.Members); i++ {
		if organelles := s.organelleMap.Get(colony.Members[i].Entity); organelles != nil {
			sum = sum.Add(queuedJetImpulse(organelles))
		}
	}
	return sum
}
