package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
)

// SecretionSystem pre-funds jet organelles and regenerates ATP. Jets trade
// stored mucilage for queued impulse every tick; movement control later
// drains the queue without paying anything, which is why jets fire even
// with zero movement intent.
type SecretionSystem struct {
	filter ecs.Filter2[components.OrganelleContainer, components.CompoundBag]
}

// NewSecretionSystem creates the system for a world.
func NewSecretionSystem(w *ecs.World) *SecretionSystem {
	return &SecretionSystem{
		filter: *ecs.NewFilter2[components.OrganelleContainer, components.CompoundBag](w),
	}
}

// Update refills jet queues and applies passive ATP regeneration.
func (s *SecretionSystem) Update(w *ecs.World, delta float32) {
	cfg := config.Cfg()
	mucilageRate := float32(cfg.Organelles.JetMucilagePerSecond)
	jetImpulse := float32(cfg.Organelles.JetImpulse)
	atpRate := float32(cfg.Compounds.ATPPerSecond)

	query := s.filter.Query()
	for query.Next() {
		organelles, bag := query.Get()

		bag.Add(components.CompoundATP, atpRate*delta)

		for i := range organelles.Jets {
			jet := &organelles.Jets[i]
			got := bag.Take(components.CompoundMucilage, mucilageRate*delta)
			if got <= 0 {
				continue
			}
			jet.QueueImpulse(jet.Direction.Mul(jetImpulse * got))
		}
	}
}
