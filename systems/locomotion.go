package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
)

// movementImpulse computes the world-space impulse for one leader body.
// It mutates the intent's movement direction (clamp, vertical zeroing) and
// debits compound bags; nothing else is written. The second return value is
// the ATP drawn by the base movement cost, for telemetry.
func (s *MovementControlSystem) movementImpulse(
	e ecs.Entity,
	intent *components.ControlIntent,
	props *components.CellProperties,
	spatial *components.Spatial,
	organelles *components.OrganelleContainer,
	bag *components.CompoundBag,
	colony *components.Colony,
	delta float32,
) (mgl32.Vec3, float32) {
	cfg := config.Cfg()

	// Movement is planar
	intent.MovementDirection[1] = 0
	dir := intent.MovementDirection

	// Jets fire regardless of intent; with no intent everything else is skipped.
	if dir == (mgl32.Vec3{}) {
		impulse := queuedJetImpulse(organelles)
		if colony != nil {
			impulse = impulse.Add(s.colonyJetImpulse(colony))
		}
		if impulse == (mgl32.Vec3{}) {
			return mgl32.Vec3{}, 0
		}
		return spatial.Rotation.Rotate(impulse), 0
	}

	// Diagonal input must not outrun straight input.
	if dir.Dot(dir) > 1 {
		dir = dir.Normalize()
		intent.MovementDirection = dir
	}

	force := baseMovementForce(props)

	// ATP gating: a shortfall halves the base force outright rather than
	// scaling it. That binary penalty is a fixed contract.
	cost := float32(cfg.Movement.BaseCost) * float32(props.HexCount) * dir.Len() * delta
	fuel := bag.Take(components.CompoundATP, cost)
	if fuel < cost {
		force *= 0.5
	}

	for i := range organelles.Flagella {
		force += organelles.Flagella[i].UseForMovement(dir, bag, mgl32.QuatIdent(), props.IsBacteria, delta)
	}

	membrane := cfg.MembraneAt(props.Membrane)
	force *= float32(membrane.MovementFactor) - props.Rigidity*float32(cfg.Movement.RigidityMobility)

	if colony != nil {
		s.aggregateColony(colony, dir, delta, &force)
	}

	if intent.SlowedBySlime {
		force /= float32(cfg.Movement.SlimeImpedance)
	}
	if intent.State == components.StateEngulf {
		force *= float32(cfg.Movement.EngulfMultiplier)
	}
	if s.SpeedCheat > 1 && e == s.Player {
		force *= s.SpeedCheat
	}

	movement := dir.Mul(force)
	movement = movement.Add(queuedJetImpulse(organelles))
	if colony != nil {
		movement = movement.Add(s.colonyJetImpulse(colony))
	}

	// Intent is body-local; the physics world wants world space.
	return spatial.Rotation.Rotate(movement), fuel
}

// baseMovementForce derives the raw thrust a body produces before membrane
// scaling and modifiers: it grows with body size, shrinks with membrane
// rigidity, and scales with the membrane's baseline and body plan.
func baseMovementForce(props *components.CellProperties) float32 {
	cfg := config.Cfg()
	membrane := cfg.MembraneAt(props.Membrane)

	force := (float32(cfg.Movement.BaseForce) + float32(cfg.Movement.ForcePerHex)*float32(props.HexCount)) *
		float32(membrane.Baseline)
	force /= 1 + props.Rigidity*float32(cfg.Movement.RigidityForceDivisor)
	if props.IsBacteria {
		force *= float32(cfg.Movement.ProkaryoteFactor)
	}
	return force
}

// queuedJetImpulse drains every jet on a body and sums their impulses.
func queuedJetImpulse(organelles *components.OrganelleContainer) mgl32.Vec3 {
	var sum mgl32.Vec3
	for i := range organelles.Jets {
		sum = sum.Add(organelles.Jets[i].ConsumeQueuedForce())
	}
	return sum
}
