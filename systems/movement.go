// Package systems contains ECS systems for the simulation.
package systems

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/assert"
	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/physics"
)

// ControlOutcome is the decision the movement applicator reaches for one
// entity in one tick.
type ControlOutcome uint8

const (
	// ControlSkip: body not effectively enabled, nothing written.
	ControlSkip ControlOutcome = iota
	// ControlRejected: a subordinate colony member was scheduled as if it
	// were independent. Logged and skipped; a usage error upstream.
	ControlRejected
	// ControlDisable: dead body, physics-level control is switched off.
	ControlDisable
	// ControlApply: a full control command was computed.
	ControlApply
)

// ControlPlan is the computed result for one entity, ready for submission
// to the physics controller.
type ControlPlan struct {
	Outcome       ControlOutcome
	Body          uint32
	Impulse       mgl32.Vec3
	Target        mgl32.Quat
	RotationSpeed float32
	FuelDrawn     float32 // ATP taken by the base movement cost
}

// MovementCounters tallies command outcomes for telemetry.
type MovementCounters struct {
	Applied  int
	Skipped  int
	Rejected int
	Disabled int
	Fuel     float32
	// ImpulseMagnitudes holds one entry per applied command.
	ImpulseMagnitudes []float32
}

// MovementControlSystem computes and submits one control command per leader
// body per tick: a movement impulse, a target orientation, and a rotation
// speed cap. Subordinate colony members are folded into their leader's
// command and must never be scheduled here on their own.
type MovementControlSystem struct {
	filter ecs.Filter7[
		components.ControlIntent,
		components.CellProperties,
		components.Spatial,
		components.OrganelleContainer,
		components.CompoundBag,
		components.PhysicsHandle,
		components.Health,
	]
	mapper *ecs.Map7[
		components.ControlIntent,
		components.CellProperties,
		components.Spatial,
		components.OrganelleContainer,
		components.CompoundBag,
		components.PhysicsHandle,
		components.Health,
	]
	colonyMap     *ecs.Map1[components.Colony]
	attachmentMap *ecs.Map1[components.ColonyAttachment]
	organelleMap  *ecs.Map1[components.OrganelleContainer]
	compoundMap   *ecs.Map1[components.CompoundBag]
	propsMap      *ecs.Map1[components.CellProperties]

	controller physics.Controller
	counters   MovementCounters

	// Player is the designated player-controlled entity; the cheat
	// multipliers below apply to it alone. A multiplier of 1 means off.
	Player        ecs.Entity
	SpeedCheat    float32
	RotationCheat float32
}

// NewMovementControlSystem creates the system for a world and controller.
func NewMovementControlSystem(w *ecs.World, controller physics.Controller) *MovementControlSystem {
	return &MovementControlSystem{
		filter: *ecs.NewFilter7[
			components.ControlIntent,
			components.CellProperties,
			components.Spatial,
			components.OrganelleContainer,
			components.CompoundBag,
			components.PhysicsHandle,
			components.Health,
		](w),
		mapper: ecs.NewMap7[
			components.ControlIntent,
			components.CellProperties,
			components.Spatial,
			components.OrganelleContainer,
			components.CompoundBag,
			components.PhysicsHandle,
			components.Health,
		](w),
		colonyMap:     ecs.NewMap1[components.Colony](w),
		attachmentMap: ecs.NewMap1[components.ColonyAttachment](w),
		organelleMap:  ecs.NewMap1[components.OrganelleContainer](w),
		compoundMap:   ecs.NewMap1[components.CompoundBag](w),
		propsMap:      ecs.NewMap1[components.CellProperties](w),
		controller:    controller,
		SpeedCheat:    1,
		RotationCheat: 1,
	}
}

// Update runs the applicator serially over every controllable entity.
func (s *MovementControlSystem) Update(w *ecs.World, delta float32) {
	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		intent, props, spatial, organelles, bag, handle, health := query.Get()
		plan := s.plan(e, intent, props, spatial, organelles, bag, handle, health, delta)
		s.Submit(plan)
	}
}

// Entities returns all entities the applicator would consider this tick.
// Used by the parallel scheduler to partition work.
func (s *MovementControlSystem) Entities(buf []ecs.Entity) []ecs.Entity {
	query := s.filter.Query()
	for query.Next() {
		buf = append(buf, query.Entity())
	}
	return buf
}

// PlanEntity computes the control plan for a single entity. It mutates only
// that entity's intent and its own and its colony members' compound bags,
// so distinct leaders can be planned concurrently.
func (s *MovementControlSystem) PlanEntity(e ecs.Entity, delta float32) ControlPlan {
	intent, props, spatial, organelles, bag, handle, health := s.mapper.Get(e)
	return s.plan(e, intent, props, spatial, organelles, bag, handle, health, delta)
}

// Submit hands a plan to the physics controller and tallies counters.
// Must be called from a single goroutine.
func (s *MovementControlSystem) Submit(plan ControlPlan) {
	switch plan.Outcome {
	case ControlSkip:
		s.counters.Skipped++
	case ControlRejected:
		s.counters.Rejected++
	case ControlDisable:
		s.counters.Disabled++
		s.controller.DisableControl(plan.Body)
	case ControlApply:
		s.counters.Applied++
		s.counters.Fuel += plan.FuelDrawn
		s.counters.ImpulseMagnitudes = append(s.counters.ImpulseMagnitudes, plan.Impulse.Len())
		s.controller.ApplyControl(plan.Body, plan.Impulse, plan.Target, plan.RotationSpeed)
	}
}

// TakeCounters returns the accumulated counters and resets them.
func (s *MovementControlSystem) TakeCounters() MovementCounters {
	taken := s.counters
	s.counters = MovementCounters{ImpulseMagnitudes: s.counters.ImpulseMagnitudes[:0]}
	taken.ImpulseMagnitudes = append([]float32(nil), taken.ImpulseMagnitudes...)
	return taken
}

// plan runs the per-entity decision pipeline.
func (s *MovementControlSystem) plan(
	e ecs.Entity,
	intent *components.ControlIntent,
	props *components.CellProperties,
	spatial *components.Spatial,
	organelles *components.OrganelleContainer,
	bag *components.CompoundBag,
	handle *components.PhysicsHandle,
	health *components.Health,
	delta float32,
) ControlPlan {
	switch s.classify(e, handle, health) {
	case ControlSkip:
		return ControlPlan{Outcome: ControlSkip}
	case ControlDisable:
		return ControlPlan{Outcome: ControlDisable, Body: handle.Body}
	case ControlRejected:
		slog.Warn("colony member scheduled for independent movement control",
			"entity", e.ID())
		return ControlPlan{Outcome: ControlRejected}
	}

	assert.That(!handle.Detached, "controlled body must not be detached")

	var colony *components.Colony
	if s.colonyMap.HasAll(e) {
		colony = s.colonyMap.Get(e)
	}

	target := lookOrientation(spatial.Position, intent.LookAtPoint)
	speed := s.rotationSpeed(e, props, colony)
	impulse, fuel := s.movementImpulse(e, intent, props, spatial, organelles, bag, colony, delta)

	return ControlPlan{
		Outcome:       ControlApply,
		Body:          handle.Body,
		Impulse:       impulse,
		Target:        target,
		RotationSpeed: speed,
		FuelDrawn:     fuel,
	}
}

// classify applies the skip rules in order: disabled bodies produce no
// writes at all, dead bodies get their control switched off, and attached
// colony members are a scheduling error.
func (s *MovementControlSystem) classify(e ecs.Entity, handle *components.PhysicsHandle, health *components.Health) ControlOutcome {
	if !handle.Enabled {
		return ControlSkip
	}
	if health.Dead {
		return ControlDisable
	}
	if s.attachmentMap.HasAll(e) {
		return ControlRejected
	}
	return ControlApply
}
