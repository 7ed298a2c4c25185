// Package game wires the ECS world, the movement control core, the physics
// world, and telemetry into a runnable simulation.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
	"github.com/pthm-cable/protozoa/physics"
	"github.com/pthm-cable/protozoa/systems"
	"github.com/pthm-cable/protozoa/telemetry"
)

// Options configures a new Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Serial         bool // disable the parallel planner
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	// Entity mapper for the full microbe component set
	microbeMapper *ecs.Map7[
		components.ControlIntent,
		components.CellProperties,
		components.Spatial,
		components.OrganelleContainer,
		components.CompoundBag,
		components.PhysicsHandle,
		components.Health,
	]

	// Filters for per-tick phases
	behaviorFilter *ecs.Filter3[components.ControlIntent, components.Spatial, components.Health]
	syncFilter     *ecs.Filter2[components.Spatial, components.PhysicsHandle]
	colonyFilter   *ecs.Filter2[components.Colony, components.Spatial]
	stateFilter    *ecs.Filter2[components.Spatial, components.Health]

	// Individual component mappers for lookups
	spatialMap    *ecs.Map1[components.Spatial]
	colonyMap     *ecs.Map1[components.Colony]
	attachmentMap *ecs.Map1[components.ColonyAttachment]
	propsMap      *ecs.Map1[components.CellProperties]

	// Collaborators
	physicsWorld *physics.KinematicWorld
	movement     *systems.MovementControlSystem
	secretion    *systems.SecretionSystem
	registry     *systems.SystemRegistry

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	// Parallel planning state
	parallel *parallelState

	// Behavior state per entity (game-side, not an ECS component)
	wander map[ecs.Entity]*wanderState

	tick             int32
	statsWindowTicks int32
	opts             Options
}

// New creates a game with an empty world.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	physicsWorld := physics.NewKinematicWorld()

	windowSec := opts.StatsWindowSec
	if windowSec <= 0 {
		windowSec = cfg.Telemetry.StatsWindow
	}
	windowTicks := int32(windowSec / cfg.Physics.DT)
	if windowTicks < 1 {
		windowTicks = 1
	}

	g := &Game{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		microbeMapper: ecs.NewMap7[
			components.ControlIntent,
			components.CellProperties,
			components.Spatial,
			components.OrganelleContainer,
			components.CompoundBag,
			components.PhysicsHandle,
			components.Health,
		](world),
		behaviorFilter: ecs.NewFilter3[components.ControlIntent, components.Spatial, components.Health](world),
		syncFilter:     ecs.NewFilter2[components.Spatial, components.PhysicsHandle](world),
		colonyFilter:   ecs.NewFilter2[components.Colony, components.Spatial](world),
		stateFilter:    ecs.NewFilter2[components.Spatial, components.Health](world),
		spatialMap:     ecs.NewMap1[components.Spatial](world),
		colonyMap:      ecs.NewMap1[components.Colony](world),
		attachmentMap:  ecs.NewMap1[components.ColonyAttachment](world),
		propsMap:       ecs.NewMap1[components.CellProperties](world),
		physicsWorld:   physicsWorld,
		movement:       systems.NewMovementControlSystem(world, physicsWorld),
		secretion:      systems.NewSecretionSystem(world),
		registry:       systems.NewSystemRegistry(),
		collector:      telemetry.NewCollector(0),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:         output,
		parallel:       newParallelState(),
		wander:         make(map[ecs.Entity]*wanderState),
		statsWindowTicks: windowTicks,
		opts:             opts,
	}

	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	return g, nil
}

// World exposes the ECS world, mainly for tests and tooling.
func (g *Game) World() *ecs.World {
	return g.world
}

// Physics exposes the reference physics world.
func (g *Game) Physics() *physics.KinematicWorld {
	return g.physicsWorld
}

// Movement exposes the movement control system (player/cheat knobs).
func (g *Game) Movement() *systems.MovementControlSystem {
	return g.movement
}

// Tick returns the current tick number.
func (g *Game) Tick() int32 {
	return g.tick
}

// Close stops workers and flushes output files.
func (g *Game) Close() {
	g.parallel.stopWorkers()
	g.output.Close()
}
