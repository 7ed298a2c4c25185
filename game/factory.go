package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
	"github.com/pthm-cable/protozoa/systems"
)

// memberAnchor is where an attached member sits in leader-local space
// before its own orientation offset is applied.
var memberAnchor = mgl32.Vec3{0, 0, 4}

// MicrobeSpec describes a microbe to create.
type MicrobeSpec struct {
	Position   mgl32.Vec3
	Membrane   uint8
	Rigidity   float32
	HexCount   int32
	IsBacteria bool
	Flagella   int
	Jets       int

	// BodyEnabled controls whether the microbe gets its own live physics
	// body. Attached colony members don't: the leader's body carries them.
	BodyEnabled bool
}

// CreateMicrobe spawns one microbe entity from a spec.
func (g *Game) CreateMicrobe(spec MicrobeSpec) ecs.Entity {
	cfg := config.Cfg()

	if spec.HexCount < 1 {
		spec.HexCount = 1
	}

	intent := components.ControlIntent{
		LookAtPoint: spec.Position.Add(mgl32.Vec3{0, 0, -1}),
	}
	props := components.CellProperties{
		Membrane:      spec.Membrane,
		Rigidity:      spec.Rigidity,
		HexCount:      spec.HexCount,
		IsBacteria:    spec.IsBacteria,
		RotationSpeed: systems.RotationSpeedFor(spec.HexCount),
	}
	spatial := components.NewSpatial(spec.Position)
	bag := components.NewCompoundBag(
		float32(cfg.Compounds.Capacity),
		float32(cfg.Compounds.InitialATP),
		float32(cfg.Compounds.InitialMucilage),
	)
	organelles := g.rollOrganelles(spec.Flagella, spec.Jets)
	health := components.Health{Current: 100, Max: 100}

	var handle components.PhysicsHandle
	if spec.BodyEnabled {
		handle = components.PhysicsHandle{
			Body:    g.physicsWorld.AddBody(spec.Position, float32(spec.HexCount)),
			Enabled: true,
		}
	}

	return g.microbeMapper.NewEntity(&intent, &props, &spatial, &organelles, &bag, &handle, &health)
}

// CreateColony spawns a leader plus memberCount-1 attached members arranged
// around it, each with its own orientation offset, organelles and compounds.
func (g *Game) CreateColony(leaderSpec MicrobeSpec, memberCount int) ecs.Entity {
	if memberCount < 1 {
		memberCount = 1
	}

	leaderSpec.BodyEnabled = true
	leader := g.CreateMicrobe(leaderSpec)

	leaderProps := g.propsMap.Get(leader)
	colony := components.NewColony(leader, systems.ColonyRotationSpeed(leaderProps.RotationSpeed, memberCount))

	for i := 1; i < memberCount; i++ {
		angle := float32(i) / float32(memberCount) * 2 * math.Pi
		offset := mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})

		memberSpec := leaderSpec
		memberSpec.BodyEnabled = false
		memberSpec.Position = leaderSpec.Position.Add(offset.Rotate(memberAnchor))
		member := g.CreateMicrobe(memberSpec)

		colony.Attach(member, offset)
		g.attachmentMap.Add(member, &components.ColonyAttachment{Leader: leader})
	}

	g.colonyMap.Add(leader, &colony)
	return leader
}

// SpawnPopulation fills the world per the population config.
func (g *Game) SpawnPopulation() {
	cfg := config.Cfg()

	for i := 0; i < cfg.Population.Initial; i++ {
		spec := g.rollSpec()
		if g.rng.Float64() < cfg.Population.ColonyChance && cfg.Population.MaxColony > 1 {
			members := 2 + g.rng.Intn(cfg.Population.MaxColony-1)
			g.CreateColony(spec, members)
		} else {
			spec.BodyEnabled = true
			g.CreateMicrobe(spec)
		}
	}

	Logf("Spawned %d microbes (seed %d)", cfg.Population.Initial, g.opts.Seed)
}

// rollSpec produces a randomized microbe spec within world bounds.
func (g *Game) rollSpec() MicrobeSpec {
	cfg := config.Cfg()
	return MicrobeSpec{
		Position: mgl32.Vec3{
			g.rng.Float32() * cfg.Derived.WorldW32,
			0,
			g.rng.Float32() * cfg.Derived.WorldD32,
		},
		Membrane:   uint8(g.rng.Intn(len(cfg.Membranes))),
		Rigidity:   g.rng.Float32() * 0.6,
		HexCount:   int32(1 + g.rng.Intn(12)),
		IsBacteria: g.rng.Float64() < 0.4,
		Flagella:   g.rng.Intn(3),
		Jets:       g.rng.Intn(2),
	}
}

// rollOrganelles builds a thrust organelle set. Flagella push mostly
// forward with some lateral spread; jets expel backward-ish.
func (g *Game) rollOrganelles(flagella, jets int) components.OrganelleContainer {
	organelles := components.OrganelleContainer{}

	for i := 0; i < flagella; i++ {
		spread := (g.rng.Float32() - 0.5) * 0.8
		dir := mgl32.Vec3{float32(math.Sin(float64(spread))), 0, -float32(math.Cos(float64(spread)))}
		organelles.Flagella = append(organelles.Flagella, components.Flagellum{
			Direction: dir.Normalize(),
			Strength:  0.5 + g.rng.Float32(),
		})
	}

	for i := 0; i < jets; i++ {
		angle := g.rng.Float64() * 2 * math.Pi
		organelles.Jets = append(organelles.Jets, components.MucocystJet{
			Direction: mgl32.Vec3{float32(math.Sin(angle)), 0, float32(math.Cos(angle))},
		})
	}

	return organelles
}
