package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/config"
)

func init() {
	config.MustInit("")
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(Options{Seed: 1, Serial: true})
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestCreateMicrobeRegistersBody(t *testing.T) {
	g := newTestGame(t)

	e := g.CreateMicrobe(MicrobeSpec{
		Position:    mgl32.Vec3{10, 0, 20},
		HexCount:    4,
		BodyEnabled: true,
	})

	if g.Physics().Count() != 1 {
		t.Fatalf("physics bodies = %d, want 1", g.Physics().Count())
	}

	spatial := g.spatialMap.Get(e)
	if spatial.Position != (mgl32.Vec3{10, 0, 20}) {
		t.Errorf("spawn position = %v", spatial.Position)
	}
	if props := g.propsMap.Get(e); props.RotationSpeed <= 0 {
		t.Errorf("rotation speed = %v, want > 0", props.RotationSpeed)
	}
}

func TestCreateMicrobeClampsHexCount(t *testing.T) {
	g := newTestGame(t)

	e := g.CreateMicrobe(MicrobeSpec{HexCount: 0, BodyEnabled: true})
	if hc := g.propsMap.Get(e).HexCount; hc != 1 {
		t.Errorf("hex count = %d, want clamped to 1", hc)
	}
}

func TestCreateColonyWiring(t *testing.T) {
	g := newTestGame(t)

	leader := g.CreateColony(MicrobeSpec{
		Position: mgl32.Vec3{50, 0, 50},
		HexCount: 3,
	}, 4)

	// One live physics body: members ride the leader
	if g.Physics().Count() != 1 {
		t.Fatalf("physics bodies = %d, want 1", g.Physics().Count())
	}

	colony := g.colonyMap.Get(leader)
	if colony == nil {
		t.Fatal("leader has no colony component")
	}
	if colony.MemberCount() != 4 {
		t.Fatalf("member count = %d, want 4", colony.MemberCount())
	}
	if colony.Members[0].Entity != leader {
		t.Error("colony member 0 is not the leader")
	}
	if colony.RotationSpeed <= 0 {
		t.Errorf("colony rotation speed = %v", colony.RotationSpeed)
	}

	for i := 1; i < colony.MemberCount(); i++ {
		member := colony.Members[i].Entity
		attachment := g.attachmentMap.Get(member)
		if attachment == nil {
			t.Fatalf("member %d has no attachment", i)
		}
		if attachment.Leader != leader {
			t.Errorf("member %d attached to wrong leader", i)
		}
	}
}

func TestSpawnPopulation(t *testing.T) {
	g := newTestGame(t)
	g.SpawnPopulation()

	cfg := config.Cfg()
	if got := g.Physics().Count(); got != cfg.Population.Initial {
		t.Errorf("live bodies = %d, want %d (one per spawn, members carried)", got, cfg.Population.Initial)
	}

	// Colony members push the entity count past the spawn count
	entities := g.Movement().Entities(nil)
	if len(entities) < cfg.Population.Initial {
		t.Errorf("entities = %d, want at least %d", len(entities), cfg.Population.Initial)
	}
}

func TestSpawnPositionsInsideWorld(t *testing.T) {
	g := newTestGame(t)
	g.SpawnPopulation()

	cfg := config.Cfg()
	for _, e := range g.Movement().Entities(nil) {
		if g.attachmentMap.HasAll(e) {
			continue // members sit at an offset from their leader
		}
		pos := g.spatialMap.Get(e).Position
		if pos[0] < 0 || pos[0] > cfg.Derived.WorldW32 || pos[2] < 0 || pos[2] > cfg.Derived.WorldD32 {
			t.Errorf("spawn outside world bounds: %v", pos)
		}
	}
}

func TestColonyDisabledMembersDrawNoCommands(t *testing.T) {
	g := newTestGame(t)
	g.CreateColony(MicrobeSpec{Position: mgl32.Vec3{10, 0, 10}, HexCount: 2}, 3)

	g.Step()

	// Disabled member bodies are skipped silently; nothing was rejected
	stats := g.collector.Window(g.Tick(), 0)
	if stats.Rejected != 0 {
		t.Errorf("rejected = %d, want 0", stats.Rejected)
	}
	if stats.Applied != 1 {
		t.Errorf("applied = %d, want 1 (leader only)", stats.Applied)
	}
	if stats.Skipped != 2 {
		t.Errorf("skipped = %d, want 2 (members)", stats.Skipped)
	}
}
