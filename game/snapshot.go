package game

import (
	"github.com/pthm-cable/protozoa/stream"
)

// Snapshot captures the observable world state for streaming.
func (g *Game) Snapshot() stream.WorldSnapshot {
	snapshot := stream.WorldSnapshot{Tick: g.tick}

	query := g.stateFilter.Query()
	for query.Next() {
		e := query.Entity()
		spatial, health := query.Get()

		rot := spatial.Rotation
		snapshot.Microbes = append(snapshot.Microbes, stream.MicrobeSnapshot{
			ID:       uint32(e.ID()),
			Position: [3]float32{spatial.Position[0], spatial.Position[1], spatial.Position[2]},
			Rotation: [4]float32{rot.W, rot.V[0], rot.V[1], rot.V[2]},
			Colony:   g.colonyMap.HasAll(e),
			Dead:     health.Dead,
		})
	}

	return snapshot
}
