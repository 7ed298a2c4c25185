package game

import (
	"github.com/pthm-cable/protozoa/config"
	"github.com/pthm-cable/protozoa/telemetry"
)

// Step advances the simulation by one tick.
func (g *Game) Step() {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32

	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseBehavior)
	g.updateBehavior()

	g.perf.StartPhase(telemetry.PhaseSecretion)
	g.secretion.Update(g.world, dt)

	g.perf.StartPhase(telemetry.PhaseMovement)
	g.updateMovement(dt)

	g.perf.StartPhase(telemetry.PhasePhysics)
	g.physicsWorld.Step(dt)
	g.syncTransforms()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.updateTelemetry()

	g.perf.EndTick()
	g.tick++
}

// syncTransforms copies physics body transforms back into Spatial
// components, then places attached colony members relative to their leader.
func (g *Game) syncTransforms() {
	query := g.syncFilter.Query()
	for query.Next() {
		spatial, handle := query.Get()
		if !handle.Enabled {
			continue
		}
		if b := g.physicsWorld.Body(handle.Body); b != nil {
			spatial.Position = b.Position
			spatial.Rotation = b.Rotation
		}
	}

	// Members ride the leader's body rigidly
	colonyQuery := g.colonyFilter.Query()
	for colonyQuery.Next() {
		colony, leaderSpatial := colonyQuery.Get()
		for i := 1; i < len(colony.Members); i++ {
			member := colony.Members[i]
			memberSpatial := g.spatialMap.Get(member.Entity)
			if memberSpatial == nil {
				continue
			}
			memberSpatial.Rotation = leaderSpatial.Rotation.Mul(member.Offset)
			memberSpatial.Position = leaderSpatial.Position.Add(
				leaderSpatial.Rotation.Rotate(member.Offset.Rotate(memberAnchor)))
		}
	}
}

// updateTelemetry folds this tick's counters into the stats window and
// flushes the window when it is full.
func (g *Game) updateTelemetry() {
	counters := g.movement.TakeCounters()
	g.collector.RecordTick(
		counters.Applied, counters.Skipped, counters.Rejected, counters.Disabled,
		counters.Fuel, counters.ImpulseMagnitudes,
	)

	if g.statsWindowTicks > 0 && g.tick > 0 && g.tick%g.statsWindowTicks == 0 {
		cfg := config.Cfg()
		simTime := float64(g.tick) * cfg.Physics.DT

		stats := g.collector.Window(g.tick, simTime)
		perfStats := g.perf.Stats()

		if g.opts.LogStats {
			stats.LogStats()
			perfStats.LogStats()
		}
		if err := g.output.WriteMovement(stats); err != nil {
			Logf("telemetry: writing movement stats: %v", err)
		}
		if err := g.output.WritePerf(perfStats.ToCSV(g.tick)); err != nil {
			Logf("telemetry: writing perf stats: %v", err)
		}
	}
}
