package game

import (
	"fmt"
	"io"
	"time"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogSummary prints a human-readable world and perf summary.
func (g *Game) LogSummary() {
	g.logWorldState()
	g.logPerfStats()
}

// logPerfStats logs the perf breakdown in human-readable form.
func (g *Game) logPerfStats() {
	stats := g.perf.Stats()
	Logf("=== Perf @ Tick %d ===", g.tick)
	Logf("Avg step time: %s (%d ticks/s)",
		stats.AvgTickDuration.Round(time.Microsecond), int(stats.TicksPerSecond))

	for _, id := range g.registry.IDs() {
		avg, ok := stats.PhaseAvg[id]
		if !ok {
			continue
		}
		Logf("  %-18s %10s  %5.1f%%",
			g.registry.GetName(id), avg.Round(time.Microsecond), stats.PhasePct[id])
	}
	Logf("")
}

// logWorldState logs the current population state.
func (g *Game) logWorldState() {
	var alive, dead, leaders, members int

	query := g.stateFilter.Query()
	for query.Next() {
		e := query.Entity()
		_, health := query.Get()

		if health.Dead {
			dead++
			continue
		}
		alive++
		if g.colonyMap.HasAll(e) {
			leaders++
		}
		if g.attachmentMap.HasAll(e) {
			members++
		}
	}

	Logf("=== Tick %d ===", g.tick)
	Logf("Microbes: %d alive, %d dead", alive, dead)
	Logf("Colonies: %d leaders, %d attached members", leaders, members)
	Logf("")
}
