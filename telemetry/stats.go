package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated movement statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Command outcomes during the window
	Applied  int `csv:"applied"`
	Skipped  int `csv:"skipped"`
	Rejected int `csv:"rejected"`
	Disabled int `csv:"disabled"`

	// ATP drawn by base movement costs
	FuelDrawn float64 `csv:"fuel_drawn"`

	// Impulse magnitude distribution over applied commands
	ImpulseMean float64 `csv:"impulse_mean"`
	ImpulseStd  float64 `csv:"impulse_std"`
	ImpulseP10  float64 `csv:"impulse_p10"`
	ImpulseP50  float64 `csv:"impulse_p50"`
	ImpulseP90  float64 `csv:"impulse_p90"`
}

// Window computes the stats for the current window and resets the collector.
func (c *Collector) Window(endTick int32, simTime float64) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStart,
		WindowEndTick:   endTick,
		SimTimeSec:      simTime,
		Applied:         c.applied,
		Skipped:         c.skipped,
		Rejected:        c.rejected,
		Disabled:        c.disabled,
		FuelDrawn:       c.fuel,
	}

	if len(c.impulses) > 0 {
		sort.Float64s(c.impulses)
		stats.ImpulseMean = stat.Mean(c.impulses, nil)
		stats.ImpulseStd = stat.StdDev(c.impulses, nil)
		stats.ImpulseP10 = stat.Quantile(0.10, stat.Empirical, c.impulses, nil)
		stats.ImpulseP50 = stat.Quantile(0.50, stat.Empirical, c.impulses, nil)
		stats.ImpulseP90 = stat.Quantile(0.90, stat.Empirical, c.impulses, nil)
	}

	c.Reset(endTick)
	return stats
}

// LogStats logs window statistics via slog.
func (s WindowStats) LogStats() {
	slog.Info("movement",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"applied", s.Applied,
		"skipped", s.Skipped,
		"rejected", s.Rejected,
		"disabled", s.Disabled,
		"fuel_drawn", s.FuelDrawn,
		"impulse_mean", s.ImpulseMean,
		"impulse_p90", s.ImpulseP90,
	)
}
