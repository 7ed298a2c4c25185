// Package telemetry collects movement and performance statistics.
package telemetry

// Collector accumulates per-tick movement outcomes over a stats window.
type Collector struct {
	windowStart int32

	applied  int
	skipped  int
	rejected int
	disabled int
	fuel     float64

	impulses []float64
}

// NewCollector creates a collector starting at the given tick.
func NewCollector(startTick int32) *Collector {
	return &Collector{
		windowStart: startTick,
		impulses:    make([]float64, 0, 1024),
	}
}

// RecordTick folds one tick's movement counters into the window.
func (c *Collector) RecordTick(applied, skipped, rejected, disabled int, fuel float32, impulseMagnitudes []float32) {
	c.applied += applied
	c.skipped += skipped
	c.rejected += rejected
	c.disabled += disabled
	c.fuel += float64(fuel)
	for _, m := range impulseMagnitudes {
		c.impulses = append(c.impulses, float64(m))
	}
}

// Reset clears the window and marks its new start tick.
func (c *Collector) Reset(startTick int32) {
	c.windowStart = startTick
	c.applied = 0
	c.skipped = 0
	c.rejected = 0
	c.disabled = 0
	c.fuel = 0
	c.impulses = c.impulses[:0]
}
