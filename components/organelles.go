package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/config"
)

// Flagellum is a direction-dependent thrust organelle. It only contributes
// while the body is trying to move roughly along its push direction, and it
// pays for that thrust from the owning body's ATP as it is used.
type Flagellum struct {
	Direction mgl32.Vec3 // unit push direction, body-local
	Strength  float32
}

// UseForMovement returns this flagellum's force contribution for the given
// body-local movement direction, drawing ATP from the owning body's bag.
// offset is the owning body's orientation relative to the colony leader
// (identity for a lone cell). Thrust scales with alignment, and with the
// fraction of the ATP cost that could actually be paid.
func (f *Flagellum) UseForMovement(dir mgl32.Vec3, bag *CompoundBag, offset mgl32.Quat, isBacteria bool, delta float32) float32 {
	push := offset.Rotate(f.Direction)
	align := push.Dot(dir)
	if align <= 0 {
		return 0
	}

	cfg := config.Cfg()
	cost := float32(cfg.Organelles.FlagellumCost) * f.Strength * align * delta
	fraction := float32(1)
	if cost > 0 {
		fraction = bag.Take(CompoundATP, cost) / cost
	}

	force := float32(cfg.Organelles.FlagellumForce) * f.Strength * align * fraction
	if isBacteria {
		force *= float32(cfg.Organelles.ProkaryoteFlagellumDrop)
	}
	return force
}

// MucocystJet is a direction-independent impulse organelle. Its impulse is
// queued and paid for by the secretion system ahead of time; movement
// control only drains the queue, so jets fire with or without intent.
type MucocystJet struct {
	Direction mgl32.Vec3 // unit expulsion direction, body-local
	Queued    mgl32.Vec3 // impulse accumulated since last consume
}

// QueueImpulse adds a pre-funded impulse to the jet's queue.
func (j *MucocystJet) QueueImpulse(impulse mgl32.Vec3) {
	j.Queued = j.Queued.Add(impulse)
}

// ConsumeQueuedForce drains and returns the queued impulse.
func (j *MucocystJet) ConsumeQueuedForce() mgl32.Vec3 {
	impulse := j.Queued
	j.Queued = mgl32.Vec3{}
	return impulse
}

// OrganelleContainer owns the thrust organelles of one body.
type OrganelleContainer struct {
	Flagella []Flagellum
	Jets     []MucocystJet
}
