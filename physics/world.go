package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/config"
)

// Body is one rigid body in the kinematic world.
type Body struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Velocity mgl32.Vec3
	Mass     float32

	control controlState
}

// controlState holds the most recent movement control command for a body.
type controlState struct {
	active        bool
	target        mgl32.Quat
	rotationSpeed float32
}

// KinematicWorld is a reference Controller implementation: a deterministic
// impulse integrator with linear damping and slerp-limited turning. It
// stands in for a full physics engine in headless runs and tests.
type KinematicWorld struct {
	bodies map[uint32]*Body
	order  []uint32 // stable iteration order for deterministic stepping
	nextID uint32
}

// NewKinematicWorld creates an empty world.
func NewKinematicWorld() *KinematicWorld {
	return &KinematicWorld{
		bodies: make(map[uint32]*Body),
		nextID: 1,
	}
}

// AddBody registers a body and returns its handle.
func (w *KinematicWorld) AddBody(position mgl32.Vec3, mass float32) uint32 {
	if mass <= 0 {
		mass = 1
	}
	id := w.nextID
	w.nextID++
	w.bodies[id] = &Body{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Mass:     mass,
	}
	w.order = append(w.order, id)
	return id
}

// Body returns the body for a handle, or nil if unknown.
func (w *KinematicWorld) Body(id uint32) *Body {
	return w.bodies[id]
}

// ApplyControl applies the impulse immediately and stores the orientation
// target for integration during Step.
func (w *KinematicWorld) ApplyControl(id uint32, impulse mgl32.Vec3, target mgl32.Quat, rotationSpeed float32) {
	b := w.bodies[id]
	if b == nil {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(1 / b.Mass))
	b.control = controlState{
		active:        true,
		target:        target,
		rotationSpeed: rotationSpeed,
	}
}

// DisableControl stops driving a body's orientation. Velocity is kept and
// decays through damping.
func (w *KinematicWorld) DisableControl(id uint32) {
	b := w.bodies[id]
	if b == nil {
		return
	}
	b.control.active = false
}

// Step advances all bodies by dt seconds.
func (w *KinematicWorld) Step(dt float32) {
	cfg := config.Cfg()
	damping := float32(cfg.Physics.LinearDamping)
	turnRate := float32(cfg.Physics.TurnRate)
	maxSpeed := float32(cfg.Physics.MaxSpeed)

	for _, id := range w.order {
		b := w.bodies[id]

		// Velocity cap, then integrate
		speed := b.Velocity.Len()
		if speed > maxSpeed {
			b.Velocity = b.Velocity.Mul(maxSpeed / speed)
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
		b.Velocity = b.Velocity.Mul(damping)

		// Turn toward the commanded orientation. The rotation speed cap
		// divides the turn rate: lower cap = faster rotation.
		if b.control.active {
			speedCap := b.control.rotationSpeed
			if speedCap < 1e-3 {
				speedCap = 1e-3
			}
			t := dt * turnRate / speedCap
			if t > 1 {
				t = 1
			}
			b.Rotation = mgl32.QuatSlerp(b.Rotation, b.control.target, t).Normalize()
		}
	}
}

// Count returns the number of registered bodies.
func (w *KinematicWorld) Count() int {
	return len(w.bodies)
}
