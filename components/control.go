package components

import "github.com/go-gl/mathgl/mgl32"

// MicrobeState is the behavior mode a microbe is currently in.
type MicrobeState uint8

const (
	StateNormal MicrobeState = iota
	StateBinding
	StateEngulf
)

// ControlIntent carries the desired movement produced upstream by AI or
// player input. MovementDirection is expressed in body-local space; the
// movement core clamps it to unit length and zeroes its vertical component
// in place. LookAtPoint is never modified here.
type ControlIntent struct {
	LookAtPoint       mgl32.Vec3
	MovementDirection mgl32.Vec3
	State             MicrobeState
	SlowedBySlime     bool
}

// Health tracks vitality. Movement control stops steering dead bodies but
// leaves residual velocity to the physics world so corpses drift briefly.
type Health struct {
	Current float32
	Max     float32
	Dead    bool
}

// PhysicsHandle is the opaque link to a body owned by the physics world.
type PhysicsHandle struct {
	Body     uint32
	Enabled  bool
	Detached bool // must never be set while under movement control
}
