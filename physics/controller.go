// Package physics owns the rigid-body side of the simulation. Movement
// control talks to it through the Controller interface and never touches
// body state directly.
package physics

import "github.com/go-gl/mathgl/mgl32"

// Controller receives per-tick movement control commands.
//
// ApplyControl submits the full control triple for an enabled, alive body:
// a world-space impulse, a target orientation, and a rotation speed cap
// (lower cap = faster allowed rotation). DisableControl stops driving a
// body's orientation and thrust; residual velocity is deliberately left to
// decay so dead bodies drift briefly.
type Controller interface {
	ApplyControl(body uint32, impulse mgl32.Vec3, target mgl32.Quat, rotationSpeed float32)
	DisableControl(body uint32)
}
