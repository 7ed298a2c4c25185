// Package components defines ECS components for the simulation.
package components

import "github.com/go-gl/mathgl/mgl32"

// Spatial holds an entity's world transform.
// Written back from the physics world each tick; read-only to movement control.
type Spatial struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// NewSpatial returns a transform at the given position with identity rotation.
func NewSpatial(position mgl32.Vec3) Spatial {
	return Spatial{Position: position, Rotation: mgl32.QuatIdent()}
}
