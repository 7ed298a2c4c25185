//go:build !debugchecks

// Package assert provides invariant checks for development builds.
// Without the debugchecks build tag every check compiles to a no-op, so
// the movement hot path carries no per-tick normalization overhead.
package assert

import "github.com/go-gl/mathgl/mgl32"

// That checks an arbitrary invariant.
func That(bool, string) {}

// UnitVec checks that a vector has unit length.
func UnitVec(mgl32.Vec3, string) {}

// UnitQuat checks that a quaternion has unit length.
func UnitQuat(mgl32.Quat, string) {}
