//go:build debugchecks

package assert

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// unitTolerance is the allowed deviation from unit length.
const unitTolerance = 1e-4

// That panics if the invariant does not hold.
func That(cond bool, msg string) {
	if !cond {
		panic("assert: " + msg)
	}
}

// UnitVec panics if the vector does not have unit length.
func UnitVec(v mgl32.Vec3, msg string) {
	if math.Abs(float64(v.Len())-1) > unitTolerance {
		panic(fmt.Sprintf("assert: %s: |v|=%v, want 1", msg, v.Len()))
	}
}

// UnitQuat panics if the quaternion does not have unit length.
func UnitQuat(q mgl32.Quat, msg string) {
	if math.Abs(float64(q.Len())-1) > unitTolerance {
		panic(fmt.Sprintf("assert: %s: |q|=%v, want 1", msg, q.Len()))
	}
}
