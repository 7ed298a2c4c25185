package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/protozoa/assert"
	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
)

// Orientation is planar: look directions live in the XZ plane and bodies
// face along -Z in local space.
var (
	worldUp      = mgl32.Vec3{0, 1, 0}
	worldForward = mgl32.Vec3{0, 0, -1}
)

// lookEpsilonSq is the squared length below which a look direction is
// treated as degenerate.
const lookEpsilonSq = 1e-10

// lookOrientation returns the unit quaternion facing from position toward
// lookAt in the horizontal plane. When the two points coincide the body
// faces worldForward, so the orientation is always well defined.
func lookOrientation(position, lookAt mgl32.Vec3) mgl32.Quat {
	dir := lookAt.Sub(position)
	dir[1] = 0

	if dir.Dot(dir) > lookEpsilonSq {
		dir = dir.Normalize()
	} else {
		dir = worldForward
	}
	assert.UnitVec(dir, "look direction")

	// The look-at convention yields an inverted result without this flip.
	dir = dir.Mul(-1)

	right := worldUp.Cross(dir).Normalize()
	newUp := dir.Cross(right).Normalize()

	q := mgl32.Mat4ToQuat(basisMat4(right, newUp, dir))
	assert.UnitQuat(q, "target orientation")
	return q
}

// basisMat4 builds a rotation matrix from three orthonormal column vectors.
func basisMat4(x, y, z mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
}

// maxRotationSpeed bounds how sluggish a body can get; beyond this caps
// stop growing with size.
const maxRotationSpeed = 10

// RotationSpeedFor derives a body's base rotation speed cap from its size.
// Bigger bodies turn slower (higher cap).
func RotationSpeedFor(hexCount int32) float32 {
	cfg := config.Cfg()
	speed := float32(cfg.Rotation.BaseSpeed) + float32(cfg.Rotation.SpeedPerHex)*float32(hexCount)
	return clampFloat(speed, float32(cfg.Rotation.MinSpeed), maxRotationSpeed)
}

// ColonyRotationSpeed derives the shared rotation speed cap for a colony,
// starting from the leader's own cap.
func ColonyRotationSpeed(leaderSpeed float32, memberCount int) float32 {
	cfg := config.Cfg()
	speed := leaderSpeed + float32(cfg.Rotation.ColonyPerMember)*float32(memberCount-1)
	return clampFloat(speed, float32(cfg.Rotation.MinSpeed), maxRotationSpeed)
}

// rotationSpeed picks the rotation speed cap for an entity: the colony
// value when one is present, otherwise the body's own, divided by the
// debug rotation cheat for the designated player entity only.
func (s *MovementControlSystem) rotationSpeed(e ecs.Entity, props *components.CellProperties, colony *components.Colony) float32 {
	speed := props.RotationSpeed
	if colony != nil && colony.RotationSpeed > 0 {
		speed = colony.RotationSpeed
	}
	if s.RotationCheat > 1 && e == s.Player {
		speed /= s.RotationCheat
	}
	return speed
}
