package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mlange-42/ark/ecs"
)

// ColonyMember records one attached body and its orientation offset from
// the leader. Members keep their own compound bags and organelles.
type ColonyMember struct {
	Entity ecs.Entity
	Offset mgl32.Quat // rotation relative to the leader
}

// Colony is held by the leader only. Members[0] is always the leader itself
// with an identity offset. Colonies partition the entity set: two leaders
// never share members, which is what makes per-entity parallel processing
// safe.
type Colony struct {
	Members       []ColonyMember
	RotationSpeed float32 // overrides the leader's own base rotation speed
}

// NewColony returns a colony containing only the leader.
func NewColony(leader ecs.Entity, rotationSpeed float32) Colony {
	return Colony{
		Members:       []ColonyMember{{Entity: leader, Offset: mgl32.QuatIdent()}},
		RotationSpeed: rotationSpeed,
	}
}

// Attach adds a subordinate body with its orientation offset from the leader.
func (c *Colony) Attach(member ecs.Entity, offset mgl32.Quat) {
	c.Members = append(c.Members, ColonyMember{Entity: member, Offset: offset})
}

// MemberCount returns the number of bodies in the colony, leader included.
func (c *Colony) MemberCount() int {
	return len(c.Members)
}

// ColonyAttachment marks a subordinate body and points back to its leader.
// Attached bodies never run top-level movement control themselves; the
// leader's computation folds in their contribution exactly once.
type ColonyAttachment struct {
	Leader ecs.Entity
}
