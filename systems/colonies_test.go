package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
)

func TestColonySeries(t *testing.T) {
	cases := map[int]float32{
		0: 0,
		1: 0,
		2: 0.5,
		3: 0.75,
		5: 0.9375,
	}
	for n, want := range cases {
		if got := colonySeries(n); !approxEq(got, want, 1e-6) {
			t.Errorf("colonySeries(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestColonyForceScaling(t *testing.T) {
	lone := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	lone.spawn(opts)
	loneCmd := lone.appliedImpulse(t)

	for _, n := range []int{2, 3, 5} {
		r := newTestRig()
		leader := r.spawn(opts)
		colony := components.NewColony(leader, 2)
		for i := 1; i < n; i++ {
			m := r.spawn(defaultOpts())
			r.attachmentMap.Add(m, &components.ColonyAttachment{Leader: leader})
			colony.Attach(m, mgl32.QuatIdent())
		}
		r.colonyMap.Add(leader, &colony)

		cmd := r.appliedImpulse(t)

		cfg := config.Cfg()
		scale := float32(n) * float32(cfg.Colony.ForceMultiplier)
		scale -= scale * float32(cfg.Colony.Correction) * colonySeries(n)
		want := loneCmd.impulse.Len() * scale
		if !approxEq(cmd.impulse.Len(), want, 1e-2) {
			t.Errorf("n=%d: colony impulse = %v, want %v", n, cmd.impulse.Len(), want)
		}
	}
}

func TestColonyMemberFlagellumUsesOwnFuel(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	leader := r.spawn(opts)

	memberOpts := defaultOpts()
	memberOpts.organelles.Flagella = []components.Flagellum{{
		Direction: mgl32.Vec3{1, 0, 0},
		Strength:  1,
	}}
	member := r.spawn(memberOpts)
	r.attachmentMap.Add(member, &components.ColonyAttachment{Leader: leader})

	colony := components.NewColony(leader, 2)
	colony.Attach(member, mgl32.QuatIdent())
	r.colonyMap.Add(leader, &colony)

	leaderBefore := r.compoundMap.Get(leader).Amount(components.CompoundATP)
	memberBefore := r.compoundMap.Get(member).Amount(components.CompoundATP)

	cmd := r.appliedImpulse(t)

	cfg := config.Cfg()
	baseCost := float32(cfg.Movement.BaseCost) * 5 * testDelta
	flagCost := float32(cfg.Organelles.FlagellumCost) * testDelta

	leaderDrawn := leaderBefore - r.compoundMap.Get(leader).Amount(components.CompoundATP)
	memberDrawn := memberBefore - r.compoundMap.Get(member).Amount(components.CompoundATP)
	if !approxEq(leaderDrawn, baseCost, 1e-4) {
		t.Errorf("leader ATP drawn = %v, want base cost %v only", leaderDrawn, baseCost)
	}
	if !approxEq(memberDrawn, flagCost, 1e-4) {
		t.Errorf("member ATP drawn = %v, want flagellum cost %v", memberDrawn, flagCost)
	}

	// 30 scaled by 2 * 1.6 minus the 0.15 * 0.5 correction, plus the member
	// flagellum's 12 * 1.6
	scale := 2 * float32(cfg.Colony.ForceMultiplier)
	scale -= scale * float32(cfg.Colony.Correction) * colonySeries(2)
	want := 30*scale + float32(cfg.Organelles.FlagellumForce)*float32(cfg.Colony.ForceMultiplier)
	if !approxEq(cmd.impulse.Len(), want, 1e-2) {
		t.Errorf("impulse = %v, want %v", cmd.impulse.Len(), want)
	}
}

func TestColonyMemberOffsetGatesFlagellum(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	leader := r.spawn(opts)

	memberOpts := defaultOpts()
	memberOpts.organelles.Flagella = []components.Flagellum{{
		Direction: mgl32.Vec3{1, 0, 0},
		Strength:  1,
	}}
	member := r.spawn(memberOpts)
	r.attachmentMap.Add(member, &components.ColonyAttachment{Leader: leader})

	// Rotated half a turn the member's flagellum pushes against the intent
	colony := components.NewColony(leader, 2)
	colony.Attach(member, mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 1, 0}))
	r.colonyMap.Add(leader, &colony)

	memberBefore := r.compoundMap.Get(member).Amount(components.CompoundATP)
	cmd := r.appliedImpulse(t)

	cfg := config.Cfg()
	scale := 2 * float32(cfg.Colony.ForceMultiplier)
	scale -= scale * float32(cfg.Colony.Correction) * colonySeries(2)
	if want := 30 * scale; !approxEq(cmd.impulse.Len(), want, 1e-2) {
		t.Errorf("impulse = %v, want %v without the opposed flagellum", cmd.impulse.Len(), want)
	}
	if got := r.compoundMap.Get(member).Amount(components.CompoundATP); got != memberBefore {
		t.Errorf("opposed flagellum drew ATP: %v -> %v", memberBefore, got)
	}
}

func TestColonyMemberJetAddsToImpulse(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	leader := r.spawn(opts)

	memberOpts := defaultOpts()
	memberOpts.organelles.Jets = []components.MucocystJet{{
		Direction: mgl32.Vec3{0, 0, -1},
		Queued:    mgl32.Vec3{0, 0, -2},
	}}
	member := r.spawn(memberOpts)
	r.attachmentMap.Add(member, &components.ColonyAttachment{Leader: leader})

	colony := components.NewColony(leader, 2)
	colony.Attach(member, mgl32.QuatIdent())
	r.colonyMap.Add(leader, &colony)

	cmd := r.appliedImpulse(t)

	// The jet impulse rides on top of the directed thrust, not scaled by
	// colony force
	if !approxEq(cmd.impulse[2], -2, 1e-3) {
		t.Errorf("impulse z = %v, want member jet -2", cmd.impulse[2])
	}
	if cmd.impulse[0] <= 30 {
		t.Errorf("impulse x = %v, expected colony-scaled thrust", cmd.impulse[0])
	}

	// Drained after the tick
	if q := r.organelleMap.Get(member).Jets[0].Queued; q != (mgl32.Vec3{}) {
		t.Errorf("member jet queue not drained: %v", q)
	}
}
