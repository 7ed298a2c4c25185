package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/protozoa/components"
	"github.com/pthm-cable/protozoa/config"
)

// appliedImpulse runs one tick and returns the single applied command.
func (r *testRig) appliedImpulse(t *testing.T) appliedCommand {
	t.Helper()
	r.sys.Update(r.world, testDelta)
	if len(r.ctrl.applied) != 1 {
		t.Fatalf("expected exactly 1 applied command, got %d", len(r.ctrl.applied))
	}
	return r.ctrl.applied[0]
}

func TestSingleCellImpulse(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.props.IsBacteria = true
	r.spawn(opts)

	// (base_force + force_per_hex*5) * baseline * prokaryote_factor
	// = (15 + 15) * 1.0 * 0.6 = 18, membrane movement factor 1.0
	cmd := r.appliedImpulse(t)
	if !vecApproxEq(cmd.impulse, mgl32.Vec3{18, 0, 0}, 1e-3) {
		t.Errorf("impulse = %v, want (18, 0, 0)", cmd.impulse)
	}
}

func TestResourceShortfallHalvesBaseForce(t *testing.T) {
	full := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	full.spawn(opts)

	empty := newTestRig()
	opts = defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.atp = 0
	empty.spawn(opts)

	fullCmd := full.appliedImpulse(t)
	emptyCmd := empty.appliedImpulse(t)

	if !approxEq(emptyCmd.impulse.Len()*2, fullCmd.impulse.Len(), 1e-3) {
		t.Errorf("starved impulse %v is not half of fed impulse %v",
			emptyCmd.impulse.Len(), fullCmd.impulse.Len())
	}
	if fullCmd.impulse.Len() <= 0 {
		t.Fatal("fed impulse is zero")
	}
}

func TestPartialFuelStillHalves(t *testing.T) {
	// Any shortfall at all triggers the same half-force penalty.
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.atp = 0.01 // below the per-tick cost of 5/60
	e := r.spawn(opts)

	cmd := r.appliedImpulse(t)
	if !vecApproxEq(cmd.impulse, mgl32.Vec3{15, 0, 0}, 1e-3) {
		t.Errorf("impulse = %v, want half base (15, 0, 0)", cmd.impulse)
	}
	// The partial fuel is still consumed
	if got := r.compoundMap.Get(e).Amount(components.CompoundATP); got != 0 {
		t.Errorf("leftover ATP = %v, want 0", got)
	}
}

func TestDirectionClampedInPlace(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{3, 0, 4}
	e := r.spawn(opts)

	cmd := r.appliedImpulse(t)

	// The over-length direction is normalized and written back
	intent := r.intentMap.Get(e)
	if !vecApproxEq(intent.MovementDirection, mgl32.Vec3{0.6, 0, 0.8}, 1e-4) {
		t.Errorf("intent direction = %v, want normalized (0.6, 0, 0.8)", intent.MovementDirection)
	}
	want := mgl32.Vec3{0.6, 0, 0.8}.Mul(cmd.impulse.Len())
	if !vecApproxEq(cmd.impulse, want, 1e-3) {
		t.Errorf("impulse %v not parallel to clamped direction", cmd.impulse)
	}
}

func TestVerticalComponentZeroed(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 7, 0}
	e := r.spawn(opts)

	cmd := r.appliedImpulse(t)
	if cmd.impulse[1] != 0 {
		t.Errorf("impulse has vertical component: %v", cmd.impulse)
	}
	if got := r.intentMap.Get(e).MovementDirection[1]; got != 0 {
		t.Errorf("intent vertical component = %v, want 0", got)
	}
}

func TestZeroIntentNoJetsProducesZeroImpulse(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{}
	e := r.spawn(opts)

	atpBefore := r.compoundMap.Get(e).Amount(components.CompoundATP)
	cmd := r.appliedImpulse(t)

	if cmd.impulse != (mgl32.Vec3{}) {
		t.Errorf("impulse = %v, want zero", cmd.impulse)
	}
	// A command is still submitted so the orientation target keeps updating
	if !approxEq(cmd.target.Len(), 1, 1e-4) {
		t.Errorf("target not unit: %v", cmd.target)
	}
	if got := r.compoundMap.Get(e).Amount(components.CompoundATP); got != atpBefore {
		t.Errorf("idle body drew ATP: %v -> %v", atpBefore, got)
	}
}

func TestJetFiresWithoutIntent(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{}
	opts.organelles.Jets = []components.MucocystJet{{
		Direction: mgl32.Vec3{0, 0, -1},
		Queued:    mgl32.Vec3{0, 0, -4},
	}}
	r.spawn(opts)

	cmd := r.appliedImpulse(t)

	// Identity body rotation, so body-local is world-local here
	if !vecApproxEq(cmd.impulse, mgl32.Vec3{0, 0, -4}, 1e-4) {
		t.Errorf("impulse = %v, want queued jet (0, 0, -4)", cmd.impulse)
	}

	// The queue is drained; a second tick fires nothing
	r.ctrl.applied = nil
	cmd = r.appliedImpulse(t)
	if cmd.impulse != (mgl32.Vec3{}) {
		t.Errorf("second tick impulse = %v, want zero", cmd.impulse)
	}
}

func TestFlagellumAddsAlignedThrust(t *testing.T) {
	plain := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	plain.spawn(opts)

	boosted := newTestRig()
	opts = defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.organelles.Flagella = []components.Flagellum{{
		Direction: mgl32.Vec3{1, 0, 0},
		Strength:  1,
	}}
	boosted.spawn(opts)

	plainCmd := plain.appliedImpulse(t)
	boostedCmd := boosted.appliedImpulse(t)

	// Full alignment, full ATP: + flagellum_force * strength = 12
	want := plainCmd.impulse.Len() + float32(config.Cfg().Organelles.FlagellumForce)
	if !approxEq(boostedCmd.impulse.Len(), want, 1e-3) {
		t.Errorf("boosted impulse = %v, want %v", boostedCmd.impulse.Len(), want)
	}
}

func TestFlagellumIgnoresOpposedDirection(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.organelles.Flagella = []components.Flagellum{{
		Direction: mgl32.Vec3{-1, 0, 0}, // pushes backwards
		Strength:  1,
	}}
	r.spawn(opts)

	cmd := r.appliedImpulse(t)
	if !vecApproxEq(cmd.impulse, mgl32.Vec3{30, 0, 0}, 1e-3) {
		t.Errorf("impulse = %v, want bare base force (30, 0, 0)", cmd.impulse)
	}
}

func TestSlimeImpedesMovement(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.intent.SlowedBySlime = true
	r.spawn(opts)

	cmd := r.appliedImpulse(t)
	want := 30 / float32(config.Cfg().Movement.SlimeImpedance)
	if !approxEq(cmd.impulse.Len(), want, 1e-3) {
		t.Errorf("slimed impulse = %v, want %v", cmd.impulse.Len(), want)
	}
}

func TestEngulfSlowsMovement(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	opts.intent.State = components.StateEngulf
	r.spawn(opts)

	cmd := r.appliedImpulse(t)
	want := 30 * float32(config.Cfg().Movement.EngulfMultiplier)
	if !approxEq(cmd.impulse.Len(), want, 1e-3) {
		t.Errorf("engulf impulse = %v, want %v", cmd.impulse.Len(), want)
	}
}

func TestSpeedCheatOnlyPlayer(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{1, 0, 0}
	player := r.spawn(opts)
	r.spawn(opts)

	r.sys.Player = player
	r.sys.SpeedCheat = 3

	r.sys.Update(r.world, testDelta)
	if len(r.ctrl.applied) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(r.ctrl.applied))
	}

	var mags []float32
	for _, cmd := range r.ctrl.applied {
		mags = append(mags, cmd.impulse.Len())
	}
	ratio := mags[0] / mags[1]
	if ratio < 1 {
		ratio = 1 / ratio
	}
	if !approxEq(ratio, 3, 1e-3) {
		t.Errorf("impulse magnitudes %v, want one 3x the other", mags)
	}
}

func TestImpulseRotatedToWorldSpace(t *testing.T) {
	r := newTestRig()
	opts := defaultOpts()
	opts.intent.MovementDirection = mgl32.Vec3{0, 0, -1}
	e := r.spawn(opts)

	// Face the body along +X: local -Z maps to world +X
	r.spatialMap.Get(e).Rotation = mgl32.QuatRotate(-mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	cmd := r.appliedImpulse(t)
	if !vecApproxEq(cmd.impulse.Normalize(), mgl32.Vec3{1, 0, 0}, 1e-3) {
		t.Errorf("world impulse direction = %v, want +X", cmd.impulse.Normalize())
	}
}
