package motor

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgriffes/stride/detect"
)

// grounded returns a controller that has taken one step on the floor,
// so contact state and the coyote flag are current.
func grounded(t *testing.T, src *stubSource) *Controller {
	t.Helper()
	src.snap = floorSnap()
	c := newCtrl(t, src)
	c.Step(dt, cp.Vector{})
	return c
}

func TestTryJumpFromFloor(t *testing.T) {
	src := &stubSource{}
	c := grounded(t, src)
	c.Events().Drain()

	require.True(t, c.TryJump())
	assert.True(t, c.IsJumping())
	assert.False(t, c.IsWallJump())
	assert.Equal(t, 12.0, c.Velocity().Y)

	kinds := eventKinds(c)
	assert.Contains(t, kinds, EventJumping)
	assert.Contains(t, kinds, EventFloorJumping)
	assert.NotContains(t, kinds, EventWallJumping)
}

func TestJumpArcAndNaturalTermination(t *testing.T) {
	src := &stubSource{}
	c := grounded(t, src)
	require.True(t, c.TryJump())

	src.snap = airSnap()
	for i := 0; i < 15; i++ {
		c.Step(dt, cp.Vector{})
	}
	require.True(t, c.IsJumping(), "well inside MaxJumpTime")
	// vy = JumpSpeed + JumpFalloff * elapsed.
	assert.InDelta(t, 12-30*(15*dt), c.Velocity().Y, 1e-6)

	for i := 0; i < 5; i++ {
		c.Step(dt, cp.Vector{})
	}
	assert.False(t, c.IsJumping(), "terminated at MaxJumpTime")
}

func TestCancelJumpMidFlight(t *testing.T) {
	src := &stubSource{}
	c := grounded(t, src)
	require.True(t, c.TryJump())

	src.snap = airSnap()
	for i := 0; i < 5; i++ {
		c.Step(dt, cp.Vector{})
	}
	require.True(t, c.IsJumping())

	c.CancelJump()
	assert.False(t, c.IsJumping())

	// Only gravity acts from here on.
	before := c.Velocity().Y
	c.Step(dt, cp.Vector{})
	assert.InDelta(t, before-20*dt, c.Velocity().Y, 1e-9)
}

func TestJumpForceTerminatedByRoof(t *testing.T) {
	src := &stubSource{}
	c := grounded(t, src)
	require.True(t, c.TryJump())

	snap := airSnap()
	snap.RoofCheck = true
	src.snap = snap

	c.Step(dt, cp.Vector{})
	assert.False(t, c.IsJumping(), "head contact ends the jump")
}

func TestJumpSurvivesRoofOnClimbWall(t *testing.T) {
	src := &stubSource{}
	c := grounded(t, src)
	require.True(t, c.TryJump())

	snap := airSnap()
	snap.RoofCheck = true
	snap.IsFullContactClimb = true
	src.snap = snap

	c.Step(dt, cp.Vector{})
	assert.True(t, c.IsJumping(), "roof overlap on a climbable wall is tolerated")
}

func TestTryJumpRejections(t *testing.T) {
	t.Run("already jumping", func(t *testing.T) {
		c := grounded(t, &stubSource{})
		require.True(t, c.TryJump())
		assert.False(t, c.TryJump())
	})

	t.Run("interrupted", func(t *testing.T) {
		c := grounded(t, &stubSource{})
		c.Interrupt(1)
		assert.False(t, c.TryJump())
	})

	t.Run("overridden", func(t *testing.T) {
		c := grounded(t, &stubSource{})
		c.SetOverride(true)
		assert.False(t, c.TryJump())
	})

	t.Run("roof blocked", func(t *testing.T) {
		src := &stubSource{snap: floorSnap()}
		src.snap.RoofCheck = true
		c := newCtrl(t, src)
		c.Step(dt, cp.Vector{})
		assert.False(t, c.TryJump())
	})

	t.Run("one foot off the edge", func(t *testing.T) {
		src := &stubSource{snap: floorSnap()}
		src.snap.EdgeState = detect.SideLeft
		c := newCtrl(t, src)
		c.Step(dt, cp.Vector{})
		assert.False(t, c.TryJump(), "grounded jump needs both feet engaged")
	})

	t.Run("one foot off but on a stair", func(t *testing.T) {
		src := &stubSource{snap: floorSnap()}
		src.snap.EdgeState = detect.SideLeft
		src.snap.StairState = detect.SideLeft
		c := newCtrl(t, src)
		c.Step(dt, cp.Vector{})
		assert.True(t, c.TryJump(), "stair contact satisfies the footing gate")
	})

	t.Run("airborne without coyote", func(t *testing.T) {
		src := &stubSource{snap: airSnap()}
		c := newCtrl(t, src)
		c.Step(dt, cp.Vector{})
		assert.False(t, c.TryJump(), "never grounded, nothing to coyote from")
	})
}

func TestWallJumpFromClimb(t *testing.T) {
	src := &stubSource{snap: climbSnap(detect.SideRight)}
	c := newCtrl(t, src)
	c.Step(dt, cp.Vector{})
	require.True(t, c.IsClimbing())
	c.Events().Drain()

	require.True(t, c.TryJump(), "climbing is a valid launch state")
	assert.True(t, c.IsJumping())
	assert.True(t, c.IsWallJump())
	assert.False(t, c.IsClimbing())
	assert.Equal(t, -8.0, c.Velocity().X, "impulse away from the climbed side")
	assert.Equal(t, 12.0, c.Velocity().Y)

	kinds := eventKinds(c)
	assert.Contains(t, kinds, EventClimbExited)
	assert.Contains(t, kinds, EventJumping)
	assert.Contains(t, kinds, EventWallJumping)
}

func TestWallJumpImpulseDecays(t *testing.T) {
	src := &stubSource{snap: climbSnap(detect.SideRight)}
	c := newCtrl(t, src)
	c.Step(dt, cp.Vector{})
	require.True(t, c.TryJump())

	src.snap = airSnap()
	c.Step(dt, cp.Vector{})
	// vx = dir * (WallJumpForce + WallJumpFalloff * elapsed).
	assert.InDelta(t, -(8 - 18*dt), c.Velocity().X, 1e-9)

	c.Step(dt, cp.Vector{})
	assert.InDelta(t, -(8 - 18*2*dt), c.Velocity().X, 1e-9)
}

func TestWallJumpRelinquishedByOppositeInput(t *testing.T) {
	src := &stubSource{snap: climbSnap(detect.SideRight)}
	c := newCtrl(t, src)
	c.Step(dt, cp.Vector{})
	require.True(t, c.TryJump())

	src.snap = airSnap()
	// Opposite input before the lock expires changes nothing.
	c.SetXInput(1)
	for i := 0; i < 7; i++ {
		c.Step(dt, cp.Vector{})
	}
	require.True(t, c.IsWallJump(), "still inside the lock window")

	for i := 0; i < 3; i++ {
		c.Step(dt, cp.Vector{})
	}
	assert.False(t, c.IsWallJump(), "lock expired with opposing input")
	assert.True(t, c.IsJumping(), "the vertical jump keeps running")
}

func TestJumpRespectsTimeScale(t *testing.T) {
	src := &stubSource{}
	c := grounded(t, src)
	c.SetTimeScale(0.5)
	require.True(t, c.TryJump())

	src.snap = airSnap()
	for i := 0; i < 25; i++ {
		c.Step(dt, cp.Vector{})
	}
	assert.True(t, c.IsJumping(), "slow motion stretches the jump")
}

func eventKinds(c *Controller) []EventKind {
	events := c.Events().Drain()
	kinds := make([]EventKind, 0, len(events))
	for _, evt := range events {
		kinds = append(kinds, evt.Kind)
	}
	return kinds
}
