package motor

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/mgriffes/stride/common"
	"github.com/mgriffes/stride/detect"
	"github.com/mgriffes/stride/tuning"
)

// ContactSource supplies the per-step contact snapshot and slope
// tangents. detect.Detector implements it; tests script it.
type ContactSource interface {
	Probe(center cp.Vector) detect.Snapshot
	SlopeDirection(x float64) cp.Vector
}

// jumpTask is the running jump process. It resumes once per step and
// carries its own elapsed time so it respects the time scale.
type jumpTask struct {
	active  bool
	elapsed float64
	wallDir float64
}

// Controller is the character movement state machine. It owns velocity
// for the duration of a step; the caller integrates position from it
// and feeds the new position back into the next Step.
type Controller struct {
	cfg    *tuning.Character
	source ContactSource
	timers detect.Timers
	events EventQueue

	vel  cp.Vector
	snap detect.Snapshot

	xRaw, yRaw     float64
	xInput, yInput float64
	lastX          float64

	isJumping  bool
	isWallJump bool
	isClimbing bool
	climbSide  detect.Side
	canCoyote  bool
	jump       jumpTask

	interruptLeft float64
	override      bool
	dead          bool
	timeScale     float64
}

// New builds a controller. Both collaborators are required; a character
// without its tuning record or contact source cannot simulate.
func New(cfg *tuning.Character, source ContactSource) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("motor: tuning record is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("motor: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("motor: contact source is required")
	}
	return &Controller{
		cfg:       cfg,
		source:    source,
		timeScale: 1,
	}, nil
}

// SetXInput stores the raw horizontal axis. It is sign-clamped at step
// time.
func (c *Controller) SetXInput(raw float64) { c.xRaw = raw }

// SetYInput stores the raw vertical axis.
func (c *Controller) SetYInput(raw float64) { c.yRaw = raw }

// XInput is the clamped horizontal input used by the last step.
func (c *Controller) XInput() float64 { return c.xInput }

// YInput is the clamped vertical input used by the last step.
func (c *Controller) YInput() float64 { return c.yInput }

// LastX is the most recent nonzero horizontal input, kept for facing.
func (c *Controller) LastX() float64 { return c.lastX }

// Velocity is the controller-owned velocity. External integrators read
// it; only the controller writes it.
func (c *Controller) Velocity() cp.Vector { return c.vel }

// Snapshot is the contact snapshot from the last step.
func (c *Controller) Snapshot() detect.Snapshot { return c.snap }

// GroundState is the surface classification from the last step.
func (c *Controller) GroundState() detect.Ground { return c.snap.Ground }

func (c *Controller) IsJumping() bool  { return c.isJumping }
func (c *Controller) IsWallJump() bool { return c.isWallJump }
func (c *Controller) IsClimbing() bool { return c.isClimbing }

// Events returns the per-step transition queue. The caller drains it
// after each Step.
func (c *Controller) Events() *EventQueue { return &c.events }

// SetTimeScale scales every subsequent dt, including the interrupt
// timer and the jump process.
func (c *Controller) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// SetDead marks the character dead. Input reads as zero until cleared.
func (c *Controller) SetDead(dead bool) { c.dead = dead }

// SetOverride hands velocity ownership to an external ability. While
// set, the controller keeps probing and timing but performs no
// movement. Engaging it cancels any running jump.
func (c *Controller) SetOverride(on bool) {
	c.override = on
	if on {
		c.stopJump()
	}
}

// Interrupt suspends all movement processing for the given scaled
// duration. A new interrupt replaces a running one, and any jump is
// cancelled immediately.
func (c *Controller) Interrupt(seconds float64) {
	if seconds <= 0 {
		return
	}
	c.interruptLeft = seconds
	c.stopJump()
}

// CancelJump terminates the jump process immediately, whatever its
// elapsed time.
func (c *Controller) CancelJump() { c.stopJump() }

// Activate resets the character for (re)spawn: velocity zeroed,
// override, interrupt, and mode flags cleared.
func (c *Controller) Activate() {
	c.vel = cp.Vector{}
	c.override = false
	c.interruptLeft = 0
	c.isClimbing = false
	c.climbSide = detect.SideNone
	c.canCoyote = false
	c.stopJump()
	c.timers.Reset()
}

// Step advances the state machine by dt with the character's box
// centered at pos. Contact probing, floor edge events, and the ground
// timers run unconditionally; movement is skipped while interrupted or
// overridden.
func (c *Controller) Step(dt float64, pos cp.Vector) {
	dt *= c.timeScale

	c.snap = c.source.Probe(pos)
	if c.snap.Floored {
		c.events.Push(Event{Kind: EventFloored})
	}
	if c.snap.FloorExited {
		c.events.Push(Event{Kind: EventFloorExited})
	}
	c.timers.Advance(dt, c.snap.Ground == detect.GroundFloor)

	if c.interruptLeft > 0 {
		c.interruptLeft -= dt
		return
	}
	if c.override {
		return
	}

	c.captureInput()
	c.updateCoyote()
	c.walk(dt)
	c.climb(dt)
	c.advanceJump(dt)
	c.applyGravity(dt)
}

func (c *Controller) captureInput() {
	c.xInput = common.Sign(c.xRaw)
	c.yInput = common.Sign(c.yRaw)
	if c.dead {
		c.xInput = 0
		c.yInput = 0
	}
	if c.xInput != 0 {
		c.lastX = c.xInput
	}
}

// updateCoyote runs every step, including while climbing or jumping, so
// the grace window is always current.
func (c *Controller) updateCoyote() {
	if c.snap.Ground == detect.GroundFloor && !c.isJumping && !c.snap.WallCheck {
		c.canCoyote = true
	}
	if c.timers.Airborne() > c.cfg.CoyoteTime {
		c.canCoyote = false
	}
}

func (c *Controller) walk(dt float64) {
	if c.isClimbing {
		return
	}

	dir := c.xInput
	onFloor := c.snap.Ground == detect.GroundFloor
	onSlope := onFloor && c.snap.StairState != detect.SideNone

	accel := c.cfg.Acceleration
	slowdown := c.cfg.Friction
	if onSlope {
		slowdown = 0
	}
	if !onFloor {
		slowdown = c.cfg.Drag
		if c.cfg.ApexControl != 0 && math.Abs(c.vel.Y) < c.cfg.ApexThreshold {
			accel = c.cfg.ApexControl
		} else if c.cfg.AirControl != 0 {
			accel = c.cfg.AirControl
		}
	}

	// Hard stop against a flush wall in the direction of travel.
	if ws := c.snap.WallState.Sign(); ws != 0 && c.snap.IsFullContactWall && ws == common.Sign(c.vel.X) {
		c.vel.X = 0
		dir = 0
	}

	switch {
	case onSlope && dir != 0 && !c.isJumping:
		// Glue to the slope tangent at top speed instead of integrating.
		c.vel = c.source.SlopeDirection(dir).Normalize().Mult(c.cfg.TopSpeed)
	case dir != 0:
		c.vel.X = common.Clamp(c.vel.X+dir*accel*dt, -c.cfg.TopSpeed, c.cfg.TopSpeed)
	default:
		c.vel.X = common.Clamp(c.vel.X*slowdown, -c.cfg.TopSpeed, c.cfg.TopSpeed)
		if math.Abs(c.vel.X) < c.cfg.FloorSpeedGate {
			c.vel.X = 0
		}
	}
}

func (c *Controller) climb(dt float64) {
	if !c.isClimbing {
		c.tryEnterClimb()
		if !c.isClimbing {
			return
		}
	}

	side := c.climbSide
	if c.snap.ClimbState == detect.SideBoth || c.snap.ClimbState == detect.SideNone ||
		(c.xInput != 0 && c.xInput == -side.Sign()) {
		c.exitClimb()
		return
	}

	c.vel.X = 0
	switch {
	case c.yInput < 0:
		c.vel.Y += c.cfg.Gravity * dt
		if c.vel.Y < -c.cfg.SlideSpeed {
			c.vel.Y = -c.cfg.SlideSpeed
		}
	case c.yInput > 0:
		c.vel.Y += c.cfg.ClimbAcceleration * dt
		if c.vel.Y > c.cfg.ClimbSpeed {
			c.vel.Y = c.cfg.ClimbSpeed
		}
	default:
		c.vel.Y = common.MoveToward(c.vel.Y, -c.cfg.ClimbIdleSpeed, -c.cfg.Gravity*dt)
	}

	// The box may not slide past the end of the climbable surface: a
	// vertical move needs the corner probe in that direction.
	if c.vel.Y > 0 && !c.snap.Corners.Top(side) {
		c.vel.Y = 0
	}
	if c.vel.Y < 0 && !c.snap.Corners.Bottom(side) {
		c.vel.Y = 0
	}
}

func (c *Controller) tryEnterClimb() {
	if c.isJumping || c.isWallJump {
		return
	}
	if !c.snap.IsFullContactClimb {
		return
	}
	side := c.snap.ClimbState
	if side != detect.SideLeft && side != detect.SideRight {
		return
	}
	if c.xInput != 0 && c.xInput == -side.Sign() {
		return
	}
	c.stopJump()
	c.isClimbing = true
	c.climbSide = side
	c.events.Push(Event{Kind: EventClimbing})
}

func (c *Controller) exitClimb() {
	if !c.isClimbing {
		return
	}
	c.isClimbing = false
	c.climbSide = detect.SideNone
	c.events.Push(Event{Kind: EventClimbExited})
}

// TryJump starts the jump process if the character is in a valid launch
// state. Climbing is itself a valid launch state and bypasses the
// ground gates; the result becomes a wall jump away from the climbed
// side.
func (c *Controller) TryJump() bool {
	if c.interruptLeft > 0 || c.override || c.isJumping {
		return false
	}
	if !c.isClimbing {
		if c.timers.Airborne() > c.cfg.CoyoteTime {
			return false
		}
		if c.snap.RoofCheck && !c.snap.IsFullContactClimb {
			return false
		}
		onFloor := c.snap.Ground == detect.GroundFloor
		if onFloor && c.snap.EdgeState != detect.SideBoth && c.snap.StairState == detect.SideNone {
			return false
		}
		if !onFloor && !c.canCoyote {
			return false
		}
	}

	fromClimb := c.isClimbing
	wallDir := -c.climbSide.Sign()
	if fromClimb {
		c.exitClimb()
	}

	c.isJumping = true
	c.canCoyote = false
	c.jump = jumpTask{active: true}
	c.vel.Y = c.cfg.JumpSpeed
	if fromClimb {
		c.isWallJump = true
		c.jump.wallDir = wallDir
		c.vel.X = wallDir * c.cfg.WallJumpForce
	}

	c.events.Push(Event{Kind: EventJumping})
	if fromClimb {
		c.events.Push(Event{Kind: EventWallJumping})
	} else {
		c.events.Push(Event{Kind: EventFloorJumping})
	}
	return true
}

func (c *Controller) advanceJump(dt float64) {
	if !c.jump.active {
		return
	}
	c.jump.elapsed += dt

	// Head contact ends the jump unless it is the climbable wall a wall
	// jump launches from.
	if c.snap.RoofCheck && !c.snap.IsFullContactClimb {
		c.stopJump()
		return
	}
	if c.jump.elapsed >= c.cfg.MaxJumpTime {
		c.stopJump()
		return
	}

	c.vel.Y = c.cfg.JumpSpeed + c.cfg.JumpFalloff*c.jump.elapsed
	if c.isWallJump {
		force := c.cfg.WallJumpForce + c.cfg.WallJumpFalloff*c.jump.elapsed
		if force < 0 {
			force = 0
		}
		c.vel.X = c.jump.wallDir * force
		if c.jump.elapsed > c.cfg.WallJumpMinTime && c.xInput != 0 && c.xInput == -c.jump.wallDir {
			c.isWallJump = false
		}
	}
}

func (c *Controller) stopJump() {
	c.isJumping = false
	c.isWallJump = false
	c.jump = jumpTask{}
}

func (c *Controller) applyGravity(dt float64) {
	if c.isJumping || c.isClimbing || c.override {
		return
	}
	c.vel.Y += c.cfg.Gravity * dt

	onFloor := c.snap.Ground == detect.GroundFloor
	onSlope := onFloor && c.snap.StairState != detect.SideNone
	if onSlope || (onFloor && c.snap.WallState == detect.SideNone) {
		c.vel.Y = 0
		return
	}
	if c.vel.Y < c.cfg.FallSpeed {
		c.vel.Y = c.cfg.FallSpeed
	}
}
