package detect

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/mgriffes/stride/physics"
)

// Query is the geometry/collision service the detector probes against.
// physics.Space satisfies it; tests may substitute scripted worlds.
type Query interface {
	OverlapBox(center cp.Vector, halfW, halfH float64, mask physics.Mask) bool
	RaycastFirst(origin, dir cp.Vector, maxDist float64, mask physics.Mask) (physics.RayHit, bool)
}

// Corners holds the four corner probe results (solid layer). They
// distinguish a flush surface from a grazed one: a side is "full
// contact" only when both of its corners register.
type Corners struct {
	TopLeft     bool
	TopRight    bool
	BottomLeft  bool
	BottomRight bool
}

func (c Corners) both(side Side) bool {
	if side == SideLeft {
		return c.TopLeft && c.BottomLeft
	}
	if side == SideRight {
		return c.TopRight && c.BottomRight
	}
	return false
}

// Top returns the top corner flag on the given side.
func (c Corners) Top(side Side) bool {
	if side == SideLeft {
		return c.TopLeft
	}
	if side == SideRight {
		return c.TopRight
	}
	return false
}

// Bottom returns the bottom corner flag on the given side.
func (c Corners) Bottom(side Side) bool {
	if side == SideLeft {
		return c.BottomLeft
	}
	if side == SideRight {
		return c.BottomRight
	}
	return false
}

// Snapshot is the detector's whole output for one step. It is recomputed
// from scratch every step; nothing in it is carried over except the
// was-on-floor memory behind the Floored/FloorExited edge flags.
type Snapshot struct {
	FloorCheck bool
	RoofCheck  bool

	WallState  Side
	ClimbState Side
	EdgeState  Side
	StairState Side

	Corners Corners

	WallCheck          bool
	IsFullContactWall  bool
	IsTouchingClimb    bool
	IsFullContactClimb bool

	Ground Ground

	// Edge-triggered the step floor contact is gained or lost.
	Floored     bool
	FloorExited bool
}

// Detector issues a fixed set of overlap probes around a character's
// bounding box each step and reduces them into discrete contact states.
type Detector struct {
	query     Query
	halfW     float64
	halfH     float64
	threshold float64

	wasOnFloor bool
	lastCenter cp.Vector
}

// NewDetector builds a detector for a box of the given full width and
// height, probing out to threshold. All three are required.
func NewDetector(query Query, width, height, threshold float64) (*Detector, error) {
	if query == nil {
		return nil, fmt.Errorf("detect: query service is required")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("detect: box size %gx%g must be positive", width, height)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("detect: distance threshold %g must be positive", threshold)
	}
	return &Detector{
		query:     query,
		halfW:     width / 2,
		halfH:     height / 2,
		threshold: threshold,
	}, nil
}

// Probe evaluates every directional probe for the box centered at
// center and reduces the results. A probe whose layer matches nothing
// reports no contact, never an error.
func (d *Detector) Probe(center cp.Vector) Snapshot {
	d.lastCenter = center

	half := d.threshold / 2
	bottom := cp.Vector{X: center.X, Y: center.Y - d.halfH}
	top := cp.Vector{X: center.X, Y: center.Y + d.halfH}
	left := cp.Vector{X: center.X - d.halfW, Y: center.Y}
	right := cp.Vector{X: center.X + d.halfW, Y: center.Y}

	var snap Snapshot

	// Feet and head probes. The roof probe is narrowed by the threshold
	// so wall contact alone does not read as a ceiling.
	snap.FloorCheck = d.query.OverlapBox(bottom, d.halfW, half, physics.MaskSolid)
	snap.RoofCheck = d.query.OverlapBox(top, d.halfW-half, half, physics.MaskSolid)

	// Side probes, shortened by the threshold so floor contact alone
	// does not read as a wall.
	sideHalfH := d.halfH - half
	wallL := d.query.OverlapBox(left, half, sideHalfH, physics.MaskSolid)
	wallR := d.query.OverlapBox(right, half, sideHalfH, physics.MaskSolid)
	snap.WallState = reduceSides(wallL, wallR)

	climbL := d.query.OverlapBox(left, half, sideHalfH, physics.MaskClimb)
	climbR := d.query.OverlapBox(right, half, sideHalfH, physics.MaskClimb)
	snap.ClimbState = reduceSides(climbL, climbR)

	// Half-width floor probes under each foot.
	edgeL := d.query.OverlapBox(cp.Vector{X: center.X - d.halfW/2, Y: bottom.Y}, d.halfW/2, half, physics.MaskSolid)
	edgeR := d.query.OverlapBox(cp.Vector{X: center.X + d.halfW/2, Y: bottom.Y}, d.halfW/2, half, physics.MaskSolid)
	snap.EdgeState = reduceSides(edgeL, edgeR)

	snap.Corners = Corners{
		TopLeft:     d.query.OverlapBox(cp.Vector{X: left.X, Y: top.Y}, half, half, physics.MaskSolid),
		TopRight:    d.query.OverlapBox(cp.Vector{X: right.X, Y: top.Y}, half, half, physics.MaskSolid),
		BottomLeft:  d.query.OverlapBox(cp.Vector{X: left.X, Y: bottom.Y}, half, half, physics.MaskSolid),
		BottomRight: d.query.OverlapBox(cp.Vector{X: right.X, Y: bottom.Y}, half, half, physics.MaskSolid),
	}

	// Stair contact pairs the full-width floor probe with the bottom
	// corner probes, all against the stair layer.
	stairFloor := d.query.OverlapBox(bottom, d.halfW, half, physics.MaskStair)
	stairL := stairFloor && d.query.OverlapBox(cp.Vector{X: left.X, Y: bottom.Y}, half, half, physics.MaskStair)
	stairR := stairFloor && d.query.OverlapBox(cp.Vector{X: right.X, Y: bottom.Y}, half, half, physics.MaskStair)
	snap.StairState = reduceSides(stairL, stairR)

	snap.WallCheck = snap.WallState != SideNone
	snap.IsTouchingClimb = snap.ClimbState != SideNone
	snap.IsFullContactWall = fullContact(snap.WallState, snap.Corners)
	snap.IsFullContactClimb = fullContact(snap.ClimbState, snap.Corners)

	switch {
	case snap.FloorCheck:
		snap.Ground = GroundFloor
	case snap.IsTouchingClimb:
		snap.Ground = GroundWall
	default:
		snap.Ground = GroundAir
	}

	onFloor := snap.Ground == GroundFloor
	snap.Floored = onFloor && !d.wasOnFloor
	snap.FloorExited = !onFloor && d.wasOnFloor
	d.wasOnFloor = onFloor

	return snap
}

// fullContact requires both corner probes on the contacted side. A Both
// state is full contact when either side is flush.
func fullContact(state Side, corners Corners) bool {
	return (state.Has(SideLeft) && corners.both(SideLeft)) ||
		(state.Has(SideRight) && corners.both(SideRight))
}

// SlopeDirection derives the movement tangent along the slope under the
// foot on side x (negative left, positive right) by rotating the
// surface normal a quarter turn toward travel. A missing or degenerate
// normal falls back to a shallow downhill direction so slope movement
// never stalls at a seam.
func (d *Detector) SlopeDirection(x float64) cp.Vector {
	if x > 0 {
		x = 1
	} else if x < 0 {
		x = -1
	} else {
		return cp.Vector{}
	}

	foot := cp.Vector{X: d.lastCenter.X + x*d.halfW, Y: d.lastCenter.Y - d.halfH}
	var dir cp.Vector
	if hit, ok := d.query.RaycastFirst(foot, cp.Vector{X: 0, Y: -1}, d.halfH, physics.MaskStair); ok {
		if x > 0 {
			dir = hit.Normal.ReversePerp()
		} else {
			dir = hit.Normal.Perp()
		}
	}
	if dir.X == 0 && dir.Y == 0 {
		dir = cp.Vector{X: x, Y: -0.2}.Normalize()
	}
	return dir
}
