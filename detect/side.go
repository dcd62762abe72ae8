package detect

// Side is the reduction of a symmetric probe pair (left vs right of the
// character's box). It is used uniformly for wall contact, climb
// contact, the floor edge split, and stair direction.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
	SideBoth
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBoth:
		return "both"
	default:
		return "none"
	}
}

// Sign maps a side onto a horizontal direction: Left is -1, Right is
// +1, Both and None are 0 and never match a moving direction.
func (s Side) Sign() float64 {
	switch s {
	case SideLeft:
		return -1
	case SideRight:
		return 1
	default:
		return 0
	}
}

// Has reports whether s includes the given single side.
func (s Side) Has(side Side) bool {
	if side == SideLeft {
		return s == SideLeft || s == SideBoth
	}
	if side == SideRight {
		return s == SideRight || s == SideBoth
	}
	return false
}

func reduceSides(left, right bool) Side {
	switch {
	case left && right:
		return SideBoth
	case left:
		return SideLeft
	case right:
		return SideRight
	default:
		return SideNone
	}
}

// Ground is the character's single authoritative surface classification
// for a step. Exactly one value holds per step.
type Ground int

const (
	GroundAir Ground = iota
	GroundFloor
	GroundWall
)

func (g Ground) String() string {
	switch g {
	case GroundFloor:
		return "floor"
	case GroundWall:
		return "wall"
	default:
		return "air"
	}
}
