package physics

import (
	"github.com/jakecoffman/cp"
)

// Mask selects which collision layers a shape belongs to and which
// layers a query targets. A single shape may carry several bits (a
// climbable wall is usually solid too); each query names exactly the
// bits it cares about.
type Mask uint

const (
	MaskSolid Mask = 1 << iota
	MaskClimb
	MaskStair
)

// RayHit describes the nearest surface found along a ray.
type RayHit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

// Space owns a Chipmunk space used purely for geometry queries: every
// shape hangs off the static body and the space is never stepped.
type Space struct {
	space *cp.Space
}

// NewSpace creates an empty query space.
func NewSpace() *Space {
	return &Space{space: cp.NewSpace()}
}

// AddBox adds a static axis-aligned box spanning min..max to the given
// layers. Degenerate boxes (min >= max on either axis) are ignored.
func (s *Space) AddBox(min, max cp.Vector, mask Mask) {
	if s == nil || s.space == nil {
		return
	}
	if min.X >= max.X || min.Y >= max.Y {
		return
	}
	bb := cp.BB{L: min.X, B: min.Y, R: max.X, T: max.Y}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFilter(layerFilter(mask))
	s.space.AddShape(shape)
}

// AddSlope adds a static segment from a to b to the given layers. Used
// for stair/slope surfaces so raycasts report the surface normal.
func (s *Space) AddSlope(a, b cp.Vector, mask Mask) {
	if s == nil || s.space == nil {
		return
	}
	shape := cp.NewSegment(s.space.StaticBody, a, b, 0)
	shape.SetFilter(layerFilter(mask))
	s.space.AddShape(shape)
}

// OverlapBox reports whether any shape on the masked layers overlaps the
// axis-aligned box centered at center with the given half extents. A
// mask that matches nothing reports false, never an error.
func (s *Space) OverlapBox(center cp.Vector, halfW, halfH float64, mask Mask) bool {
	if s == nil || s.space == nil || mask == 0 {
		return false
	}
	bb := cp.NewBBForExtents(center, halfW, halfH)
	hit := false
	s.space.BBQuery(bb, queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		hit = true
	}, nil)
	return hit
}

// RaycastFirst returns the nearest masked surface along the ray from
// origin in direction dir, out to maxDist. The second return is false
// when nothing was hit.
func (s *Space) RaycastFirst(origin, dir cp.Vector, maxDist float64, mask Mask) (RayHit, bool) {
	if s == nil || s.space == nil || mask == 0 || maxDist <= 0 {
		return RayHit{}, false
	}
	end := origin.Add(dir.Normalize().Mult(maxDist))
	info := s.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return RayHit{}, false
	}
	return RayHit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * maxDist,
	}, true
}

// layerFilter is the filter static shapes carry: categories are the
// shape's layers, and it answers queries for any mask.
func layerFilter(mask Mask) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(mask), cp.ALL_CATEGORIES)
}

// queryFilter is the filter probes carry: it matches shapes whose
// categories intersect the queried layers.
func queryFilter(mask Mask) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}
