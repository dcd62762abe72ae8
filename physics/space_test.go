package physics

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapBoxRespectsMask(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 2}, MaskSolid)

	center := cp.Vector{X: 1, Y: 1}
	assert.True(t, s.OverlapBox(center, 0.5, 0.5, MaskSolid))
	assert.False(t, s.OverlapBox(center, 0.5, 0.5, MaskClimb))
	assert.False(t, s.OverlapBox(center, 0.5, 0.5, 0), "empty mask matches nothing")
}

func TestOverlapBoxRespectsGeometry(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 2}, MaskSolid)

	assert.False(t, s.OverlapBox(cp.Vector{X: 10, Y: 10}, 0.5, 0.5, MaskSolid))
	assert.True(t, s.OverlapBox(cp.Vector{X: 2.2, Y: 1}, 0.5, 0.5, MaskSolid), "probe straddles the box edge")
}

func TestOverlapBoxMultiLayerShape(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 4}, MaskSolid|MaskClimb)

	center := cp.Vector{X: 0.5, Y: 2}
	assert.True(t, s.OverlapBox(center, 0.25, 0.25, MaskSolid))
	assert.True(t, s.OverlapBox(center, 0.25, 0.25, MaskClimb))
	assert.False(t, s.OverlapBox(center, 0.25, 0.25, MaskStair))
}

func TestAddBoxIgnoresDegenerate(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 2, Y: 2}, cp.Vector{X: 0, Y: 0}, MaskSolid)

	assert.False(t, s.OverlapBox(cp.Vector{X: 1, Y: 1}, 5, 5, MaskSolid))
}

func TestRaycastFirstHitAndNormal(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 1}, MaskSolid)

	hit, ok := s.RaycastFirst(cp.Vector{X: 1, Y: 3}, cp.Vector{X: 0, Y: -1}, 5, MaskSolid)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Distance, 1e-9)
	assert.InDelta(t, 0, hit.Normal.X, 1e-9)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-9)
	assert.InDelta(t, 1, hit.Point.Y, 1e-9)
}

func TestRaycastFirstReturnsNearest(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 1}, MaskSolid)
	s.AddBox(cp.Vector{X: 0, Y: 1.5}, cp.Vector{X: 2, Y: 2}, MaskSolid)

	hit, ok := s.RaycastFirst(cp.Vector{X: 1, Y: 4}, cp.Vector{X: 0, Y: -1}, 10, MaskSolid)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Point.Y, 1e-9, "the upper box is hit first")
}

func TestRaycastFirstMiss(t *testing.T) {
	s := NewSpace()
	s.AddBox(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 1}, MaskSolid)

	_, ok := s.RaycastFirst(cp.Vector{X: 1, Y: 3}, cp.Vector{X: 0, Y: 1}, 5, MaskSolid)
	assert.False(t, ok, "ray pointing away")

	_, ok = s.RaycastFirst(cp.Vector{X: 1, Y: 3}, cp.Vector{X: 0, Y: -1}, 5, MaskStair)
	assert.False(t, ok, "mask mismatch")

	_, ok = s.RaycastFirst(cp.Vector{X: 1, Y: 3}, cp.Vector{X: 0, Y: -1}, 0, MaskSolid)
	assert.False(t, ok, "zero reach")
}
