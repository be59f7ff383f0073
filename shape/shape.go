// Package shape provides the geometric primitives consumed by the query
// dispatcher: 2D isometries, axis-aligned bounding boxes, convex shapes
// exposing a support map, and composite shapes indexed by a bounding-volume
// tree.
//
// A shape advertises what it can do through capability views: the query
// layer uses checked type assertions against *Ball, *Plane, SupportMap and
// Composite, never unchecked downcasts. A shape may satisfy several
// capabilities at once (a Segment is a SupportMap, a Polyline is a
// Composite over Segments).
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is the base interface for every collision geometry. It only
// requires a bounding volume; richer capabilities are discovered through
// type assertions on the more specific interfaces below.
type Shape interface {
	// AABB computes the axis-aligned bounding box of the shape under the
	// given transform.
	AABB(m Isometry) AABB
}

// SupportMap is the capability of convex shapes that can return their
// farthest point in a given direction. It is the sole requirement for the
// GJK and EPA algorithms to operate on a shape, independent of its
// concrete representation.
type SupportMap interface {
	Shape

	// Support returns the world-space point of the shape farthest in the
	// given world-space direction. The direction does not need to be
	// normalized but must be non-zero.
	Support(m Isometry, direction mgl64.Vec2) mgl64.Vec2
}

// Composite is the capability of shapes made of indexed sub-parts, such
// as polylines. Sub-parts are spatially indexed by a bounding-volume tree
// expressed in the composite's local frame.
type Composite interface {
	Shape

	// BVT returns the bounding-volume tree over the sub-parts.
	BVT() *BVT

	// PartAt invokes fn with the sub-part at the given index and its
	// transform composed with m. The sub-part is only valid for the
	// duration of the call; no geometry is copied.
	PartAt(index int, m Isometry, fn func(m Isometry, part Shape))
}

// Ball is a disc centered at its local origin.
type Ball struct {
	Radius float64
}

func (b *Ball) AABB(m Isometry) AABB {
	radius := mgl64.Vec2{b.Radius, b.Radius}

	return AABB{
		Min: m.Translation.Sub(radius),
		Max: m.Translation.Add(radius),
	}
}

func (b *Ball) Support(m Isometry, direction mgl64.Vec2) mgl64.Vec2 {
	if direction.LenSqr() < 1e-16 {
		direction = mgl64.Vec2{1, 0}
	}

	return m.Translation.Add(direction.Normalize().Mul(b.Radius))
}

// Plane is a half-space delimited by the line through the local origin
// with the given outward normal: a point p is outside the solid part when
// Normal·p > 0 in the local frame. A plane is unbounded and therefore not
// a SupportMap.
type Plane struct {
	Normal mgl64.Vec2 // unit outward normal, in local space
}

func (p *Plane) AABB(m Isometry) AABB {
	// The half-space is unbounded; report a box large enough that any
	// broad-phase test against it succeeds.
	const huge = 1e12

	return AABB{
		Min: mgl64.Vec2{-huge, -huge},
		Max: mgl64.Vec2{huge, huge},
	}
}

// WorldNormal returns the plane's outward normal in world space.
func (p *Plane) WorldNormal(m Isometry) mgl64.Vec2 {
	return m.TransformVector(p.Normal)
}

// Segment is the line segment between two local points.
type Segment struct {
	A mgl64.Vec2
	B mgl64.Vec2
}

func (s *Segment) AABB(m Isometry) AABB {
	return SupportMapAABB(m, s)
}

func (s *Segment) Support(m Isometry, direction mgl64.Vec2) mgl64.Vec2 {
	local := m.InverseTransformVector(direction)

	if s.A.Dot(local) > s.B.Dot(local) {
		return m.TransformPoint(s.A)
	}

	return m.TransformPoint(s.B)
}

// Cuboid is a rectangle centered at its local origin, described by its
// half-extents along each local axis.
type Cuboid struct {
	HalfExtents mgl64.Vec2
}

func (c *Cuboid) AABB(m Isometry) AABB {
	return SupportMapAABB(m, c)
}

func (c *Cuboid) Support(m Isometry, direction mgl64.Vec2) mgl64.Vec2 {
	local := m.InverseTransformVector(direction)

	hx, hy := c.HalfExtents.X(), c.HalfExtents.Y()
	if local.X() < 0 {
		hx = -hx
	}
	if local.Y() < 0 {
		hy = -hy
	}

	return m.TransformPoint(mgl64.Vec2{hx, hy})
}

// ConvexPolygon is a convex polygon given by its vertices in
// counter-clockwise order in the local frame. Convexity and winding are
// the caller's responsibility.
type ConvexPolygon struct {
	Vertices []mgl64.Vec2
}

func (p *ConvexPolygon) AABB(m Isometry) AABB {
	return SupportMapAABB(m, p)
}

func (p *ConvexPolygon) Support(m Isometry, direction mgl64.Vec2) mgl64.Vec2 {
	local := m.InverseTransformVector(direction)

	best := 0
	bestDot := math.Inf(-1)
	for i, v := range p.Vertices {
		if d := v.Dot(local); d > bestDot {
			best = i
			bestDot = d
		}
	}

	return m.TransformPoint(p.Vertices[best])
}
