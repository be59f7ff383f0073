package epa

import (
	"github.com/akmonengine/narrow/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// face is an oriented facet (an edge, in 2D) of the expanding polytope.
// It references its two vertices by index into the engine's shared
// append-only vertex buffer, so faces stay valid when the buffer grows.
type face struct {
	pts     [2]int           // indices into the vertex buffer
	normal  mgl64.Vec2       // unit outward normal
	proj    gjk.SupportPoint // projection of the origin onto the face
	deleted bool             // superseded faces must never be expanded
}

// newFace builds the face over vertices pts[0] -> pts[1]. The second
// return value tells whether the origin projects strictly inside the
// face; only such faces are worth pushing onto the expansion queue.
func newFace(vertices []gjk.SupportPoint, p0, p1 int) (face, bool) {
	proj, inside := projectOrigin(vertices[p0], vertices[p1])
	if !inside {
		proj = gjk.SupportPoint{}
	}

	return newFaceWithProj(vertices, proj, p0, p1), inside
}

// newFaceWithProj builds a face with a precomputed origin projection. A
// zero-length edge has no defined normal and is marked deleted on the
// spot.
func newFaceWithProj(vertices []gjk.SupportPoint, proj gjk.SupportPoint, p0, p1 int) face {
	f := face{
		pts:  [2]int{p0, p1},
		proj: proj,
	}

	edge := vertices[p1].Point.Sub(vertices[p0].Point)
	length := edge.Len()
	if length < gjk.EpsTol {
		f.deleted = true
		return f
	}

	// Outward normal of a counter-clockwise oriented boundary: the edge
	// direction rotated by -90 degrees.
	f.normal = mgl64.Vec2{edge.Y(), -edge.X()}.Mul(1.0 / length)

	return f
}

// projectOrigin projects the origin onto the segment [a, b] of the
// Minkowski difference, interpolating the witness annotations. It returns
// false when the segment is degenerate (division-by-zero guard) or when
// the projection falls in the Voronoi region of either endpoint.
func projectOrigin(a, b gjk.SupportPoint) (gjk.SupportPoint, bool) {
	ab := b.Point.Sub(a.Point)
	ap := a.Point.Mul(-1)

	abAp := ab.Dot(ap)
	sqnab := ab.LenSqr()
	if sqnab == 0 {
		return gjk.SupportPoint{}, false
	}

	if abAp < -gjk.EpsTol || abAp > sqnab+gjk.EpsTol {
		// Voronoi region of a vertex, not of the segment interior.
		return gjk.SupportPoint{}, false
	}

	return gjk.Interpolate(a, b, abAp/sqnab), true
}
