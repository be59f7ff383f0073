// Package gjk implements the Gilbert-Johnson-Keerthi algorithm for
// closest-point and separation queries between two convex shapes.
//
// GJK works in the space of the Minkowski difference A - B: the two
// shapes intersect exactly when that set contains the origin, and the
// distance between them is the distance from the origin to that set. The
// algorithm refines a simplex of annotated support points toward the
// origin, typically converging in a handful of iterations.
//
// On intersection the final simplex encloses the origin and is the
// starting point of the Expanding Polytope Algorithm, which takes over to
// measure penetration depth.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the
//     Distance Between Complex Objects in Three-Dimensional Space" (1988)
//   - Ericson: "Real-Time Collision Detection" (2005), Voronoi region
//     simplex reduction
package gjk

import (
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// maxIterations bounds the refinement loop. Well-separated convex shapes
// converge in 3-6 iterations; the cap only guards against numerical
// cycling.
const maxIterations = 100

// ClosestPoints computes the closest points between two support-mapped
// shapes.
//
// When the shapes are disjoint it returns a witness point on each shape
// and the distance between them, with intersecting == false. When they
// overlap (or touch within tolerance) it returns intersecting == true
// with a zero distance; the simplex then encloses the origin of the
// Minkowski difference and can be handed to the EPA engine.
//
// The simplex is reset and rebuilt; callers typically obtain one from
// SimplexPool.
func ClosestPoints(m1 shape.Isometry, g1 shape.SupportMap, m2 shape.Isometry, g2 shape.SupportMap, simplex *Simplex) (pA, pB mgl64.Vec2, distance float64, intersecting bool) {
	simplex.Reset()

	// Seed the simplex toward the other shape; any non-zero direction
	// works but this one usually saves an iteration.
	direction := m1.Translation.Sub(m2.Translation)
	if direction.LenSqr() < EpsTol*EpsTol {
		direction = mgl64.Vec2{1, 0}
	}

	simplex.Points[0] = Support(m1, g1, m2, g2, direction)
	simplex.Points[0].weight = 1
	simplex.Count = 1

	for i := 0; i < maxIterations; i++ {
		switch simplex.Count {
		case 2:
			simplex.solve2()
		case 3:
			simplex.solve3()
		}

		// A full triangle after reduction means the origin is inside.
		if simplex.Count == 3 {
			pA, pB = simplex.witnessPoints()
			return pA, pB, 0, true
		}

		closest := simplex.closestPoint()
		if closest.LenSqr() < EpsTol*EpsTol {
			// The origin lies on the simplex itself: touching contact.
			pA, pB = simplex.witnessPoints()
			return pA, pB, 0, true
		}

		direction = closest.Mul(-1)
		support := Support(m1, g1, m2, g2, direction)

		// Termination: no progress past the current closest point, or a
		// support point the simplex already owns.
		if closest.LenSqr()-closest.Dot(support.Point) <= EpsTol*closest.LenSqr() {
			break
		}
		if simplex.contains(support.Point) {
			break
		}

		simplex.Points[simplex.Count] = support
		simplex.Count++
	}

	pA, pB = simplex.witnessPoints()
	return pA, pB, pA.Sub(pB).Len(), false
}

// Intersecting reports whether two support-mapped shapes overlap,
// discarding witness data.
func Intersecting(m1 shape.Isometry, g1 shape.SupportMap, m2 shape.Isometry, g2 shape.SupportMap) bool {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)

	_, _, _, intersecting := ClosestPoints(m1, g1, m2, g2, simplex)
	return intersecting
}

// Distance returns the distance between two support-mapped shapes, zero
// when they intersect.
func Distance(m1 shape.Isometry, g1 shape.SupportMap, m2 shape.Isometry, g2 shape.SupportMap) float64 {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)

	_, _, dist, intersecting := ClosestPoints(m1, g1, m2, g2, simplex)
	if intersecting {
		return 0
	}
	return dist
}
