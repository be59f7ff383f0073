package gjk

import (
	"sync"

	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// EpsTol is the numerical tolerance shared by the GJK and EPA algorithms,
// derived from the 64-bit machine epsilon scaled by 100.
const (
	machineEpsilon = 2.220446049250313e-16
	EpsTol         = machineEpsilon * 100.0
)

// SupportPoint is a point of the Minkowski difference (configuration
// space obstacle) annotated with the pair of generating support points on
// the two original shapes. The annotations are what make witness-point
// recovery possible after the algorithms have run entirely in CSO space.
type SupportPoint struct {
	Point    mgl64.Vec2 // WitnessA - WitnessB
	WitnessA mgl64.Vec2 // support point on the first shape
	WitnessB mgl64.Vec2 // support point on the second shape

	weight float64 // barycentric coordinate of the current closest point
}

// Support computes the annotated support point of the Minkowski
// difference A - B in the given direction.
func Support(m1 shape.Isometry, g1 shape.SupportMap, m2 shape.Isometry, g2 shape.SupportMap, direction mgl64.Vec2) SupportPoint {
	witnessA := g1.Support(m1, direction)
	witnessB := g2.Support(m2, direction.Mul(-1))

	return SupportPoint{
		Point:    witnessA.Sub(witnessB),
		WitnessA: witnessA,
		WitnessB: witnessB,
	}
}

// Interpolate returns the support point (1-t)*a + t*b, interpolating the
// CSO point together with both witness annotations.
func Interpolate(a, b SupportPoint, t float64) SupportPoint {
	s := 1.0 - t

	return SupportPoint{
		Point:    a.Point.Mul(s).Add(b.Point.Mul(t)),
		WitnessA: a.WitnessA.Mul(s).Add(b.WitnessA.Mul(t)),
		WitnessB: a.WitnessB.Mul(s).Add(b.WitnessB.Mul(t)),
	}
}

// Simplex is an ordered set of at most 3 annotated points in the
// Minkowski difference space. Its points are affinely independent except
// in degenerate termination cases. When GJK detects an intersection the
// simplex encloses the origin and seeds the EPA polytope.
type Simplex struct {
	Points [3]SupportPoint
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

// Dimension returns the dimension of the affine hull of the simplex
// points: 0 for a point, 1 for a segment, 2 for a triangle.
func (s *Simplex) Dimension() int {
	return s.Count - 1
}

// SimplexPool avoids reallocating simplexes on hot query paths.
var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// closestPoint returns the point of the simplex closest to the origin,
// assuming the barycentric weights have been computed by solve2/solve3.
func (s *Simplex) closestPoint() mgl64.Vec2 {
	switch s.Count {
	case 1:
		return s.Points[0].Point
	case 2:
		return s.Points[0].Point.Mul(s.Points[0].weight).
			Add(s.Points[1].Point.Mul(s.Points[1].weight))
	default:
		// A full triangle contains the origin.
		return mgl64.Vec2{}
	}
}

// witnessPoints recovers the closest points on both original shapes from
// the barycentric weights.
func (s *Simplex) witnessPoints() (mgl64.Vec2, mgl64.Vec2) {
	var pA, pB mgl64.Vec2
	for i := 0; i < s.Count; i++ {
		pA = pA.Add(s.Points[i].WitnessA.Mul(s.Points[i].weight))
		pB = pB.Add(s.Points[i].WitnessB.Mul(s.Points[i].weight))
	}

	return pA, pB
}

// contains reports whether the given CSO point is already a vertex of the
// simplex. Duplicate support points are the main termination criterion:
// requesting a point we already have proves the algorithm cannot make
// further progress.
func (s *Simplex) contains(point mgl64.Vec2) bool {
	for i := 0; i < s.Count; i++ {
		if s.Points[i].Point == point {
			return true
		}
	}

	return false
}

// solve2 reduces a 2-simplex to the feature closest to the origin and
// assigns barycentric weights, using the Voronoi region tests from
// Ericson's "Real-Time Collision Detection".
func (s *Simplex) solve2() {
	w1 := s.Points[0].Point
	w2 := s.Points[1].Point
	e12 := w2.Sub(w1)

	// Region of w1.
	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0 {
		s.Points[0].weight = 1
		s.Count = 1
		return
	}

	// Region of w2.
	d12_1 := w2.Dot(e12)
	if d12_1 <= 0 {
		s.Points[1].weight = 1
		s.Points[0] = s.Points[1]
		s.Count = 1
		return
	}

	// Interior of the segment.
	inv := 1.0 / (d12_1 + d12_2)
	s.Points[0].weight = d12_1 * inv
	s.Points[1].weight = d12_2 * inv
	s.Count = 2
}

// solve3 reduces a 3-simplex to the feature closest to the origin. If the
// origin lies inside the triangle the simplex keeps its three points,
// which signals an intersection.
func (s *Simplex) solve3() {
	w1 := s.Points[0].Point
	w2 := s.Points[1].Point
	w3 := s.Points[2].Point

	e12 := w2.Sub(w1)
	d12_1 := w2.Dot(e12)
	d12_2 := -w1.Dot(e12)

	e13 := w3.Sub(w1)
	d13_1 := w3.Dot(e13)
	d13_2 := -w1.Dot(e13)

	e23 := w3.Sub(w2)
	d23_1 := w3.Dot(e23)
	d23_2 := -w2.Dot(e23)

	n123 := perp(e12, e13)
	d123_1 := n123 * perp(w2, w3)
	d123_2 := n123 * perp(w3, w1)
	d123_3 := n123 * perp(w1, w2)

	// Region of w1.
	if d12_2 <= 0 && d13_2 <= 0 {
		s.Points[0].weight = 1
		s.Count = 1
		return
	}

	// Edge w1-w2.
	if d12_1 > 0 && d12_2 > 0 && d123_3 <= 0 {
		inv := 1.0 / (d12_1 + d12_2)
		s.Points[0].weight = d12_1 * inv
		s.Points[1].weight = d12_2 * inv
		s.Count = 2
		return
	}

	// Edge w1-w3.
	if d13_1 > 0 && d13_2 > 0 && d123_2 <= 0 {
		inv := 1.0 / (d13_1 + d13_2)
		s.Points[0].weight = d13_1 * inv
		s.Points[2].weight = d13_2 * inv
		s.Points[1] = s.Points[2]
		s.Count = 2
		return
	}

	// Region of w2.
	if d12_1 <= 0 && d23_2 <= 0 {
		s.Points[1].weight = 1
		s.Points[0] = s.Points[1]
		s.Count = 1
		return
	}

	// Region of w3.
	if d13_1 <= 0 && d23_1 <= 0 {
		s.Points[2].weight = 1
		s.Points[0] = s.Points[2]
		s.Count = 1
		return
	}

	// Edge w2-w3.
	if d23_1 > 0 && d23_2 > 0 && d123_1 <= 0 {
		inv := 1.0 / (d23_1 + d23_2)
		s.Points[1].weight = d23_1 * inv
		s.Points[2].weight = d23_2 * inv
		s.Points[0] = s.Points[2]
		s.Count = 2
		return
	}

	// Interior of the triangle: the origin is enclosed.
	inv := 1.0 / (d123_1 + d123_2 + d123_3)
	s.Points[0].weight = d123_1 * inv
	s.Points[1].weight = d123_2 * inv
	s.Points[2].weight = d123_3 * inv
	s.Count = 3
}

// perp is the 2D cross product (z component of the 3D cross product).
func perp(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
