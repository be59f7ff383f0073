package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box. Invariant: Min <= Max componentwise.
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

func (a AABB) Center() mgl64.Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) HalfExtents() mgl64.Vec2 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// ContainsPoint checks if a point is inside the AABB.
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps checks if two AABBs overlap.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Merged returns the smallest AABB enclosing both boxes.
func (a AABB) Merged(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec2{math.Min(a.Min.X(), other.Min.X()), math.Min(a.Min.Y(), other.Min.Y())},
		Max: mgl64.Vec2{math.Max(a.Max.X(), other.Max.X()), math.Max(a.Max.Y(), other.Max.Y())},
	}
}

// DistanceToPoint returns the distance between the box and a point.
// The box is treated as solid: a point inside it is at distance zero.
func (a AABB) DistanceToPoint(point mgl64.Vec2) float64 {
	dx := math.Max(0, math.Max(a.Min.X()-point.X(), point.X()-a.Max.X()))
	dy := math.Max(0, math.Max(a.Min.Y()-point.Y(), point.Y()-a.Max.Y()))

	return math.Sqrt(dx*dx + dy*dy)
}

// RayCast computes the time at which a ray starting at origin with the
// given velocity first enters the box, using the slab method. Returns
// (0, true) if the origin starts inside. The second return value is false
// when the ray never reaches the box.
func (a AABB) RayCast(origin, velocity mgl64.Vec2) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for i := 0; i < 2; i++ {
		if velocity[i] == 0 {
			if origin[i] < a.Min[i] || origin[i] > a.Max[i] {
				return 0, false
			}
			continue
		}

		inv := 1.0 / velocity[i]
		t1 := (a.Min[i] - origin[i]) * inv
		t2 := (a.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		// The box is entirely behind the ray.
		return 0, false
	}

	return math.Max(tMin, 0), true
}

// SupportMapAABB computes the AABB of any support-mapped shape under a
// transform by sampling its support points along the four world axes.
func SupportMapAABB(m Isometry, sm SupportMap) AABB {
	right := sm.Support(m, mgl64.Vec2{1, 0})
	up := sm.Support(m, mgl64.Vec2{0, 1})
	left := sm.Support(m, mgl64.Vec2{-1, 0})
	down := sm.Support(m, mgl64.Vec2{0, -1})

	return AABB{
		Min: mgl64.Vec2{left.X(), down.Y()},
		Max: mgl64.Vec2{right.X(), up.Y()},
	}
}
