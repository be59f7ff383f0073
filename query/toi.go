package query

import (
	"math"

	"github.com/akmonengine/narrow/gjk"
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// toiMaxIterations bounds the conservative advancement loop for the
// support-map/support-map case. Exceeding it is reported as no impact.
const toiMaxIterations = 100

// TimeOfImpact computes the smallest time at which two shapes moving with
// constant translational velocities come into contact. It returns zero
// when the shapes are already touching or penetrating. The second return
// value is false when the shapes never collide along their trajectories
// (or the advancement fails to converge, a numerical no-result).
func TimeOfImpact(m1 shape.Isometry, vel1 mgl64.Vec2, g1 shape.Shape, m2 shape.Isometry, vel2 mgl64.Vec2, g2 shape.Shape) (float64, bool, error) {
	b1, isBall1 := g1.(*shape.Ball)
	b2, isBall2 := g2.(*shape.Ball)
	p1, isPlane1 := g1.(*shape.Plane)
	p2, isPlane2 := g2.(*shape.Plane)
	sm1, isSM1 := g1.(shape.SupportMap)
	sm2, isSM2 := g2.(shape.SupportMap)
	c1, isComposite1 := g1.(shape.Composite)
	c2, isComposite2 := g2.(shape.Composite)

	switch {
	case isBall1 && isBall2:
		toi, hit := ballBallTOI(m1.Translation, vel1, b1, m2.Translation, vel2, b2)
		return toi, hit, nil
	case isPlane1 && isSM2:
		toi, hit := planeSupportMapTOI(m1, vel1, p1, m2, vel2, sm2)
		return toi, hit, nil
	case isSM1 && isPlane2:
		toi, hit := planeSupportMapTOI(m2, vel2, p2, m1, vel1, sm1)
		return toi, hit, nil
	case isSM1 && isSM2:
		toi, hit := supportMapSupportMapTOI(m1, vel1, sm1, m2, vel2, sm2)
		return toi, hit, nil
	case isComposite1:
		return compositeShapeAgainstAnyTOI(m1, vel1, c1, m2, vel2, g2)
	case isComposite2:
		return compositeShapeAgainstAnyTOI(m2, vel2, c2, m1, vel1, g1)
	default:
		return 0, false, unsupportedPair(g1, g2)
	}
}

// ballBallTOI solves the quadratic for the first time at which the
// center separation equals the combined radii.
func ballBallTOI(center1, vel1 mgl64.Vec2, b1 *shape.Ball, center2, vel2 mgl64.Vec2, b2 *shape.Ball) (float64, bool) {
	delta := center2.Sub(center1)
	dv := vel2.Sub(vel1)
	radius := b1.Radius + b2.Radius

	c := delta.LenSqr() - radius*radius
	if c <= 0 {
		// Already touching or penetrating.
		return 0, true
	}

	a := dv.LenSqr()
	b := 2 * delta.Dot(dv)
	if a == 0 {
		return 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	toi := (-b - math.Sqrt(discriminant)) / (2 * a)
	if toi < 0 {
		// The only approach happened in the past.
		return 0, false
	}

	return toi, true
}

// planeSupportMapTOI computes the time at which the deepest point of a
// support-mapped shape reaches a half-space.
func planeSupportMapTOI(mPlane shape.Isometry, velPlane mgl64.Vec2, plane *shape.Plane, mOther shape.Isometry, velOther mgl64.Vec2, sm shape.SupportMap) (float64, bool) {
	normal := plane.WorldNormal(mPlane)
	deepest := sm.Support(mOther, normal.Mul(-1))

	separation := normal.Dot(deepest.Sub(mPlane.Translation))
	if separation <= 0 {
		return 0, true
	}

	closing := -normal.Dot(velOther.Sub(velPlane))
	if closing <= 0 {
		return 0, false
	}

	return separation / closing, true
}

// supportMapSupportMapTOI performs conservative advancement: at each step
// the current distance divided by the closing speed along the separation
// normal is a safe time advance, since translational motion cannot bring
// the shapes closer faster than that.
func supportMapSupportMapTOI(m1 shape.Isometry, vel1 mgl64.Vec2, sm1 shape.SupportMap, m2 shape.Isometry, vel2 mgl64.Vec2, sm2 shape.SupportMap) (float64, bool) {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	toi := 0.0

	for i := 0; i < toiMaxIterations; i++ {
		am1 := m1.Translated(vel1.Mul(toi))
		am2 := m2.Translated(vel2.Mul(toi))

		pA, pB, distance, intersecting := gjk.ClosestPoints(am1, sm1, am2, sm2, simplex)
		if intersecting || distance < gjk.EpsTol {
			return toi, true
		}

		normal := pB.Sub(pA).Mul(1.0 / distance)
		closing := vel1.Sub(vel2).Dot(normal)
		if closing <= gjk.EpsTol {
			// Receding or sliding: contact is unreachable.
			return 0, false
		}

		toi += distance / closing
	}

	return 0, false
}

// compositeTOICost drives the best-first time-of-impact search: the lower
// bound of a node is the time at which the relative motion first brings
// the origin into the Minkowski-summed node box.
type compositeTOICost struct {
	msum  msumAABB
	lsVel mgl64.Vec2 // relative velocity in the composite's local frame
	m1    shape.Isometry
	vel1  mgl64.Vec2
	g1    shape.Composite
	m2    shape.Isometry
	vel2  mgl64.Vec2
	g2    shape.Shape
	err   error
}

func (c *compositeTOICost) BoundCost(bv shape.AABB) (float64, bool) {
	if c.err != nil {
		return 0, false
	}

	return c.msum.inflate(bv).RayCast(mgl64.Vec2{}, c.lsVel)
}

func (c *compositeTOICost) LeafCost(index int) (float64, bool) {
	if c.err != nil {
		return 0, false
	}

	var toi float64
	var hit bool
	c.g1.PartAt(index, c.m1, func(m shape.Isometry, part shape.Shape) {
		toi, hit, c.err = TimeOfImpact(m, c.vel1, part, c.m2, c.vel2, c.g2)
	})
	if c.err != nil || !hit {
		return 0, false
	}

	return toi, true
}

func compositeShapeAgainstAnyTOI(m1 shape.Isometry, vel1 mgl64.Vec2, g1 shape.Composite, m2 shape.Isometry, vel2 mgl64.Vec2, g2 shape.Shape) (float64, bool, error) {
	if g1.BVT().IsEmpty() {
		return 0, false, ErrEmptyComposite
	}

	cost := &compositeTOICost{
		msum:  newMsumAABB(m1, m2, g2),
		lsVel: m1.InverseTransformVector(vel2.Sub(vel1)),
		m1:    m1,
		vel1:  vel1,
		g1:    g1,
		m2:    m2,
		vel2:  vel2,
		g2:    g2,
	}

	_, toi, found := g1.BVT().BestFirstSearch(cost)
	if cost.err != nil {
		return 0, false, cost.err
	}
	if !found {
		return 0, false, nil
	}

	return toi, true, nil
}
