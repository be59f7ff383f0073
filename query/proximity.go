package query

import (
	"github.com/akmonengine/narrow/gjk"
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// Proximity classifies the contact state of two posed shapes against a
// non-negative margin: Intersecting when the shapes overlap, WithinMargin
// when their distance does not exceed the margin, Disjoint otherwise.
func Proximity(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape, margin float64) (ProximityState, error) {
	if margin < 0 {
		return Disjoint, ErrNegativeMargin
	}

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
		return BallBallProximity(m1.Translation, b1, m2.Translation, b2, margin), nil
	case isPlane1 && isSM2:
		return PlaneSupportMapProximity(m1, p1, m2, sm2, margin), nil
	case isSM1 && isPlane2:
		return PlaneSupportMapProximity(m2, p2, m1, sm1, margin), nil
	case isSM1 && isSM2:
		return SupportMapSupportMapProximity(m1, sm1, m2, sm2, margin), nil
	case isComposite1:
		return compositeShapeAgainstAnyProximity(m1, c1, m2, g2, margin)
	case isComposite2:
		return compositeShapeAgainstAnyProximity(m2, c2, m1, g1, margin)
	default:
		return Disjoint, unsupportedPair(g1, g2)
	}
}

// BallBallProximity classifies two balls from their center separation
// against the combined radii and the margin.
func BallBallProximity(center1 mgl64.Vec2, b1 *shape.Ball, center2 mgl64.Vec2, b2 *shape.Ball, margin float64) ProximityState {
	separation := center2.Sub(center1).Len() - b1.Radius - b2.Radius

	return classifySeparation(separation, margin)
}

// PlaneSupportMapProximity classifies a half-space against a
// support-mapped shape from the signed height of the shape's deepest
// point above the plane.
func PlaneSupportMapProximity(mPlane shape.Isometry, plane *shape.Plane, mOther shape.Isometry, sm shape.SupportMap, margin float64) ProximityState {
	normal := plane.WorldNormal(mPlane)
	deepest := sm.Support(mOther, normal.Mul(-1))
	separation := normal.Dot(deepest.Sub(mPlane.Translation))

	return classifySeparation(separation, margin)
}

// SupportMapSupportMapProximity classifies two support-mapped shapes
// using GJK.
func SupportMapSupportMapProximity(m1 shape.Isometry, sm1 shape.SupportMap, m2 shape.Isometry, sm2 shape.SupportMap, margin float64) ProximityState {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	_, _, distance, intersecting := gjk.ClosestPoints(m1, sm1, m2, sm2, simplex)
	if intersecting {
		return Intersecting
	}

	return classifySeparation(distance, margin)
}

func classifySeparation(separation, margin float64) ProximityState {
	switch {
	case separation < 0:
		return Intersecting
	case separation > margin:
		return Disjoint
	default:
		return WithinMargin
	}
}
