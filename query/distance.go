package query

import (
	"math"

	"github.com/akmonengine/narrow/gjk"
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// Distance computes the minimum distance between two posed shapes,
// zero when they touch or penetrate.
func Distance(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape) (float64, error) {
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
		return BallBallDistance(m1.Translation, b1, m2.Translation, b2), nil
	case isPlane1 && isSM2:
		return PlaneSupportMapDistance(m1, p1, m2, sm2), nil
	case isSM1 && isPlane2:
		return PlaneSupportMapDistance(m2, p2, m1, sm1), nil
	case isSM1 && isSM2:
		return gjk.Distance(m1, sm1, m2, sm2), nil
	case isComposite1:
		return compositeShapeAgainstAnyDistance(m1, c1, m2, g2)
	case isComposite2:
		return compositeShapeAgainstAnyDistance(m2, c2, m1, g1)
	default:
		return 0, unsupportedPair(g1, g2)
	}
}

// BallBallDistance is the closed-form distance between two balls given
// their world-space centers.
func BallBallDistance(center1 mgl64.Vec2, b1 *shape.Ball, center2 mgl64.Vec2, b2 *shape.Ball) float64 {
	separation := center2.Sub(center1).Len() - b1.Radius - b2.Radius
	return math.Max(0, separation)
}

// PlaneSupportMapDistance is the closed-form distance between a
// half-space and any support-mapped shape: the signed height above the
// plane of the shape's deepest point.
func PlaneSupportMapDistance(mPlane shape.Isometry, plane *shape.Plane, mOther shape.Isometry, sm shape.SupportMap) float64 {
	normal := plane.WorldNormal(mPlane)
	deepest := sm.Support(mOther, normal.Mul(-1))

	return math.Max(0, normal.Dot(deepest.Sub(mPlane.Translation)))
}
