package query

import (
	"github.com/akmonengine/narrow/epa"
	"github.com/akmonengine/narrow/gjk"
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactInfo describes a penetration between two shapes: the closest
// points at the extremities of the minimal translational vector, the unit
// normal along which translating the second shape separates the pair, and
// the penetration depth along that normal.
type ContactInfo struct {
	PointA mgl64.Vec2
	PointB mgl64.Vec2
	Normal mgl64.Vec2
	Depth  float64
}

// Contact computes the penetration contact between two posed shapes. The
// second return value is false when the shapes do not penetrate, or when
// the penetration solver fails to converge (a numerical no-result, not an
// error).
func Contact(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape) (ContactInfo, bool, error) {
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
		contact, ok := ballBallContact(m1.Translation, b1, m2.Translation, b2)
		return contact, ok, nil
	case isPlane1 && isSM2:
		contact, ok := planeSupportMapContact(m1, p1, m2, sm2)
		return contact, ok, nil
	case isSM1 && isPlane2:
		contact, ok := planeSupportMapContact(m2, p2, m1, sm1)
		return flipContact(contact), ok, nil
	case isSM1 && isSM2:
		contact, ok := supportMapSupportMapContact(m1, sm1, m2, sm2)
		return contact, ok, nil
	case isComposite1:
		return compositeShapeAgainstAnyContact(m1, c1, m2, g2, false)
	case isComposite2:
		return compositeShapeAgainstAnyContact(m2, c2, m1, g1, true)
	default:
		return ContactInfo{}, false, unsupportedPair(g1, g2)
	}
}

func ballBallContact(center1 mgl64.Vec2, b1 *shape.Ball, center2 mgl64.Vec2, b2 *shape.Ball) (ContactInfo, bool) {
	delta := center2.Sub(center1)
	distance := delta.Len()

	depth := b1.Radius + b2.Radius - distance
	if depth < 0 {
		return ContactInfo{}, false
	}

	normal := mgl64.Vec2{0, 1}
	if distance > gjk.EpsTol {
		normal = delta.Mul(1.0 / distance)
	}

	return ContactInfo{
		PointA: center1.Add(normal.Mul(b1.Radius)),
		PointB: center2.Sub(normal.Mul(b2.Radius)),
		Normal: normal,
		Depth:  depth,
	}, true
}

func planeSupportMapContact(mPlane shape.Isometry, plane *shape.Plane, mOther shape.Isometry, sm shape.SupportMap) (ContactInfo, bool) {
	normal := plane.WorldNormal(mPlane)
	deepest := sm.Support(mOther, normal.Mul(-1))

	separation := normal.Dot(deepest.Sub(mPlane.Translation))
	if separation > 0 {
		return ContactInfo{}, false
	}

	return ContactInfo{
		PointA: deepest.Sub(normal.Mul(separation)),
		PointB: deepest,
		Normal: normal,
		Depth:  -separation,
	}, true
}

func supportMapSupportMapContact(m1 shape.Isometry, sm1 shape.SupportMap, m2 shape.Isometry, sm2 shape.SupportMap) (ContactInfo, bool) {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	_, _, _, intersecting := gjk.ClosestPoints(m1, sm1, m2, sm2, simplex)
	if !intersecting {
		return ContactInfo{}, false
	}

	engine := epa.NewEPA()
	pA, pB, normal, ok := engine.ClosestPoints(m1, sm1, m2, sm2, simplex)
	if !ok {
		return ContactInfo{}, false
	}

	return ContactInfo{
		PointA: pA,
		PointB: pB,
		Normal: normal,
		Depth:  pA.Sub(pB).Dot(normal),
	}, true
}

// compositeShapeAgainstAnyContact walks the sub-parts whose
// Minkowski-summed box reaches the origin and keeps the deepest contact.
// flipped restores the caller's operand order on the way out.
func compositeShapeAgainstAnyContact(m1 shape.Isometry, g1 shape.Composite, m2 shape.Isometry, g2 shape.Shape, flipped bool) (ContactInfo, bool, error) {
	if g1.BVT().IsEmpty() {
		return ContactInfo{}, false, ErrEmptyComposite
	}

	msum := newMsumAABB(m1, m2, g2)

	var (
		best  ContactInfo
		found bool
		err   error
	)

	g1.BVT().Traverse(
		func(bv shape.AABB) bool {
			return msum.distanceToOrigin(bv) <= 0
		},
		func(index int) bool {
			g1.PartAt(index, m1, func(m shape.Isometry, part shape.Shape) {
				var contact ContactInfo
				var ok bool
				contact, ok, err = Contact(m, part, m2, g2)
				if err == nil && ok && (!found || contact.Depth > best.Depth) {
					best = contact
					found = true
				}
			})

			return err == nil
		},
	)
	if err != nil {
		return ContactInfo{}, false, err
	}
	if !found {
		return ContactInfo{}, false, nil
	}

	if flipped {
		best = flipContact(best)
	}

	return best, true, nil
}

// flipContact swaps the roles of the two shapes in a contact.
func flipContact(c ContactInfo) ContactInfo {
	return ContactInfo{
		PointA: c.PointB,
		PointB: c.PointA,
		Normal: c.Normal.Mul(-1),
		Depth:  c.Depth,
	}
}
