package query

import (
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// msumAABB describes the Minkowski-sum enclosure used as a traversal
// lower bound against a composite shape: any bounding-tree node box,
// shifted by the second shape's local center and inflated by its half
// extents, encloses the Minkowski difference of the sub-parts under that
// node and the second shape. The distance from the origin to that box
// therefore never overestimates the true distance between any such
// sub-part and the second shape.
type msumAABB struct {
	shift  mgl64.Vec2
	margin mgl64.Vec2
}

// newMsumAABB precomputes the shift and half-extent margin from the
// second shape's bounding box as seen in the composite's local frame.
func newMsumAABB(m1 shape.Isometry, m2 shape.Isometry, g2 shape.Shape) msumAABB {
	lsM2 := m1.Inverse().Mul(m2)
	lsAABB2 := g2.AABB(lsM2)

	return msumAABB{
		shift:  lsAABB2.Center().Mul(-1),
		margin: lsAABB2.HalfExtents(),
	}
}

func (s msumAABB) inflate(bv shape.AABB) shape.AABB {
	return shape.AABB{
		Min: bv.Min.Add(s.shift).Sub(s.margin),
		Max: bv.Max.Add(s.shift).Add(s.margin),
	}
}

// distanceToOrigin is the branch-and-bound lower bound: the separation
// between the Minkowski-summed node box and the origin.
func (s msumAABB) distanceToOrigin(bv shape.AABB) float64 {
	return s.inflate(bv).DistanceToPoint(mgl64.Vec2{})
}

// compositeDistanceCost drives the best-first distance search. Leaves
// re-enter the general distance dispatcher, so their exact value is both
// the lower and the upper bound for that sub-part.
type compositeDistanceCost struct {
	msum msumAABB

	m1 shape.Isometry
	g1 shape.Composite
	m2 shape.Isometry
	g2 shape.Shape

	err error
}

func (c *compositeDistanceCost) BoundCost(bv shape.AABB) (float64, bool) {
	if c.err != nil {
		return 0, false
	}

	return c.msum.distanceToOrigin(bv), true
}

func (c *compositeDistanceCost) LeafCost(index int) (float64, bool) {
	if c.err != nil {
		return 0, false
	}

	var distance float64
	c.g1.PartAt(index, c.m1, func(m shape.Isometry, part shape.Shape) {
		distance, c.err = Distance(m, part, c.m2, c.g2)
	})

	return distance, c.err == nil
}

// compositeShapeAgainstAnyDistance computes the smallest distance between
// a composite shape and any other shape. The symmetric entry point swaps
// the operands before calling this.
func compositeShapeAgainstAnyDistance(m1 shape.Isometry, g1 shape.Composite, m2 shape.Isometry, g2 shape.Shape) (float64, error) {
	if g1.BVT().IsEmpty() {
		return 0, ErrEmptyComposite
	}

	cost := &compositeDistanceCost{
		msum: newMsumAABB(m1, m2, g2),
		m1:   m1,
		g1:   g1,
		m2:   m2,
		g2:   g2,
	}

	_, distance, found := g1.BVT().BestFirstSearch(cost)
	if cost.err != nil {
		return 0, cost.err
	}
	if !found {
		return 0, ErrEmptyComposite
	}

	return distance, nil
}

// compositeShapeAgainstAnyProximity classifies the proximity of a
// composite shape against any other shape. The traversal prunes subtrees
// whose Minkowski-summed box lies farther than the margin (they can only
// contribute Disjoint) and stops as soon as a leaf reports Intersecting,
// the maximum of the contact ordering.
func compositeShapeAgainstAnyProximity(m1 shape.Isometry, g1 shape.Composite, m2 shape.Isometry, g2 shape.Shape, margin float64) (ProximityState, error) {
	if g1.BVT().IsEmpty() {
		return Disjoint, ErrEmptyComposite
	}

	msum := newMsumAABB(m1, m2, g2)
	best := Disjoint
	var err error

	g1.BVT().Traverse(
		func(bv shape.AABB) bool {
			return msum.distanceToOrigin(bv) <= margin
		},
		func(index int) bool {
			var state ProximityState
			g1.PartAt(index, m1, func(m shape.Isometry, part shape.Shape) {
				state, err = Proximity(m, part, m2, g2, margin)
			})
			if err != nil {
				return false
			}

			if state > best {
				best = state
			}

			return best != Intersecting
		},
	)
	if err != nil {
		return Disjoint, err
	}

	return best, nil
}
