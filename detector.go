// Package narrow is a narrow-phase geometric query engine for 2D convex
// and composite shapes. The query subpackage answers one-shot distance,
// proximity, contact and time-of-impact questions; this package adds the
// persistent detectors that track a shape pair's proximity state across
// simulation steps for temporal coherence.
//
// A detector instance is bound to one ordered shape-type pair and is
// exclusively owned by its caller, typically cached on a contact-graph
// edge. It is not safe for concurrent use without external
// synchronization.
package narrow

import (
	"github.com/akmonengine/narrow/query"
	"github.com/akmonengine/narrow/shape"
)

// ProximityDetector tracks the proximity state of one shape pair.
//
// Update recomputes and stores the classification for the given posed
// shapes and margin, returning true. If either shape fails the capability
// view the detector was built for, Update returns false and leaves the
// stored state untouched; the caller must fall back to another detector.
//
// Update always recomputes and overwrites: comparing the old and new
// classification to skip work is the caller's business, not the
// detector's.
type ProximityDetector interface {
	Update(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape, margin float64) bool
	Proximity() query.ProximityState
}

// BallBallProximityDetector is the persistent detector for ball/ball
// pairs, using the closed-form center-separation formula.
type BallBallProximityDetector struct {
	proximity query.ProximityState
}

func NewBallBallProximityDetector() *BallBallProximityDetector {
	return &BallBallProximityDetector{proximity: query.Disjoint}
}

func (d *BallBallProximityDetector) Update(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape, margin float64) bool {
	b1, ok1 := g1.(*shape.Ball)
	b2, ok2 := g2.(*shape.Ball)
	if !ok1 || !ok2 {
		return false
	}

	d.proximity = query.BallBallProximity(m1.Translation, b1, m2.Translation, b2, margin)
	return true
}

func (d *BallBallProximityDetector) Proximity() query.ProximityState {
	return d.proximity
}

// PlaneSupportMapProximityDetector is the persistent detector for a
// plane paired with a support-mapped shape. flipped selects which operand
// carries the plane.
type PlaneSupportMapProximityDetector struct {
	proximity query.ProximityState
	flipped   bool
}

func NewPlaneSupportMapProximityDetector(flipped bool) *PlaneSupportMapProximityDetector {
	return &PlaneSupportMapProximityDetector{proximity: query.Disjoint, flipped: flipped}
}

func (d *PlaneSupportMapProximityDetector) Update(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape, margin float64) bool {
	if d.flipped {
		m1, g1, m2, g2 = m2, g2, m1, g1
	}

	plane, ok1 := g1.(*shape.Plane)
	sm, ok2 := g2.(shape.SupportMap)
	if !ok1 || !ok2 {
		return false
	}

	d.proximity = query.PlaneSupportMapProximity(m1, plane, m2, sm, margin)
	return true
}

func (d *PlaneSupportMapProximityDetector) Proximity() query.ProximityState {
	return d.proximity
}

// SupportMapSupportMapProximityDetector is the persistent detector for
// two support-mapped convex shapes, backed by GJK.
type SupportMapSupportMapProximityDetector struct {
	proximity query.ProximityState
}

func NewSupportMapSupportMapProximityDetector() *SupportMapSupportMapProximityDetector {
	return &SupportMapSupportMapProximityDetector{proximity: query.Disjoint}
}

func (d *SupportMapSupportMapProximityDetector) Update(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape, margin float64) bool {
	sm1, ok1 := g1.(shape.SupportMap)
	sm2, ok2 := g2.(shape.SupportMap)
	if !ok1 || !ok2 {
		return false
	}

	d.proximity = query.SupportMapSupportMapProximity(m1, sm1, m2, sm2, margin)
	return true
}

func (d *SupportMapSupportMapProximityDetector) Proximity() query.ProximityState {
	return d.proximity
}

// CompositeShapeProximityDetector is the persistent detector for pairs
// involving at least one composite shape; it recurses through the general
// dispatcher.
type CompositeShapeProximityDetector struct {
	proximity query.ProximityState
}

func NewCompositeShapeProximityDetector() *CompositeShapeProximityDetector {
	return &CompositeShapeProximityDetector{proximity: query.Disjoint}
}

func (d *CompositeShapeProximityDetector) Update(m1 shape.Isometry, g1 shape.Shape, m2 shape.Isometry, g2 shape.Shape, margin float64) bool {
	_, isComposite1 := g1.(shape.Composite)
	_, isComposite2 := g2.(shape.Composite)
	if !isComposite1 && !isComposite2 {
		return false
	}

	proximity, err := query.Proximity(m1, g1, m2, g2, margin)
	if err != nil {
		return false
	}

	d.proximity = proximity
	return true
}

func (d *CompositeShapeProximityDetector) Proximity() query.ProximityState {
	return d.proximity
}

// ProximityDispatcher builds the right persistent detector for an
// ordered shape pair, following the same fixed capability priority as the
// one-shot query dispatcher. It returns nil for unsupported pairs.
type ProximityDispatcher struct{}

func (ProximityDispatcher) DetectorFor(g1, g2 shape.Shape) ProximityDetector {
	_, isBall1 := g1.(*shape.Ball)
	_, isBall2 := g2.(*shape.Ball)
	_, isPlane1 := g1.(*shape.Plane)
	_, isPlane2 := g2.(*shape.Plane)
	_, isSM1 := g1.(shape.SupportMap)
	_, isSM2 := g2.(shape.SupportMap)
	_, isComposite1 := g1.(shape.Composite)
	_, isComposite2 := g2.(shape.Composite)

	switch {
	case isBall1 && isBall2:
		return NewBallBallProximityDetector()
	case isPlane1 && isSM2:
		return NewPlaneSupportMapProximityDetector(false)
	case isSM1 && isPlane2:
		return NewPlaneSupportMapProximityDetector(true)
	case isSM1 && isSM2:
		return NewSupportMapSupportMapProximityDetector()
	case isComposite1 || isComposite2:
		return NewCompositeShapeProximityDetector()
	default:
		return nil
	}
}
