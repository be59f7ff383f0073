// Package query computes geometric queries between arbitrary pairs of
// posed shapes: minimum distance, graded proximity, penetration contacts
// and time of impact under translational motion.
//
// Every entry point inspects the capability set of both shapes in a fixed
// priority order - Ball/Ball, then Plane against support map (either
// order), then support map against support map, then composite against
// anything - and routes the query to the first specialized routine that
// matches. Composite shapes recurse through a best-first traversal of
// their bounding-volume tree, re-entering the dispatcher for each
// candidate leaf.
//
// The dispatcher is stateless and never mutates shapes or transforms. A
// pair matching no capability pattern is a caller contract violation and
// is reported as ErrUnsupportedPair rather than a panic.
package query

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPair reports that no dispatch pattern matched the
	// given shape pair at the leaf level.
	ErrUnsupportedPair = errors.New("query: no algorithm known for the given pair of shapes")

	// ErrEmptyComposite reports a composite shape with no sub-parts,
	// which is a caller contract violation.
	ErrEmptyComposite = errors.New("query: the composite shape must not be empty")

	// ErrNegativeMargin reports a negative proximity margin, which is a
	// caller contract violation.
	ErrNegativeMargin = errors.New("query: the proximity margin must not be negative")
)

func unsupportedPair(g1, g2 interface{}) error {
	return fmt.Errorf("%w: %T against %T", ErrUnsupportedPair, g1, g2)
}

// ProximityState is the graded classification of a shape pair's contact
// state. Values are totally ordered by degree of contact, so callers can
// monotonically combine classifications over several sub-parts.
type ProximityState int

const (
	Disjoint ProximityState = iota
	WithinMargin
	Intersecting
)

func (p ProximityState) String() string {
	switch p {
	case Disjoint:
		return "Disjoint"
	case WithinMargin:
		return "WithinMargin"
	case Intersecting:
		return "Intersecting"
	default:
		return fmt.Sprintf("ProximityState(%d)", int(p))
	}
}
