// Package epa implements the 2D Expanding Polytope Algorithm for
// penetration depth queries between overlapping convex shapes.
//
// EPA takes over where GJK stops: given a simplex known to enclose the
// origin of the Minkowski difference, it grows a convex polytope whose
// face closest to the origin converges to the boundary of the difference.
// That face yields the penetration depth, the contact normal, and -
// through the witness annotations carried by every vertex - the closest
// points on both original shapes along the minimal translational vector.
//
// An EPA value owns reusable scratch buffers (vertex buffer, face list,
// face priority queue) which are reset at the start of every run. Reuse
// avoids allocations across queries but is not a correctness requirement;
// two engine instances must simply never share buffers.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth
//     Computation on 3D Game Objects" (2001)
package epa

import (
	"container/heap"
	"log/slog"
	"math"

	"github.com/akmonengine/narrow/gjk"
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

// maxIterations caps the expansion loop. A valid origin-enclosing simplex
// on shapes with bounded vertex count converges orders of magnitude
// earlier; exceeding the cap is reported as non-convergence, never as an
// infinite loop.
const maxIterations = 10000

// faceKey is a priority queue entry. The distance is stored negated and
// the heap orders entries by largest negated distance, so popping always
// yields the face currently closest to the origin.
type faceKey struct {
	id      int
	negDist float64
}

type faceQueue []faceKey

func (q faceQueue) Len() int            { return len(q) }
func (q faceQueue) Less(i, j int) bool  { return q[i].negDist > q[j].negDist }
func (q faceQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *faceQueue) Push(x interface{}) { *q = append(*q, x.(faceKey)) }
func (q *faceQueue) Pop() interface{} {
	old := *q
	n := len(old)
	entry := old[n-1]
	*q = old[:n-1]
	return entry
}

// EPA is the expanding polytope engine. Vertices are append-only and
// shared by all faces through indices, so face references stay valid as
// the buffers grow. The zero value is ready to use.
type EPA struct {
	vertices []gjk.SupportPoint
	faces    []face
	queue    faceQueue
}

// NewEPA creates an engine with its own scratch buffers.
func NewEPA() *EPA {
	return &EPA{}
}

func (e *EPA) reset() {
	e.vertices = e.vertices[:0]
	e.faces = e.faces[:0]
	e.queue = e.queue[:0]
}

// pushFace queues a face for expansion. It fails when the face lies a
// positive distance past the origin, which means the initial simplex did
// not actually enclose the origin: the separation phase's precondition
// was violated and the whole run must report no result.
func (e *EPA) pushFace(id int, negDist float64) bool {
	if negDist > gjk.EpsTol {
		slog.Debug("epa: the origin is outside of the polytope", "neg_dist", negDist, "tolerance", gjk.EpsTol)
		return false
	}

	heap.Push(&e.queue, faceKey{id: id, negDist: negDist})
	return true
}

// ProjectOrigin projects the origin onto the boundary of the Minkowski
// difference sampled by the support function, starting from a simplex
// that encloses the origin.
//
// It returns the annotated projection of the origin onto the closest
// boundary face and that face's outward unit normal. The penetration
// depth is the distance from the origin to the returned point.
//
// The third return value is false when EPA fails to produce a result:
// the simplex did not enclose the origin within tolerance, the iteration
// cap was exceeded, or the polytope degenerated.
func (e *EPA) ProjectOrigin(support func(direction mgl64.Vec2) gjk.SupportPoint, simplex *gjk.Simplex) (gjk.SupportPoint, mgl64.Vec2, bool) {
	e.reset()

	for i := 0; i < simplex.Count; i++ {
		e.vertices = append(e.vertices, simplex.Points[i])
	}

	switch simplex.Dimension() {
	case 0:
		// A single point at the origin: no direction is better than any
		// other, return the canonical vertical normal.
		return e.vertices[0], mgl64.Vec2{0, 1}, true

	case 2:
		// Orient the triangle counter-clockwise so that every edge's
		// outward normal points away from the enclosed origin.
		dp1 := e.vertices[1].Point.Sub(e.vertices[0].Point)
		dp2 := e.vertices[2].Point.Sub(e.vertices[0].Point)
		if dp1.X()*dp2.Y()-dp1.Y()*dp2.X() < 0 {
			e.vertices[1], e.vertices[2] = e.vertices[2], e.vertices[1]
		}

		edges := [3][2]int{{0, 1}, {1, 2}, {2, 0}}
		for _, pts := range edges {
			f, inside := newFace(e.vertices, pts[0], pts[1])
			id := len(e.faces)
			e.faces = append(e.faces, f)

			if inside {
				dist := f.normal.Dot(e.vertices[pts[0]].Point)
				if !e.pushFace(id, -dist) {
					return gjk.SupportPoint{}, mgl64.Vec2{}, false
				}
			}
		}

	default:
		// Degenerate two-vertex start (collinear or duplicate points):
		// build both oriented edges directly, without area checks.
		for _, pts := range [2][2]int{{0, 1}, {1, 0}} {
			f, _ := newFace(e.vertices, pts[0], pts[1])
			id := len(e.faces)
			e.faces = append(e.faces, f)

			if f.deleted {
				continue
			}

			dist := f.normal.Dot(e.vertices[pts[0]].Point)
			if !e.pushFace(id, -dist) {
				return gjk.SupportPoint{}, mgl64.Vec2{}, false
			}
		}
	}

	if e.queue.Len() == 0 {
		// Every candidate face was degenerate.
		return gjk.SupportPoint{}, mgl64.Vec2{}, false
	}

	niter := 0
	maxDist := math.Inf(1)
	bestFace := e.queue[0]

	for e.queue.Len() > 0 {
		key := heap.Pop(&e.queue).(faceKey)
		f := e.faces[key.id]
		if f.deleted {
			continue
		}

		supportPoint := support(f.normal)
		supportID := len(e.vertices)
		e.vertices = append(e.vertices, supportPoint)

		// The support projection is an upper bound on the penetration
		// depth: track the smallest one seen so far.
		candidate := supportPoint.Point.Dot(f.normal)
		if candidate < maxDist {
			maxDist = candidate
			bestFace = key
		}

		currDist := -key.negDist

		if maxDist-currDist < gjk.EpsTol {
			// Expansion has stalled within tolerance: the closest face
			// is final.
			best := e.faces[bestFace.id]
			return best.proj, best.normal, true
		}

		// Split the face in two around the new support point.
		splits := [2][2]int{
			{f.pts[0], supportID},
			{supportID, f.pts[1]},
		}

		for _, pts := range splits {
			newF, inside := newFace(e.vertices, pts[0], pts[1])

			if inside {
				dist := newF.normal.Dot(newF.proj.Point)
				if dist < currDist {
					// A sub-face closer to the origin than its parent
					// cannot happen on a well-formed convex polytope;
					// numerical error has crept in, so accept this face
					// rather than looping on inconsistent data.
					return newF.proj, newF.normal, true
				}

				if !newF.deleted {
					if !e.pushFace(len(e.faces), -dist) {
						return gjk.SupportPoint{}, mgl64.Vec2{}, false
					}
				}
			}

			e.faces = append(e.faces, newF)
		}

		niter++
		if niter > maxIterations {
			slog.Debug("epa: did not converge, stopping the iterations", "iterations", niter)
			return gjk.SupportPoint{}, mgl64.Vec2{}, false
		}
	}

	best := e.faces[bestFace.id]
	return best.proj, best.normal, true
}

// ClosestPoints computes the closest points at the extremities of the
// minimal translational vector between two overlapping support-mapped
// shapes, given a simplex from the separation phase that encloses the
// origin of their Minkowski difference.
//
// The returned normal is the unit direction along which translating the
// second shape by the penetration depth separates the shapes; the depth
// itself is the distance between the two returned points.
//
// Returns false when the engine fails to converge or when the shapes were
// not actually penetrating.
func (e *EPA) ClosestPoints(m1 shape.Isometry, g1 shape.SupportMap, m2 shape.Isometry, g2 shape.SupportMap, simplex *gjk.Simplex) (pA, pB, normal mgl64.Vec2, ok bool) {
	support := func(direction mgl64.Vec2) gjk.SupportPoint {
		return gjk.Support(m1, g1, m2, g2, direction)
	}

	proj, normal, ok := e.ProjectOrigin(support, simplex)
	if !ok {
		return mgl64.Vec2{}, mgl64.Vec2{}, mgl64.Vec2{}, false
	}

	return proj.WitnessA, proj.WitnessB, normal, true
}
