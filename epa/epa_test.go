package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/narrow/gjk"
	"github.com/akmonengine/narrow/shape"
	"github.com/go-gl/mathgl/mgl64"
)

const testTolerance = 1e-7

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// penetration runs the separation phase then the expansion phase, the
// way the query layer chains them.
func penetration(t *testing.T, m1 shape.Isometry, g1 shape.SupportMap, m2 shape.Isometry, g2 shape.SupportMap) (pA, pB, normal mgl64.Vec2, depth float64) {
	t.Helper()

	simplex := &gjk.Simplex{}
	_, _, _, intersecting := gjk.ClosestPoints(m1, g1, m2, g2, simplex)
	if !intersecting {
		t.Fatal("shapes expected to intersect")
	}

	pA, pB, normal, ok := NewEPA().ClosestPoints(m1, g1, m2, g2, simplex)
	if !ok {
		t.Fatal("expansion did not converge")
	}

	return pA, pB, normal, pA.Sub(pB).Dot(normal)
}

func TestClosestPointsOverlappingCuboids(t *testing.T) {
	g := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}}

	m1 := shape.IdentityIsometry()
	m2 := shape.NewIsometry(mgl64.Vec2{1.5, 0}, 0)

	_, _, normal, depth := penetration(t, m1, g, m2, g)

	if !approxEqual(depth, 0.5, testTolerance) {
		t.Errorf("depth = %v, want 0.5", depth)
	}
	if !approxEqual(normal.X(), 1, testTolerance) || !approxEqual(normal.Y(), 0, testTolerance) {
		t.Errorf("normal = %v, want (1, 0)", normal)
	}
}

func TestClosestPointsOverlappingBalls(t *testing.T) {
	g1 := &shape.Ball{Radius: 2}
	g2 := &shape.Ball{Radius: 1}

	m1 := shape.IdentityIsometry()
	m2 := shape.NewIsometry(mgl64.Vec2{0, 2.5}, 0)

	pA, pB, normal, depth := penetration(t, m1, g1, m2, g2)

	if !approxEqual(depth, 0.5, 1e-4) {
		t.Errorf("depth = %v, want 0.5", depth)
	}
	if !approxEqual(normal.Y(), 1, 1e-4) {
		t.Errorf("normal = %v, want (0, 1)", normal)
	}
	if !approxEqual(pA.Y(), 2, 1e-4) {
		t.Errorf("witness on first ball = %v, want (0, 2)", pA)
	}
	if !approxEqual(pB.Y(), 1.5, 1e-4) {
		t.Errorf("witness on second ball = %v, want (0, 1.5)", pB)
	}
}

// Translating the second shape along the returned normal by the
// penetration depth must separate the pair, up to tolerance.
func TestTranslationAlongNormalSeparates(t *testing.T) {
	cases := []struct {
		name   string
		g1, g2 shape.SupportMap
		m2     shape.Isometry
	}{
		{
			"cuboids",
			&shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}},
			&shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}},
			shape.NewIsometry(mgl64.Vec2{1.5, 0.25}, 0),
		},
		{
			"balls",
			&shape.Ball{Radius: 1},
			&shape.Ball{Radius: 1},
			shape.NewIsometry(mgl64.Vec2{0.5, 1}, 0),
		},
		{
			"cuboid and ball",
			&shape.Cuboid{HalfExtents: mgl64.Vec2{2, 1}},
			&shape.Ball{Radius: 1},
			shape.NewIsometry(mgl64.Vec2{0, 1.5}, 0),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m1 := shape.IdentityIsometry()
			_, _, normal, depth := penetration(t, m1, c.g1, c.m2, c.g2)

			if depth <= 0 {
				t.Fatalf("depth = %v, want > 0", depth)
			}

			separated := c.m2.Translated(normal.Mul(depth))
			dist := gjk.Distance(m1, c.g1, separated, c.g2)
			if dist > 1e-4 {
				t.Errorf("pair still %v apart after separating translation", dist)
			}
		})
	}
}

func TestProjectOriginPointSimplex(t *testing.T) {
	simplex := &gjk.Simplex{}
	simplex.Points[0] = gjk.SupportPoint{}
	simplex.Count = 1

	support := func(mgl64.Vec2) gjk.SupportPoint { return gjk.SupportPoint{} }

	proj, normal, ok := NewEPA().ProjectOrigin(support, simplex)
	if !ok {
		t.Fatal("point simplex should resolve immediately")
	}
	if proj.Point.Len() != 0 {
		t.Errorf("projection = %v, want the origin", proj.Point)
	}
	if normal.Len() == 0 {
		t.Error("expected a unit normal for a degenerate contact")
	}
}

func TestProjectOriginSegmentSimplex(t *testing.T) {
	// A collinear two-point start on a diamond containing the origin:
	// both oriented edges seed the expansion, which must converge to the
	// diamond's edge distance 1/sqrt(2).
	diamond := []mgl64.Vec2{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

	simplex := &gjk.Simplex{}
	simplex.Points[0] = gjk.SupportPoint{Point: mgl64.Vec2{-1, 0}}
	simplex.Points[1] = gjk.SupportPoint{Point: mgl64.Vec2{1, 0}}
	simplex.Count = 2

	support := func(direction mgl64.Vec2) gjk.SupportPoint {
		best := diamond[0]
		for _, v := range diamond[1:] {
			if v.Dot(direction) > best.Dot(direction) {
				best = v
			}
		}
		return gjk.SupportPoint{Point: best}
	}

	proj, normal, ok := NewEPA().ProjectOrigin(support, simplex)
	if !ok {
		t.Fatal("expansion did not converge")
	}

	want := 1 / math.Sqrt2
	if !approxEqual(proj.Point.Len(), want, testTolerance) {
		t.Errorf("depth = %v, want %v", proj.Point.Len(), want)
	}
	if !approxEqual(normal.Len(), 1, testTolerance) {
		t.Errorf("normal %v is not unit length", normal)
	}
	if !approxEqual(proj.Point.Dot(normal), want, testTolerance) {
		t.Errorf("projection %v is not along the normal %v", proj.Point, normal)
	}
}

func TestProjectOriginRejectsNonEnclosingSimplex(t *testing.T) {
	// A triangle strictly to the right of the origin: the separation
	// phase's precondition is violated and no result must be produced.
	simplex := &gjk.Simplex{}
	simplex.Points[0] = gjk.SupportPoint{Point: mgl64.Vec2{1, -1}}
	simplex.Points[1] = gjk.SupportPoint{Point: mgl64.Vec2{3, 0}}
	simplex.Points[2] = gjk.SupportPoint{Point: mgl64.Vec2{1, 1}}
	simplex.Count = 3

	support := func(direction mgl64.Vec2) gjk.SupportPoint {
		// Support map of the same triangle.
		best := simplex.Points[0]
		for _, p := range simplex.Points[1:] {
			if p.Point.Dot(direction) > best.Point.Dot(direction) {
				best = p
			}
		}
		return best
	}

	if _, _, ok := NewEPA().ProjectOrigin(support, simplex); ok {
		t.Error("expected failure for a simplex that does not enclose the origin")
	}
}

func TestEngineReuse(t *testing.T) {
	g := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}}
	engine := NewEPA()

	for i := 0; i < 3; i++ {
		m1 := shape.IdentityIsometry()
		m2 := shape.NewIsometry(mgl64.Vec2{1.5, 0}, 0)

		simplex := &gjk.Simplex{}
		if _, _, _, intersecting := gjk.ClosestPoints(m1, g, m2, g, simplex); !intersecting {
			t.Fatal("shapes expected to intersect")
		}

		pA, pB, normal, ok := engine.ClosestPoints(m1, g, m2, g, simplex)
		if !ok {
			t.Fatalf("run %d: expansion did not converge", i)
		}
		if depth := pA.Sub(pB).Dot(normal); !approxEqual(depth, 0.5, testTolerance) {
			t.Errorf("run %d: depth = %v, want 0.5", i, depth)
		}
	}
}
