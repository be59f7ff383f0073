package query

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/narrow/shape"
)

func pose(x, y float64) shape.Isometry {
	return shape.NewIsometry(mgl64.Vec2{x, y}, 0)
}

func TestDistanceBallBall(t *testing.T) {
	b := &shape.Ball{Radius: 1}

	cases := []struct {
		name   string
		center mgl64.Vec2
		want   float64
	}{
		{"separated", mgl64.Vec2{5, 0}, 3},
		{"touching", mgl64.Vec2{2, 0}, 0},
		{"penetrating", mgl64.Vec2{1, 0}, 0},
		{"diagonal", mgl64.Vec2{3, 4}, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Distance(shape.IdentityIsometry(), b, pose(c.center.X(), c.center.Y()), b)
			require.NoError(t, err)
			assert.InDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestDistancePlaneSupportMap(t *testing.T) {
	plane := &shape.Plane{Normal: mgl64.Vec2{0, 1}}
	cuboid := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}}

	got, err := Distance(shape.IdentityIsometry(), plane, pose(10, 3), cuboid)
	require.NoError(t, err)
	assert.InDelta(t, 2, got, 1e-9)

	t.Run("symmetric dispatch", func(t *testing.T) {
		swapped, err := Distance(pose(10, 3), cuboid, shape.IdentityIsometry(), plane)
		require.NoError(t, err)
		assert.InDelta(t, got, swapped, 1e-9)
	})

	t.Run("below the surface", func(t *testing.T) {
		got, err := Distance(shape.IdentityIsometry(), plane, pose(0, 0.5), cuboid)
		require.NoError(t, err)
		assert.Zero(t, got)
	})
}

func TestDistanceSupportMapSupportMap(t *testing.T) {
	g := &shape.Cuboid{HalfExtents: mgl64.Vec2{0.5, 0.5}}

	got, err := Distance(shape.IdentityIsometry(), g, pose(2, 0), g)
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-9)
}

func TestDistanceSelfIsZero(t *testing.T) {
	shapes := map[string]shape.Shape{
		"ball":    &shape.Ball{Radius: 1},
		"cuboid":  &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 2}},
		"segment": &shape.Segment{A: mgl64.Vec2{-1, 0}, B: mgl64.Vec2{1, 0}},
	}

	m := pose(3, -2)
	for name, g := range shapes {
		t.Run(name, func(t *testing.T) {
			got, err := Distance(m, g, m, g)
			require.NoError(t, err)
			assert.InDelta(t, 0, got, 1e-9)
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	g1 := &shape.Ball{Radius: 1.5}
	g2 := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 0.5}}

	m1 := pose(0, 0)
	m2 := shape.NewIsometry(mgl64.Vec2{4, 3}, math.Pi/6)

	d12, err := Distance(m1, g1, m2, g2)
	require.NoError(t, err)
	d21, err := Distance(m2, g2, m1, g1)
	require.NoError(t, err)

	assert.InDelta(t, d12, d21, 1e-9)
}

func TestDistanceCompositeMatchesBruteForce(t *testing.T) {
	polyline := shape.NewPolyline([]mgl64.Vec2{
		{-4, 0}, {-1, 2}, {2, -1}, {5, 3},
	})
	ball := &shape.Ball{Radius: 0.5}

	m1 := pose(0, 0)
	targets := []mgl64.Vec2{{0, 5}, {-4, -4}, {2, 0}, {6, 3}}

	for _, target := range targets {
		m2 := pose(target.X(), target.Y())

		got, err := Distance(m1, polyline, m2, ball)
		require.NoError(t, err)

		// Reference: minimum over every segment queried directly.
		want := math.Inf(1)
		for i := 0; i < 3; i++ {
			polyline.PartAt(i, m1, func(m shape.Isometry, part shape.Shape) {
				d, err := Distance(m, part, m2, ball)
				require.NoError(t, err)
				want = math.Min(want, d)
			})
		}

		assert.InDeltaf(t, want, got, 1e-9, "target %v", target)
	}
}

func TestDistanceCompoundAgainstBall(t *testing.T) {
	// Two unit balls glued at (-2, 0) and (2, 0).
	compound := shape.NewCompound([]shape.CompoundPart{
		{Delta: shape.NewIsometry(mgl64.Vec2{-2, 0}, 0), Shape: &shape.Ball{Radius: 1}},
		{Delta: shape.NewIsometry(mgl64.Vec2{2, 0}, 0), Shape: &shape.Ball{Radius: 1}},
	})
	probe := &shape.Ball{Radius: 1}

	got, err := Distance(shape.IdentityIsometry(), compound, pose(6, 0), probe)
	require.NoError(t, err)
	assert.InDelta(t, 2, got, 1e-9)

	// Moving the whole compound moves every part with it.
	got, err = Distance(pose(1, 0), compound, pose(6, 0), probe)
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-9)
}

func TestDistanceUnsupportedPair(t *testing.T) {
	plane := &shape.Plane{Normal: mgl64.Vec2{0, 1}}

	_, err := Distance(shape.IdentityIsometry(), plane, pose(1, 0), plane)
	require.ErrorIs(t, err, ErrUnsupportedPair)
	assert.Contains(t, err.Error(), "Plane")
}

func TestDistanceEmptyComposite(t *testing.T) {
	empty := shape.NewCompound(nil)
	ball := &shape.Ball{Radius: 1}

	_, err := Distance(shape.IdentityIsometry(), empty, pose(3, 0), ball)
	require.ErrorIs(t, err, ErrEmptyComposite)
}
