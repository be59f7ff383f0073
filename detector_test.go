package narrow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akmonengine/narrow/query"
	"github.com/akmonengine/narrow/shape"
)

func pose(x, y float64) shape.Isometry {
	return shape.NewIsometry(mgl64.Vec2{x, y}, 0)
}

func TestBallBallProximityDetector(t *testing.T) {
	detector := NewBallBallProximityDetector()
	ball := &shape.Ball{Radius: 1}

	assert.Equal(t, query.Disjoint, detector.Proximity())

	// A pair drifting together, touching, then separating again.
	steps := []struct {
		x    float64
		want query.ProximityState
	}{
		{5, query.Disjoint},
		{2.3, query.WithinMargin},
		{1.5, query.Intersecting},
		{2.3, query.WithinMargin},
		{5, query.Disjoint},
	}

	for _, step := range steps {
		require.True(t, detector.Update(pose(0, 0), ball, pose(step.x, 0), ball, 0.5))
		assert.Equalf(t, step.want, detector.Proximity(), "at x = %v", step.x)
	}
}

func TestDetectorRejectsWrongCapability(t *testing.T) {
	ball := &shape.Ball{Radius: 1}
	cuboid := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}}
	plane := &shape.Plane{Normal: mgl64.Vec2{0, 1}}

	detector := NewBallBallProximityDetector()

	// Establish a non-default state first.
	require.True(t, detector.Update(pose(0, 0), ball, pose(1, 0), ball, 0))
	require.Equal(t, query.Intersecting, detector.Proximity())

	// A mismatched pair is refused and the stored state survives.
	assert.False(t, detector.Update(pose(0, 0), ball, pose(1, 0), cuboid, 0))
	assert.Equal(t, query.Intersecting, detector.Proximity())

	assert.False(t, NewPlaneSupportMapProximityDetector(false).Update(pose(0, 0), ball, pose(1, 0), cuboid, 0))
	assert.False(t, NewSupportMapSupportMapProximityDetector().Update(pose(0, 0), plane, pose(1, 0), cuboid, 0))
	assert.False(t, NewCompositeShapeProximityDetector().Update(pose(0, 0), ball, pose(1, 0), cuboid, 0))
}

func TestPlaneSupportMapProximityDetector(t *testing.T) {
	plane := &shape.Plane{Normal: mgl64.Vec2{0, 1}}
	ball := &shape.Ball{Radius: 1}

	t.Run("plane first", func(t *testing.T) {
		detector := NewPlaneSupportMapProximityDetector(false)
		require.True(t, detector.Update(pose(0, 0), plane, pose(0, 0.5), ball, 0))
		assert.Equal(t, query.Intersecting, detector.Proximity())
	})

	t.Run("plane second", func(t *testing.T) {
		detector := NewPlaneSupportMapProximityDetector(true)
		require.True(t, detector.Update(pose(0, 0.5), ball, pose(0, 0), plane, 0))
		assert.Equal(t, query.Intersecting, detector.Proximity())
	})
}

func TestSupportMapSupportMapProximityDetector(t *testing.T) {
	detector := NewSupportMapSupportMapProximityDetector()
	cuboid := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}}

	require.True(t, detector.Update(pose(0, 0), cuboid, pose(2.5, 0), cuboid, 1))
	assert.Equal(t, query.WithinMargin, detector.Proximity())

	require.True(t, detector.Update(pose(0, 0), cuboid, pose(10, 0), cuboid, 1))
	assert.Equal(t, query.Disjoint, detector.Proximity())
}

func TestCompositeShapeProximityDetector(t *testing.T) {
	ground := shape.NewPolyline([]mgl64.Vec2{{-5, 0}, {0, 0}, {5, 0}})
	ball := &shape.Ball{Radius: 1}

	detector := NewCompositeShapeProximityDetector()

	require.True(t, detector.Update(pose(0, 0), ground, pose(2, 0.5), ball, 0))
	assert.Equal(t, query.Intersecting, detector.Proximity())

	require.True(t, detector.Update(pose(0, 0), ground, pose(2, 5), ball, 0))
	assert.Equal(t, query.Disjoint, detector.Proximity())

	t.Run("composite second", func(t *testing.T) {
		detector := NewCompositeShapeProximityDetector()
		require.True(t, detector.Update(pose(2, 0.5), ball, pose(0, 0), ground, 0))
		assert.Equal(t, query.Intersecting, detector.Proximity())
	})
}

func TestProximityDispatcher(t *testing.T) {
	ball := &shape.Ball{Radius: 1}
	plane := &shape.Plane{Normal: mgl64.Vec2{0, 1}}
	cuboid := &shape.Cuboid{HalfExtents: mgl64.Vec2{1, 1}}
	ground := shape.NewPolyline([]mgl64.Vec2{{-5, 0}, {5, 0}})

	dispatcher := ProximityDispatcher{}

	cases := []struct {
		name   string
		g1, g2 shape.Shape
		want   ProximityDetector
	}{
		{"ball/ball", ball, ball, &BallBallProximityDetector{}},
		{"plane/support map", plane, cuboid, &PlaneSupportMapProximityDetector{}},
		{"support map/plane", cuboid, plane, &PlaneSupportMapProximityDetector{}},
		{"support map/support map", cuboid, ball, &SupportMapSupportMapProximityDetector{}},
		{"composite/any", ground, ball, &CompositeShapeProximityDetector{}},
		{"any/composite", ball, ground, &CompositeShapeProximityDetector{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := dispatcher.DetectorFor(c.g1, c.g2)
			require.NotNil(t, got)
			assert.IsType(t, c.want, got)
		})
	}

	t.Run("unsupported pair", func(t *testing.T) {
		assert.Nil(t, dispatcher.DetectorFor(plane, plane))
	})

	t.Run("selected detector accepts the pair", func(t *testing.T) {
		for _, c := range cases {
			detector := dispatcher.DetectorFor(c.g1, c.g2)
			require.NotNil(t, detector)
			assert.Truef(t, detector.Update(pose(0, 0), c.g1, pose(0, 10), c.g2, 0), "%T", detector)
		}
	})
}
