package shape

import "github.com/go-gl/mathgl/mgl64"

// Isometry is a 2D rigid transform (rotation followed by translation).
// The rotation matrix and its transpose are cached so that transforming
// points and directions stays allocation-free on hot query paths.
type Isometry struct {
	Translation mgl64.Vec2
	angle       float64
	rotation    mgl64.Mat2
	inverse     mgl64.Mat2
}

// NewIsometry creates an isometry from a translation and a rotation angle
// in radians (counter-clockwise).
func NewIsometry(translation mgl64.Vec2, angle float64) Isometry {
	rotation := mgl64.Rotate2D(angle)

	return Isometry{
		Translation: translation,
		angle:       angle,
		rotation:    rotation,
		inverse:     rotation.Transpose(),
	}
}

// IdentityIsometry creates the identity transform.
func IdentityIsometry() Isometry {
	return Isometry{
		rotation: mgl64.Ident2(),
		inverse:  mgl64.Ident2(),
	}
}

// Translated returns a copy of the isometry shifted by the given vector,
// keeping the rotation. Used to advance shapes under translational motion.
func (m Isometry) Translated(shift mgl64.Vec2) Isometry {
	m.Translation = m.Translation.Add(shift)
	return m
}

func (m Isometry) Angle() float64 {
	return m.angle
}

// TransformPoint maps a point from the local frame to the world frame.
func (m Isometry) TransformPoint(p mgl64.Vec2) mgl64.Vec2 {
	return m.rotation.Mul2x1(p).Add(m.Translation)
}

// TransformVector maps a direction from the local frame to the world frame.
// Directions are only rotated, never translated.
func (m Isometry) TransformVector(v mgl64.Vec2) mgl64.Vec2 {
	return m.rotation.Mul2x1(v)
}

// InverseTransformPoint maps a world point into the local frame.
func (m Isometry) InverseTransformPoint(p mgl64.Vec2) mgl64.Vec2 {
	return m.inverse.Mul2x1(p.Sub(m.Translation))
}

// InverseTransformVector maps a world direction into the local frame.
func (m Isometry) InverseTransformVector(v mgl64.Vec2) mgl64.Vec2 {
	return m.inverse.Mul2x1(v)
}

// Inverse returns the inverse isometry. A rigid transform is always
// invertible, the rotation inverse being its transpose.
func (m Isometry) Inverse() Isometry {
	return Isometry{
		Translation: m.inverse.Mul2x1(m.Translation).Mul(-1),
		angle:       -m.angle,
		rotation:    m.inverse,
		inverse:     m.rotation,
	}
}

// Mul composes two isometries: (m.Mul(other)).TransformPoint(p) is
// equivalent to m.TransformPoint(other.TransformPoint(p)).
func (m Isometry) Mul(other Isometry) Isometry {
	return Isometry{
		Translation: m.TransformPoint(other.Translation),
		angle:       m.angle + other.angle,
		rotation:    m.rotation.Mul2(other.rotation),
		inverse:     other.inverse.Mul2(m.inverse),
	}
}
