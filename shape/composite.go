package shape

import "github.com/go-gl/mathgl/mgl64"

// Polyline is a sequence of connected segments. Each segment is an
// indexed sub-part; queries against a polyline go through its
// bounding-volume tree.
type Polyline struct {
	vertices []mgl64.Vec2
	segments []Segment
	bvt      *BVT
}

// NewPolyline builds a polyline from at least two vertices in the local
// frame.
func NewPolyline(vertices []mgl64.Vec2) *Polyline {
	segments := make([]Segment, 0, len(vertices)-1)
	leaves := make([]AABB, 0, len(vertices)-1)

	identity := IdentityIsometry()
	for i := 0; i+1 < len(vertices); i++ {
		segment := Segment{A: vertices[i], B: vertices[i+1]}
		segments = append(segments, segment)
		leaves = append(leaves, segment.AABB(identity))
	}

	return &Polyline{
		vertices: vertices,
		segments: segments,
		bvt:      NewBVT(leaves),
	}
}

func (p *Polyline) AABB(m Isometry) AABB {
	aabb := p.segments[0].AABB(m)
	for i := 1; i < len(p.segments); i++ {
		aabb = aabb.Merged(p.segments[i].AABB(m))
	}

	return aabb
}

func (p *Polyline) BVT() *BVT {
	return p.bvt
}

func (p *Polyline) PartAt(index int, m Isometry, fn func(m Isometry, part Shape)) {
	fn(m, &p.segments[index])
}

// Compound is a composite shape made of arbitrary posed sub-shapes, each
// with its own transform relative to the compound's local frame.
type Compound struct {
	parts []CompoundPart
	bvt   *BVT
}

// CompoundPart is one posed sub-shape of a Compound.
type CompoundPart struct {
	Delta Isometry
	Shape Shape
}

// NewCompound builds a compound shape over the given posed sub-shapes.
func NewCompound(parts []CompoundPart) *Compound {
	leaves := make([]AABB, len(parts))
	for i, part := range parts {
		leaves[i] = part.Shape.AABB(part.Delta)
	}

	return &Compound{
		parts: parts,
		bvt:   NewBVT(leaves),
	}
}

func (c *Compound) AABB(m Isometry) AABB {
	aabb := c.parts[0].Shape.AABB(m.Mul(c.parts[0].Delta))
	for i := 1; i < len(c.parts); i++ {
		aabb = aabb.Merged(c.parts[i].Shape.AABB(m.Mul(c.parts[i].Delta)))
	}

	return aabb
}

func (c *Compound) BVT() *BVT {
	return c.bvt
}

func (c *Compound) PartAt(index int, m Isometry, fn func(m Isometry, part Shape)) {
	part := c.parts[index]
	fn(m.Mul(part.Delta), part.Shape)
}
