package model

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/wmit/pkg/math"
)

// Scale multiplies positions and connectors per axis. Normals follow the
// inverse-transpose and are re-normalized; an odd number of negative
// factors reverses the winding so faces keep pointing outwards.
func (m *Mesh) Scale(x, y, z float32) {
	s := math.Vec3{X: x, Y: y, Z: z}
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Mul(s)
	}
	for i := range m.Connectors {
		m.Connectors[i] = m.Connectors[i].Mul(s)
	}
	inv := math.Vec3{X: safeInverse(x), Y: safeInverse(y), Z: safeInverse(z)}
	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Mul(inv).Normalize()
	}
	if negatives(x, y, z)%2 == 1 {
		m.ReverseWinding()
	}
	m.Invalidate()
}

func safeInverse(v float32) float32 {
	if math32.Abs(v) < math.Epsilon32 {
		return 0
	}
	return 1 / v
}

func negatives(vs ...float32) int {
	n := 0
	for _, v := range vs {
		if v < 0 {
			n++
		}
	}
	return n
}

// Translate moves positions and connectors by d.
func (m *Mesh) Translate(d math.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(d)
	}
	for i := range m.Connectors {
		m.Connectors[i] = m.Connectors[i].Add(d)
	}
	m.Invalidate()
}

// MirrorFromPoint reflects the mesh through the plane perpendicular to
// axis that contains p, then reverses the winding.
func (m *Mesh) MirrorFromPoint(p math.Vec3, axis Axis) {
	a := int(axis)
	mirror := func(v math.Vec3) math.Vec3 {
		return v.WithComponent(a, 2*p.Component(a)-v.Component(a))
	}
	for i := range m.Vertices {
		m.Vertices[i] = mirror(m.Vertices[i])
	}
	for i := range m.Connectors {
		m.Connectors[i] = mirror(m.Connectors[i])
	}
	for i := range m.Normals {
		n := m.Normals[i]
		m.Normals[i] = n.WithComponent(a, -n.Component(a))
	}
	m.ReverseWinding()
	m.Invalidate()
}

// MirrorUsingLocalCenter mirrors around the vertex centroid.
func (m *Mesh) MirrorUsingLocalCenter(axis Axis) {
	m.MirrorFromPoint(m.Bounds().Center, axis)
}

// ReverseWinding flips the vertex order of every triangle.
func (m *Mesh) ReverseWinding() {
	for i, tri := range m.Indices {
		m.Indices[i] = tri.Reversed()
	}
}
