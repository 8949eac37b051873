package model

import (
	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

// Mesh is a welded triangle mesh. Vertices, TexCoords and Normals are
// parallel arrays: index i in each describes the same render vertex.
type Mesh struct {
	name string

	TeamColours bool
	Vertices    []math.Vec3
	TexCoords   []math.Vec2
	Normals     []math.Vec3
	Indices     []IndexedTriangle
	Connectors  []math.Vec3

	bounds      Bounds
	boundsValid bool
}

// NewMesh returns an empty mesh. An invalid name is cleared.
func NewMesh(name string) *Mesh {
	m := &Mesh{}
	m.SetName(name)
	return m
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// SetName renames the mesh. Names outside the engine charset are cleared
// and false is returned.
func (m *Mesh) SetName(name string) bool {
	if !formats.IsValidName(name) {
		m.name = ""
		return false
	}
	m.name = name
	return true
}

// VertexCount returns the number of welded vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Indices) }

// ConnectorCount returns the number of connectors.
func (m *Mesh) ConnectorCount() int { return len(m.Connectors) }

// IsValid reports whether the name is valid, the parallel arrays agree in
// length and every triangle index is in range.
func (m *Mesh) IsValid() bool {
	if !formats.IsValidName(m.name) {
		return false
	}
	n := len(m.Vertices)
	if len(m.TexCoords) != n || len(m.Normals) != n {
		return false
	}
	for _, tri := range m.Indices {
		if !tri.IsValid(n) {
			return false
		}
	}
	return true
}

// Invalidate marks the cached bounds stale. Call it after editing the
// vertex array directly.
func (m *Mesh) Invalidate() {
	m.boundsValid = false
}

// Bounds returns the bounding box and vertex centroid, recomputing them if
// the mesh changed. An empty mesh has zero bounds.
func (m *Mesh) Bounds() Bounds {
	if !m.boundsValid {
		m.updateBounds()
	}
	return m.bounds
}

func (m *Mesh) updateBounds() {
	m.bounds = Bounds{}
	m.boundsValid = true
	if len(m.Vertices) == 0 {
		return
	}
	b := Bounds{Min: m.Vertices[0], Max: m.Vertices[0]}
	var sum math.Vec3
	for _, v := range m.Vertices {
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
		sum = sum.Add(v)
	}
	b.Center = sum.Scale(1 / float32(len(m.Vertices)))
	m.bounds = b
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		name:        m.name,
		TeamColours: m.TeamColours,
		Vertices:    append([]math.Vec3(nil), m.Vertices...),
		TexCoords:   append([]math.Vec2(nil), m.TexCoords...),
		Normals:     append([]math.Vec3(nil), m.Normals...),
		Indices:     append([]IndexedTriangle(nil), m.Indices...),
		Connectors:  append([]math.Vec3(nil), m.Connectors...),
	}
	return out
}

// Explode returns the mesh as a flat triangle stream, one Corner per
// triangle corner. Out-of-range indices are skipped.
func (m *Mesh) Explode() [][3]Corner {
	out := make([][3]Corner, 0, len(m.Indices))
	n := len(m.Vertices)
	for _, tri := range m.Indices {
		if !tri.IsValid(n) || len(m.TexCoords) < n || len(m.Normals) < n {
			continue
		}
		var t [3]Corner
		for i, idx := range tri {
			t[i] = Corner{
				Position: m.Vertices[idx],
				TexCoord: m.TexCoords[idx],
				Normal:   m.Normals[idx],
			}
		}
		out = append(out, t)
	}
	return out
}

// Reweld rebuilds the vertex arrays with a new tolerance. Name, team colour
// flag and connectors are kept.
func (m *Mesh) Reweld(eps float32) error {
	welded, err := Weld(m.Explode(), eps)
	if err != nil {
		return err
	}
	m.Vertices = welded.Vertices
	m.TexCoords = welded.TexCoords
	m.Normals = welded.Normals
	m.Indices = welded.Indices
	m.Invalidate()
	return nil
}

func (m *Mesh) clear() {
	*m = Mesh{}
}
