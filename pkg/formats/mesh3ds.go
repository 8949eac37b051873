package formats

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face3DS is one triangle of a 3DS mesh.
type Face3DS struct {
	Index     [3]uint16
	Smoothing uint32 // smoothing group bitmask, 0 = flat
	Material  string
}

// Mesh3DS is the triangle data exchanged with a 3DS reader or writer.
// Positions use the Z-up convention of the format and texture coordinates
// have a bottom-left origin.
type Mesh3DS struct {
	Name      string
	Vertices  []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Faces     []Face3DS
	Matrix    mgl32.Mat4
}

// NewMesh3DS returns an empty mesh with an identity matrix.
func NewMesh3DS(name string) *Mesh3DS {
	return &Mesh3DS{Name: name, Matrix: mgl32.Ident4()}
}

// Transform applies the mesh matrix to a position. A zero matrix is treated
// as identity.
func (m *Mesh3DS) Transform(p mgl32.Vec3) mgl32.Vec3 {
	if m.Matrix == (mgl32.Mat4{}) {
		return p
	}
	return mgl32.TransformCoordinate(p, m.Matrix)
}

// TransformNormal applies the rotation part of the mesh matrix to a normal.
func (m *Mesh3DS) TransformNormal(n mgl32.Vec3) mgl32.Vec3 {
	if m.Matrix == (mgl32.Mat4{}) {
		return n
	}
	n = mgl32.TransformNormal(n, m.Matrix)
	if n.Len() < 1e-12 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// TexCoord returns the texture coordinate of a vertex, or zero if the mesh
// has none.
func (m *Mesh3DS) TexCoord(vertex uint16) mgl32.Vec2 {
	if int(vertex) < len(m.TexCoords) {
		return m.TexCoords[vertex]
	}
	return mgl32.Vec2{}
}

// IsValid reports whether every face references an existing vertex.
func (m *Mesh3DS) IsValid() bool {
	for _, f := range m.Faces {
		for _, idx := range f.Index {
			if int(idx) >= len(m.Vertices) {
				return false
			}
		}
	}
	return true
}

// faceNormal returns the unit normal of a face, or zero for degenerate faces.
func (m *Mesh3DS) faceNormal(f Face3DS) mgl32.Vec3 {
	a, b, c := m.Vertices[f.Index[0]], m.Vertices[f.Index[1]], m.Vertices[f.Index[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-12 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// CalculateVertexNormals returns one normal per face corner. Corners of
// faces sharing a vertex and a smoothing group are averaged; faces without a
// smoothing group keep their flat normal.
func (m *Mesh3DS) CalculateVertexNormals() [][3]mgl32.Vec3 {
	faceNormals := make([]mgl32.Vec3, len(m.Faces))
	adjacency := make([][]int, len(m.Vertices))
	for i, f := range m.Faces {
		faceNormals[i] = m.faceNormal(f)
		for _, idx := range f.Index {
			adjacency[idx] = append(adjacency[idx], i)
		}
	}

	out := make([][3]mgl32.Vec3, len(m.Faces))
	for i, f := range m.Faces {
		for corner, idx := range f.Index {
			if f.Smoothing == 0 {
				out[i][corner] = faceNormals[i]
				continue
			}
			var sum mgl32.Vec3
			for _, other := range adjacency[idx] {
				if other == i || m.Faces[other].Smoothing&f.Smoothing != 0 {
					sum = sum.Add(faceNormals[other])
				}
			}
			if sum.Len() < 1e-12 {
				out[i][corner] = faceNormals[i]
			} else {
				out[i][corner] = sum.Normalize()
			}
		}
	}
	return out
}
