package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

func fromMgl3(v mgl32.Vec3) math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }
func toMgl3(v math.Vec3) mgl32.Vec3   { return mgl32.Vec3{v.X, v.Y, v.Z} }

// FromMesh3DS welds a 3DS mesh. Smooth normals are computed on the source
// mesh, then positions and normals go through the mesh matrix, Y and Z are
// swapped, V is flipped and the winding is reversed.
func FromMesh3DS(src *formats.Mesh3DS, eps float32) (*Mesh, error) {
	if !src.IsValid() {
		return nil, fmt.Errorf("%w: 3DS mesh %q references a missing vertex", ErrInvalidMesh, src.Name)
	}
	normals := src.CalculateVertexNormals()
	w := NewWelder(eps)
	for i, f := range src.Faces {
		var corners [3]Corner
		for c, idx := range f.Index {
			uv := src.TexCoord(idx)
			corners[c] = Corner{
				Position: fromMgl3(src.Transform(src.Vertices[idx])).SwapYZ(),
				TexCoord: math.UV(uv[0], uv[1]).FlipV(),
				Normal:   fromMgl3(src.TransformNormal(normals[i][c])).SwapYZ(),
			}
		}
		if err := w.AddTriangle(corners[2], corners[1], corners[0]); err != nil {
			return nil, err
		}
	}
	m := w.Mesh()
	m.SetName(formats.SanitizeName(src.Name))
	return m, nil
}

// ToMesh3DS converts the mesh to 3DS conventions with an identity matrix.
// Normals are dropped; 3DS readers rebuild them from smoothing groups, and
// every face is put in smoothing group 1.
func (m *Mesh) ToMesh3DS() *formats.Mesh3DS {
	out := formats.NewMesh3DS(m.name)
	out.Vertices = make([]mgl32.Vec3, len(m.Vertices))
	out.TexCoords = make([]mgl32.Vec2, len(m.TexCoords))
	for i, v := range m.Vertices {
		out.Vertices[i] = toMgl3(v.SwapYZ())
	}
	for i, uv := range m.TexCoords {
		uv = uv.FlipV()
		out.TexCoords[i] = mgl32.Vec2{uv.U(), uv.V()}
	}
	out.Faces = make([]formats.Face3DS, len(m.Indices))
	for i, tri := range m.Indices {
		out.Faces[i] = formats.Face3DS{Index: tri.Reversed(), Smoothing: 1}
	}
	return out
}
