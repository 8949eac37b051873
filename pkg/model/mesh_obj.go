package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/wmit/pkg/formats"
)

// FromOBJGroup welds the faces of one OBJ group. Polygons are split as fans
// around their first vertex. Texture coordinates are flipped to a top-left
// origin; missing texture coordinates and normals become zero.
func FromOBJGroup(obj *formats.OBJ, g *formats.OBJGroup, eps float32) (*Mesh, error) {
	corner := func(fv formats.OBJFaceVertex) (Corner, error) {
		var c Corner
		if fv.Position < 1 || fv.Position > len(obj.Positions) {
			return c, fmt.Errorf("%w: position %d", formats.ErrOutOfRange, fv.Position)
		}
		c.Position = obj.Positions[fv.Position-1]
		if fv.TexCoord > 0 {
			if fv.TexCoord > len(obj.TexCoords) {
				return c, fmt.Errorf("%w: texture coordinate %d", formats.ErrOutOfRange, fv.TexCoord)
			}
			c.TexCoord = obj.TexCoords[fv.TexCoord-1].FlipV()
		}
		if fv.Normal > 0 {
			if fv.Normal > len(obj.Normals) {
				return c, fmt.Errorf("%w: normal %d", formats.ErrOutOfRange, fv.Normal)
			}
			c.Normal = obj.Normals[fv.Normal-1]
		}
		return c, nil
	}

	w := NewWelder(eps)
	for fi, f := range g.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		first, err := corner(f.Vertices[0])
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", fi, err)
		}
		for i := 1; i+1 < len(f.Vertices); i++ {
			b, err := corner(f.Vertices[i])
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", fi, err)
			}
			c, err := corner(f.Vertices[i+1])
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", fi, err)
			}
			if err := w.AddTriangle(first, b, c); err != nil {
				return nil, err
			}
		}
	}
	m := w.Mesh()
	m.SetName(objMeshName(g.Name))
	return m, nil
}

// objMeshName maps an OBJ object name onto the engine charset.
func objMeshName(name string) string {
	return formats.SanitizeName(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// WriteOBJ writes the mesh as an OBJ object. base is the number of
// vertices already written to the file; OBJ indices are global and
// 1-based. The returned value is the base for the next object.
func (m *Mesh) WriteOBJ(w io.Writer, base int) (int, error) {
	tw := formats.NewTextWriter(w)
	f := formats.FormatFloat
	if m.name != "" {
		tw.Printf("o %s\n", m.name)
	}
	for _, v := range m.Vertices {
		tw.Printf("v %s %s %s\n", f(v.X), f(v.Y), f(v.Z))
	}
	for _, uv := range m.TexCoords {
		uv = uv.FlipV()
		tw.Printf("vt %s %s\n", f(uv.U()), f(uv.V()))
	}
	for _, n := range m.Normals {
		tw.Printf("vn %s %s %s\n", f(n.X), f(n.Y), f(n.Z))
	}
	for _, tri := range m.Indices {
		a, b, c := base+int(tri[0])+1, base+int(tri[1])+1, base+int(tri[2])+1
		tw.Printf("f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return base + len(m.Vertices), tw.Err()
}

