package model

import (
	"fmt"
	"io"

	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

// Read parses one WZM mesh block:
//
//	MESH <name>
//	TEAMCOLOURS <0|1>
//	VERTICES <n>
//	FACES <n>
//	VERTEXARRAY
//	<x> <y> <z> <u> <v> <nx> <ny> <nz>   (n lines)
//	INDEXARRAY
//	<a> <b> <c>                          (n lines)
//	CONNECTORS <n>
//	<x> <y> <z>                          (n lines)
//
// On failure the mesh is cleared.
func (m *Mesh) Read(t *formats.TokenReader) error {
	if err := m.read(t); err != nil {
		m.clear()
		return err
	}
	return nil
}

func (m *Mesh) read(t *formats.TokenReader) error {
	m.clear()
	if err := t.Expect("MESH"); err != nil {
		return err
	}
	name := t.RestOfLine()
	if !formats.IsValidName(name) {
		return fmt.Errorf("%w: mesh %q", formats.ErrInvalidName, name)
	}
	m.name = name

	if err := t.Expect("TEAMCOLOURS"); err != nil {
		return err
	}
	tc, err := t.Int()
	if err != nil {
		return err
	}
	if tc != 0 && tc != 1 {
		return fmt.Errorf("%w: TEAMCOLOURS %d", formats.ErrOutOfRange, tc)
	}
	m.TeamColours = tc == 1

	vertexCount, err := t.Count("VERTICES", formats.MaxIndex+1)
	if err != nil {
		return err
	}
	faceCount, err := t.Count("FACES", 1<<20)
	if err != nil {
		return err
	}

	if err := t.Expect("VERTEXARRAY"); err != nil {
		return err
	}
	m.Vertices = make([]math.Vec3, vertexCount)
	m.TexCoords = make([]math.Vec2, vertexCount)
	m.Normals = make([]math.Vec3, vertexCount)
	for i := 0; i < vertexCount; i++ {
		var f [8]float32
		for j := range f {
			if f[j], err = t.Float(); err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
		}
		if f[3] < 0 || f[3] > 1 || f[4] < 0 || f[4] > 1 {
			return fmt.Errorf("%w: vertex %d uv (%g, %g)", formats.ErrOutOfRange, i, f[3], f[4])
		}
		m.Vertices[i] = math.Vec3{X: f[0], Y: f[1], Z: f[2]}
		m.TexCoords[i] = math.UV(f[3], f[4])
		m.Normals[i] = math.Vec3{X: f[5], Y: f[6], Z: f[7]}.Normalize()
	}

	if err := t.Expect("INDEXARRAY"); err != nil {
		return err
	}
	m.Indices = make([]IndexedTriangle, faceCount)
	for i := 0; i < faceCount; i++ {
		for j := 0; j < 3; j++ {
			idx, err := t.Index(vertexCount)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			m.Indices[i][j] = idx
		}
	}

	connCount, err := t.Count("CONNECTORS", 1<<16)
	if err != nil {
		return err
	}
	m.Connectors = make([]math.Vec3, connCount)
	for i := range m.Connectors {
		var f [3]float32
		for j := range f {
			if f[j], err = t.Float(); err != nil {
				return fmt.Errorf("connector %d: %w", i, err)
			}
		}
		m.Connectors[i] = math.Vec3{X: f[0], Y: f[1], Z: f[2]}
	}
	m.Invalidate()
	return nil
}

// Write emits the mesh block read by Read.
func (m *Mesh) Write(w io.Writer) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMesh, m.name)
	}
	tw := formats.NewTextWriter(w)
	m.write(tw)
	return tw.Err()
}

func (m *Mesh) write(w *formats.TextWriter) {
	f := formats.FormatFloat
	tc := 0
	if m.TeamColours {
		tc = 1
	}
	w.Printf("MESH %s\n", m.name)
	w.Printf("TEAMCOLOURS %d\n", tc)
	w.Printf("VERTICES %d\n", len(m.Vertices))
	w.Printf("FACES %d\n", len(m.Indices))
	w.Printf("VERTEXARRAY\n")
	for i, v := range m.Vertices {
		uv, n := m.TexCoords[i], m.Normals[i]
		w.Printf("\t%s %s %s %s %s %s %s %s\n",
			f(v.X), f(v.Y), f(v.Z), f(uv.U()), f(uv.V()), f(n.X), f(n.Y), f(n.Z))
	}
	w.Printf("INDEXARRAY\n")
	for _, tri := range m.Indices {
		w.Printf("\t%d %d %d\n", tri[0], tri[1], tri[2])
	}
	w.Printf("CONNECTORS %d\n", len(m.Connectors))
	for _, c := range m.Connectors {
		w.Printf("\t%s %s %s\n", f(c.X), f(c.Y), f(c.Z))
	}
}
