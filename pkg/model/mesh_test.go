package model

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

const testMeshBlock = "MESH foo\nTEAMCOLOURS 0\nVERTICES 3\nFACES 1\nVERTEXARRAY\n" +
	"0 0 0 0 0 0 0 1\n1 0 0 1 0 0 0 1\n0 1 0 0 1 0 0 1\n" +
	"INDEXARRAY\n0 1 2\nCONNECTORS 0\n"

func TestMeshRead(t *testing.T) {
	var m Mesh
	if err := m.Read(formats.NewTokenReaderString(testMeshBlock)); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m.Name() != "foo" {
		t.Errorf("Name() = %q, want foo", m.Name())
	}
	if m.TeamColours {
		t.Error("TeamColours = true, want false")
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", m.VertexCount())
	}
	if m.FaceCount() != 1 || m.Indices[0] != (IndexedTriangle{0, 1, 2}) {
		t.Errorf("Indices = %v, want [[0 1 2]]", m.Indices)
	}
	if got := m.TexCoords[2]; got != math.UV(0, 1) {
		t.Errorf("TexCoords[2] = %v, want (0, 1)", got)
	}
	if got := m.Normals[1]; got != (math.Vec3{Z: 1}) {
		t.Errorf("Normals[1] = %v, want (0, 0, 1)", got)
	}
	if !m.IsValid() {
		t.Error("IsValid() = false")
	}
}

func TestMeshWriteReadRoundTrip(t *testing.T) {
	src, err := Weld(cubeTriangles(), DefaultWeldEpsilon)
	if err != nil {
		t.Fatal(err)
	}
	src.SetName("cube")
	src.TeamColours = true
	src.Connectors = []math.Vec3{{X: 0.5, Y: 1.25, Z: -3}}

	var buf bytes.Buffer
	if err := src.Write(&buf); err != nil {
		t.Fatal(err)
	}
	var got Mesh
	if err := got.Read(formats.NewTokenReaderString(buf.String())); err != nil {
		t.Fatalf("Read() error = %v\n%s", err, buf.String())
	}
	if got.Name() != "cube" || !got.TeamColours {
		t.Errorf("header = %q/%v, want cube/true", got.Name(), got.TeamColours)
	}
	if len(got.Vertices) != len(src.Vertices) || len(got.Indices) != len(src.Indices) {
		t.Fatalf("counts = %d/%d, want %d/%d", len(got.Vertices), len(got.Indices), len(src.Vertices), len(src.Indices))
	}
	for i := range src.Vertices {
		if !got.Vertices[i].Equal(src.Vertices[i], 1e-6) ||
			!got.TexCoords[i].Equal(src.TexCoords[i], 1e-6) ||
			!got.Normals[i].Equal(src.Normals[i], 1e-6) {
			t.Errorf("vertex %d differs after round trip", i)
		}
	}
	for i := range src.Indices {
		if got.Indices[i] != src.Indices[i] {
			t.Errorf("face %d = %v, want %v", i, got.Indices[i], src.Indices[i])
		}
	}
	if len(got.Connectors) != 1 || got.Connectors[0] != src.Connectors[0] {
		t.Errorf("Connectors = %v, want %v", got.Connectors, src.Connectors)
	}
	if !got.IsValid() {
		t.Error("round-tripped mesh is not valid")
	}
}

func TestMeshReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad name", "MESH bad name!\nTEAMCOLOURS 0\n", formats.ErrInvalidName},
		{"bad teamcolours", "MESH a\nTEAMCOLOURS 2\n", formats.ErrOutOfRange},
		{"missing directive", "MESH a\nTEAMCOLOURS 0\nVERTS 0\n", formats.ErrBadDirective},
		{"index out of range", "MESH a\nTEAMCOLOURS 0\nVERTICES 1\nFACES 1\nVERTEXARRAY\n0 0 0 0 0 0 0 1\nINDEXARRAY\n0 0 1\nCONNECTORS 0\n", formats.ErrOutOfRange},
		{"uv out of range", "MESH a\nTEAMCOLOURS 0\nVERTICES 1\nFACES 0\nVERTEXARRAY\n0 0 0 1.5 0 0 0 1\nINDEXARRAY\nCONNECTORS 0\n", formats.ErrOutOfRange},
		{"truncated", "MESH a\nTEAMCOLOURS 0\nVERTICES 1\nFACES 0\nVERTEXARRAY\n0 0", formats.ErrUnexpectedEOF},
		{"bad number", "MESH a\nTEAMCOLOURS 0\nVERTICES x\n", formats.ErrBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mesh
			err := m.Read(formats.NewTokenReaderString(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Read() error = %v, want %v", err, tt.want)
			}
			if m.Name() != "" || m.Vertices != nil || m.Indices != nil {
				t.Error("mesh not cleared after failed read")
			}
		})
	}
}

func TestMeshIsValid(t *testing.T) {
	var m Mesh
	if err := m.Read(formats.NewTokenReaderString(testMeshBlock)); err != nil {
		t.Fatal(err)
	}
	m.Indices = append(m.Indices, IndexedTriangle{0, 1, 3})
	if m.IsValid() {
		t.Error("index equal to vertex count should be invalid")
	}
}

func TestMeshSetName(t *testing.T) {
	m := NewMesh("turret_1")
	if m.Name() != "turret_1" {
		t.Errorf("Name() = %q", m.Name())
	}
	if m.SetName("two words") {
		t.Error("SetName accepted a space")
	}
	if m.Name() != "" {
		t.Errorf("invalid rename left %q", m.Name())
	}
}

func TestMeshBounds(t *testing.T) {
	var m Mesh
	if b := m.Bounds(); b != (Bounds{}) {
		t.Errorf("empty Bounds() = %v", b)
	}
	if err := m.Read(formats.NewTokenReaderString(testMeshBlock)); err != nil {
		t.Fatal(err)
	}
	b := m.Bounds()
	if b.Min != (math.Vec3{}) || b.Max != (math.Vec3{X: 1, Y: 1}) {
		t.Errorf("Bounds() = %v", b)
	}
	if !b.Center.Equal(math.Vec3{X: 1.0 / 3, Y: 1.0 / 3}, 1e-6) {
		t.Errorf("Center = %v", b.Center)
	}

	m.Translate(math.Vec3{Z: 2})
	if got := m.Bounds().Max.Z; got != 2 {
		t.Errorf("Bounds not refreshed after Translate, Max.Z = %v", got)
	}
}
