package formats

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func makeTent(smoothing uint32) *Mesh3DS {
	m := NewMesh3DS("tent")
	m.Vertices = []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0.5, 0, 1}, {0.5, 1, 0.5}}
	m.Faces = []Face3DS{
		{Index: [3]uint16{0, 1, 2}, Smoothing: smoothing},
		{Index: [3]uint16{0, 2, 3}, Smoothing: smoothing},
	}
	return m
}

func TestCalculateVertexNormalsFlat(t *testing.T) {
	m := makeTent(0)
	normals := m.CalculateVertexNormals()
	if len(normals) != 2 {
		t.Fatalf("got %d faces", len(normals))
	}
	want := mgl32.Vec3{0, -1, 0}
	for corner, n := range normals[0] {
		if !n.ApproxEqualThreshold(want, 1e-5) {
			t.Errorf("flat corner %d = %v, want %v", corner, n, want)
		}
	}
}

func TestCalculateVertexNormalsSmooth(t *testing.T) {
	m := makeTent(1)
	normals := m.CalculateVertexNormals()

	// Vertex 0 is shared, so both faces see the same averaged normal there.
	if !normals[0][0].ApproxEqualThreshold(normals[1][0], 1e-5) {
		t.Errorf("shared corner normals differ: %v vs %v", normals[0][0], normals[1][0])
	}
	// Vertex 1 is only on face 0 and keeps the face normal.
	if !normals[0][1].ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("unshared corner = %v", normals[0][1])
	}
	if l := normals[0][0].Len(); l < 0.999 || l > 1.001 {
		t.Errorf("normal length = %v", l)
	}
}

func TestMesh3DSTransform(t *testing.T) {
	m := NewMesh3DS("moved")
	m.Matrix = mgl32.Translate3D(1, 2, 3)
	if got := m.Transform(mgl32.Vec3{1, 1, 1}); !got.ApproxEqual(mgl32.Vec3{2, 3, 4}) {
		t.Errorf("Transform = %v", got)
	}

	zero := &Mesh3DS{}
	if got := zero.Transform(mgl32.Vec3{1, 2, 3}); got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("zero matrix Transform = %v", got)
	}
}

func TestMesh3DSIsValid(t *testing.T) {
	m := makeTent(0)
	if !m.IsValid() {
		t.Error("expected valid")
	}
	m.Faces[1].Index[2] = 4
	if m.IsValid() {
		t.Error("expected invalid with out-of-range index")
	}
}
