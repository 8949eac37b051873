package model

import (
	"fmt"

	"github.com/google/btree"

	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

// Corner is one triangle corner before welding.
type Corner struct {
	Position math.Vec3
	TexCoord math.Vec2
	Normal   math.Vec3
}

type weldEntry struct {
	Corner
	index uint16
}

// Welder collapses corners that match in position, texture coordinate and
// normal (each within the same epsilon) into shared vertices.
//
// Keys are ordered field by field with LessWithEps, so near-duplicates are
// equivalent and land on the same tree entry.
type Welder struct {
	eps  float32
	set  *btree.BTreeG[weldEntry]
	mesh Mesh
}

// NewWelder returns a welder using eps for every comparison.
func NewWelder(eps float32) *Welder {
	w := &Welder{eps: eps}
	w.set = btree.NewG[weldEntry](32, w.less)
	return w
}

func (w *Welder) less(a, b weldEntry) bool {
	eps := w.eps
	if a.Position.LessWithEps(b.Position, eps) {
		return true
	}
	if b.Position.LessWithEps(a.Position, eps) {
		return false
	}
	if a.TexCoord.LessWithEps(b.TexCoord, eps) {
		return true
	}
	if b.TexCoord.LessWithEps(a.TexCoord, eps) {
		return false
	}
	return a.Normal.LessWithEps(b.Normal, eps)
}

// Epsilon returns the weld tolerance.
func (w *Welder) Epsilon() float32 { return w.eps }

// VertexCount returns the number of distinct vertices so far.
func (w *Welder) VertexCount() int { return len(w.mesh.Vertices) }

// AddCorner returns the output index for c, appending a new vertex when no
// equivalent one exists. Normals are normalized first.
func (w *Welder) AddCorner(c Corner) (uint16, error) {
	c.Normal = c.Normal.Normalize()
	key := weldEntry{Corner: c}
	if found, ok := w.set.Get(key); ok {
		return found.index, nil
	}
	n := len(w.mesh.Vertices)
	if n > formats.MaxIndex {
		return 0, fmt.Errorf("%w: more than %d welded vertices", formats.ErrTooManyVertices, formats.MaxIndex+1)
	}
	key.index = uint16(n)
	w.set.ReplaceOrInsert(key)
	w.mesh.Vertices = append(w.mesh.Vertices, c.Position)
	w.mesh.TexCoords = append(w.mesh.TexCoords, c.TexCoord)
	w.mesh.Normals = append(w.mesh.Normals, c.Normal)
	return key.index, nil
}

// AddTriangle welds three corners and records the triangle.
func (w *Welder) AddTriangle(a, b, c Corner) error {
	var tri IndexedTriangle
	for i, corner := range [3]Corner{a, b, c} {
		idx, err := w.AddCorner(corner)
		if err != nil {
			return err
		}
		tri[i] = idx
	}
	w.mesh.Indices = append(w.mesh.Indices, tri)
	return nil
}

// Mesh returns the welded arrays as an unnamed mesh. The welder must not be
// used afterwards.
func (w *Welder) Mesh() *Mesh {
	m := w.mesh
	m.Vertices = nonNil(m.Vertices)
	m.TexCoords = nonNil(m.TexCoords)
	m.Normals = nonNil(m.Normals)
	m.Indices = nonNil(m.Indices)
	m.Invalidate()
	return &m
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Weld builds a mesh from a flat list of triangles.
func Weld(triangles [][3]Corner, eps float32) (*Mesh, error) {
	w := NewWelder(eps)
	for _, t := range triangles {
		if err := w.AddTriangle(t[0], t[1], t[2]); err != nil {
			return nil, err
		}
	}
	return w.Mesh(), nil
}
