// Package model provides the welded mesh representation shared by every
// supported format and the WZM model built from it.
package model

import (
	"errors"

	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

// DefaultWeldEpsilon is the tolerance used when no other is configured.
const DefaultWeldEpsilon float32 = 1e-4

// Model errors.
var (
	ErrInvalidMesh = errors.New("invalid mesh")
	ErrNoMeshes    = errors.New("model has no meshes")
)

// IndexedTriangle holds three indices into the parallel vertex arrays.
type IndexedTriangle = formats.IndexedTriangle

// Axis selects a coordinate axis for transforms.
type Axis int

const (
	AxisX Axis = 0
	AxisY Axis = 1
	AxisZ Axis = 2
)

// String returns the lower-case axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return 0, false
}

// Bounds holds the axis-aligned bounding box and the vertex centroid.
type Bounds struct {
	Min    math.Vec3
	Max    math.Vec3
	Center math.Vec3
}

// Size returns the extent of the box.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Material is the lighting description of a WZM model.
type Material struct {
	Emissive  [4]float32
	Ambient   [4]float32
	Diffuse   [4]float32
	Specular  [4]float32
	Shininess float32
}

// DefaultMaterial matches the PIE default: white lighting, no emission.
func DefaultMaterial() Material {
	pie := formats.DefaultMaterial()
	return MaterialFromPie(&pie)
}

// MaterialFromPie widens a PIE level material. Alpha is 1 and emission is black.
func MaterialFromPie(m *formats.Material) Material {
	rgba := func(c [3]float32) [4]float32 { return [4]float32{c[0], c[1], c[2], 1} }
	return Material{
		Emissive:  [4]float32{0, 0, 0, 1},
		Ambient:   rgba(m.Ambient),
		Diffuse:   rgba(m.Diffuse),
		Specular:  rgba(m.Specular),
		Shininess: m.Shininess,
	}
}

// ToPie narrows the material to a PIE level material. The second result is
// false when emission or alpha would be lost.
func (m Material) ToPie() (formats.Material, bool) {
	rgb := func(c [4]float32) [3]float32 { return [3]float32{c[0], c[1], c[2]} }
	out := formats.Material{
		Ambient:   rgb(m.Ambient),
		Diffuse:   rgb(m.Diffuse),
		Specular:  rgb(m.Specular),
		Shininess: m.Shininess,
	}
	lossless := m.Emissive[0] == 0 && m.Emissive[1] == 0 && m.Emissive[2] == 0 &&
		m.Ambient[3] == 1 && m.Diffuse[3] == 1 && m.Specular[3] == 1
	return out, lossless
}

// IsDefault reports whether m equals DefaultMaterial.
func (m Material) IsDefault() bool {
	return m == DefaultMaterial()
}
