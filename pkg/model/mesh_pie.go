package model

import (
	"fmt"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

// faceNormal returns the flat normal of a triangle, zero when degenerate.
func faceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// FromPieLevel welds a PIE 3 level into a mesh. Every corner gets the flat
// normal of its polygon and the frame 0 texture coordinate; further
// animation frames are not baked.
func FromPieLevel(l *formats.Pie3Level, eps float32) (*Mesh, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("%w: polygon references a missing point", formats.ErrInvalidLevel)
	}
	w := NewWelder(eps)
	animated := 0
	for i := range l.Polygons {
		p := &l.Polygons[i]
		if p.HasAnimation() && p.FrameCount() > 1 {
			animated++
		}
		pos := [3]math.Vec3{l.Points[p.Indices[0]], l.Points[p.Indices[1]], l.Points[p.Indices[2]]}
		n := faceNormal(pos[0], pos[1], pos[2])
		var corners [3]Corner
		for c := range corners {
			corners[c] = Corner{Position: pos[c], TexCoord: p.UV(c, 0), Normal: n}
		}
		if err := w.AddTriangle(corners[0], corners[1], corners[2]); err != nil {
			return nil, err
		}
	}
	if animated > 0 {
		logger.Warn("texture animation is not kept in the welded mesh",
			zap.Int("polygons", animated))
	}
	m := w.Mesh()
	m.Connectors = append([]math.Vec3{}, l.Connectors...)
	return m, nil
}

type pointEntry struct {
	pos   math.Vec3
	index uint16
}

// ToPieLevel rebuilds a PIE 3 level with one textured polygon per
// triangle. Points are shared between polygons when their positions match
// within eps; texture coordinates live on the polygons. Animation is not
// reconstructed.
func (m *Mesh) ToPieLevel(eps float32) (formats.Pie3Level, error) {
	var l formats.Pie3Level
	if !m.IsValid() {
		return l, ErrInvalidMesh
	}
	points := btree.NewG[pointEntry](32, func(a, b pointEntry) bool {
		return a.pos.LessWithEps(b.pos, eps)
	})
	pointIndex := func(p math.Vec3) (uint16, error) {
		if found, ok := points.Get(pointEntry{pos: p}); ok {
			return found.index, nil
		}
		if len(l.Points) > formats.MaxIndex {
			return 0, fmt.Errorf("%w: level needs more than %d points", formats.ErrTooManyVertices, formats.MaxIndex+1)
		}
		e := pointEntry{pos: p, index: uint16(len(l.Points))}
		points.ReplaceOrInsert(e)
		l.Points = append(l.Points, p)
		return e.index, nil
	}

	l.Polygons = make([]formats.Polygon3, 0, len(m.Indices))
	for _, tri := range m.Indices {
		poly := formats.Polygon3{Flags: formats.FlagTextured, Frames: 1}
		for c, idx := range tri {
			pi, err := pointIndex(m.Vertices[idx])
			if err != nil {
				return formats.Pie3Level{}, err
			}
			poly.Indices[c] = pi
			poly.TexCoords[c] = m.TexCoords[idx]
		}
		l.Polygons = append(l.Polygons, poly)
	}
	if l.Points == nil {
		l.Points = []math.Vec3{}
	}
	l.Connectors = append([]math.Vec3{}, m.Connectors...)
	return l, nil
}
