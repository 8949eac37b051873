package formats

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/pkg/math"
)

func roundInt32(v float32) int32 {
	return int32(math32.Round(v))
}

// UpconvertVertex widens a PIE 2 point.
func UpconvertVertex(v Vertex2) Vertex3 {
	return Vertex3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// BackconvertVertex rounds a PIE 3 point to the nearest whole unit.
func BackconvertVertex(v Vertex3) Vertex2 {
	return Vertex2{X: roundInt32(v.X), Y: roundInt32(v.Y), Z: roundInt32(v.Z)}
}

// UpconvertUV rescales a page-pixel coordinate to the 0-1 range.
func UpconvertUV(uv TexCoord2) math.Vec2 {
	return math.UV(float32(uv.U)/Pie2PageSize, float32(uv.V)/Pie2PageSize)
}

// BackconvertUV rescales a 0-1 coordinate to the nearest page pixel.
func BackconvertUV(uv math.Vec2) TexCoord2 {
	return TexCoord2{U: roundInt32(uv.X * Pie2PageSize), V: roundInt32(uv.Y * Pie2PageSize)}
}

// UpconvertTileSize rescales an animation tile extent to UV units.
func UpconvertTileSize(size int32) float32 {
	return float32(size) / Pie2PageSize
}

// BackconvertTileSize rescales an animation tile extent to page pixels,
// rounding up so the tile is never smaller than the source.
func BackconvertTileSize(size float32) int32 {
	return int32(math32.Ceil(size * Pie2PageSize))
}

// UpconvertPolygon splits a PIE 2 fan into PIE 3 triangles (0, i, i+1).
func UpconvertPolygon(p *Polygon2) []Polygon3 {
	out := make([]Polygon3, 0, p.TriangleCount())
	for i := 1; i+1 < len(p.Indices); i++ {
		q := Polygon3{
			Flags:  p.Flags,
			Frames: p.FrameCount(),
			Rate:   p.Rate,
			Width:  UpconvertTileSize(p.Width),
			Height: UpconvertTileSize(p.Height),
		}
		for j, corner := range [3]int{0, i, i + 1} {
			q.Indices[j] = p.Indices[corner]
			if corner < len(p.TexCoords) {
				q.TexCoords[j] = UpconvertUV(p.TexCoords[corner])
			}
		}
		out = append(out, q)
	}
	return out
}

// BackconvertPolygon turns a PIE 3 triangle into a three-point PIE 2 fan.
func BackconvertPolygon(p *Polygon3) Polygon2 {
	q := Polygon2{
		Flags:     p.Flags,
		Indices:   []uint16{p.Indices[0], p.Indices[1], p.Indices[2]},
		TexCoords: make([]TexCoord2, 3),
		Frames:    p.FrameCount(),
		Rate:      p.Rate,
		Width:     BackconvertTileSize(p.Width),
		Height:    BackconvertTileSize(p.Height),
	}
	for i, uv := range p.TexCoords {
		q.TexCoords[i] = BackconvertUV(uv)
	}
	return q
}

// UpconvertLevel converts a PIE 2 level to PIE 3.
func UpconvertLevel(l *Pie2Level) Pie3Level {
	out := Pie3Level{
		Points:     make([]Vertex3, len(l.Points)),
		Polygons:   make([]Polygon3, 0, l.TriangleCount()),
		Connectors: make([]Vertex3, len(l.Connectors)),
	}
	for i, p := range l.Points {
		out.Points[i] = UpconvertVertex(p)
	}
	for i := range l.Polygons {
		out.Polygons = append(out.Polygons, UpconvertPolygon(&l.Polygons[i])...)
	}
	for i, c := range l.Connectors {
		out.Connectors[i] = UpconvertVertex(c)
	}
	return out
}

// BackconvertLevel converts a PIE 3 level to PIE 2. Materials, shaders and
// animation objects have no PIE 2 form and are dropped with a warning.
func BackconvertLevel(l *Pie3Level) Pie2Level {
	if l.Material != nil || l.Shaders != nil || l.AnimObject != nil {
		logger.Warn("PIE 2 cannot store level materials, shaders or animation objects; dropping them",
			zap.Bool("material", l.Material != nil),
			zap.Bool("shaders", l.Shaders != nil),
			zap.Bool("animobject", l.AnimObject != nil))
	}
	out := Pie2Level{
		Points:     make([]Vertex2, len(l.Points)),
		Polygons:   make([]Polygon2, len(l.Polygons)),
		Connectors: make([]Vertex2, len(l.Connectors)),
	}
	for i, p := range l.Points {
		out.Points[i] = BackconvertVertex(p)
	}
	for i := range l.Polygons {
		out.Polygons[i] = BackconvertPolygon(&l.Polygons[i])
	}
	for i, c := range l.Connectors {
		out.Connectors[i] = BackconvertVertex(c)
	}
	return out
}

// UpconvertModel converts a PIE 2 model to PIE 3.
func UpconvertModel(m *Pie2Model) *Pie3Model {
	out := &Pie3Model{
		Textures:      m.Textures.Clone(),
		TextureWidth:  m.TextureWidth,
		TextureHeight: m.TextureHeight,
		Levels:        make([]Pie3Level, len(m.Levels)),
	}
	for i := range m.Levels {
		out.Levels[i] = UpconvertLevel(&m.Levels[i])
	}
	return out
}

// BackconvertModel converts a PIE 3 model to PIE 2. Normal and specular maps
// are dropped with a warning.
func BackconvertModel(m *Pie3Model) *Pie2Model {
	textures := m.Textures.Clone()
	for _, slot := range []TextureSlot{TextureNormal, TextureSpecular} {
		if textures.Has(slot) {
			logger.Warn("PIE 2 cannot reference this texture; dropping it",
				zap.Stringer("slot", slot), zap.String("texture", textures.Get(slot)))
			textures.Set(slot, "")
		}
	}
	out := &Pie2Model{
		Textures:      textures,
		TextureWidth:  m.TextureWidth,
		TextureHeight: m.TextureHeight,
		Levels:        make([]Pie2Level, len(m.Levels)),
	}
	for i := range m.Levels {
		out.Levels[i] = BackconvertLevel(&m.Levels[i])
	}
	return out
}
