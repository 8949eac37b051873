package formats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/Faultbox/wmit/pkg/math"
)

// Polygon flags.
const (
	FlagTextured uint32 = 0x200  // polygon carries texture coordinates
	FlagAnimated uint32 = 0x4000 // polygon carries a texture animation block
)

// Texture page extents in UV units.
const (
	Pie2PageSize = 256
	Pie3PageSize = 1.0
)

// Vertex2 is a PIE version 2 point. Positions are whole units.
type Vertex2 struct {
	X, Y, Z int32
}

// Vertex3 is a PIE version 3 point.
type Vertex3 = math.Vec3

// TexCoord2 is a PIE version 2 texture coordinate in page pixels (0-256).
type TexCoord2 struct {
	U, V int32
}

// IndexedTriangle holds three indices into a mesh vertex array.
type IndexedTriangle [3]uint16

// IsValid reports whether every index is below vertexCount.
func (t IndexedTriangle) IsValid(vertexCount int) bool {
	for _, idx := range t {
		if int(idx) >= vertexCount {
			return false
		}
	}
	return true
}

// Reversed returns the triangle with opposite winding.
func (t IndexedTriangle) Reversed() IndexedTriangle {
	return IndexedTriangle{t[2], t[1], t[0]}
}

// Polygon2 is a PIE version 2 triangle fan around its first vertex.
type Polygon2 struct {
	Flags     uint32
	Indices   []uint16
	TexCoords []TexCoord2

	// Texture animation, only meaningful with FlagAnimated.
	Frames int
	Rate   int
	Width  int32
	Height int32
}

// HasAnimation reports whether the animation block is present.
func (p *Polygon2) HasAnimation() bool { return p.Flags&FlagAnimated != 0 }

// FrameCount returns the number of animation frames (1 when not animated).
func (p *Polygon2) FrameCount() int {
	if !p.HasAnimation() || p.Frames < 1 {
		return 1
	}
	return p.Frames
}

// TriangleCount returns the number of triangles in the fan.
func (p *Polygon2) TriangleCount() int {
	if len(p.Indices) < 3 {
		return 0
	}
	return len(p.Indices) - 2
}

// UV returns the texture coordinate of a corner for an animation frame.
// Frames advance by one tile along U and wrap to the next tile row when a
// row of the texture page is full.
func (p *Polygon2) UV(corner, frame int) TexCoord2 {
	uv := p.TexCoords[corner]
	frames := p.FrameCount()
	if frames == 1 || p.Width <= 0 {
		return uv
	}
	frame %= frames
	perRow := max(int(Pie2PageSize/p.Width), 1)
	uv.U += int32(frame%perRow) * p.Width
	uv.V += int32(frame/perRow) * p.Height
	return uv
}

// Polygon3 is a PIE version 3 triangle.
type Polygon3 struct {
	Flags     uint32
	Indices   [3]uint16
	TexCoords [3]math.Vec2

	// Texture animation in UV units, only meaningful with FlagAnimated.
	Frames int
	Rate   int
	Width  float32
	Height float32
}

// HasAnimation reports whether the animation block is present.
func (p *Polygon3) HasAnimation() bool { return p.Flags&FlagAnimated != 0 }

// FrameCount returns the number of animation frames (1 when not animated).
func (p *Polygon3) FrameCount() int {
	if !p.HasAnimation() || p.Frames < 1 {
		return 1
	}
	return p.Frames
}

// TriangleCount is always 1.
func (p *Polygon3) TriangleCount() int { return 1 }

// UV returns the texture coordinate of a corner for an animation frame.
func (p *Polygon3) UV(corner, frame int) math.Vec2 {
	uv := p.TexCoords[corner]
	frames := p.FrameCount()
	if frames == 1 || p.Width <= 0 {
		return uv
	}
	frame %= frames
	perRow := max(int(math32.Floor(Pie3PageSize/p.Width+1e-4)), 1)
	uv.X += float32(frame%perRow) * p.Width
	uv.Y += float32(frame/perRow) * p.Height
	return uv
}

// FormatFloat formats v with the fewest digits that read back exactly.
func FormatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// readPolygonHeader reads the flags, vertex count and indices shared by both versions.
func readPolygonHeader(t *TokenReader, maxVertices, pointCount int) (uint32, []uint16, error) {
	flags, err := t.Hex()
	if err != nil {
		return 0, nil, fmt.Errorf("polygon flags: %w", err)
	}
	n, err := t.Int()
	if err != nil {
		return 0, nil, fmt.Errorf("polygon vertex count: %w", err)
	}
	if n < 3 || n > maxVertices {
		return 0, nil, fmt.Errorf("%w: line %d: polygon with %d vertices (max %d)",
			ErrTooManyVertices, t.Line(), n, maxVertices)
	}
	indices := make([]uint16, n)
	for i := range indices {
		if indices[i], err = t.Index(pointCount); err != nil {
			return 0, nil, fmt.Errorf("polygon index: %w", err)
		}
	}
	return flags, indices, nil
}

func readPolygon2(t *TokenReader, pointCount int) (Polygon2, error) {
	flags, indices, err := readPolygonHeader(t, MaxPie2PolygonVertices, pointCount)
	if err != nil {
		return Polygon2{}, err
	}
	p := Polygon2{Flags: flags, Indices: indices, Frames: 1}

	if p.HasAnimation() {
		var w, h int
		if p.Frames, err = t.Int(); err != nil {
			return Polygon2{}, err
		}
		if p.Rate, err = t.Int(); err != nil {
			return Polygon2{}, err
		}
		if w, err = t.Int(); err != nil {
			return Polygon2{}, err
		}
		if h, err = t.Int(); err != nil {
			return Polygon2{}, err
		}
		if p.Frames < 1 || w < 0 || h < 0 {
			return Polygon2{}, fmt.Errorf("%w: line %d: animation %d frames %dx%d",
				ErrOutOfRange, t.Line(), p.Frames, w, h)
		}
		p.Width, p.Height = int32(w), int32(h)
	}

	p.TexCoords = make([]TexCoord2, len(indices))
	if flags&FlagTextured == 0 {
		return p, nil
	}
	for i := range p.TexCoords {
		u, err := t.Int()
		if err != nil {
			return Polygon2{}, err
		}
		v, err := t.Int()
		if err != nil {
			return Polygon2{}, err
		}
		if u < 0 || u > Pie2PageSize || v < 0 || v > Pie2PageSize {
			return Polygon2{}, fmt.Errorf("%w: line %d: texture coordinate %d %d", ErrOutOfRange, t.Line(), u, v)
		}
		p.TexCoords[i] = TexCoord2{int32(u), int32(v)}
	}
	return p, nil
}

func writePolygon2(w *TextWriter, p *Polygon2) {
	w.Printf("\t%x %d", p.Flags, len(p.Indices))
	for _, idx := range p.Indices {
		w.Printf(" %d", idx)
	}
	if p.HasAnimation() {
		w.Printf(" %d %d %d %d", p.FrameCount(), p.Rate, p.Width, p.Height)
	}
	if p.Flags&FlagTextured != 0 {
		for i := range p.Indices {
			var uv TexCoord2
			if i < len(p.TexCoords) {
				uv = p.TexCoords[i]
			}
			w.Printf(" %d %d", uv.U, uv.V)
		}
	}
	w.Printf("\n")
}

func readPolygon3(t *TokenReader, pointCount int) (Polygon3, error) {
	flags, indices, err := readPolygonHeader(t, MaxPie3PolygonVertices, pointCount)
	if err != nil {
		return Polygon3{}, err
	}
	p := Polygon3{Flags: flags, Frames: 1}
	copy(p.Indices[:], indices)

	if p.HasAnimation() {
		if p.Frames, err = t.Int(); err != nil {
			return Polygon3{}, err
		}
		if p.Rate, err = t.Int(); err != nil {
			return Polygon3{}, err
		}
		if p.Width, err = t.Float(); err != nil {
			return Polygon3{}, err
		}
		if p.Height, err = t.Float(); err != nil {
			return Polygon3{}, err
		}
		if p.Frames < 1 || p.Width < 0 || p.Height < 0 {
			return Polygon3{}, fmt.Errorf("%w: line %d: animation %d frames %gx%g",
				ErrOutOfRange, t.Line(), p.Frames, p.Width, p.Height)
		}
	}

	if flags&FlagTextured == 0 {
		return p, nil
	}
	for i := range p.TexCoords {
		u, err := t.Float()
		if err != nil {
			return Polygon3{}, err
		}
		v, err := t.Float()
		if err != nil {
			return Polygon3{}, err
		}
		if u < 0 || u > Pie3PageSize || v < 0 || v > Pie3PageSize {
			return Polygon3{}, fmt.Errorf("%w: line %d: texture coordinate %g %g", ErrOutOfRange, t.Line(), u, v)
		}
		p.TexCoords[i] = math.UV(u, v)
	}
	return p, nil
}

func writePolygon3(w *TextWriter, p *Polygon3) {
	w.Printf("\t%x 3 %d %d %d", p.Flags, p.Indices[0], p.Indices[1], p.Indices[2])
	if p.HasAnimation() {
		w.Printf(" %d %d %s %s", p.FrameCount(), p.Rate, FormatFloat(p.Width), FormatFloat(p.Height))
	}
	if p.Flags&FlagTextured != 0 {
		for _, uv := range p.TexCoords {
			w.Printf(" %s %s", FormatFloat(uv.X), FormatFloat(uv.Y))
		}
	}
	w.Printf("\n")
}

// TextWriter remembers the first write error so section writers stay linear.
type TextWriter struct {
	w   io.Writer
	err error
}

// NewTextWriter wraps w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Printf formats to the underlying writer unless an earlier write failed.
func (w *TextWriter) Printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// Err returns the first write error.
func (w *TextWriter) Err() error { return w.err }
