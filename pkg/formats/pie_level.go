package formats

import (
	"fmt"
	"io"

	"github.com/Faultbox/wmit/pkg/math"
)

// Codec reads and writes the version-specific parts of a PIE level:
// points (also used for connectors) and polygons.
type Codec[V, P any] interface {
	// Version returns the PIE version written in the file header.
	Version() int
	// Extended reports whether the version supports normal/specular maps,
	// materials, shaders and animation objects.
	Extended() bool
	// MaxPolygonVertices is the largest fan the version can store.
	MaxPolygonVertices() int

	readPoint(t *TokenReader) (V, error)
	writePoint(w *TextWriter, v V)
	readPolygon(t *TokenReader, pointCount int) (P, error)
	writePolygon(w *TextWriter, p *P)
	polygonIndices(p *P) []uint16
}

// Pie2Codec implements Codec for PIE version 2.
type Pie2Codec struct{}

func (Pie2Codec) Version() int            { return 2 }
func (Pie2Codec) Extended() bool          { return false }
func (Pie2Codec) MaxPolygonVertices() int { return MaxPie2PolygonVertices }

func (Pie2Codec) readPoint(t *TokenReader) (Vertex2, error) {
	var xyz [3]int32
	for i := range xyz {
		v, err := t.Int()
		if err != nil {
			return Vertex2{}, err
		}
		xyz[i] = int32(v)
	}
	return Vertex2{xyz[0], xyz[1], xyz[2]}, nil
}

func (Pie2Codec) writePoint(w *TextWriter, v Vertex2) {
	w.Printf("\t%d %d %d\n", v.X, v.Y, v.Z)
}

func (Pie2Codec) readPolygon(t *TokenReader, pointCount int) (Polygon2, error) {
	return readPolygon2(t, pointCount)
}

func (Pie2Codec) writePolygon(w *TextWriter, p *Polygon2) { writePolygon2(w, p) }

func (Pie2Codec) polygonIndices(p *Polygon2) []uint16 { return p.Indices }

// Pie3Codec implements Codec for PIE version 3. The X axis is stored negated.
type Pie3Codec struct{}

func (Pie3Codec) Version() int            { return 3 }
func (Pie3Codec) Extended() bool          { return true }
func (Pie3Codec) MaxPolygonVertices() int { return MaxPie3PolygonVertices }

func (Pie3Codec) readPoint(t *TokenReader) (Vertex3, error) {
	v, err := readVec3(t)
	if err != nil {
		return Vertex3{}, err
	}
	v.X = -v.X
	return v, nil
}

func (Pie3Codec) writePoint(w *TextWriter, v Vertex3) {
	writeVec3(w, math.Vec3{X: -v.X, Y: v.Y, Z: v.Z})
}

func (Pie3Codec) readPolygon(t *TokenReader, pointCount int) (Polygon3, error) {
	return readPolygon3(t, pointCount)
}

func (Pie3Codec) writePolygon(w *TextWriter, p *Polygon3) { writePolygon3(w, p) }

func (Pie3Codec) polygonIndices(p *Polygon3) []uint16 { return p.Indices[:] }

func readVec3(t *TokenReader) (math.Vec3, error) {
	var xyz [3]float32
	for i := range xyz {
		v, err := t.Float()
		if err != nil {
			return math.Vec3{}, err
		}
		xyz[i] = v
	}
	return math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func writeVec3(w *TextWriter, v math.Vec3) {
	w.Printf("\t%s %s %s\n", FormatFloat(v.X), FormatFloat(v.Y), FormatFloat(v.Z))
}

// Material is the lighting block of a PIE 3 level.
type Material struct {
	Ambient   [3]float32
	Diffuse   [3]float32
	Specular  [3]float32
	Shininess float32
}

// DefaultMaterial returns the material the engine uses when a level has none.
func DefaultMaterial() Material {
	return Material{
		Ambient:   [3]float32{1, 1, 1},
		Diffuse:   [3]float32{1, 1, 1},
		Specular:  [3]float32{1, 1, 1},
		Shininess: 10,
	}
}

// Shaders names the custom shader pair of a PIE 3 level.
type Shaders struct {
	Vertex   string
	Fragment string
}

// AnimFrame is one keyframe of an ANIMOBJECT block.
type AnimFrame struct {
	Index    int
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
}

// AnimObject is the per-level keyframe animation of a PIE 3 level.
type AnimObject struct {
	Time   int
	Cycles int
	Frames []AnimFrame
}

// LevelReadWriter is the capability every PIE level generation provides.
type LevelReadWriter interface {
	Read(t *TokenReader) error
	Write(w io.Writer) error
	PointCount() int
	PolygonCount() int
	ConnectorCount() int
	IsValid() bool
}

// Level is one mesh of a PIE model: points, polygons referencing them, and
// connectors. Material, Shaders and AnimObject are only read and written by
// extended (version 3) codecs; nil means absent.
type Level[V, P any, F Codec[V, P]] struct {
	Points     []V
	Polygons   []P
	Connectors []V

	Material   *Material
	Shaders    *Shaders
	AnimObject *AnimObject
}

// Pie2Level is a PIE version 2 level.
type Pie2Level = Level[Vertex2, Polygon2, Pie2Codec]

// Pie3Level is a PIE version 3 level.
type Pie3Level = Level[Vertex3, Polygon3, Pie3Codec]

// PointCount returns the number of points.
func (l *Level[V, P, F]) PointCount() int { return len(l.Points) }

// PolygonCount returns the number of polygons.
func (l *Level[V, P, F]) PolygonCount() int { return len(l.Polygons) }

// ConnectorCount returns the number of connectors.
func (l *Level[V, P, F]) ConnectorCount() int { return len(l.Connectors) }

// TriangleCount returns the number of triangles after fan expansion.
func (l *Level[V, P, F]) TriangleCount() int {
	var codec F
	total := 0
	for i := range l.Polygons {
		if n := len(codec.polygonIndices(&l.Polygons[i])); n >= 3 {
			total += n - 2
		}
	}
	return total
}

// IsValid reports whether every polygon is a fan of 3 or more points that
// only references existing points.
func (l *Level[V, P, F]) IsValid() bool {
	var codec F
	for i := range l.Polygons {
		indices := codec.polygonIndices(&l.Polygons[i])
		if len(indices) < 3 || len(indices) > codec.MaxPolygonVertices() {
			return false
		}
		for _, idx := range indices {
			if int(idx) >= len(l.Points) {
				return false
			}
		}
	}
	if l.Shaders != nil && (l.Shaders.Vertex == "" || l.Shaders.Fragment == "") {
		return false
	}
	return true
}

// Read parses the body of a level (everything after "LEVEL <n>").
// On failure the level is cleared.
func (l *Level[V, P, F]) Read(t *TokenReader) error {
	if err := l.read(t); err != nil {
		*l = Level[V, P, F]{}
		return err
	}
	return nil
}

func (l *Level[V, P, F]) read(t *TokenReader) error {
	var codec F
	*l = Level[V, P, F]{}

	if codec.Extended() {
		if err := l.readMaterial(t); err != nil {
			return err
		}
		if err := l.readShaders(t); err != nil {
			return err
		}
	}

	n, err := t.Count("POINTS", MaxIndex+1)
	if err != nil {
		return err
	}
	l.Points = make([]V, n)
	for i := range l.Points {
		if l.Points[i], err = codec.readPoint(t); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}

	n, err = t.Count("POLYGONS", maxCount)
	if err != nil {
		return err
	}
	l.Polygons = make([]P, n)
	for i := range l.Polygons {
		if l.Polygons[i], err = codec.readPolygon(t, len(l.Points)); err != nil {
			return fmt.Errorf("polygon %d: %w", i, err)
		}
	}

	if err := l.readConnectors(t); err != nil {
		return err
	}
	if codec.Extended() {
		if err := l.readAnimObject(t); err != nil {
			return err
		}
	}
	return nil
}

func (l *Level[V, P, F]) readMaterial(t *TokenReader) error {
	if !t.Accept("MATERIALS") {
		return nil
	}
	var values [10]float32
	for i := range values {
		v, err := t.Float()
		if err != nil {
			return fmt.Errorf("MATERIALS: %w", err)
		}
		values[i] = v
	}
	m := Material{Shininess: values[9]}
	copy(m.Ambient[:], values[0:3])
	copy(m.Diffuse[:], values[3:6])
	copy(m.Specular[:], values[6:9])
	l.Material = &m
	return nil
}

func (l *Level[V, P, F]) readShaders(t *TokenReader) error {
	if !t.Accept("SHADERS") {
		return nil
	}
	n, err := t.Int()
	if err != nil {
		return fmt.Errorf("SHADERS: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("%w: line %d: SHADERS %d, want 2", ErrOutOfRange, t.Line(), n)
	}
	var s Shaders
	if s.Vertex, err = t.Word(); err != nil {
		return err
	}
	if s.Fragment, err = t.Word(); err != nil {
		return err
	}
	l.Shaders = &s
	return nil
}

// readConnectors reads the optional CONNECTORS section. A missing section is
// not an error; the reader is left where the section would have started.
func (l *Level[V, P, F]) readConnectors(t *TokenReader) error {
	var codec F
	if tok, ok := t.Peek(); !ok || tok != "CONNECTORS" {
		return nil
	}
	n, err := t.Count("CONNECTORS", maxCount)
	if err != nil {
		return err
	}
	l.Connectors = make([]V, n)
	for i := range l.Connectors {
		if l.Connectors[i], err = codec.readPoint(t); err != nil {
			return fmt.Errorf("connector %d: %w", i, err)
		}
	}
	return nil
}

func (l *Level[V, P, F]) readAnimObject(t *TokenReader) error {
	if !t.Accept("ANIMOBJECT") {
		return nil
	}
	var a AnimObject
	var err error
	if a.Time, err = t.Int(); err != nil {
		return fmt.Errorf("ANIMOBJECT: %w", err)
	}
	if a.Cycles, err = t.Int(); err != nil {
		return fmt.Errorf("ANIMOBJECT: %w", err)
	}
	n, err := t.Int()
	if err != nil {
		return fmt.Errorf("ANIMOBJECT: %w", err)
	}
	if n < 0 || n > maxCount {
		return fmt.Errorf("%w: line %d: ANIMOBJECT frames %d", ErrOutOfRange, t.Line(), n)
	}
	a.Frames = make([]AnimFrame, n)
	for i := range a.Frames {
		f := &a.Frames[i]
		if f.Index, err = t.Int(); err != nil {
			return fmt.Errorf("ANIMOBJECT frame %d: %w", i, err)
		}
		if f.Position, err = readVec3(t); err != nil {
			return fmt.Errorf("ANIMOBJECT frame %d: %w", i, err)
		}
		if f.Rotation, err = readVec3(t); err != nil {
			return fmt.Errorf("ANIMOBJECT frame %d: %w", i, err)
		}
		if f.Scale, err = readVec3(t); err != nil {
			return fmt.Errorf("ANIMOBJECT frame %d: %w", i, err)
		}
	}
	l.AnimObject = &a
	return nil
}

// Write emits the body of a level (everything after "LEVEL <n>").
// Optional sections are only written when present.
func (l *Level[V, P, F]) Write(w io.Writer) error {
	pw := &TextWriter{w: w}
	l.write(pw)
	return pw.err
}

func (l *Level[V, P, F]) write(w *TextWriter) {
	var codec F

	if codec.Extended() {
		if m := l.Material; m != nil {
			w.Printf("MATERIALS")
			for _, c := range [][]float32{m.Ambient[:], m.Diffuse[:], m.Specular[:], {m.Shininess}} {
				for _, v := range c {
					w.Printf(" %s", FormatFloat(v))
				}
			}
			w.Printf("\n")
		}
		if s := l.Shaders; s != nil {
			w.Printf("SHADERS 2 %s %s\n", s.Vertex, s.Fragment)
		}
	}

	w.Printf("POINTS %d\n", len(l.Points))
	for _, p := range l.Points {
		codec.writePoint(w, p)
	}
	w.Printf("POLYGONS %d\n", len(l.Polygons))
	for i := range l.Polygons {
		codec.writePolygon(w, &l.Polygons[i])
	}
	if len(l.Connectors) > 0 {
		w.Printf("CONNECTORS %d\n", len(l.Connectors))
		for _, c := range l.Connectors {
			codec.writePoint(w, c)
		}
	}

	if a := l.AnimObject; a != nil && codec.Extended() {
		w.Printf("ANIMOBJECT %d %d %d\n", a.Time, a.Cycles, len(a.Frames))
		for _, f := range a.Frames {
			w.Printf("\t%d %s %s %s %s %s %s %s %s %s\n", f.Index,
				FormatFloat(f.Position.X), FormatFloat(f.Position.Y), FormatFloat(f.Position.Z),
				FormatFloat(f.Rotation.X), FormatFloat(f.Rotation.Y), FormatFloat(f.Rotation.Z),
				FormatFloat(f.Scale.X), FormatFloat(f.Scale.Y), FormatFloat(f.Scale.Z))
		}
	}
}
