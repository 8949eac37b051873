package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Model type bits written after TYPE. They are derived from the texture slots.
const (
	TypeTextured uint32 = 0x200
	TypeTCMask   uint32 = 0x10000
)

// ErrMissingTexture is returned when writing a model without a diffuse page.
var ErrMissingTexture = errors.New("model has no diffuse texture")

// Model is a whole PIE file: header, textures and levels. The version is fixed
// by the codec type.
type Model[V, P any, F Codec[V, P]] struct {
	Textures      TextureSet
	TextureWidth  int
	TextureHeight int
	Levels        []Level[V, P, F]
}

// Pie2Model is a PIE version 2 file.
type Pie2Model = Model[Vertex2, Polygon2, Pie2Codec]

// Pie3Model is a PIE version 3 file.
type Pie3Model = Model[Vertex3, Polygon3, Pie3Codec]

// Version returns the PIE version of the model.
func (m *Model[V, P, F]) Version() int {
	var codec F
	return codec.Version()
}

// Type returns the TYPE bitmask implied by the filled texture slots.
func (m *Model[V, P, F]) Type() uint32 {
	var typ uint32
	if m.Textures.Has(TextureDiffuse) {
		typ |= TypeTextured
	}
	if m.Textures.Has(TextureTCMask) {
		typ |= TypeTCMask
	}
	return typ
}

// IsValid checks texture names and every level.
func (m *Model[V, P, F]) IsValid() bool {
	if !m.Textures.IsValid() {
		return false
	}
	for i := range m.Levels {
		if !m.Levels[i].IsValid() {
			return false
		}
	}
	return true
}

// PointCount returns the number of points over all levels.
func (m *Model[V, P, F]) PointCount() int {
	total := 0
	for i := range m.Levels {
		total += m.Levels[i].PointCount()
	}
	return total
}

// PolygonCount returns the number of polygons over all levels.
func (m *Model[V, P, F]) PolygonCount() int {
	total := 0
	for i := range m.Levels {
		total += m.Levels[i].PolygonCount()
	}
	return total
}

// Read parses a whole PIE file. On failure the model is cleared and, when r
// is an io.Seeker, r is rewound to where reading started.
func (m *Model[V, P, F]) Read(r io.Reader) error {
	seeker, canSeek := r.(io.Seeker)
	var start int64
	if canSeek {
		var err error
		if start, err = seeker.Seek(0, io.SeekCurrent); err != nil {
			return fmt.Errorf("reading PIE: %w", err)
		}
	}

	t, err := NewTokenReader(r)
	if err == nil {
		err = m.ReadTokens(t)
	}
	if err != nil {
		*m = Model[V, P, F]{}
		if canSeek {
			if _, serr := seeker.Seek(start, io.SeekStart); serr != nil {
				return errors.Join(err, fmt.Errorf("rewinding: %w", serr))
			}
		}
		return err
	}
	return nil
}

// ReadTokens parses a whole PIE file from a token reader. On failure the
// model is cleared.
func (m *Model[V, P, F]) ReadTokens(t *TokenReader) error {
	if err := m.read(t); err != nil {
		*m = Model[V, P, F]{}
		return fmt.Errorf("reading PIE %d: %w", m.Version(), err)
	}
	return nil
}

func (m *Model[V, P, F]) read(t *TokenReader) error {
	var codec F
	*m = Model[V, P, F]{Textures: TextureSet{}}

	// Header
	if err := t.Expect("PIE"); err != nil {
		return err
	}
	version, err := t.Int()
	if err != nil {
		return err
	}
	if version != codec.Version() {
		return fmt.Errorf("%w: PIE %d", ErrUnsupportedVersion, version)
	}
	if err := t.Expect("TYPE"); err != nil {
		return err
	}
	typ, err := t.Hex()
	if err != nil {
		return err
	}

	// Textures
	if err := m.readTexture(t); err != nil {
		return err
	}
	if typ&TypeTCMask != 0 {
		m.Textures.Set(TextureTCMask, TCMaskName(m.Textures.Get(TextureDiffuse)))
	}
	if codec.Extended() {
		if err := m.readExtraMap(t, "NORMALMAP", TextureNormal); err != nil {
			return err
		}
		if err := m.readExtraMap(t, "SPECULARMAP", TextureSpecular); err != nil {
			return err
		}
	}

	// Levels
	n, err := t.Count("LEVELS", maxCount)
	if err != nil {
		return err
	}
	m.Levels = make([]Level[V, P, F], n)
	for i := range m.Levels {
		if err := t.Expect("LEVEL"); err != nil {
			return err
		}
		num, err := t.Int()
		if err != nil {
			return err
		}
		if num != i+1 {
			return fmt.Errorf("%w: LEVEL %d, expected %d", ErrInvalidLevel, num, i+1)
		}
		if err := m.Levels[i].Read(t); err != nil {
			return fmt.Errorf("level %d: %w", num, err)
		}
	}
	return nil
}

func (m *Model[V, P, F]) readTexture(t *TokenReader) error {
	if err := t.Expect("TEXTURE"); err != nil {
		return err
	}
	if err := t.Expect("0"); err != nil {
		return err
	}
	name, err := t.Word()
	if err != nil {
		return err
	}
	if err := validateName("texture", name); err != nil {
		return err
	}
	if m.TextureWidth, err = t.Int(); err != nil {
		return err
	}
	if m.TextureHeight, err = t.Int(); err != nil {
		return err
	}
	if m.TextureWidth < 0 || m.TextureHeight < 0 {
		return fmt.Errorf("%w: texture size %dx%d", ErrOutOfRange, m.TextureWidth, m.TextureHeight)
	}
	m.Textures.Set(TextureDiffuse, name)
	return nil
}

func (m *Model[V, P, F]) readExtraMap(t *TokenReader, directive string, slot TextureSlot) error {
	if !t.Accept(directive) {
		return nil
	}
	if err := t.Expect("0"); err != nil {
		return err
	}
	name, err := t.Word()
	if err != nil {
		return err
	}
	if err := validateName(directive, name); err != nil {
		return err
	}
	m.Textures.Set(slot, name)
	return nil
}

// Write emits the whole PIE file.
func (m *Model[V, P, F]) Write(w io.Writer) error {
	var codec F
	diffuse := m.Textures.Get(TextureDiffuse)
	if diffuse == "" {
		return ErrMissingTexture
	}
	width, height := m.TextureWidth, m.TextureHeight
	if width <= 0 || height <= 0 {
		width, height = 256, 256
	}

	pw := &TextWriter{w: w}
	pw.Printf("PIE %d\n", codec.Version())
	pw.Printf("TYPE %x\n", m.Type())
	pw.Printf("TEXTURE 0 %s %d %d\n", diffuse, width, height)
	if codec.Extended() {
		if name := m.Textures.Get(TextureNormal); name != "" {
			pw.Printf("NORMALMAP 0 %s\n", name)
		}
		if name := m.Textures.Get(TextureSpecular); name != "" {
			pw.Printf("SPECULARMAP 0 %s\n", name)
		}
	}
	pw.Printf("LEVELS %d\n", len(m.Levels))
	for i := range m.Levels {
		pw.Printf("LEVEL %d\n", i+1)
		m.Levels[i].write(pw)
	}
	return pw.err
}

// WriteFile writes the model to path.
func (m *Model[V, P, F]) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ParsePie2 parses PIE version 2 data.
func ParsePie2(data []byte) (*Pie2Model, error) {
	m := &Pie2Model{}
	if err := m.ReadTokens(NewTokenReaderString(string(data))); err != nil {
		return nil, err
	}
	return m, nil
}

// ParsePie3 parses PIE version 3 data.
func ParsePie3(data []byte) (*Pie3Model, error) {
	m := &Pie3Model{}
	if err := m.ReadTokens(NewTokenReaderString(string(data))); err != nil {
		return nil, err
	}
	return m, nil
}

// PieVersion returns the version in a PIE header without parsing the rest.
func PieVersion(data []byte) (int, error) {
	t := NewTokenReaderString(string(data))
	if err := t.Expect("PIE"); err != nil {
		return 0, err
	}
	return t.Int()
}

// ParsePie parses PIE data of either version. Version 2 models are upconverted.
// The returned int is the version found in the file.
func ParsePie(data []byte) (*Pie3Model, int, error) {
	version, err := PieVersion(data)
	if err != nil {
		return nil, 0, err
	}
	switch version {
	case 2:
		m2, err := ParsePie2(data)
		if err != nil {
			return nil, version, err
		}
		return UpconvertModel(m2), version, nil
	case 3:
		m3, err := ParsePie3(data)
		return m3, version, err
	default:
		return nil, version, fmt.Errorf("%w: PIE %d", ErrUnsupportedVersion, version)
	}
}

// ParsePieFile parses a PIE file of either version from disk.
func ParsePieFile(path string) (*Pie3Model, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading PIE file: %w", err)
	}
	return ParsePie(data)
}
