package formats

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Faultbox/wmit/pkg/math"
)

const testPie2 = `PIE 2
TYPE 10200
TEXTURE 0 page-7-barbarians.png 256 256
LEVELS 1
LEVEL 1
POINTS 4
	-10 0 -10
	10 0 -10
	10 0 10
	-10 0 10
POLYGONS 2
	200 4 0 1 2 3 0 0 64 0 64 64 0 64
	4200 3 0 2 3 4 1 32 16 0 0 32 0 32 16
CONNECTORS 1
	0 5 0
`

const testPie3 = `PIE 3
TYPE 200
TEXTURE 0 page-12.png 512 256
NORMALMAP 0 page-12_nm.png
SPECULARMAP 0 page-12_sm.png
LEVELS 2
LEVEL 1
MATERIALS 0.5 0.5 0.5 1 1 1 0.2 0.2 0.2 12
SHADERS 2 tcmask.vert tcmask.frag
POINTS 3
	-1 0 0
	0 1 0
	0 0 1
POLYGONS 1
	200 3 0 1 2 0 0 1 0 0.5 1
CONNECTORS 2
	1.5 2 3
	-4 5 6
LEVEL 2
POINTS 3
	0 0 0
	1 0 0
	0 1 0
POLYGONS 1
	4200 3 0 1 2 4 2 0.25 0.5 0 0 0.25 0 0 0.5
ANIMOBJECT 100 1 2
	0 0 0 0 0 0 0 1 1 1
	1 1 0 0 0 90 0 1 1 1
`

func TestParsePie2(t *testing.T) {
	m, err := ParsePie2([]byte(testPie2))
	if err != nil {
		t.Fatalf("ParsePie2 failed: %v", err)
	}

	if m.Version() != 2 {
		t.Errorf("Version() = %d, want 2", m.Version())
	}
	if got := m.Textures.Get(TextureDiffuse); got != "page-7-barbarians.png" {
		t.Errorf("diffuse = %q", got)
	}
	if got := m.Textures.Get(TextureTCMask); got != "page-7-barbarians_tcmask.png" {
		t.Errorf("tcmask = %q", got)
	}
	if m.Type() != TypeTextured|TypeTCMask {
		t.Errorf("Type() = %x, want 10200", m.Type())
	}
	if len(m.Levels) != 1 {
		t.Fatalf("levels = %d, want 1", len(m.Levels))
	}

	l := &m.Levels[0]
	if l.PointCount() != 4 || l.PolygonCount() != 2 || l.ConnectorCount() != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/2/1", l.PointCount(), l.PolygonCount(), l.ConnectorCount())
	}
	if l.Points[0] != (Vertex2{-10, 0, -10}) {
		t.Errorf("Points[0] = %v", l.Points[0])
	}
	if l.TriangleCount() != 3 {
		t.Errorf("TriangleCount() = %d, want 3", l.TriangleCount())
	}

	anim := &l.Polygons[1]
	if !anim.HasAnimation() || anim.Frames != 4 || anim.Rate != 1 || anim.Width != 32 || anim.Height != 16 {
		t.Errorf("animated polygon = %+v", anim)
	}
	if !l.IsValid() || !m.IsValid() {
		t.Error("expected valid model")
	}
}

func TestParsePie3(t *testing.T) {
	m, err := ParsePie3([]byte(testPie3))
	if err != nil {
		t.Fatalf("ParsePie3 failed: %v", err)
	}

	if m.TextureWidth != 512 || m.TextureHeight != 256 {
		t.Errorf("texture size = %dx%d", m.TextureWidth, m.TextureHeight)
	}
	if m.Textures.Get(TextureNormal) != "page-12_nm.png" || m.Textures.Get(TextureSpecular) != "page-12_sm.png" {
		t.Errorf("extra maps = %v", m.Textures)
	}
	if m.Textures.Has(TextureTCMask) {
		t.Error("TYPE 200 should not set a tcmask")
	}

	l1 := &m.Levels[0]
	if l1.Material == nil || l1.Material.Shininess != 12 || l1.Material.Diffuse != [3]float32{1, 1, 1} {
		t.Errorf("material = %+v", l1.Material)
	}
	if l1.Shaders == nil || l1.Shaders.Vertex != "tcmask.vert" || l1.Shaders.Fragment != "tcmask.frag" {
		t.Errorf("shaders = %+v", l1.Shaders)
	}
	// X is stored negated
	if l1.Points[0] != (math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("Points[0] = %v, want X negated", l1.Points[0])
	}
	if l1.Connectors[1] != (math.Vec3{X: 4, Y: 5, Z: 6}) {
		t.Errorf("Connectors[1] = %v", l1.Connectors[1])
	}
	if l1.Polygons[0].TexCoords[2] != math.UV(0.5, 1) {
		t.Errorf("uv = %v", l1.Polygons[0].TexCoords[2])
	}

	l2 := &m.Levels[1]
	if l2.Material != nil || l2.Shaders != nil {
		t.Error("level 2 should have no optional directives")
	}
	if l2.ConnectorCount() != 0 {
		t.Errorf("level 2 connectors = %d", l2.ConnectorCount())
	}
	if l2.AnimObject == nil || len(l2.AnimObject.Frames) != 2 || l2.AnimObject.Time != 100 {
		t.Fatalf("animobject = %+v", l2.AnimObject)
	}
	if l2.AnimObject.Frames[1].Rotation.Y != 90 {
		t.Errorf("frame rotation = %v", l2.AnimObject.Frames[1].Rotation)
	}
}

func TestPie3WriteReadRoundTrip(t *testing.T) {
	m, err := ParsePie3([]byte(testPie3))
	if err != nil {
		t.Fatalf("ParsePie3 failed: %v", err)
	}

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	again, err := ParsePie3(buf.Bytes())
	if err != nil {
		t.Fatalf("re-read failed: %v\n%s", err, buf.String())
	}

	var buf2 bytes.Buffer
	if err := again.Write(&buf2); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if buf.String() != buf2.String() {
		t.Errorf("output not stable:\n%s\n---\n%s", buf.String(), buf2.String())
	}
	if again.Levels[0].Points[0] != m.Levels[0].Points[0] {
		t.Errorf("point changed: %v vs %v", again.Levels[0].Points[0], m.Levels[0].Points[0])
	}
}

func TestPie2WriteOmitsExtendedSections(t *testing.T) {
	m, err := ParsePie2([]byte(testPie2))
	if err != nil {
		t.Fatalf("ParsePie2 failed: %v", err)
	}
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	for _, directive := range []string{"NORMALMAP", "MATERIALS", "SHADERS", "ANIMOBJECT"} {
		if strings.Contains(out, directive) {
			t.Errorf("PIE 2 output contains %s", directive)
		}
	}
	if !strings.HasPrefix(out, "PIE 2\nTYPE 10200\nTEXTURE 0 page-7-barbarians.png 256 256\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "\t4200 3 0 2 3 4 1 32 16 0 0 32 0 32 16\n") {
		t.Errorf("animated polygon not reproduced:\n%s", out)
	}
}

func TestPieReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"wrong magic", "PIX 3", ErrBadDirective},
		{"wrong version", "PIE 4 TYPE 200", ErrUnsupportedVersion},
		{"missing type", "PIE 3 TEXTURE", ErrBadDirective},
		{"bad hex", "PIE 3 TYPE zz", ErrBadNumber},
		{"invalid texture name", "PIE 3 TYPE 200 TEXTURE 0 bad/name.png 256 256", ErrInvalidName},
		{"level number", "PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 2", ErrInvalidLevel},
		{"truncated points", "PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 1 POINTS 2 0 0 0", ErrUnexpectedEOF},
		{"index out of bounds", "PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 1 POINTS 1 0 0 0 POLYGONS 1 200 3 0 0 1", ErrOutOfRange},
		{"uv out of range", "PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 1 POINTS 1 0 0 0 POLYGONS 1 200 3 0 0 0 0 0 1.5 0 0 0", ErrOutOfRange},
		{"pie3 quad", "PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 1 POINTS 1 0 0 0 POLYGONS 1 200 4 0 0 0 0", ErrTooManyVertices},
		{"bad shader count", "PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 1 SHADERS 1 a.vert", ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Pie3Model{}
			err := m.Read(strings.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if m.Levels != nil || m.Textures != nil {
				t.Error("partial state retained after failure")
			}
		})
	}
}

func TestPieReadRewindsOnFailure(t *testing.T) {
	r := strings.NewReader("PIE 3 TYPE 200 TEXTURE 0 a.png 256 256 LEVELS 1 LEVEL 1 POINTS")
	m := &Pie3Model{}
	if err := m.Read(r); err == nil {
		t.Fatal("expected error")
	}
	pos, _ := r.Seek(0, io.SeekCurrent)
	if pos != 0 {
		t.Errorf("reader position = %d, want 0", pos)
	}
}

func TestParsePie3Paths(t *testing.T) {
	src := `PIE 3
TYPE 200
TEXTURE 0 textures\page-7.png 0 0
LEVELS 1
LEVEL 1
SHADERS 2 shaders/tc.vert shaders/tc.frag
POINTS 3
	0 0 0
	1 0 0
	0 1 0
POLYGONS 1
	200 3 0 1 2 0 0 1 0 0 1
`
	m, err := ParsePie3([]byte(src))
	if err != nil {
		t.Fatalf("ParsePie3 failed: %v", err)
	}
	if got := m.Textures.Get(TextureDiffuse); got != `textures\page-7.png` {
		t.Errorf("diffuse = %q", got)
	}
	if m.TextureWidth != 0 || m.TextureHeight != 0 {
		t.Errorf("texture size = %dx%d, want 0x0", m.TextureWidth, m.TextureHeight)
	}
	s := m.Levels[0].Shaders
	if s == nil || s.Vertex != "shaders/tc.vert" || s.Fragment != "shaders/tc.frag" {
		t.Fatalf("shaders = %+v", s)
	}
	if !m.Levels[0].IsValid() {
		t.Error("level with shader paths should be valid")
	}

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "TEXTURE 0 textures\\page-7.png 256 256\n") {
		t.Errorf("unknown size not written as 256:\n%s", buf.String())
	}

	if _, err := ParsePie3([]byte(strings.Replace(src, "0 0\nLEVELS", "-1 0\nLEVELS", 1))); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative size error = %v, want ErrOutOfRange", err)
	}
}

type failingSeeker struct {
	*strings.Reader
}

func (failingSeeker) Seek(int64, int) (int64, error) {
	return 0, errors.New("seek unsupported")
}

func TestPieReadReportsSeekFailure(t *testing.T) {
	m := &Pie3Model{}
	err := m.Read(failingSeeker{strings.NewReader("PIE 3")})
	if err == nil || !strings.Contains(err.Error(), "seek unsupported") {
		t.Errorf("error = %v, want seek failure", err)
	}
}

func TestPieWriteWithoutTexture(t *testing.T) {
	m := &Pie3Model{}
	if err := m.Write(io.Discard); !errors.Is(err, ErrMissingTexture) {
		t.Errorf("error = %v, want ErrMissingTexture", err)
	}
}

func TestParsePieSniffsVersion(t *testing.T) {
	m, version, err := ParsePie([]byte(testPie2))
	if err != nil {
		t.Fatalf("ParsePie failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	if m.Version() != 3 || m.Levels[0].PolygonCount() != 3 {
		t.Errorf("upconverted model: version %d, polygons %d", m.Version(), m.Levels[0].PolygonCount())
	}

	if _, _, err := ParsePie([]byte("PIE 5")); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("PIE 5 error = %v", err)
	}
}

func TestLevelIsValid(t *testing.T) {
	l := Pie3Level{
		Points:   []Vertex3{{}, {X: 1}, {Y: 1}},
		Polygons: []Polygon3{{Flags: FlagTextured, Indices: [3]uint16{0, 1, 2}}},
	}
	if !l.IsValid() {
		t.Error("expected valid level")
	}
	l.Polygons[0].Indices[2] = 3
	if l.IsValid() {
		t.Error("index == point count should be invalid")
	}
}

func TestPolygonUVAnimation(t *testing.T) {
	p2 := Polygon2{
		Flags:     FlagTextured | FlagAnimated,
		Indices:   []uint16{0, 1, 2},
		TexCoords: []TexCoord2{{0, 0}, {64, 0}, {64, 64}},
		Frames:    6,
		Width:     64,
		Height:    64,
	}
	tests := []struct {
		frame int
		want  TexCoord2
	}{
		{0, TexCoord2{64, 0}},
		{1, TexCoord2{128, 0}},
		{3, TexCoord2{256, 0}},
		{4, TexCoord2{64, 64}},
		{6, TexCoord2{64, 0}}, // wraps to frame 0
	}
	for _, tt := range tests {
		if got := p2.UV(1, tt.frame); got != tt.want {
			t.Errorf("Polygon2.UV(1, %d) = %v, want %v", tt.frame, got, tt.want)
		}
	}

	p3 := Polygon3{
		Flags:     FlagTextured | FlagAnimated,
		TexCoords: [3]math.Vec2{{}, {X: 0.25}, {}},
		Frames:    8,
		Width:     0.25,
		Height:    0.125,
	}
	if got := p3.UV(1, 5); got != (math.Vec2{X: 0.5, Y: 0.125}) {
		t.Errorf("Polygon3.UV(1, 5) = %v", got)
	}

	static := Polygon3{Flags: FlagTextured, TexCoords: [3]math.Vec2{{X: 0.1, Y: 0.2}}}
	if static.FrameCount() != 1 {
		t.Errorf("static FrameCount() = %d", static.FrameCount())
	}
	if got := static.UV(0, 3); got != (math.Vec2{X: 0.1, Y: 0.2}) {
		t.Errorf("static UV ignores frame: got %v", got)
	}
}

func TestTCMaskName(t *testing.T) {
	if got := TCMaskName("page-7.png"); got != "page-7_tcmask.png" {
		t.Errorf("TCMaskName = %q", got)
	}
	if got := TCMaskName(""); got != "" {
		t.Errorf("TCMaskName(empty) = %q", got)
	}
}
