package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Faultbox/wmit/pkg/encoding"
	"github.com/Faultbox/wmit/pkg/math"
)

// OBJFaceVertex references the attribute arrays of an OBJ file. Indices are
// 1-based; 0 means the attribute was not specified. Relative (negative)
// indices are resolved while parsing.
type OBJFaceVertex struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a polygon of three or more vertices.
type OBJFace struct {
	Vertices []OBJFaceVertex
	Material string
}

// OBJGroup collects the faces declared under one object name.
type OBJGroup struct {
	Name  string
	Faces []OBJFace
}

// OBJ is a parsed Wavefront OBJ file. Texture coordinates are kept as
// written in the file (bottom-left origin).
type OBJ struct {
	Positions    []math.Vec3
	TexCoords    []math.Vec2
	Normals      []math.Vec3
	Groups       []OBJGroup
	Materials    []string // usemtl names in order of first use
	MaterialLibs []string
}

// FaceCount returns the number of faces over all groups.
func (o *OBJ) FaceCount() int {
	total := 0
	for _, g := range o.Groups {
		total += len(g.Faces)
	}
	return total
}

// Group returns the group with the given name, or nil.
func (o *OBJ) Group(name string) *OBJGroup {
	for i := range o.Groups {
		if o.Groups[i].Name == name {
			return &o.Groups[i]
		}
	}
	return nil
}

// objParser holds the state that changes while walking the file.
type objParser struct {
	obj      *OBJ
	line     int
	group    int // index into obj.Groups, -1 before the first face
	name     string
	material string
	sawObj   bool
}

// ParseOBJ parses OBJ data. Faces are grouped by "o" name; "g" names are
// used only in files that never declare an object.
func ParseOBJ(data []byte) (*OBJ, error) {
	p := &objParser{obj: &OBJ{}, group: -1}

	scanner := bufio.NewScanner(bytes.NewReader(encoding.DecodeText(data)))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("OBJ line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return p.obj, nil
}

// ReadOBJ parses OBJ data from r.
func ReadOBJ(r io.Reader) (*OBJ, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return ParseOBJ(data)
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	ident, args := fields[0], fields[1:]

	switch ident {
	case "v", "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		vec := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
		if ident == "v" {
			p.obj.Positions = append(p.obj.Positions, vec)
		} else {
			p.obj.Normals = append(p.obj.Normals, vec)
		}
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		p.obj.TexCoords = append(p.obj.TexCoords, math.UV(v[0], v[1]))
	case "o":
		p.sawObj = true
		p.setName(strings.Join(args, " "))
	case "g":
		if !p.sawObj {
			p.setName(strings.Join(args, " "))
		}
	case "usemtl":
		p.material = strings.Join(args, " ")
		if !slices.Contains(p.obj.Materials, p.material) {
			p.obj.Materials = append(p.obj.Materials, p.material)
		}
	case "mtllib":
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, args...)
	case "f":
		return p.parseFace(args)
	}
	// Other statements (s, l, p, curves) carry nothing a mesh can use.
	return nil
}

func (p *objParser) setName(name string) {
	p.name = name
	p.group = -1
}

func (p *objParser) currentGroup() *OBJGroup {
	if p.group < 0 {
		for i := range p.obj.Groups {
			if p.obj.Groups[i].Name == p.name {
				p.group = i
				break
			}
		}
		if p.group < 0 {
			p.obj.Groups = append(p.obj.Groups, OBJGroup{Name: p.name})
			p.group = len(p.obj.Groups) - 1
		}
	}
	return &p.obj.Groups[p.group]
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrOutOfRange, len(args))
	}
	face := OBJFace{Vertices: make([]OBJFaceVertex, len(args)), Material: p.material}
	for i, arg := range args {
		parts := strings.Split(arg, "/")
		if len(parts) > 3 {
			return fmt.Errorf("%w: face vertex %q", ErrBadNumber, arg)
		}
		var refs [3]int
		counts := [3]int{len(p.obj.Positions), len(p.obj.TexCoords), len(p.obj.Normals)}
		for j, part := range parts {
			if part == "" {
				continue
			}
			idx, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("%w: face vertex %q", ErrBadNumber, arg)
			}
			if idx < 0 {
				idx = counts[j] + idx + 1
			}
			if idx < 1 || idx > counts[j] {
				return fmt.Errorf("%w: face vertex %q", ErrOutOfRange, arg)
			}
			refs[j] = idx
		}
		if refs[0] == 0 {
			return fmt.Errorf("%w: face vertex %q has no position", ErrOutOfRange, arg)
		}
		face.Vertices[i] = OBJFaceVertex{Position: refs[0], TexCoord: refs[1], Normal: refs[2]}
	}
	g := p.currentGroup()
	g.Faces = append(g.Faces, face)
	return nil
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrUnexpectedEOF, n, len(args))
	}
	out := make([]float32, n)
	for i := range out {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadNumber, args[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}
