package model

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/math"
)

// WZMVersion is the only WZM revision read and written.
const WZMVersion = 2

// WZM is a multi-mesh model sharing one texture page and material.
type WZM struct {
	Meshes   []Mesh
	Textures formats.TextureSet
	Material Material
}

// New returns an empty model with the default material.
func New() *WZM {
	return &WZM{Textures: formats.TextureSet{}, Material: DefaultMaterial()}
}

func (w *WZM) clear() {
	*w = *New()
}

// IsValid reports whether the texture names and every mesh are valid.
func (w *WZM) IsValid() bool {
	if !w.Textures.IsValid() {
		return false
	}
	for i := range w.Meshes {
		if !w.Meshes[i].IsValid() {
			return false
		}
	}
	return true
}

// VertexCount returns the number of vertices over all meshes.
func (w *WZM) VertexCount() int {
	total := 0
	for i := range w.Meshes {
		total += w.Meshes[i].VertexCount()
	}
	return total
}

// FaceCount returns the number of triangles over all meshes.
func (w *WZM) FaceCount() int {
	total := 0
	for i := range w.Meshes {
		total += w.Meshes[i].FaceCount()
	}
	return total
}

// ConnectorCount returns the number of connectors over all meshes.
func (w *WZM) ConnectorCount() int {
	total := 0
	for i := range w.Meshes {
		total += w.Meshes[i].ConnectorCount()
	}
	return total
}

// Mesh returns the mesh with the given name, or nil.
func (w *WZM) Mesh(name string) *Mesh {
	for i := range w.Meshes {
		if w.Meshes[i].name == name {
			return &w.Meshes[i]
		}
	}
	return nil
}

// Read parses a WZM file. On failure the model is cleared and, when r is an
// io.Seeker, r is rewound to where reading started.
func (w *WZM) Read(r io.Reader) error {
	seeker, canSeek := r.(io.Seeker)
	var start int64
	if canSeek {
		var err error
		if start, err = seeker.Seek(0, io.SeekCurrent); err != nil {
			return fmt.Errorf("reading WZM: %w", err)
		}
	}
	t, err := formats.NewTokenReader(r)
	if err == nil {
		err = w.ReadTokens(t)
	}
	if err != nil {
		w.clear()
		if canSeek {
			if _, serr := seeker.Seek(start, io.SeekStart); serr != nil {
				return errors.Join(err, fmt.Errorf("rewinding: %w", serr))
			}
		}
		return err
	}
	return nil
}

// ReadTokens parses a WZM file from a token reader.
func (w *WZM) ReadTokens(t *formats.TokenReader) error {
	if err := w.read(t); err != nil {
		w.clear()
		return fmt.Errorf("reading WZM: %w", err)
	}
	return nil
}

func (w *WZM) read(t *formats.TokenReader) error {
	w.clear()
	if err := t.Expect("WZM"); err != nil {
		return err
	}
	version, err := t.Int()
	if err != nil {
		return err
	}
	if version != WZMVersion {
		return fmt.Errorf("%w: WZM %d", formats.ErrUnsupportedVersion, version)
	}

	if err := t.Expect("TEXTURE"); err != nil {
		return err
	}
	texture := t.RestOfLine()
	if !formats.IsValidName(texture) {
		return fmt.Errorf("%w: texture %q", formats.ErrInvalidName, texture)
	}
	w.Textures.Set(formats.TextureDiffuse, texture)

	count, err := t.Count("MESHES", 1<<12)
	if err != nil {
		return err
	}
	w.Meshes = make([]Mesh, count)
	teamColours := false
	for i := range w.Meshes {
		if err := w.Meshes[i].Read(t); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
		teamColours = teamColours || w.Meshes[i].TeamColours
	}
	if teamColours {
		w.Textures.Set(formats.TextureTCMask, formats.TCMaskName(texture))
	}
	return nil
}

// Write emits the model in WZM 2 form. Slots other than the diffuse page
// and a non-default material cannot be stored and are reported.
func (w *WZM) Write(out io.Writer) error {
	for i := range w.Meshes {
		if !w.Meshes[i].IsValid() {
			return fmt.Errorf("mesh %d: %w", i, ErrInvalidMesh)
		}
	}
	for slot, name := range w.Textures {
		if slot == formats.TextureDiffuse || slot == formats.TextureTCMask {
			continue
		}
		logger.Warn("WZM cannot reference this texture; dropping it",
			zap.Stringer("slot", slot), zap.String("texture", name))
	}
	if !w.Material.IsDefault() {
		logger.Warn("WZM cannot store materials; dropping it")
	}

	tw := formats.NewTextWriter(out)
	tw.Printf("WZM %d\n", WZMVersion)
	tw.Printf("TEXTURE %s\n", w.Textures.Get(formats.TextureDiffuse))
	tw.Printf("MESHES %d\n", len(w.Meshes))
	for i := range w.Meshes {
		w.Meshes[i].write(tw)
	}
	return tw.Err()
}

// ReadFile reads a WZM file from disk.
func ReadFile(path string) (*WZM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w := New()
	if err := w.Read(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// WriteFile writes the model to path.
func (w *WZM) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Scale scales every mesh.
func (w *WZM) Scale(x, y, z float32) {
	for i := range w.Meshes {
		w.Meshes[i].Scale(x, y, z)
	}
}

// Mirror mirrors every mesh around the model origin plane of axis.
func (w *WZM) Mirror(axis Axis) {
	for i := range w.Meshes {
		w.Meshes[i].MirrorFromPoint(math.Vec3{}, axis)
	}
}

// ReverseWinding flips every triangle of every mesh.
func (w *WZM) ReverseWinding() {
	for i := range w.Meshes {
		w.Meshes[i].ReverseWinding()
	}
}

// Reweld rewelds every mesh with eps.
func (w *WZM) Reweld(eps float32) error {
	for i := range w.Meshes {
		if err := w.Meshes[i].Reweld(eps); err != nil {
			return fmt.Errorf("mesh %q: %w", w.Meshes[i].name, err)
		}
	}
	return nil
}
