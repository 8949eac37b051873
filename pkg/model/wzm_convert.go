package model

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/pkg/formats"
)

// FromPie3 welds every level of a PIE 3 model into its own mesh, named
// level1, level2 and so on. The material of the first level that has one
// becomes the model material.
func FromPie3(p *formats.Pie3Model, eps float32) (*WZM, error) {
	w := New()
	w.Textures = p.Textures.Clone()
	teamColours := p.Textures.Has(formats.TextureTCMask)

	var material *formats.Material
	for i := range p.Levels {
		l := &p.Levels[i]
		mesh, err := FromPieLevel(l, eps)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		mesh.SetName(fmt.Sprintf("level%d", i+1))
		mesh.TeamColours = teamColours
		w.Meshes = append(w.Meshes, *mesh)

		switch {
		case l.Material == nil:
		case material == nil:
			material = l.Material
		case *l.Material != *material:
			logger.Warn("levels use different materials; keeping the first",
				zap.Int("level", i+1))
		}
		if l.Shaders != nil {
			logger.Warn("custom shaders are not kept",
				zap.Int("level", i+1), zap.String("vertex", l.Shaders.Vertex), zap.String("fragment", l.Shaders.Fragment))
		}
		if l.AnimObject != nil {
			logger.Warn("animation objects are not kept", zap.Int("level", i+1))
		}
	}
	if material != nil {
		w.Material = MaterialFromPie(material)
	}
	return w, nil
}

// FromPie2 upconverts a PIE 2 model and welds it.
func FromPie2(p *formats.Pie2Model, eps float32) (*WZM, error) {
	return FromPie3(formats.UpconvertModel(p), eps)
}

// ToPie3 builds a PIE 3 model with one level per mesh. A team colour mask
// slot is derived from the diffuse page when any mesh uses team colours.
func (w *WZM) ToPie3(width, height int, eps float32) (*formats.Pie3Model, error) {
	if len(w.Meshes) == 0 {
		return nil, ErrNoMeshes
	}
	p := &formats.Pie3Model{
		Textures:      w.Textures.Clone(),
		TextureWidth:  width,
		TextureHeight: height,
	}
	teamColours := false
	for i := range w.Meshes {
		teamColours = teamColours || w.Meshes[i].TeamColours
	}
	if teamColours && !p.Textures.Has(formats.TextureTCMask) {
		p.Textures.Set(formats.TextureTCMask, formats.TCMaskName(p.Textures.Get(formats.TextureDiffuse)))
	}

	material, lossless := w.Material.ToPie()
	if !lossless {
		logger.Warn("PIE materials have no emission or alpha; dropping them")
	}
	for i := range w.Meshes {
		l, err := w.Meshes[i].ToPieLevel(eps)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", w.Meshes[i].name, err)
		}
		if !w.Material.IsDefault() {
			mat := material
			l.Material = &mat
		}
		p.Levels = append(p.Levels, l)
	}
	return p, nil
}

// ToPie2 builds a PIE 2 model through ToPie3 and backconversion.
func (w *WZM) ToPie2(width, height int, eps float32) (*formats.Pie2Model, error) {
	p3, err := w.ToPie3(width, height, eps)
	if err != nil {
		return nil, err
	}
	return formats.BackconvertModel(p3), nil
}

// ImportOBJ reads an OBJ file and welds each object into a mesh. Only one
// material can be represented; extra ones are reported.
func ImportOBJ(r io.Reader, eps float32) (*WZM, error) {
	obj, err := formats.ReadOBJ(r)
	if err != nil {
		return nil, err
	}
	return FromOBJ(obj, eps)
}

// FromOBJ welds a parsed OBJ file.
func FromOBJ(obj *formats.OBJ, eps float32) (*WZM, error) {
	if len(obj.Materials) > 1 {
		logger.Warn("multiple materials are not supported; faces keep the first texture page",
			zap.Strings("materials", obj.Materials))
	}
	for _, uv := range obj.TexCoords {
		if uv.U() < 0 || uv.U() > 1 || uv.V() < 0 || uv.V() > 1 {
			logger.Warn("texture coordinates outside the page will not survive a WZM round trip")
			break
		}
	}
	w := New()
	for i := range obj.Groups {
		g := &obj.Groups[i]
		mesh, err := FromOBJGroup(obj, g, eps)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", g.Name, err)
		}
		w.Meshes = append(w.Meshes, *mesh)
	}
	return w, nil
}

// ExportOBJ writes every mesh as an OBJ object.
func (w *WZM) ExportOBJ(out io.Writer) error {
	tw := formats.NewTextWriter(out)
	if name := w.Textures.Get(formats.TextureDiffuse); name != "" {
		tw.Printf("# texture %s\n", name)
	}
	if err := tw.Err(); err != nil {
		return err
	}
	base := 0
	for i := range w.Meshes {
		var err error
		if base, err = w.Meshes[i].WriteOBJ(out, base); err != nil {
			return err
		}
	}
	return nil
}

// Import3DS welds the meshes handed over by a 3DS reader.
func Import3DS(meshes []*formats.Mesh3DS, texture string, eps float32) (*WZM, error) {
	w := New()
	w.Textures.Set(formats.TextureDiffuse, texture)
	for _, src := range meshes {
		mesh, err := FromMesh3DS(src, eps)
		if err != nil {
			return nil, err
		}
		w.Meshes = append(w.Meshes, *mesh)
	}
	return w, nil
}

// Export3DS converts every mesh for a 3DS writer.
func (w *WZM) Export3DS() []*formats.Mesh3DS {
	out := make([]*formats.Mesh3DS, len(w.Meshes))
	for i := range w.Meshes {
		out[i] = w.Meshes[i].ToMesh3DS()
	}
	return out
}
