package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/config"
	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/model"
)

func cmdInfo(out io.Writer, args []string, cfg *config.Config) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: wmit info <file>")
		return errUsage
	}
	path := args[0]

	if fileKind(path) == "pie" {
		p, version, err := formats.ParsePieFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(out, "File:     %s\n", path)
		fmt.Fprintf(out, "Format:   PIE %d (TYPE %x)\n", version, p.Type())
		fmt.Fprintf(out, "Texture:  %s %dx%d\n", p.Textures.Get(formats.TextureDiffuse), p.TextureWidth, p.TextureHeight)
		fmt.Fprintf(out, "Levels:   %d\n", len(p.Levels))
		for i := range p.Levels {
			l := &p.Levels[i]
			fmt.Fprintf(out, "  LEVEL %d: %d points, %d polygons, %d connectors\n",
				i+1, l.PointCount(), l.PolygonCount(), l.ConnectorCount())
		}
		fmt.Fprintf(out, "Valid:    %v\n", p.IsValid())
		return nil
	}

	w, err := loadModel(path, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Format:     %s\n", fileKind(path))
	printTextures(out, w.Textures)
	fmt.Fprintf(out, "Meshes:     %d\n", len(w.Meshes))
	for i := range w.Meshes {
		m := &w.Meshes[i]
		b := m.Bounds()
		fmt.Fprintf(out, "  %-12s %5d vertices %5d faces %2d connectors  tc=%v  size %.2f x %.2f x %.2f\n",
			m.Name(), m.VertexCount(), m.FaceCount(), m.ConnectorCount(), m.TeamColours,
			b.Size().X, b.Size().Y, b.Size().Z)
	}
	fmt.Fprintf(out, "Vertices:   %d\n", w.VertexCount())
	fmt.Fprintf(out, "Faces:      %d\n", w.FaceCount())
	fmt.Fprintf(out, "Connectors: %d\n", w.ConnectorCount())
	fmt.Fprintf(out, "Valid:      %v\n", w.IsValid())
	return nil
}

func printTextures(out io.Writer, ts formats.TextureSet) {
	slots := make([]formats.TextureSlot, 0, len(ts))
	for slot := range ts {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	for _, slot := range slots {
		fmt.Fprintf(out, "Texture:    %-9s %s\n", slot, ts.Get(slot))
	}
}

func cmdConvert(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	tex := fs.String("texture", "", "Diffuse texture page for formats that do not name one")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: wmit convert [-texture name] <in> <out>")
		return errUsage
	}
	in, out := fs.Arg(0), fs.Arg(1)

	w, err := loadModel(in, cfg)
	if err != nil {
		return err
	}
	if *tex != "" {
		if !formats.IsValidName(*tex) {
			return fmt.Errorf("%w: texture %q", formats.ErrInvalidName, *tex)
		}
		w.Textures.Set(formats.TextureDiffuse, *tex)
	}
	if err := saveModel(w, out, cfg); err != nil {
		return err
	}
	logger.Info("converted",
		zap.String("from", in), zap.String("to", out),
		zap.Int("meshes", len(w.Meshes)), zap.Int("faces", w.FaceCount()))
	return nil
}

func cmdWeld(args []string, cfg *config.Config) error {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: wmit weld <in> <out>")
		return errUsage
	}
	w, err := loadModel(args[0], cfg)
	if err != nil {
		return err
	}
	before := w.VertexCount()
	if err := w.Reweld(cfg.Weld.Epsilon); err != nil {
		return err
	}
	if err := saveModel(w, args[1], cfg); err != nil {
		return err
	}
	logger.Info("welded",
		zap.Float32("epsilon", cfg.Weld.Epsilon),
		zap.Int("vertices_before", before), zap.Int("vertices_after", w.VertexCount()))
	return nil
}

func cmdTransform(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	scale := fs.Float64("scale", 1, "Uniform scale factor")
	mirror := fs.String("mirror", "", "Mirror across axis x, y or z")
	reverse := fs.Bool("reverse", false, "Reverse triangle winding")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: wmit transform [-scale s] [-mirror axis] [-reverse] <in> <out>")
		return errUsage
	}
	w, err := loadModel(fs.Arg(0), cfg)
	if err != nil {
		return err
	}
	if err := applyTransforms(w, float32(*scale), *mirror, *reverse); err != nil {
		return err
	}
	return saveModel(w, fs.Arg(1), cfg)
}

func applyTransforms(w *model.WZM, scale float32, mirror string, reverse bool) error {
	if scale == 0 {
		return fmt.Errorf("scale must not be zero")
	}
	if scale != 1 {
		w.Scale(scale, scale, scale)
	}
	if mirror != "" {
		axis, ok := model.ParseAxis(mirror)
		if !ok {
			return fmt.Errorf("unknown mirror axis %q", mirror)
		}
		w.Mirror(axis)
	}
	if reverse {
		w.ReverseWinding()
	}
	return nil
}

func cmdConfig(out io.Writer, args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	path := fs.String("o", "", "Output path (default: user config dir)")
	fs.Parse(args)

	var err error
	if *path != "" {
		err = cfg.SaveTo(*path)
	} else {
		*path, err = cfg.Save()
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", *path)
	return nil
}
