package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/wmit/internal/config"
	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/internal/texture"
	"github.com/Faultbox/wmit/pkg/formats"
	"github.com/Faultbox/wmit/pkg/model"
)

// fileKind returns the lower-case extension without the dot.
func fileKind(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// loadModel reads any supported file into a welded model.
func loadModel(path string, cfg *config.Config) (*model.WZM, error) {
	eps := cfg.Weld.Epsilon
	switch fileKind(path) {
	case "wzm":
		return model.ReadFile(path)
	case "pie":
		p, version, err := formats.ParsePieFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.Debug("loaded PIE", zap.String("path", path), zap.Int("version", version),
			zap.Int("levels", len(p.Levels)))
		return model.FromPie3(p, eps)
	case "obj":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		w, err := model.ImportOBJ(f, eps)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if cfg.Export.TeamColours {
			for i := range w.Meshes {
				w.Meshes[i].TeamColours = true
			}
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
	}
}

// saveModel writes a model in the format implied by the extension.
func saveModel(w *model.WZM, path string, cfg *config.Config) error {
	switch fileKind(path) {
	case "wzm":
		return w.WriteFile(path)
	case "pie":
		resolver := texture.NewResolver(cfg.Texture.SearchPaths, cfg.Texture.DefaultWidth, cfg.Texture.DefaultHeight)
		resolver.AddPath(filepath.Dir(path))
		width, height := resolver.Size(w.Textures.Get(formats.TextureDiffuse))
		if cfg.Export.PieVersion == 2 {
			p, err := w.ToPie2(width, height, cfg.Weld.Epsilon)
			if err != nil {
				return err
			}
			return p.WriteFile(path)
		}
		p, err := w.ToPie3(width, height, cfg.Weld.Epsilon)
		if err != nil {
			return err
		}
		return p.WriteFile(path)
	case "obj":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := w.ExportOBJ(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return f.Close()
	default:
		return fmt.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
	}
}
