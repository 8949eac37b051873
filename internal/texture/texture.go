// Package texture locates texture pages referenced by models and probes
// their pixel size.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/Faultbox/wmit/internal/logger"
	"github.com/Faultbox/wmit/pkg/encoding"
)

// ErrNotFound is returned when no search path holds the texture.
var ErrNotFound = errors.New("texture not found")

// ErrUnknownFormat is returned for extensions without a decoder.
var ErrUnknownFormat = errors.New("unknown texture format")

// Info describes a probed texture page.
type Info struct {
	Name   string // name as referenced by the model
	Path   string // resolved file
	Format string
	Width  int
	Height int
}

type configDecoder func(io.Reader) (image.Config, error)

// Decoders are chosen by extension. tga registers itself with an empty
// magic string, so sniffing through image.DecodeConfig is not reliable.
var decoders = map[string]configDecoder{
	".png":  png.DecodeConfig,
	".bmp":  bmp.DecodeConfig,
	".webp": webp.DecodeConfig,
	".tga":  tga.DecodeConfig,
	".jpg":  jpeg.DecodeConfig,
	".jpeg": jpeg.DecodeConfig,
}

// DecodeConfig reads the size of the image at path.
func DecodeConfig(path string) (Info, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return Info{}, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return Info{Path: path, Format: strings.TrimPrefix(ext, "."), Width: cfg.Width, Height: cfg.Height}, nil
}

// Resolver finds texture pages in a list of directories and caches what
// it probed. It is safe for concurrent use.
type Resolver struct {
	paths []string
	cache *Cache
	log   *zap.Logger
	mu    sync.RWMutex

	defaultWidth  int
	defaultHeight int
}

// NewResolver creates a resolver searching paths in order. Sizes fall back
// to defaultWidth x defaultHeight when a page cannot be probed.
func NewResolver(paths []string, defaultWidth, defaultHeight int) *Resolver {
	return &Resolver{
		paths:         append([]string(nil), paths...),
		cache:         NewCache(),
		log:           logger.Named("texture"),
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

// AddPath appends a search directory. Earlier paths take priority.
func (r *Resolver) AddPath(dir string) {
	r.mu.Lock()
	r.paths = append(r.paths, dir)
	r.mu.Unlock()
}

// Find returns the file holding the named texture. Model files store
// names with either slash and in any case, so an exact match is tried
// first, then a lower-case one.
func (r *Resolver) Find(name string) (string, error) {
	rel := filepath.FromSlash(encoding.NormalizePath(name))
	candidates := []string{rel}
	if lower := strings.ToLower(rel); lower != rel {
		candidates = append(candidates, lower)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, dir := range r.paths {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if st, err := os.Stat(path); err == nil && !st.IsDir() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Probe locates and measures a texture page.
func (r *Resolver) Probe(name string) (Info, error) {
	if info, ok := r.cache.Get(name); ok {
		return info, nil
	}
	path, err := r.Find(name)
	if err != nil {
		return Info{}, err
	}
	info, err := DecodeConfig(path)
	if err != nil {
		return Info{}, err
	}
	info.Name = name
	r.cache.Set(name, info)
	r.log.Debug("probed texture",
		zap.String("name", name), zap.String("path", path),
		zap.Int("width", info.Width), zap.Int("height", info.Height))
	return info, nil
}

// Size returns the page size, or the configured default when the page
// cannot be probed.
func (r *Resolver) Size(name string) (width, height int) {
	if name == "" {
		return r.defaultWidth, r.defaultHeight
	}
	info, err := r.Probe(name)
	if err != nil {
		r.log.Warn("using default texture size",
			zap.String("texture", name), zap.Error(err),
			zap.Int("width", r.defaultWidth), zap.Int("height", r.defaultHeight))
		return r.defaultWidth, r.defaultHeight
	}
	return info.Width, info.Height
}

// Stats returns cache statistics.
func (r *Resolver) Stats() (hits, misses int) {
	return r.cache.Stats()
}

// Cache holds probed texture info by name.
type Cache struct {
	data map[string]Info
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string]Info)}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return info, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, info Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = info
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
