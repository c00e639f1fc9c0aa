// Package assets resolves texture names to material dimensions on disk.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for image.DecodeConfig
	_ "image/png"  // register PNG for image.DecodeConfig
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // register BMP for image.DecodeConfig

	"github.com/Faultbox/brushc/internal/texture"
	"github.com/Faultbox/brushc/pkg/material"
	"github.com/Faultbox/brushc/pkg/uv"
)

// Extensions are tried in order for every texture directory.
var Extensions = []string{".png", ".tga", ".jpg", ".jpeg", ".bmp"}

// TextureDirs resolves textures from a list of directories. Later
// directories take priority, so project overrides can shadow a shared
// texture set.
type TextureDirs struct {
	dirs     []string
	hotspots map[string]uv.Atlas
	cache    *Cache
	log      *zap.Logger
}

// NewTextureDirs creates a resolver over dirs.
func NewTextureDirs(dirs []string, log *zap.Logger) *TextureDirs {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextureDirs{
		dirs:     dirs,
		hotspots: make(map[string]uv.Atlas),
		cache:    NewCache(),
		log:      log,
	}
}

// SetHotspot attaches a trim-sheet atlas to a texture.
func (t *TextureDirs) SetHotspot(texture string, atlas uv.Atlas) {
	t.hotspots[material.Key(texture)] = atlas
}

// Resolve implements material.Resolver. The material name is the path of
// the image found, so differently spelled texture names sharing a file
// batch together.
func (t *TextureDirs) Resolve(name string) (*material.Material, error) {
	key := material.Key(name)
	if m, ok := t.cache.Get(key); ok {
		if m == nil {
			return nil, fmt.Errorf("%w: %s", material.ErrNotFound, name)
		}
		return m, nil
	}

	m, err := t.lookup(name)
	if err != nil {
		t.cache.Set(key, nil)
		return nil, err
	}
	m.Atlas = t.hotspots[key]
	t.cache.Set(key, m)
	return m, nil
}

func (t *TextureDirs) lookup(name string) (*material.Material, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	variants := []string{rel}
	if lower := strings.ToLower(rel); lower != rel {
		variants = append(variants, lower)
	}

	for i := len(t.dirs) - 1; i >= 0; i-- {
		for _, v := range variants {
			for _, ext := range Extensions {
				path := filepath.Join(t.dirs[i], v+ext)
				cfg, err := decodeConfigFile(path)
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				if err != nil {
					t.log.Warn("unreadable texture", zap.String("path", path), zap.Error(err))
					continue
				}
				t.log.Debug("resolved texture",
					zap.String("texture", name),
					zap.String("path", path),
					zap.Int("width", cfg.Width),
					zap.Int("height", cfg.Height))
				return &material.Material{Name: path, Width: cfg.Width, Height: cfg.Height}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", material.ErrNotFound, name)
}

func decodeConfigFile(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f, filepath.Ext(path))
}

// DecodeConfig reads image dimensions. TGA has no magic number, so it is
// selected by extension; every other format is sniffed.
func DecodeConfig(r io.Reader, ext string) (image.Config, error) {
	if strings.EqualFold(ext, ".tga") {
		return texture.DecodeTGAConfig(r)
	}
	cfg, _, err := image.DecodeConfig(r)
	return cfg, err
}

// Stats returns resolver cache statistics.
func (t *TextureDirs) Stats() (hits, misses int) {
	return t.cache.Stats()
}

// Static resolves from a fixed table of texture sizes, such as the sizes
// recorded in a geometry dump.
type Static map[string][2]int

// Resolve implements material.Resolver.
func (s Static) Resolve(name string) (*material.Material, error) {
	key := material.Key(name)
	for k, size := range s {
		if material.Key(k) == key {
			return &material.Material{Name: key, Width: size[0], Height: size[1]}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", material.ErrNotFound, name)
}

// Chain tries each resolver in order and returns the first match. Errors
// other than material.ErrNotFound stop the search.
func Chain(resolvers ...material.Resolver) material.Resolver {
	return material.ResolverFunc(func(name string) (*material.Material, error) {
		for _, r := range resolvers {
			m, err := r.Resolve(name)
			if err == nil {
				return m, nil
			}
			if !errors.Is(err, material.ErrNotFound) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("%w: %s", material.ErrNotFound, name)
	})
}
