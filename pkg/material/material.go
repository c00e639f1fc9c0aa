// Package material binds brush texture names to renderable materials.
package material

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/uv"
)

// ErrNotFound is returned by resolvers that have no material for a texture.
var ErrNotFound = errors.New("material not found")

// Material is a resolved renderable material.
type Material struct {
	// Name identifies the material. Texture names resolving to the same
	// Name share one binding.
	Name   string
	Width  int
	Height int
	// Atlas, when set, replaces the standard projection for every face.
	Atlas uv.Atlas
}

// Size returns the texture dimensions as floats for UV projection.
func (m *Material) Size() (w, h float32) {
	return float32(m.Width), float32(m.Height)
}

// Resolver looks up the material for a texture name.
type Resolver interface {
	Resolve(texture string) (*Material, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(texture string) (*Material, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(texture string) (*Material, error) {
	return f(texture)
}

// Key normalizes a texture name for lookups: case-folded, forward slashes,
// surrounding space trimmed.
func Key(texture string) string {
	k := strings.TrimSpace(strings.ReplaceAll(texture, "\\", "/"))
	return cases.Fold().String(k)
}

// Registry caches texture bindings and coalesces aliases.
//
// When two texture names resolve to the same material the first name bound
// becomes the canonical key and later names are rewritten to it so their
// faces batch together.
type Registry struct {
	resolver Resolver
	fallback *Material
	log      *zap.Logger

	mu       sync.Mutex
	bindings map[string]*Material // canonical key -> material
	aliases  map[string]string    // any key -> canonical key
	byName   map[string]string    // material name -> canonical key
	fellBack map[string]bool
}

// NewRegistry creates a registry. A nil logger disables warnings.
func NewRegistry(r Resolver, fallback *Material, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		resolver: r,
		fallback: fallback,
		log:      log,
		bindings: make(map[string]*Material),
		aliases:  make(map[string]string),
		byName:   make(map[string]string),
		fellBack: make(map[string]bool),
	}
}

// Fallback returns the material used for missing textures.
func (r *Registry) Fallback() *Material {
	return r.fallback
}

// Bind resolves texture and returns its canonical key and material.
// Missing textures bind to the fallback material with a warning.
func (r *Registry) Bind(texture string) (string, *Material) {
	key := Key(texture)

	r.mu.Lock()
	defer r.mu.Unlock()

	if canon, ok := r.aliases[key]; ok {
		return canon, r.bindings[canon]
	}

	m, err := r.resolve(texture)
	if err != nil {
		r.log.Warn("texture missing, using fallback material",
			zap.String("texture", texture),
			zap.Error(err))
		m = r.fallback
		r.fellBack[key] = true
	}

	if m != nil && m.Name != "" && !r.fellBack[key] {
		if canon, ok := r.byName[m.Name]; ok {
			r.aliases[key] = canon
			r.log.Debug("texture aliased",
				zap.String("texture", texture),
				zap.String("canonical", canon))
			return canon, r.bindings[canon]
		}
		r.byName[m.Name] = key
	}

	r.aliases[key] = key
	r.bindings[key] = m
	return key, m
}

func (r *Registry) resolve(texture string) (*Material, error) {
	if r.resolver == nil {
		return nil, ErrNotFound
	}
	m, err := r.resolver.Resolve(texture)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// Lookup returns the material bound to a canonical key.
func (r *Registry) Lookup(key string) (*Material, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.bindings[key]
	return m, ok
}

// FellBack reports whether key was bound to the fallback material.
func (r *Registry) FellBack(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fellBack[key]
}

// Coalesce binds every face texture and rewrites it to its canonical key.
// Returns the canonical keys in first-seen order. Faces already discarded
// never render and keep their texture untouched.
func (r *Registry) Coalesce(solids []*geom.Solid) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range solids {
		for _, f := range s.Faces {
			if f.Discarded {
				continue
			}
			key, _ := r.Bind(f.Texture)
			f.Texture = key
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}
