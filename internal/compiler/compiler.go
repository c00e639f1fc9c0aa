// Package compiler runs the brush compilation pipeline: vertex snapping,
// texture exclusion, material coalescing, face culling, per-material mesh
// assembly and collider derivation.
package compiler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/collider"
	"github.com/Faultbox/brushc/pkg/cull"
	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/material"
	"github.com/Faultbox/brushc/pkg/math"
	"github.com/Faultbox/brushc/pkg/mesh"
)

// MaterialMesh is the render mesh of one material within an entity.
type MaterialMesh struct {
	Material string
	// FellBack is set when the texture was missing or its atlas rejected
	// some faces. Those faces carry UVs for the fallback material's size
	// but stay under Material; consumers that render them should bind the
	// registry's fallback material to this mesh themselves.
	FellBack bool
	Mesh     *mesh.Mesh
}

// EntityResult holds everything produced for one entity.
type EntityResult struct {
	Entity    *geom.Entity
	Meshes    []MaterialMesh
	Colliders []collider.Descriptor
}

// Result is the output of one Compile call.
type Result struct {
	Entities []EntityResult
	// Materials lists the canonical material keys of visible faces in
	// first-seen order.
	Materials []string
	Faces     int
	Excluded  int
	Culled    int
	Snapped   int
	Duration  time.Duration
}

// Triangles returns the render triangle count over every entity.
func (r *Result) Triangles() int {
	n := 0
	for _, e := range r.Entities {
		for _, m := range e.Meshes {
			n += m.Mesh.TriangleCount()
		}
	}
	return n
}

// Compiler turns entities into meshes and colliders.
//
// A Compiler owns a single mesh buffer that every batch reuses, so it is
// not safe for concurrent use. Run one Compiler per goroutine; they may
// share a Scheduler.
type Compiler struct {
	opts     Options
	registry *material.Registry
	sched    *batch.Scheduler
	asm      mesh.Assembler
	buf      *mesh.Buffer
	log      *zap.Logger
}

// New creates a compiler. A nil scheduler runs every pass serially even
// when opts.Parallel is set. A nil logger discards output.
func New(opts Options, registry *material.Registry, sched *batch.Scheduler, log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	if registry == nil {
		registry = material.NewRegistry(nil, nil, log)
	}
	if !opts.Parallel {
		sched = nil
	}
	opts.Finalize.Scheduler = sched
	return &Compiler{
		opts:     opts,
		registry: registry,
		sched:    sched,
		asm:      mesh.NewAssembler(opts.Scale, opts.TexelScale),
		buf:      mesh.NewBuffer(1024),
		log:      log,
	}
}

// Compile processes entities in order. Faces are modified in place: the
// discard flag is set on excluded and hidden faces and textures are
// rewritten to canonical material keys. overrides resolves brush
// classification keys for collision.
func (c *Compiler) Compile(entities []*geom.Entity, overrides geom.Overrides) (*Result, error) {
	start := time.Now()
	res := &Result{}

	if c.opts.SnapDistance > 0 {
		for _, e := range entities {
			for _, s := range e.Solids {
				res.Snapped += geom.SnapVertices(s, c.opts.SnapDistance)
			}
		}
	}

	all := geom.CollectFaces(entities)
	res.Faces = len(all)
	res.Excluded = cull.ExcludeTextures(all, c.excluded())

	seen := make(map[string]bool)
	for _, e := range entities {
		for _, key := range c.registry.Coalesce(e.Solids) {
			if !seen[key] {
				seen[key] = true
				res.Materials = append(res.Materials, key)
			}
		}
	}
	c.log.Debug("materials bound", zap.Strings("materials", res.Materials))

	if c.opts.CullEnabled {
		culled, err := c.cull(entities, all)
		if err != nil {
			return nil, err
		}
		res.Culled = culled
	}

	for _, e := range entities {
		er, err := c.compileEntity(e, overrides)
		if err != nil {
			return nil, fmt.Errorf("compiling entity %s: %w", e.Key, err)
		}
		res.Entities = append(res.Entities, er)
	}

	res.Duration = time.Since(start)
	c.log.Info("compiled",
		zap.Int("entities", len(res.Entities)),
		zap.Int("faces", res.Faces),
		zap.Int("excluded", res.Excluded),
		zap.Int("culled", res.Culled),
		zap.Int("triangles", res.Triangles()),
		zap.Duration("took", res.Duration))
	return res, nil
}

func (c *Compiler) excluded() func(string) bool {
	if len(c.opts.CullTextures) == 0 {
		return nil
	}
	names := make(map[string]bool, len(c.opts.CullTextures))
	for _, n := range c.opts.CullTextures {
		names[material.Key(n)] = true
	}
	return func(texture string) bool {
		return names[material.Key(texture)]
	}
}

// cull returns the number of faces newly hidden.
func (c *Compiler) cull(entities []*geom.Entity, all []*geom.Face) (int, error) {
	before := countDiscarded(all)

	scopes := [][]*geom.Face{all}
	if c.opts.CullScope == ScopeEntity {
		scopes = scopes[:0]
		for _, e := range entities {
			scopes = append(scopes, e.Faces())
		}
	}
	for _, scope := range scopes {
		if c.sched != nil {
			if _, err := cull.FacesParallel(c.sched, scope, c.opts.Cull); err != nil {
				return 0, fmt.Errorf("culling: %w", err)
			}
			continue
		}
		cull.Faces(scope, c.opts.Cull)
	}

	culled := countDiscarded(all) - before
	c.log.Debug("culled faces", zap.Int("culled", culled), zap.Int("scopes", len(scopes)))
	return culled, nil
}

func countDiscarded(faces []*geom.Face) int {
	n := 0
	for _, f := range faces {
		if f.Discarded {
			n++
		}
	}
	return n
}

func (c *Compiler) compileEntity(e *geom.Entity, overrides geom.Overrides) (EntityResult, error) {
	er := EntityResult{Entity: e}
	origin := e.Origin.Scale(c.asm.Scale)

	for _, key := range liveMaterials(e) {
		m, _ := c.registry.Lookup(key)
		b := mesh.Batch{Texture: key, Material: m, Fallback: c.registry.Fallback()}

		mm, err := c.buildMaterial(b, e.Solids, origin)
		if err != nil {
			return er, err
		}
		if mm.Mesh == nil {
			continue
		}
		mm.FellBack = mm.FellBack || c.registry.FellBack(key)
		er.Meshes = append(er.Meshes, mm)
	}

	if c.opts.CollisionEnabled {
		er.Colliders = collider.Derive(e, collider.Options{
			Policy:        c.opts.Policy,
			Scale:         c.asm.Scale,
			Overrides:     overrides,
			Logger:        c.log,
			ForceAdvisory: c.opts.ForceAdvisory,
		})
	}

	c.log.Debug("entity compiled",
		zap.String("entity", e.Key),
		zap.Int("meshes", len(er.Meshes)),
		zap.Int("colliders", len(er.Colliders)))
	return er, nil
}

func (c *Compiler) buildMaterial(b mesh.Batch, solids []*geom.Solid, origin math.Vec3) (MaterialMesh, error) {
	c.buf.Reset()

	var st mesh.Stats
	if c.sched != nil {
		var err error
		st, err = c.asm.BuildParallel(c.sched, c.buf, solids, b)
		if err != nil {
			return MaterialMesh{}, fmt.Errorf("assembling %s: %w", b.Texture, err)
		}
	} else {
		st = c.asm.Build(c.buf, solids, b)
	}
	if c.buf.Empty() {
		return MaterialMesh{}, nil
	}

	fo := c.opts.Finalize
	fo.Origin = origin
	m, err := mesh.Finalize(c.buf, fo)
	if err != nil {
		return MaterialMesh{}, fmt.Errorf("finalizing %s: %w", b.Texture, err)
	}
	if st.FellBack {
		c.log.Warn("faces did not fit the material atlas, used fallback material",
			zap.String("material", b.Texture))
	}
	return MaterialMesh{Material: b.Texture, FellBack: st.FellBack, Mesh: m}, nil
}

// liveMaterials lists the textures of visible faces in first-seen order.
func liveMaterials(e *geom.Entity) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range e.Solids {
		for _, f := range s.Faces {
			if f.Discarded || f.Degenerate() || seen[f.Texture] {
				continue
			}
			seen[f.Texture] = true
			keys = append(keys, f.Texture)
		}
	}
	return keys
}
