package compiler

import (
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/brushc/internal/config"
	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/collider"
	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/material"
	"github.com/Faultbox/brushc/pkg/math"
)

func vec(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

func testOptions() Options {
	opts := DefaultOptions()
	opts.Scale = 1
	opts.Parallel = false
	return opts
}

func registry(log *zap.Logger) *material.Registry {
	known := map[string]*material.Material{
		"stone": {Name: "stone", Width: 64, Height: 64},
		"metal": {Name: "metal", Width: 32, Height: 32},
	}
	r := material.ResolverFunc(func(tex string) (*material.Material, error) {
		if m, ok := known[material.Key(tex)]; ok {
			return m, nil
		}
		return nil, material.ErrNotFound
	})
	return material.NewRegistry(r, &material.Material{Name: "missing", Width: 16, Height: 16}, log)
}

// seamLevel is two flush boxes in worldspawn.
func seamLevel() []*geom.Entity {
	return []*geom.Entity{{
		Key: "worldspawn",
		Solids: []*geom.Solid{
			geom.NewBox(1, vec(0, 0, 0), vec(1, 1, 1), "stone"),
			geom.NewBox(2, vec(1, 0, 0), vec(2, 1, 1), "Stone"),
		},
	}}
}

func TestCompileCullsSeam(t *testing.T) {
	res, err := New(testOptions(), registry(nil), nil, nil).Compile(seamLevel(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Faces != 12 || res.Culled != 2 {
		t.Errorf("faces = %d culled = %d, want 12 and 2", res.Faces, res.Culled)
	}
	meshes := res.Entities[0].Meshes
	if len(meshes) != 1 || meshes[0].Material != "stone" {
		t.Fatalf("meshes = %+v, want one coalesced stone mesh", meshes)
	}
	if got := res.Triangles(); got != 20 {
		t.Errorf("triangles = %d, want 20", got)
	}
	if len(res.Entities[0].Colliders) != 2 {
		t.Errorf("colliders = %d, want 2 boxes", len(res.Entities[0].Colliders))
	}
}

func TestCompileCullDisabled(t *testing.T) {
	opts := testOptions()
	opts.CullEnabled = false
	res, err := New(opts, registry(nil), nil, nil).Compile(seamLevel(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Culled != 0 || res.Triangles() != 24 {
		t.Errorf("culled = %d triangles = %d, want 0 and 24", res.Culled, res.Triangles())
	}
}

func TestCompileExcludesTextures(t *testing.T) {
	level := seamLevel()
	level[0].Solids[0].Faces[4].Texture = "SKIP"

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := New(testOptions(), registry(zap.New(core)), nil, nil).Compile(level, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", res.Excluded)
	}
	if len(res.Materials) != 1 {
		t.Errorf("materials = %v, want only the visible texture", res.Materials)
	}
	if res.Triangles() != 18 {
		t.Errorf("triangles = %d, want 18", res.Triangles())
	}
	if n := logs.FilterMessageSnippet("texture missing").Len(); n != 0 {
		t.Errorf("excluded texture was resolved and warned %d times", n)
	}
}

func TestCompileCullScope(t *testing.T) {
	split := func() []*geom.Entity {
		return []*geom.Entity{
			{Key: "a", Solids: []*geom.Solid{geom.NewBox(1, vec(0, 0, 0), vec(1, 1, 1), "stone")}},
			{Key: "b", Solids: []*geom.Solid{geom.NewBox(2, vec(1, 0, 0), vec(2, 1, 1), "stone")}},
		}
	}
	tests := []struct {
		name   string
		scope  Scope
		culled int
	}{
		{"entity", ScopeEntity, 0},
		{"level", ScopeLevel, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.CullScope = tt.scope
			res, err := New(opts, registry(nil), nil, nil).Compile(split(), nil)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if res.Culled != tt.culled {
				t.Errorf("culled = %d, want %d", res.Culled, tt.culled)
			}
		})
	}
}

func TestCompileMissingTextureFallsBack(t *testing.T) {
	level := []*geom.Entity{{
		Key:    "worldspawn",
		Solids: []*geom.Solid{geom.NewBox(1, vec(0, 0, 0), vec(1, 1, 1), "lava")},
	}}
	res, err := New(testOptions(), registry(nil), nil, nil).Compile(level, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mm := res.Entities[0].Meshes
	if len(mm) != 1 || !mm[0].FellBack {
		t.Fatalf("meshes = %+v, want one fallback mesh", mm)
	}
}

func TestCompileParallelMatchesSerial(t *testing.T) {
	serial, err := New(testOptions(), registry(nil), nil, nil).Compile(seamLevel(), nil)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}

	s := batch.New(4, 2)
	defer s.Close()
	opts := testOptions()
	opts.Parallel = true
	opts.Finalize.SmoothAngle = 0
	parallel, err := New(opts, registry(nil), s, nil).Compile(seamLevel(), nil)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if serial.Culled != parallel.Culled {
		t.Fatalf("culled %d vs %d", serial.Culled, parallel.Culled)
	}
	a := serial.Entities[0].Meshes[0].Mesh
	b := parallel.Entities[0].Meshes[0].Mesh
	if !slices.Equal(a.Positions, b.Positions) || !slices.Equal(a.Indices, b.Indices) || !slices.Equal(a.UVs, b.UVs) {
		t.Error("parallel mesh differs from serial")
	}
}

func TestCompileEntityOriginAndColliders(t *testing.T) {
	level := []*geom.Entity{{
		Key:    "door",
		Origin: vec(10, 0, 0),
		Class:  geom.Class{Trigger: true},
		Solids: []*geom.Solid{geom.NewBox(1, vec(10, 0, 0), vec(11, 1, 1), "metal")},
	}}
	opts := testOptions()
	opts.Policy = collider.PolicyConcave

	res, err := New(opts, registry(nil), nil, nil).Compile(level, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := res.Entities[0].Meshes[0].Mesh
	if m.Bounds.Min != vec(0, 0, 0) || m.Bounds.Max != vec(1, 1, 1) {
		t.Errorf("bounds = %+v, want entity-local unit box", m.Bounds)
	}
	cols := res.Entities[0].Colliders
	if len(cols) != 1 || cols[0].Shape != collider.ShapeBox || !cols[0].Trigger {
		t.Errorf("colliders = %+v, want one trigger box", cols)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Cull.Scope = "level"
	cfg.Collision.Policy = "box"
	cfg.Compile.SmoothAngle = 30

	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.CullScope != ScopeLevel || opts.Policy != collider.PolicyBox || opts.Finalize.SmoothAngle != 30 {
		t.Errorf("opts = %+v", opts)
	}

	cfg.Collision.Policy = "sphere"
	if _, err := OptionsFromConfig(cfg); err == nil {
		t.Error("expected error for unknown policy")
	}
}
