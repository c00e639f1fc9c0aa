package compiler

import (
	"fmt"

	"github.com/Faultbox/brushc/internal/config"
	"github.com/Faultbox/brushc/pkg/collider"
	"github.com/Faultbox/brushc/pkg/cull"
	"github.com/Faultbox/brushc/pkg/mesh"
)

// Scope selects the face pool culling runs over.
type Scope int

const (
	// ScopeEntity culls each entity's faces against each other only.
	ScopeEntity Scope = iota
	// ScopeLevel culls every face of the level against every other.
	ScopeLevel
)

// Options controls a compilation.
type Options struct {
	Scale        float32
	TexelScale   float32
	SnapDistance float32
	Parallel     bool

	CullEnabled  bool
	CullScope    Scope
	Cull         cull.Options
	CullTextures []string

	// Finalize is applied to every render mesh; Origin is set per entity.
	Finalize mesh.FinalizeOptions

	CollisionEnabled bool
	Policy           collider.Policy
	ForceAdvisory    bool
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Default())
	return opts
}

// OptionsFromConfig converts loaded configuration into compile options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	policy, err := collider.ParsePolicy(cfg.Collision.Policy)
	if err != nil {
		return Options{}, err
	}

	var scope Scope
	switch cfg.Cull.Scope {
	case "", "entity":
		scope = ScopeEntity
	case "level":
		scope = ScopeLevel
	default:
		return Options{}, fmt.Errorf("%w: cull.scope %q", config.ErrInvalid, cfg.Cull.Scope)
	}

	cc := cfg.Compile
	return Options{
		Scale:        cc.Scale,
		TexelScale:   cc.TexelScale,
		SnapDistance: cc.SnapDistance,
		Parallel:     cc.Parallel,

		CullEnabled: cfg.Cull.Enabled,
		CullScope:   scope,
		Cull: cull.Options{
			PlaneDistance: cfg.Cull.PlaneDistance,
			AntiParallel:  cfg.Cull.AntiParallel,
			Nudge:         cfg.Cull.Nudge,
		},
		CullTextures: cfg.Cull.Textures,

		Finalize: mesh.FinalizeOptions{
			SmoothAngle: cc.SmoothAngle,
			SmoothDelta: cc.SmoothDelta,
			Tangents:    cc.Tangents,
			LightmapUV:  cc.LightmapUV,
			Weld:        cc.Weld,
			WeldDelta:   cc.WeldDelta,
			WeldAngle:   cc.WeldAngle,
			Optimize:    cc.Optimize,
			Compress:    cc.Compress,
		},

		CollisionEnabled: cfg.Collision.Enabled,
		Policy:           policy,
		ForceAdvisory:    cfg.Collision.ForceAdvisory,
	}, nil
}
