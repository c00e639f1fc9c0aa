// Package config handles brushc configuration loading and validation.
package config

// Config holds all compiler settings.
type Config struct {
	Compile   CompileConfig   `yaml:"compile"`
	Cull      CullConfig      `yaml:"cull"`
	Collision CollisionConfig `yaml:"collision"`
	Assets    AssetsConfig    `yaml:"assets"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CompileConfig holds mesh generation settings.
type CompileConfig struct {
	Scale        float32 `yaml:"scale"`        // Map units to engine units
	TexelScale   float32 `yaml:"texel_scale"`  // Global UV multiplier
	SmoothAngle  float32 `yaml:"smooth_angle"` // Degrees; 0 = flat, <0 or >=180 = always
	SmoothDelta  float32 `yaml:"smooth_delta"` // Squared coincidence distance
	Tangents     bool    `yaml:"tangents"`
	LightmapUV   bool    `yaml:"lightmap_uv"`
	Optimize     bool    `yaml:"optimize"`
	Compress     bool    `yaml:"compress"` // 16-bit indices when they fit
	Weld         bool    `yaml:"weld"`
	WeldDelta    float32 `yaml:"weld_delta"`
	WeldAngle    float32 `yaml:"weld_angle"`
	SnapDistance float32 `yaml:"snap_distance"` // 0 disables pre-import snapping
	Parallel     bool    `yaml:"parallel"`
	Workers      int     `yaml:"workers"` // 0 = one per CPU
	ChunkSize    int     `yaml:"chunk_size"`
	AxisRemap    string  `yaml:"axis_remap"` // "none" or "quake"
}

// CullConfig holds hidden-face removal settings.
type CullConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Scope         string   `yaml:"scope"` // "entity" or "level"
	PlaneDistance float32  `yaml:"plane_distance"`
	AntiParallel  float32  `yaml:"anti_parallel"`
	Nudge         float32  `yaml:"nudge"`
	Textures      []string `yaml:"textures"` // Always discarded
}

// CollisionConfig holds collider settings.
type CollisionConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Policy        string `yaml:"policy"` // "auto", "box" or "concave"
	ForceAdvisory bool   `yaml:"force_advisory"`
}

// AssetsConfig holds texture lookup settings.
type AssetsConfig struct {
	TextureDirs     []string                 `yaml:"texture_dirs"`
	FallbackTexture string                   `yaml:"fallback_texture"`
	FallbackWidth   int                      `yaml:"fallback_width"`
	FallbackHeight  int                      `yaml:"fallback_height"`
	Hotspots        map[string]HotspotConfig `yaml:"hotspots"` // Trim sheets keyed by texture name
}

// HotspotConfig describes a trim sheet in texels.
type HotspotConfig struct {
	Width  float32      `yaml:"width"`
	Height float32      `yaml:"height"`
	Cells  [][4]float32 `yaml:"cells"` // x, y, w, h
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{
			Scale:       1.0 / 32,
			TexelScale:  1,
			SmoothAngle: 0,
			SmoothDelta: 0.1,
			Tangents:    true,
			Optimize:    true,
			WeldDelta:   0.001,
			WeldAngle:   10,
			Parallel:    true,
			ChunkSize:   64,
			AxisRemap:   "quake",
		},
		Cull: CullConfig{
			Enabled:       true,
			Scope:         "entity",
			PlaneDistance: 0.5,
			AntiParallel:  -0.999,
			Nudge:         0.2,
			Textures:      []string{"skip", "__TB_empty"},
		},
		Collision: CollisionConfig{
			Enabled: true,
			Policy:  "auto",
		},
		Assets: AssetsConfig{
			TextureDirs:     []string{"textures"},
			FallbackTexture: "__missing",
			FallbackWidth:   64,
			FallbackHeight:  64,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
