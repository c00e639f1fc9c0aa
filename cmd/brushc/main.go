// brushc compiles brush geometry dumps into meshes and colliders.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/brushc/internal/assets"
	"github.com/Faultbox/brushc/internal/compiler"
	"github.com/Faultbox/brushc/internal/config"
	"github.com/Faultbox/brushc/internal/logger"
	"github.com/Faultbox/brushc/internal/scenefile"
	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/material"
	"github.com/Faultbox/brushc/pkg/uv"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "compile", "c":
		err = cmdCompile(cfg, args[1:])
	case "info":
		err = cmdInfo(cfg, args[1:])
	case "init-config":
		err = cmdInitConfig(cfg, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error(command+" failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`brushc - brush geometry compiler

Usage:
  brushc [flags] <command> [options]

Commands:
  compile <scene.yaml> [-o dir]   Compile a geometry dump, writing one OBJ per entity
  info <scene.yaml>               Show scene statistics without compiling
  init-config [path]              Write the effective configuration as YAML

Flags:
  -config path   Config file (default ./brushc.yaml)
  -debug         Debug logging
  -workers n     Worker goroutines for parallel passes
  -scale f       Map units to engine units
  -smooth deg    Normal smoothing angle
  -policy name   Collider policy: auto, box or concave

Examples:
  brushc compile e1m1.yaml -o build/
  brushc -smooth 60 -policy concave compile e1m1.yaml
  brushc info e1m1.yaml`)
}

func loadScene(cfg *config.Config, path string) (*scenefile.Scene, error) {
	var opts scenefile.Options
	if cfg.Compile.AxisRemap == "quake" {
		m := geom.QuakeToYUp
		opts.Remap = &m
	}
	return scenefile.Load(path, opts)
}

// newRegistry resolves textures from the scene's recorded sizes first and
// then from the configured texture directories.
func newRegistry(cfg *config.Config, scene *scenefile.Scene) *material.Registry {
	dirs := assets.NewTextureDirs(cfg.Assets.TextureDirs, logger.Named("assets"))
	for name, h := range cfg.Assets.Hotspots {
		cells := make([]uv.Rect, len(h.Cells))
		for i, c := range h.Cells {
			cells[i] = uv.Rect{X: c[0], Y: c[1], W: c[2], H: c[3]}
		}
		dirs.SetHotspot(name, uv.NewHotspotAtlas(h.Width, h.Height, cells))
	}
	fallback := &material.Material{
		Name:   cfg.Assets.FallbackTexture,
		Width:  cfg.Assets.FallbackWidth,
		Height: cfg.Assets.FallbackHeight,
	}
	resolver := assets.Chain(assets.Static(scene.Textures), dirs)
	return material.NewRegistry(resolver, fallback, logger.Named("material"))
}

func cmdCompile(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	outDir := fs.String("o", ".", "Output directory for OBJ files")
	fs.Parse(reorder(args))

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: brushc compile <scene.yaml> [-o dir]")
	}
	scene, err := loadScene(cfg, fs.Arg(0))
	if err != nil {
		return err
	}

	opts, err := compiler.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	var sched *batch.Scheduler
	if opts.Parallel {
		sched = batch.New(cfg.Compile.Workers, cfg.Compile.ChunkSize)
		defer sched.Close()
	}

	c := compiler.New(opts, newRegistry(cfg, scene), sched, logger.Named("compiler"))
	res, err := c.Compile(scene.Entities, scene.Overrides)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}
	for _, er := range res.Entities {
		if len(er.Meshes) == 0 {
			continue
		}
		path := filepath.Join(*outDir, sanitize(er.Entity.Key)+".obj")
		if err := writeFile(path, er); err != nil {
			return err
		}
		logger.Debug("wrote mesh", zap.String("path", path), zap.Int("colliders", len(er.Colliders)))
	}

	fmt.Printf("Entities:  %d\n", len(res.Entities))
	fmt.Printf("Faces:     %d (%d excluded, %d culled)\n", res.Faces, res.Excluded, res.Culled)
	fmt.Printf("Materials: %d\n", len(res.Materials))
	fmt.Printf("Triangles: %d\n", res.Triangles())
	fmt.Printf("Time:      %v\n", res.Duration)
	return nil
}

func writeFile(path string, er compiler.EntityResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeOBJ(f, er); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: brushc info <scene.yaml>")
	}
	scene, err := loadScene(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Scene:     %s\n", args[0])
	fmt.Printf("Entities:  %d\n", len(scene.Entities))
	fmt.Printf("Solids:    %d\n", scene.SolidCount())
	fmt.Printf("Faces:     %d\n", scene.FaceCount())
	fmt.Println()
	fmt.Println("Entities:")
	for _, e := range scene.Entities {
		ortho := 0
		for _, s := range e.Solids {
			if s.IsOrthogonal(geom.DefaultOrthoTolerance) {
				ortho++
			}
		}
		fmt.Printf("  %-20s %-16s %3d solids (%d box-fit)\n", e.Key, e.ClassName, len(e.Solids), ortho)
	}
	return nil
}

func cmdInitConfig(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return cfg.Save()
	}
	return cfg.SaveTo(args[0])
}

// reorder moves flags ahead of positional arguments so "-o" may follow
// the scene path.
func reorder(args []string) []string {
	var flags, rest []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if !strings.Contains(args[i], "=") && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		rest = append(rest, args[i])
	}
	return append(flags, rest...)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
