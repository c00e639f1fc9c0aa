// Package scenefile loads already-parsed brush geometry from YAML dumps.
//
// A dump lists entities, their brushes and every face loop with its texture
// projection. Map text parsing happens upstream; this format only carries
// the result so levels can be compiled and inspected from the command line.
package scenefile

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/math"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scene")

// Scene is a loaded geometry dump.
type Scene struct {
	Entities  []*geom.Entity
	Overrides geom.Overrides
	// Textures holds sizes recorded alongside the geometry, keyed by name.
	Textures map[string][2]int
}

// SolidCount returns the number of brushes in the scene.
func (s *Scene) SolidCount() int {
	n := 0
	for _, e := range s.Entities {
		n += len(e.Solids)
	}
	return n
}

// FaceCount returns the number of faces in the scene.
func (s *Scene) FaceCount() int {
	n := 0
	for _, e := range s.Entities {
		for _, sol := range e.Solids {
			n += len(sol.Faces)
		}
	}
	return n
}

type fileScene struct {
	Textures  map[string][2]int    `yaml:"textures"`
	Overrides map[string]fileClass `yaml:"overrides"`
	Entities  []fileEntity         `yaml:"entities"`
}

type fileClass struct {
	NonSolid bool `yaml:"non_solid"`
	Trigger  bool `yaml:"trigger"`
}

type fileEntity struct {
	Key         string      `yaml:"key"`
	ClassName   string      `yaml:"classname"`
	Origin      []float32   `yaml:"origin"`
	NonSolid    bool        `yaml:"non_solid"`
	Trigger     bool        `yaml:"trigger"`
	ForceConvex bool        `yaml:"force_convex"`
	Solids      []fileSolid `yaml:"solids"`
}

type fileSolid struct {
	ID          int        `yaml:"id"`
	Override    string     `yaml:"override"`
	ForceConvex bool       `yaml:"force_convex"`
	Box         *fileBox   `yaml:"box"`
	Faces       []fileFace `yaml:"faces"`
}

type fileBox struct {
	Min     []float32 `yaml:"min"`
	Max     []float32 `yaml:"max"`
	Texture string    `yaml:"texture"`
}

type fileFace struct {
	Texture  string      `yaml:"texture"`
	Vertices [][]float32 `yaml:"vertices"`
	Plane    []float32   `yaml:"plane"`
	U        []float32   `yaml:"u"`
	V        []float32   `yaml:"v"`
	Shift    []float32   `yaml:"shift"`
	Scale    []float32   `yaml:"scale"`
}

// Options controls loading.
type Options struct {
	// Remap converts every entity after loading, e.g. geom.QuakeToYUp.
	// Nil keeps the file's coordinates.
	Remap *math.Mat4
}

// Load reads and parses a scene file.
func Load(path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	s, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene from YAML. Every structural problem is reported at
// once. Faces with fewer than three vertices are kept and left to the
// compiler, which skips them.
func Parse(data []byte, opts Options) (*Scene, error) {
	var fs fileScene
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, err
	}

	scene := &Scene{
		Overrides: make(geom.Overrides, len(fs.Overrides)),
		Textures:  fs.Textures,
	}
	for name, c := range fs.Overrides {
		scene.Overrides[name] = geom.Class{NonSolid: c.NonSolid, Trigger: c.Trigger}
	}

	var errs error
	seen := make(map[string]bool)
	for ei, fe := range fs.Entities {
		where := fmt.Sprintf("entities[%d]", ei)
		if fe.Key == "" {
			fe.Key = fmt.Sprintf("entity_%d", ei)
		}
		if seen[fe.Key] {
			errs = multierr.Append(errs, invalidf("%s: duplicate key %q", where, fe.Key))
		}
		seen[fe.Key] = true

		e := &geom.Entity{
			Key:         fe.Key,
			ClassName:   fe.ClassName,
			Class:       geom.Class{NonSolid: fe.NonSolid, Trigger: fe.Trigger},
			ForceConvex: fe.ForceConvex,
		}
		if fe.Origin != nil {
			origin, err := vec3(fe.Origin, where+".origin")
			errs = multierr.Append(errs, err)
			e.Origin = origin
		}

		for si, fsol := range fe.Solids {
			swhere := fmt.Sprintf("%s.solids[%d]", where, si)
			if fsol.Override != "" {
				if _, ok := scene.Overrides[fsol.Override]; !ok {
					errs = multierr.Append(errs, invalidf("%s: unknown override %q", swhere, fsol.Override))
				}
			}
			s, err := buildSolid(fsol, swhere)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			e.Solids = append(e.Solids, s)
		}
		scene.Entities = append(scene.Entities, e)
	}
	if errs != nil {
		return nil, errs
	}

	if opts.Remap != nil {
		for _, e := range scene.Entities {
			geom.RemapEntity(e, *opts.Remap)
		}
	}
	return scene, nil
}

func buildSolid(fs fileSolid, where string) (*geom.Solid, error) {
	if fs.Box != nil {
		lo, err1 := vec3(fs.Box.Min, where+".box.min")
		hi, err2 := vec3(fs.Box.Max, where+".box.max")
		if err := multierr.Combine(err1, err2); err != nil {
			return nil, err
		}
		s := geom.NewBox(fs.ID, lo, hi, fs.Box.Texture)
		s.Override = fs.Override
		s.ForceConvex = fs.ForceConvex
		return s, nil
	}

	s := &geom.Solid{ID: fs.ID, Override: fs.Override, ForceConvex: fs.ForceConvex}
	var errs error
	for fi, ff := range fs.Faces {
		f, err := buildFace(ff, fmt.Sprintf("%s.faces[%d]", where, fi))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.Faces = append(s.Faces, f)
	}
	if errs != nil {
		return nil, errs
	}
	return s, nil
}

func buildFace(ff fileFace, where string) (*geom.Face, error) {
	var errs error
	verts := make([]math.Vec3, 0, len(ff.Vertices))
	for i, raw := range ff.Vertices {
		v, err := vec3(raw, fmt.Sprintf("%s.vertices[%d]", where, i))
		errs = multierr.Append(errs, err)
		verts = append(verts, v)
	}

	f := &geom.Face{Vertices: verts, Texture: ff.Texture, Scale: [2]float32{1, 1}}
	switch {
	case ff.Plane != nil && len(ff.Plane) != 4:
		errs = multierr.Append(errs, invalidf("%s.plane: want 4 components, got %d", where, len(ff.Plane)))
	case ff.Plane != nil:
		f.Plane = geom.Plane{Normal: math.Vec3{X: ff.Plane[0], Y: ff.Plane[1], Z: ff.Plane[2]}, D: ff.Plane[3]}
	case len(verts) >= 3:
		f.RecomputePlane()
	}

	f.U, f.V = geom.DefaultAxes(f.Plane.Normal)
	if ff.U != nil {
		u, err := vec3(ff.U, where+".u")
		errs = multierr.Append(errs, err)
		f.U = u
	}
	if ff.V != nil {
		v, err := vec3(ff.V, where+".v")
		errs = multierr.Append(errs, err)
		f.V = v
	}
	if ff.Shift != nil {
		shift, err := vec2(ff.Shift, where+".shift")
		errs = multierr.Append(errs, err)
		f.Shift = shift
	}
	if ff.Scale != nil {
		scale, err := vec2(ff.Scale, where+".scale")
		errs = multierr.Append(errs, err)
		f.Scale = scale
	}
	if errs != nil {
		return nil, errs
	}
	return f, nil
}

func vec3(c []float32, where string) (math.Vec3, error) {
	if len(c) != 3 {
		return math.Vec3{}, invalidf("%s: want 3 components, got %d", where, len(c))
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func vec2(c []float32, where string) ([2]float32, error) {
	if len(c) != 2 {
		return [2]float32{}, invalidf("%s: want 2 components, got %d", where, len(c))
	}
	return [2]float32{c[0], c[1]}, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}
