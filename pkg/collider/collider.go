// Package collider derives collision shapes for brush entities.
package collider

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/math"
	"github.com/Faultbox/brushc/pkg/mesh"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown collider policy")

// Policy selects how brushes become colliders.
type Policy int

const (
	// PolicyAuto fits a box to orthogonal brushes and a convex mesh to the rest.
	PolicyAuto Policy = iota
	// PolicyBox fits a box to every brush.
	PolicyBox
	// PolicyConcave merges every brush of an entity into one mesh.
	PolicyConcave
)

func (p Policy) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyBox:
		return "box"
	case PolicyConcave:
		return "concave"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PolicyAuto, nil
	case "box":
		return PolicyBox, nil
	case "concave", "merge":
		return PolicyConcave, nil
	}
	return PolicyAuto, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Shape is the kind of a derived collider.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeConvex
	ShapeConcave
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeConvex:
		return "convex"
	case ShapeConcave:
		return "concave"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// MergedID is the SolidID of a collider built from several brushes.
const MergedID = -1

// Descriptor is one collision shape in entity-local space.
type Descriptor struct {
	Shape   Shape
	SolidID int

	// Box colliders.
	Center      math.Vec3
	HalfExtents math.Vec3

	// Mesh colliders.
	Positions []math.Vec3
	Indices   []uint32
	Convex    bool

	// Trigger colliders do not block movement.
	Trigger bool
}

// Options controls Derive.
type Options struct {
	Policy Policy
	// Scale converts map units to engine units. Zero means 1.
	Scale float32
	// Overrides resolves Solid.Override keys to their original class.
	Overrides geom.Overrides
	Logger    *zap.Logger
	// ForceAdvisory re-emits the multi-collider advisory even if it was
	// already logged.
	ForceAdvisory bool
	// OrthoTolerance for the box test; zero selects
	// geom.DefaultOrthoTolerance.
	OrthoTolerance float32
}

var advised atomic.Bool

// ResetAdvisory re-arms the one-time multi-collider advisory.
func ResetAdvisory() {
	advised.Store(false)
}

// Derive builds the colliders of e. Geometry always includes culled faces
// so that hulls are closed. Non-solid entities and brushes produce nothing.
// On the merge path, brushes overridden as triggers keep their own
// non-blocking collider instead of joining the merged mesh.
func Derive(e *geom.Entity, opts Options) []Descriptor {
	if e == nil || e.Class.NonSolid {
		return nil
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.OrthoTolerance == 0 {
		opts.OrthoTolerance = geom.DefaultOrthoTolerance
	}
	origin := e.Origin.Scale(opts.Scale)

	var solids []*geom.Solid
	var triggers []bool
	for _, s := range e.Solids {
		class, ok := opts.Overrides.Lookup(s.Override)
		if ok && class.NonSolid {
			log.Debug("skipping non-solid brush",
				zap.String("entity", e.Key), zap.Int("solid", s.ID))
			continue
		}
		solids = append(solids, s)
		triggers = append(triggers, e.Class.Trigger || (ok && class.Trigger))
	}
	if len(solids) == 0 {
		return nil
	}

	var out []Descriptor
	if !e.Class.Trigger && (e.ForceConvex || opts.Policy == PolicyConcave) {
		// Trigger brushes stay separate so the merged collider only blocks.
		var blocking, volumes []*geom.Solid
		for i, s := range solids {
			if triggers[i] {
				volumes = append(volumes, s)
			} else {
				blocking = append(blocking, s)
			}
		}
		if len(blocking) > 0 {
			if d := merged(blocking, opts.Scale, origin, e.ForceConvex); len(d.Indices) > 0 {
				out = append(out, d)
			}
		}
		for _, s := range volumes {
			if d, ok := brush(s, opts, origin); ok {
				d.Trigger = true
				out = append(out, d)
			}
		}
	} else {
		out = make([]Descriptor, 0, len(solids))
		for i, s := range solids {
			if d, ok := brush(s, opts, origin); ok {
				d.Trigger = triggers[i]
				out = append(out, d)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}

	if len(out) > 1 && (opts.ForceAdvisory || advised.CompareAndSwap(false, true)) {
		log.Warn("entity generated several colliders; the host may report duplicate collider names",
			zap.String("entity", e.Key),
			zap.Int("colliders", len(out)))
	}
	return out
}

// brush derives the collider of a single solid. It reports false when a
// mesh collider ends up with no triangles.
func brush(s *geom.Solid, opts Options, origin math.Vec3) (Descriptor, bool) {
	var d Descriptor
	switch {
	case s.ForceConvex:
		d = hull(s, opts.Scale, origin)
	case opts.Policy == PolicyBox || s.IsOrthogonal(opts.OrthoTolerance):
		d = box(s, opts.Scale, origin)
	default:
		d = hull(s, opts.Scale, origin)
	}
	return d, d.Shape == ShapeBox || len(d.Indices) > 0
}

// box fits the local-space bounds of every vertex of s.
func box(s *geom.Solid, scale float32, origin math.Vec3) Descriptor {
	var lo, hi math.Vec3
	first := true
	for _, f := range s.Faces {
		for _, v := range f.Vertices {
			p := v.Scale(scale).Sub(origin)
			if first {
				lo, hi, first = p, p, false
				continue
			}
			lo = lo.Min(p)
			hi = hi.Max(p)
		}
	}
	return Descriptor{
		Shape:       ShapeBox,
		SolidID:     s.ID,
		Center:      lo.Add(hi).Scale(0.5),
		HalfExtents: hi.Sub(lo).Scale(0.5),
	}
}

// hull is the full fan-triangulated geometry of one brush.
func hull(s *geom.Solid, scale float32, origin math.Vec3) Descriptor {
	positions, indices := geometry([]*geom.Solid{s}, scale, origin)
	return Descriptor{
		Shape:     ShapeConvex,
		SolidID:   s.ID,
		Positions: positions,
		Indices:   indices,
		Convex:    true,
	}
}

func merged(solids []*geom.Solid, scale float32, origin math.Vec3, convex bool) Descriptor {
	positions, indices := geometry(solids, scale, origin)
	shape := ShapeConcave
	if convex {
		shape = ShapeConvex
	}
	return Descriptor{
		Shape:     shape,
		SolidID:   MergedID,
		Positions: positions,
		Indices:   indices,
		Convex:    convex,
	}
}

func geometry(solids []*geom.Solid, scale float32, origin math.Vec3) ([]math.Vec3, []uint32) {
	buf := mesh.NewBuffer(0)
	mesh.NewAssembler(scale, 1).Build(buf, solids, mesh.Batch{IncludeDiscarded: true})
	buf.Translate(origin)
	return buf.Vertices, buf.Indices
}
