// Package cull finds brush faces that are fully covered by a coincident,
// opposite-facing face of another brush.
//
// Each face is tested on its own against every other live face in the scope
// and stops at the first face that covers it. Because the containment test
// nudges vertices by a fixed amount, two faces that cover each other are not
// guaranteed to be discovered symmetrically in every numerical edge case.
package cull

import (
	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/math"
)

// Options holds the culling tolerances.
type Options struct {
	// PlaneDistance is the largest |d_i + d_n| accepted as coincident.
	PlaneDistance float32
	// AntiParallel is the largest normal dot product accepted as opposite.
	AntiParallel float32
	// Nudge moves each tested vertex toward the face centroid before the
	// containment test so shared edges do not produce false negatives.
	Nudge float32
}

// DefaultOptions returns the reference tolerances.
func DefaultOptions() Options {
	return Options{
		PlaneDistance: 0.5,
		AntiParallel:  -0.999,
		Nudge:         0.2,
	}
}

// layout is the flattened read-only view shared by every per-face test.
type layout struct {
	verts   []math.Vec3
	offsets []int // face i owns verts[offsets[i]:offsets[i+1]]
	planes  []geom.Plane
	skip    []bool
}

func flatten(scope []*geom.Face) *layout {
	l := &layout{
		offsets: make([]int, len(scope)+1),
		planes:  make([]geom.Plane, len(scope)),
		skip:    make([]bool, len(scope)),
	}
	total := 0
	for _, f := range scope {
		total += len(f.Vertices)
	}
	l.verts = make([]math.Vec3, 0, total)
	for i, f := range scope {
		l.offsets[i] = len(l.verts)
		l.verts = append(l.verts, f.Vertices...)
		l.planes[i] = f.Plane
		l.skip[i] = f.Discarded || f.Degenerate()
	}
	l.offsets[len(scope)] = len(l.verts)
	return l
}

func (l *layout) face(i int) []math.Vec3 {
	return l.verts[l.offsets[i]:l.offsets[i+1]]
}

// scratch holds per-task 2D buffers reused across faces.
type scratch struct {
	nudged []math.Vec2
	poly   []math.Vec2
}

// occluded reports whether face i is fully covered by some other live face.
// It reads only shared immutable state.
func (l *layout) occluded(i int, opts Options, sc *scratch) bool {
	if l.skip[i] {
		return false
	}
	pi := l.planes[i]
	verts := l.face(i)
	axis := pi.Normal.DominantAxis()

	var center math.Vec3
	for _, v := range verts {
		center = center.Add(v)
	}
	center = center.Scale(1 / float32(len(verts)))

	sc.nudged = sc.nudged[:0]
	for _, v := range verts {
		sc.nudged = append(sc.nudged, v.MoveToward(center, opts.Nudge).Drop(axis))
	}

	for n := range l.planes {
		if n == i || l.skip[n] {
			continue
		}
		if !pi.OpposedTo(l.planes[n], opts.PlaneDistance, opts.AntiParallel) {
			continue
		}

		sc.poly = sc.poly[:0]
		for _, v := range l.face(n) {
			sc.poly = append(sc.poly, v.Drop(axis))
		}

		covered := true
		for _, p := range sc.nudged {
			if !math.PointInPolygon(p, sc.poly) {
				covered = false
				break
			}
		}
		if covered {
			return true
		}
	}
	return false
}

// apply marks the newly hidden faces and returns the full discard set.
func apply(scope []*geom.Face, hidden []bool) []*geom.Face {
	var discarded []*geom.Face
	for i, f := range scope {
		if hidden[i] {
			f.Discarded = true
		}
		if f.Discarded {
			discarded = append(discarded, f)
		}
	}
	return discarded
}

// Faces marks every face in scope that is fully covered by another and
// returns all discarded faces of the scope, including faces that were
// already discarded before the call. Faces already discarded are neither
// tested nor used to cover others.
func Faces(scope []*geom.Face, opts Options) []*geom.Face {
	l := flatten(scope)
	hidden := make([]bool, len(scope))
	var sc scratch
	for i := range scope {
		hidden[i] = l.occluded(i, opts, &sc)
	}
	return apply(scope, hidden)
}

// FacesParallel is Faces with the per-face tests spread over s. Every task
// reads the shared flattened layout and writes only its own result slots;
// results are applied after the batch joins.
func FacesParallel(s *batch.Scheduler, scope []*geom.Face, opts Options) ([]*geom.Face, error) {
	l := flatten(scope)
	hidden := make([]bool, len(scope))

	err := s.Range(len(scope), func(start, end int) {
		var sc scratch
		for i := start; i < end; i++ {
			hidden[i] = l.occluded(i, opts, &sc)
		}
	})
	if err != nil {
		return nil, err
	}
	return apply(scope, hidden), nil
}

// ExcludeTextures discards every face whose texture matches before culling
// runs. Returns the number of faces excluded.
func ExcludeTextures(scope []*geom.Face, match func(texture string) bool) int {
	if match == nil {
		return 0
	}
	n := 0
	for _, f := range scope {
		if !f.Discarded && match(f.Texture) {
			f.Discarded = true
			n++
		}
	}
	return n
}
