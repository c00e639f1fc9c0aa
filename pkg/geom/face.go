package geom

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// Face is one planar convex polygon of a brush with its texture projection.
// Vertices form a closed loop with consistent winding.
type Face struct {
	Vertices []math.Vec3
	Plane    Plane
	Texture  string

	// Texture projection axes, per-axis shift (texels) and scale.
	U, V  math.Vec3
	Shift [2]float32
	Scale [2]float32

	// Discarded faces never contribute to a render mesh. Set by upstream
	// exclusion rules and by culling, never cleared.
	Discarded bool
}

// Valid reports whether the face has enough vertices to be triangulated.
func (f *Face) Valid() bool {
	return len(f.Vertices) >= 3
}

// MinFaceArea is the area, in map units, at or below which a face is
// treated as degenerate.
const MinFaceArea = 1e-6

// Degenerate reports whether the face has too few vertices or collinear
// ones. Degenerate faces are never rendered, culled or used for culling.
func (f *Face) Degenerate() bool {
	return !f.Valid() || f.Area() <= MinFaceArea
}

// Centroid returns the average of the face vertices.
func (f *Face) Centroid() math.Vec3 {
	var sum math.Vec3
	if len(f.Vertices) == 0 {
		return sum
	}
	for _, v := range f.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float32(len(f.Vertices)))
}

// DominantAxis returns the cardinal axis most aligned with the face normal.
func (f *Face) DominantAxis() math.Axis {
	return f.Plane.Normal.DominantAxis()
}

// Area returns the polygon area (zero for degenerate loops).
func (f *Face) Area() float32 {
	if len(f.Vertices) < 3 {
		return 0
	}
	var sum math.Vec3
	v0 := f.Vertices[0]
	for i := 2; i < len(f.Vertices); i++ {
		sum = sum.Add(f.Vertices[i-1].Sub(v0).Cross(f.Vertices[i].Sub(v0)))
	}
	return sum.Length() / 2
}

// RecomputePlane rebuilds the plane from the first three vertices.
// Degenerate faces keep their existing plane.
func (f *Face) RecomputePlane() {
	if len(f.Vertices) < 3 {
		return
	}
	p := PlaneFromPoints(f.Vertices[0], f.Vertices[1], f.Vertices[2])
	if p.Normal == (math.Vec3{}) {
		return
	}
	f.Plane = p
}
