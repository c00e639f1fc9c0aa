package geom

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// NewFace builds a face from a vertex loop, deriving the plane from the first
// three vertices and picking default texture axes for the dominant axis.
func NewFace(texture string, verts ...math.Vec3) *Face {
	f := &Face{
		Vertices: verts,
		Texture:  texture,
		Scale:    [2]float32{1, 1},
	}
	f.RecomputePlane()
	f.U, f.V = DefaultAxes(f.Plane.Normal)
	return f
}

// DefaultAxes returns the editor default texture axes for a face normal.
func DefaultAxes(n math.Vec3) (u, v math.Vec3) {
	switch n.DominantAxis() {
	case math.AxisX:
		return math.Vec3{Y: 1}, math.Vec3{Z: -1}
	case math.AxisY:
		return math.Vec3{X: 1}, math.Vec3{Z: -1}
	default:
		return math.Vec3{X: 1}, math.Vec3{Y: -1}
	}
}

// NewBox builds an axis-aligned cuboid brush. Every face is wound so that its
// right-hand normal points out of the box.
func NewBox(id int, lo, hi math.Vec3, texture string) *Solid {
	x0, y0, z0 := lo.X, lo.Y, lo.Z
	x1, y1, z1 := hi.X, hi.Y, hi.Z
	v := func(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

	return &Solid{
		ID: id,
		Faces: []*Face{
			NewFace(texture, v(x1, y0, z0), v(x1, y1, z0), v(x1, y1, z1), v(x1, y0, z1)), // +X
			NewFace(texture, v(x0, y0, z0), v(x0, y0, z1), v(x0, y1, z1), v(x0, y1, z0)), // -X
			NewFace(texture, v(x0, y1, z0), v(x0, y1, z1), v(x1, y1, z1), v(x1, y1, z0)), // +Y
			NewFace(texture, v(x0, y0, z0), v(x1, y0, z0), v(x1, y0, z1), v(x0, y0, z1)), // -Y
			NewFace(texture, v(x0, y0, z1), v(x1, y0, z1), v(x1, y1, z1), v(x0, y1, z1)), // +Z
			NewFace(texture, v(x0, y0, z0), v(x0, y1, z0), v(x1, y1, z0), v(x1, y0, z0)), // -Z
		},
	}
}
