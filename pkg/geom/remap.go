package geom

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// QuakeToYUp maps Quake coordinates (Z up) to a right-handed Y-up frame:
// (x, y, z) -> (x, z, -y).
var QuakeToYUp = math.Mat4{
	1, 0, 0, 0,
	0, 0, -1, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

// RemapEntity applies an orthonormal axis remap to an entity in place.
// Positions, plane normals and texture axes are all rotated so texture
// projection dot products are unchanged. Plane distances stay valid because
// the transform has no translation.
func RemapEntity(e *Entity, m math.Mat4) {
	e.Origin = m.TransformPoint(e.Origin)
	for _, s := range e.Solids {
		for _, f := range s.Faces {
			for i, v := range f.Vertices {
				f.Vertices[i] = m.TransformPoint(v)
			}
			f.Plane.Normal = m.TransformDir(f.Plane.Normal)
			f.U = m.TransformDir(f.U)
			f.V = m.TransformDir(f.V)
		}
	}
}
