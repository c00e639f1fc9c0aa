// Package geom provides the brush geometry model: planes, faces, convex solids
// and the entities that own them.
package geom

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// Plane is an oriented plane where Normal.Dot(p) == D for points on the plane.
type Plane struct {
	Normal math.Vec3
	D      float32
}

// PlaneFromPoints builds the plane through a, b and c.
// The normal follows the right-hand rule for (b-a) x (c-a).
func PlaneFromPoints(a, b, c math.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, D: n.Dot(a)}
}

// Distance returns the signed distance of p from the plane.
func (p Plane) Distance(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) - p.D
}

// IsOrthogonal reports whether the normal is aligned with a cardinal axis
// within tol (|n·axis| >= 1-tol).
func (p Plane) IsOrthogonal(tol float32) bool {
	a := p.Normal.Abs()
	limit := 1 - tol
	return a.X >= limit || a.Y >= limit || a.Z >= limit
}

// OpposedTo reports whether other is near-coincident with p and faces the
// opposite way: |D+other.D| <= distTol and Normal·other.Normal <= cosTol.
// cosTol is negative, e.g. -0.999.
func (p Plane) OpposedTo(other Plane, distTol, cosTol float32) bool {
	d := p.D + other.D
	if d < 0 {
		d = -d
	}
	if d > distTol {
		return false
	}
	return p.Normal.Dot(other.Normal) <= cosTol
}
