// Package uv projects brush face vertices into texture space.
package uv

import (
	gomath "math"

	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/math"
)

// Params is the texture projection of one face.
type Params struct {
	U, V  math.Vec3
	Shift [2]float32
	Scale [2]float32
}

// FaceParams extracts the projection parameters of f.
func FaceParams(f *geom.Face) Params {
	return Params{U: f.U, V: f.V, Shift: f.Shift, Scale: f.Scale}
}

// Projector maps vertices to UVs for a texture of a given size.
type Projector struct {
	// TexelScale multiplies every projected coordinate.
	TexelScale float32
}

// NewProjector returns a projector with the given texel scale (0 means 1).
func NewProjector(texelScale float32) Projector {
	if texelScale == 0 {
		texelScale = 1
	}
	return Projector{TexelScale: texelScale}
}

// Vertex projects p. The V axis and V shift are negated so images are not
// mirrored vertically.
func (pr Projector) Vertex(p math.Vec3, params Params, width, height float32) math.Vec2 {
	su, sv := params.Scale[0], params.Scale[1]
	if su == 0 {
		su = 1
	}
	if sv == 0 {
		sv = 1
	}
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	u := (p.Dot(params.U.Scale(1/su)) + modf(params.Shift[0], width)) / width
	v := (p.Dot(params.V.Scale(-1/sv)) + modf(-params.Shift[1], height)) / height

	ts := pr.TexelScale
	if ts == 0 {
		ts = 1
	}
	return math.Vec2{X: u * ts, Y: v * ts}
}

// Face projects every vertex of f into dst and returns it.
func (pr Projector) Face(dst []math.Vec2, f *geom.Face, width, height float32) []math.Vec2 {
	params := FaceParams(f)
	for _, p := range f.Vertices {
		dst = append(dst, pr.Vertex(p, params, width, height))
	}
	return dst
}

// modf is the truncated remainder; the sign follows the dividend.
func modf(x, y float32) float32 {
	return float32(gomath.Mod(float64(x), float64(y)))
}
