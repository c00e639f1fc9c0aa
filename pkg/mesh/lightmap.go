package mesh

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// DefaultLightmapPadding is the share of a tile kept empty on each side.
const DefaultLightmapPadding float32 = 0.05

// LightmapUVs lays every face run out in its own tile of a square atlas for
// a secondary UV channel. The atlas has a power-of-two number of tiles per
// row, enough to hold every run. Each face is projected along the dominant
// axis of its normal and scaled uniformly to fit its tile inside the
// padding, so no two faces overlap.
func LightmapUVs(positions, normals []math.Vec3, runs []Run, padding float32) []math.Vec2 {
	out := make([]math.Vec2, len(positions))
	if len(runs) == 0 {
		return out
	}
	if padding <= 0 || padding >= 0.5 {
		padding = DefaultLightmapPadding
	}

	tilesPerRow := 1
	for tilesPerRow*tilesPerRow < len(runs) {
		tilesPerRow *= 2
	}
	tile := 1 / float32(tilesPerRow)
	inner := tile * (1 - 2*padding)

	for i, run := range runs {
		if run.Count == 0 {
			continue
		}
		axis := normals[run.Start].DominantAxis()

		lo := positions[run.Start].Drop(axis)
		hi := lo
		for k := run.Start; k < run.Start+run.Count; k++ {
			p := positions[k].Drop(axis)
			lo = math.Vec2{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
			hi = math.Vec2{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
		}
		extent := max(hi.X-lo.X, hi.Y-lo.Y)
		scale := float32(0)
		if extent > 0 {
			scale = inner / extent
		}

		base := math.Vec2{
			X: float32(i%tilesPerRow)*tile + tile*padding,
			Y: float32(i/tilesPerRow)*tile + tile*padding,
		}
		for k := run.Start; k < run.Start+run.Count; k++ {
			out[k] = base.Add(positions[k].Drop(axis).Sub(lo).Scale(scale))
		}
	}
	return out
}
