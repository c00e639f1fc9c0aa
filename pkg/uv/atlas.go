package uv

import (
	"sort"

	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/math"
)

// Atlas is a pluggable texture-space packing strategy. Project returns UVs for
// every vertex of f, or false when the face does not fit the atlas.
type Atlas interface {
	Project(f *geom.Face) ([]math.Vec2, bool)
}

// Rect is an atlas cell in texels.
type Rect struct {
	X, Y, W, H float32
}

// HotspotAtlas maps each face into the smallest cell of a trim sheet that can
// hold it without scaling. Cells are given in texels of a Width x Height sheet.
type HotspotAtlas struct {
	Width, Height float32
	cells         []Rect
}

// NewHotspotAtlas builds an atlas from cells sorted by area, smallest first.
func NewHotspotAtlas(width, height float32, cells []Rect) *HotspotAtlas {
	sorted := append([]Rect(nil), cells...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].W*sorted[i].H < sorted[j].W*sorted[j].H
	})
	return &HotspotAtlas{Width: width, Height: height, cells: sorted}
}

// Project lays the face out in its own texture axes and places it in the
// first cell large enough for its extent.
func (a *HotspotAtlas) Project(f *geom.Face) ([]math.Vec2, bool) {
	if len(f.Vertices) < 3 || a.Width <= 0 || a.Height <= 0 {
		return nil, false
	}

	local := make([]math.Vec2, len(f.Vertices))
	lo := math.Vec2{X: 1e30, Y: 1e30}
	hi := math.Vec2{X: -1e30, Y: -1e30}
	for i, p := range f.Vertices {
		q := math.Vec2{X: p.Dot(f.U), Y: -p.Dot(f.V)}
		local[i] = q
		lo = math.Vec2{X: min(lo.X, q.X), Y: min(lo.Y, q.Y)}
		hi = math.Vec2{X: max(hi.X, q.X), Y: max(hi.Y, q.Y)}
	}
	size := hi.Sub(lo)

	for _, c := range a.cells {
		if size.X > c.W || size.Y > c.H {
			continue
		}
		out := make([]math.Vec2, len(local))
		for i, q := range local {
			out[i] = math.Vec2{
				X: (c.X + q.X - lo.X) / a.Width,
				Y: (c.Y + q.Y - lo.Y) / a.Height,
			}
		}
		return out, true
	}
	return nil, false
}
