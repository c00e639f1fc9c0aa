package mesh

import (
	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is a finalized render or collision mesh. It owns all of its slices.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	UV2       []math.Vec2
	// Tangents carry handedness in W.
	Tangents []math.Vec4
	Indices  []uint32
	// Indices16 mirrors Indices when compression was requested and every
	// index fits in 16 bits.
	Indices16 []uint16
	Bounds    Bounds
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// FinalizeOptions controls the passes run by Finalize.
type FinalizeOptions struct {
	// Origin is subtracted from every vertex.
	Origin math.Vec3
	// SmoothAngle in degrees; 0 keeps flat normals, 180 or a negative value
	// smooths every coincident vertex.
	SmoothAngle float32
	// SmoothDelta is the squared coincidence distance; 0 selects
	// DefaultSmoothDelta.
	SmoothDelta float32
	Tangents    bool
	LightmapUV  bool
	// LightmapPadding is the fraction of a lightmap tile left empty around
	// each face.
	LightmapPadding float32
	// Weld merges coincident vertices after smoothing.
	Weld      bool
	WeldDelta float32
	WeldAngle float32
	Optimize  bool
	Compress  bool
	// Scheduler spreads smoothing over a worker pool when set.
	Scheduler *batch.Scheduler
}

// Finalize copies buf into a new Mesh and runs the requested passes in
// order: origin shift, bounds, flat normals, smoothing, lightmap UVs,
// tangents, welding, optimization and index compression. buf is not
// modified and may be reset as soon as Finalize returns.
func Finalize(buf *Buffer, opts FinalizeOptions) (*Mesh, error) {
	m := &Mesh{
		Positions: make([]math.Vec3, len(buf.Vertices)),
		UVs:       make([]math.Vec2, len(buf.UVs)),
		Indices:   make([]uint32, len(buf.Indices)),
	}
	copy(m.Positions, buf.Vertices)
	copy(m.UVs, buf.UVs)
	copy(m.Indices, buf.Indices)

	if opts.Origin != (math.Vec3{}) {
		for i := range m.Positions {
			m.Positions[i] = m.Positions[i].Sub(opts.Origin)
		}
	}

	m.Normals = flatNormals(m.Positions, m.Indices)
	if opts.SmoothAngle != 0 {
		var err error
		if opts.Scheduler != nil {
			m.Normals, err = SmoothNormalsParallel(opts.Scheduler, m.Positions, m.Normals, opts.SmoothAngle, opts.SmoothDelta)
		} else {
			m.Normals = SmoothNormals(m.Positions, m.Normals, opts.SmoothAngle, opts.SmoothDelta)
		}
		if err != nil {
			return nil, err
		}
	}

	if opts.LightmapUV {
		m.UV2 = LightmapUVs(m.Positions, m.Normals, buf.Runs, opts.LightmapPadding)
	}
	if opts.Tangents {
		m.Tangents = computeTangents(m.Positions, m.Normals, m.UVs, m.Indices)
	}
	if opts.Weld {
		Weld(m, opts.WeldDelta, opts.WeldAngle)
	}
	if opts.Optimize {
		m.Optimize()
	}
	if opts.Compress && len(m.Positions) <= 1<<16 {
		m.Indices16 = make([]uint16, len(m.Indices))
		for i, idx := range m.Indices {
			m.Indices16[i] = uint16(idx)
		}
	}
	m.Bounds = computeBounds(m.Positions)
	return m, nil
}

func computeBounds(positions []math.Vec3) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// flatNormals gives every vertex the normalized sum of the normals of the
// triangles that use it. Fan vertices belong to a single face, so this is
// the face normal.
func flatNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// computeTangents derives per-vertex tangents from the UV gradient of each
// triangle, orthogonalized against the vertex normal.
func computeTangents(positions, normals []math.Vec3, uvs []math.Vec2, indices []uint32) []math.Vec4 {
	tan := make([]math.Vec3, len(positions))
	bitan := make([]math.Vec3, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		e1 := positions[b].Sub(positions[a])
		e2 := positions[c].Sub(positions[a])
		d1 := uvs[b].Sub(uvs[a])
		d2 := uvs[c].Sub(uvs[a])

		det := d1.X*d2.Y - d2.X*d1.Y
		if det == 0 {
			continue
		}
		r := 1 / det
		s := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(r)
		u := e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(r)
		for _, i := range [3]uint32{a, b, c} {
			tan[i] = tan[i].Add(s)
			bitan[i] = bitan[i].Add(u)
		}
	}

	out := make([]math.Vec4, len(positions))
	for i, n := range normals {
		t := tan[i].Sub(n.Scale(n.Dot(tan[i])))
		if t.LengthSq() == 0 {
			t = perpendicular(n)
		}
		t = t.Normalize()
		w := float32(1)
		if n.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		out[i] = math.Vec4{t.X, t.Y, t.Z, w}
	}
	return out
}

func perpendicular(n math.Vec3) math.Vec3 {
	if n.DominantAxis() == math.AxisX {
		return n.Cross(math.Vec3{Y: 1})
	}
	return n.Cross(math.Vec3{X: 1})
}

// Optimize drops degenerate triangles and vertices no triangle references.
func (m *Mesh) Optimize() {
	m.dropDegenerate()

	used := make([]bool, len(m.Positions))
	for _, idx := range m.Indices {
		used[idx] = true
	}
	remap := make([]int32, len(m.Positions))
	kept := 0
	for i, u := range used {
		if !u {
			remap[i] = -1
			continue
		}
		remap[i] = int32(kept)
		kept++
	}
	if kept < len(m.Positions) {
		m.compact(remap, kept)
	}
}

// dropDegenerate removes triangles that repeat an index or have no area.
func (m *Mesh) dropDegenerate() {
	out := m.Indices[:0]
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if a == b || b == c || a == c {
			continue
		}
		e1 := m.Positions[b].Sub(m.Positions[a])
		e2 := m.Positions[c].Sub(m.Positions[a])
		if e1.Cross(e2).LengthSq() < 1e-12 {
			continue
		}
		out = append(out, a, b, c)
	}
	m.Indices = out
}

// compact rebuilds every vertex attribute so that old vertex i moves to
// remap[i]. Negative entries are dropped; when several vertices map to the
// same slot the first one wins.
func (m *Mesh) compact(remap []int32, count int) {
	n := len(m.Positions)
	placed := make([]bool, count)
	positions := make([]math.Vec3, count)
	var normals []math.Vec3
	var uvs, uv2 []math.Vec2
	var tangents []math.Vec4
	if len(m.Normals) == n {
		normals = make([]math.Vec3, count)
	}
	if len(m.UVs) == n {
		uvs = make([]math.Vec2, count)
	}
	if len(m.UV2) == n {
		uv2 = make([]math.Vec2, count)
	}
	if len(m.Tangents) == n {
		tangents = make([]math.Vec4, count)
	}

	for old, r := range remap {
		if r < 0 || placed[r] {
			continue
		}
		placed[r] = true
		positions[r] = m.Positions[old]
		if normals != nil {
			normals[r] = m.Normals[old]
		}
		if uvs != nil {
			uvs[r] = m.UVs[old]
		}
		if uv2 != nil {
			uv2[r] = m.UV2[old]
		}
		if tangents != nil {
			tangents[r] = m.Tangents[old]
		}
	}

	for i, idx := range m.Indices {
		m.Indices[i] = uint32(remap[idx])
	}
	m.Positions, m.Normals, m.UVs, m.UV2, m.Tangents = positions, normals, uvs, uv2, tangents
}
