package mesh

import (
	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/material"
	"github.com/Faultbox/brushc/pkg/math"
	"github.com/Faultbox/brushc/pkg/uv"
)

// Batch selects the faces of one assembly pass.
type Batch struct {
	// Texture limits the pass to faces with this texture; empty means all.
	Texture string
	// Material supplies texture dimensions and an optional atlas. Nil
	// projects against a 1x1 texture, which colliders never read.
	Material *material.Material
	// Fallback replaces Material for faces its atlas cannot place.
	Fallback *material.Material
	// IncludeDiscarded keeps culled faces, for watertight collision hulls.
	IncludeDiscarded bool
}

// Stats reports what an assembly pass did.
type Stats struct {
	Faces     int
	Vertices  int
	Triangles int
	// FellBack is set when at least one face could not be placed by the
	// material atlas and was projected with the fallback material.
	FellBack bool
}

// Assembler converts brush faces into buffered triangles.
type Assembler struct {
	// Scale converts map units to engine units.
	Scale     float32
	Projector uv.Projector
}

// NewAssembler creates an assembler. A zero scale means 1.
func NewAssembler(scale, texelScale float32) Assembler {
	if scale == 0 {
		scale = 1
	}
	return Assembler{Scale: scale, Projector: uv.NewProjector(texelScale)}
}

func (b Batch) accepts(f *geom.Face) bool {
	if f.Degenerate() {
		return false
	}
	if f.Discarded && !b.IncludeDiscarded {
		return false
	}
	return b.Texture == "" || f.Texture == b.Texture
}

// project writes the UVs of f into dst, which has one slot per vertex.
// Returns false when the atlas rejected the face.
func (a Assembler) project(dst []math.Vec2, f *geom.Face, b Batch) bool {
	m := b.Material
	if m != nil && m.Atlas != nil {
		if uvs, ok := m.Atlas.Project(f); ok && len(uvs) == len(dst) {
			copy(dst, uvs)
			return true
		}
		if b.Fallback != nil {
			m = b.Fallback
		}
		a.standard(dst, f, m)
		return false
	}
	a.standard(dst, f, m)
	return true
}

func (a Assembler) standard(dst []math.Vec2, f *geom.Face, m *material.Material) {
	var w, h float32 = 1, 1
	if m != nil {
		w, h = m.Size()
	}
	a.Projector.Face(dst[:0], f, w, h)
}

// writeFace fills the vertex slots of one face.
func (a Assembler) writeFace(buf *Buffer, start int, f *geom.Face, b Batch) bool {
	n := len(f.Vertices)
	for i, p := range f.Vertices {
		buf.Vertices[start+i] = p.Scale(a.Scale)
	}
	return a.project(buf.UVs[start:start+n], f, b)
}

// writeFan fills the fan indices of a face with n vertices starting at
// vertex base. Every triangle shares the first vertex and keeps the loop
// winding: [0, k-1, k] for k = 2..n-1.
func writeFan(dst []uint32, base, n int) {
	o := 0
	for k := 2; k < n; k++ {
		dst[o] = uint32(base)
		dst[o+1] = uint32(base + k - 1)
		dst[o+2] = uint32(base + k)
		o += 3
	}
}

// Build appends every accepted face of solids to buf in solid-then-face
// order. Degenerate faces are skipped silently.
func (a Assembler) Build(buf *Buffer, solids []*geom.Solid, b Batch) Stats {
	var st Stats
	for _, s := range solids {
		for _, f := range s.Faces {
			if !b.accepts(f) {
				continue
			}
			n := len(f.Vertices)
			tris := n - 2
			v0, i0, r0 := buf.grow(n, tris*3, 1)
			if !a.writeFace(buf, v0, f, b) {
				st.FellBack = true
			}
			writeFan(buf.Indices[i0:], v0, n)
			buf.Runs[r0] = Run{Start: v0, Count: n}

			st.Faces++
			st.Vertices += n
			st.Triangles += tris
		}
	}
	return st
}

// BuildParallel produces exactly the same buffer contents as Build, with
// vertex/UV projection and triangle emission spread over s. Offsets for
// every face are computed up front so tasks write disjoint, pre-sized
// ranges. Atlas implementations must be safe for concurrent reads.
func (a Assembler) BuildParallel(s *batch.Scheduler, buf *Buffer, solids []*geom.Solid, b Batch) (Stats, error) {
	var faces []*geom.Face
	for _, sol := range solids {
		for _, f := range sol.Faces {
			if b.accepts(f) {
				faces = append(faces, f)
			}
		}
	}

	vOff := make([]int, len(faces)+1)
	tOff := make([]int, len(faces)+1)
	for i, f := range faces {
		n := len(f.Vertices)
		vOff[i+1] = vOff[i] + n
		tOff[i+1] = tOff[i] + (n-2)*3
	}

	v0, i0, r0 := buf.grow(vOff[len(faces)], tOff[len(faces)], len(faces))
	fell := make([]bool, len(faces))

	err := s.Range(len(faces), func(start, end int) {
		for i := start; i < end; i++ {
			fell[i] = !a.writeFace(buf, v0+vOff[i], faces[i], b)
			buf.Runs[r0+i] = Run{Start: v0 + vOff[i], Count: len(faces[i].Vertices)}
		}
	})
	if err != nil {
		return Stats{}, err
	}

	err = s.Range(len(faces), func(start, end int) {
		for i := start; i < end; i++ {
			writeFan(buf.Indices[i0+tOff[i]:], v0+vOff[i], len(faces[i].Vertices))
		}
	})
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Faces:     len(faces),
		Vertices:  vOff[len(faces)],
		Triangles: tOff[len(faces)] / 3,
	}
	for _, f := range fell {
		st.FellBack = st.FellBack || f
	}
	return st, nil
}
