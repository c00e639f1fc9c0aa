// Package mesh turns brush faces into triangle meshes: fan triangulation into
// reusable buffers, finalization (bounds, normals, tangents, lightmap UVs),
// normal smoothing and vertex welding.
package mesh

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// Run is the contiguous vertex range written for one face.
type Run struct {
	Start int
	Count int
}

// Buffer is reusable scratch storage for mesh assembly.
//
// A Buffer belongs to exactly one compiling call at a time. Call Reset before
// reusing it for the next batch and never share one across goroutines; give
// each concurrent compilation its own Buffer.
type Buffer struct {
	Vertices []math.Vec3
	UVs      []math.Vec2
	Indices  []uint32
	Runs     []Run
}

// NewBuffer creates a buffer with capacity for about n vertices.
func NewBuffer(n int) *Buffer {
	return &Buffer{
		Vertices: make([]math.Vec3, 0, n),
		UVs:      make([]math.Vec2, 0, n),
		Indices:  make([]uint32, 0, n*3/2),
	}
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.Vertices = b.Vertices[:0]
	b.UVs = b.UVs[:0]
	b.Indices = b.Indices[:0]
	b.Runs = b.Runs[:0]
}

// VertexCount returns the number of buffered vertices.
func (b *Buffer) VertexCount() int {
	return len(b.Vertices)
}

// TriangleCount returns the number of buffered triangles.
func (b *Buffer) TriangleCount() int {
	return len(b.Indices) / 3
}

// Empty reports whether the buffer holds no triangles.
func (b *Buffer) Empty() bool {
	return len(b.Indices) == 0
}

// Translate moves every vertex by -origin so the mesh is expressed relative
// to origin.
func (b *Buffer) Translate(origin math.Vec3) {
	if origin == (math.Vec3{}) {
		return
	}
	for i := range b.Vertices {
		b.Vertices[i] = b.Vertices[i].Sub(origin)
	}
}

// grow extends every slice by the given counts and returns the previous
// lengths.
func (b *Buffer) grow(verts, indices, runs int) (v0, i0, r0 int) {
	v0, i0, r0 = len(b.Vertices), len(b.Indices), len(b.Runs)
	b.Vertices = append(b.Vertices, make([]math.Vec3, verts)...)
	b.UVs = append(b.UVs, make([]math.Vec2, verts)...)
	b.Indices = append(b.Indices, make([]uint32, indices)...)
	b.Runs = append(b.Runs, make([]Run, runs)...)
	return v0, i0, r0
}
