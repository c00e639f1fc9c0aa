package geom

import (
	"github.com/Faultbox/brushc/pkg/math"
)

// DefaultOrthoTolerance is the alignment slack used when testing whether a
// face normal lies on a cardinal axis.
const DefaultOrthoTolerance = 1e-4

// Class holds the collision classification of an entity.
type Class struct {
	NonSolid bool
	Trigger  bool
}

// Overrides maps an entity key to its original classification. Solids that
// were merged into another entity look themselves up here by Solid.Override.
type Overrides map[string]Class

// Lookup returns the classification recorded for key, if any.
func (o Overrides) Lookup(key string) (Class, bool) {
	if key == "" || o == nil {
		return Class{}, false
	}
	c, ok := o[key]
	return c, ok
}

// Solid is a convex brush.
type Solid struct {
	ID    int
	Faces []*Face

	// Override names the entity whose classification this brush keeps after
	// being merged elsewhere. Empty when the brush belongs to its own entity.
	Override string

	// ForceConvex makes the collider deriver always emit a convex mesh.
	ForceConvex bool
}

// VertexCount returns the total number of face vertices.
func (s *Solid) VertexCount() int {
	n := 0
	for _, f := range s.Faces {
		n += len(f.Vertices)
	}
	return n
}

// Centroid returns the average of every face vertex.
func (s *Solid) Centroid() math.Vec3 {
	var sum math.Vec3
	n := 0
	for _, f := range s.Faces {
		for _, v := range f.Vertices {
			sum = sum.Add(v)
			n++
		}
	}
	if n == 0 {
		return sum
	}
	return sum.Scale(1 / float32(n))
}

// IsOrthogonal reports whether every face normal is axis aligned.
func (s *Solid) IsOrthogonal(tol float32) bool {
	for _, f := range s.Faces {
		if !f.Plane.IsOrthogonal(tol) {
			return false
		}
	}
	return len(s.Faces) > 0
}

// Entity is a logical group of brushes sharing an origin and classification.
type Entity struct {
	Key         string
	ClassName   string
	Origin      math.Vec3
	Class       Class
	ForceConvex bool
	Solids      []*Solid
}

// Faces returns every face of every solid in iteration order.
func (e *Entity) Faces() []*Face {
	var out []*Face
	for _, s := range e.Solids {
		out = append(out, s.Faces...)
	}
	return out
}

// CollectFaces returns the faces of all entities in iteration order.
func CollectFaces(entities []*Entity) []*Face {
	var out []*Face
	for _, e := range entities {
		out = append(out, e.Faces()...)
	}
	return out
}
