package geom

import (
	"testing"

	"github.com/Faultbox/brushc/pkg/math"
)

func TestNewBoxOutwardNormals(t *testing.T) {
	box := NewBox(1, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}, "wall")
	center := box.Centroid()

	if len(box.Faces) != 6 {
		t.Fatalf("expected 6 faces, got %d", len(box.Faces))
	}
	for i, f := range box.Faces {
		toFace := f.Centroid().Sub(center)
		if toFace.Dot(f.Plane.Normal) <= 0 {
			t.Errorf("face %d normal %v points inward", i, f.Plane.Normal)
		}
		for _, v := range f.Vertices {
			if d := f.Plane.Distance(v); d > 1e-5 || d < -1e-5 {
				t.Errorf("face %d vertex %v off plane by %f", i, v, d)
			}
		}
	}
	if !box.IsOrthogonal(DefaultOrthoTolerance) {
		t.Error("box should be orthogonal")
	}
	if box.VertexCount() != 24 {
		t.Errorf("expected 24 vertices, got %d", box.VertexCount())
	}
}

func TestPlaneOpposedTo(t *testing.T) {
	up := Plane{Normal: math.Vec3{Z: 1}, D: 1}
	down := Plane{Normal: math.Vec3{Z: -1}, D: -1}
	downFar := Plane{Normal: math.Vec3{Z: -1}, D: -2}
	tilted := Plane{Normal: math.Vec3{Y: 0.1, Z: -0.995}.Normalize(), D: -1}

	tests := []struct {
		name  string
		other Plane
		want  bool
	}{
		{"coincident opposite", down, true},
		{"same direction", up, false},
		{"too far apart", downFar, false},
		{"not anti-parallel enough", tilted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := up.OpposedTo(tt.other, 0.5, -0.999); got != tt.want {
				t.Errorf("OpposedTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaneIsOrthogonal(t *testing.T) {
	if !(Plane{Normal: math.Vec3{Y: -1}}).IsOrthogonal(DefaultOrthoTolerance) {
		t.Error("-Y normal should be orthogonal")
	}
	diag := Plane{Normal: math.Vec3{X: 1, Y: 1}.Normalize()}
	if diag.IsOrthogonal(DefaultOrthoTolerance) {
		t.Error("diagonal normal should not be orthogonal")
	}
}

func TestFaceAreaAndValid(t *testing.T) {
	f := NewFace("a", math.Vec3{}, math.Vec3{X: 2}, math.Vec3{X: 2, Y: 3}, math.Vec3{Y: 3})
	if !f.Valid() {
		t.Error("quad should be valid")
	}
	if a := f.Area(); a < 5.999 || a > 6.001 {
		t.Errorf("expected area 6, got %f", a)
	}

	degenerate := &Face{Vertices: []math.Vec3{{}, {X: 1}}}
	if degenerate.Valid() {
		t.Error("two-vertex face should be invalid")
	}
	if degenerate.Area() != 0 {
		t.Error("degenerate face should have zero area")
	}
}

func TestFaceDegenerate(t *testing.T) {
	tests := []struct {
		name string
		face *Face
		want bool
	}{
		{"quad", NewFace("a", math.Vec3{}, math.Vec3{X: 1}, math.Vec3{X: 1, Y: 1}, math.Vec3{Y: 1}), false},
		{"two vertices", &Face{Vertices: []math.Vec3{{}, {X: 1}}}, true},
		{"collinear", NewFace("a", math.Vec3{}, math.Vec3{X: 1}, math.Vec3{X: 2}), true},
		{"repeated vertex", NewFace("a", math.Vec3{}, math.Vec3{}, math.Vec3{Y: 1}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.face.Degenerate(); got != tt.want {
				t.Errorf("Degenerate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverridesLookup(t *testing.T) {
	o := Overrides{"trigger_once_1": {Trigger: true}}
	if c, ok := o.Lookup("trigger_once_1"); !ok || !c.Trigger {
		t.Errorf("expected trigger override, got %+v %v", c, ok)
	}
	if _, ok := o.Lookup(""); ok {
		t.Error("empty key should not resolve")
	}
	var nilTable Overrides
	if _, ok := nilTable.Lookup("x"); ok {
		t.Error("nil table should not resolve")
	}
}

func TestRemapEntity(t *testing.T) {
	box := NewBox(1, math.Vec3{}, math.Vec3{X: 1, Y: 2, Z: 3}, "wall")
	e := &Entity{Key: "worldspawn", Origin: math.Vec3{X: 1, Y: 2, Z: 3}, Solids: []*Solid{box}}

	// Capture one UV dot product before remapping
	f := box.Faces[4]
	before := f.Vertices[2].Dot(f.U)

	RemapEntity(e, QuakeToYUp)

	if e.Origin != (math.Vec3{X: 1, Y: 3, Z: -2}) {
		t.Errorf("origin remap: got %v, want (1, 3, -2)", e.Origin)
	}
	// +Z face becomes +Y face
	if !f.Plane.Normal.ApproxEqual(math.Vec3{Y: 1}, 1e-6) {
		t.Errorf("normal remap: got %v, want (0, 1, 0)", f.Plane.Normal)
	}
	if after := f.Vertices[2].Dot(f.U); after != before {
		t.Errorf("texture projection changed: %f -> %f", before, after)
	}
	for _, v := range f.Vertices {
		if d := f.Plane.Distance(v); d > 1e-5 || d < -1e-5 {
			t.Errorf("vertex %v off remapped plane by %f", v, d)
		}
	}
}

func TestSnapVertices(t *testing.T) {
	box := NewBox(1, math.Vec3{}, math.Vec3{X: 4, Y: 4, Z: 4}, "wall")

	// Pull one corner of the +X face slightly inward
	box.Faces[0].Vertices[0] = math.Vec3{X: 3.95, Y: 0.02, Z: 0.01}

	moved := SnapVertices(box, 0.1)
	if moved == 0 {
		t.Fatal("expected vertices to move")
	}
	// The outer corner (farther from the centroid) wins
	want := math.Vec3{X: 4, Y: 0, Z: 0}
	if got := box.Faces[0].Vertices[0]; got != want {
		t.Errorf("snapped vertex = %v, want %v", got, want)
	}

	if SnapVertices(box, 0) != 0 {
		t.Error("zero distance should be a no-op")
	}
}
