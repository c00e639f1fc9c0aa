package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/Faultbox/brushc/internal/compiler"
	"github.com/Faultbox/brushc/pkg/geom"
	"github.com/Faultbox/brushc/pkg/math"
	"github.com/Faultbox/brushc/pkg/mesh"
)

func TestReorder(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"level.yaml", "-o", "out"}, []string{"-o", "out", "level.yaml"}},
		{[]string{"-o=out", "level.yaml"}, []string{"-o=out", "level.yaml"}},
		{[]string{"level.yaml"}, []string{"level.yaml"}},
	}
	for _, tt := range tests {
		if got := reorder(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("reorder(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize(`func door:1/a`); got != "func_door_1_a" {
		t.Errorf("sanitize = %q", got)
	}
}

func TestWriteOBJ(t *testing.T) {
	box := geom.NewBox(1, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}, "stone")
	buf := mesh.NewBuffer(24)
	mesh.NewAssembler(1, 1).Build(buf, []*geom.Solid{box}, mesh.Batch{})
	m, err := mesh.Finalize(buf, mesh.FinalizeOptions{})
	if err != nil {
		t.Fatal(err)
	}

	er := compiler.EntityResult{
		Entity: &geom.Entity{Key: "worldspawn", ClassName: "worldspawn"},
		Meshes: []compiler.MaterialMesh{
			{Material: "stone", Mesh: m},
			{Material: "metal", Mesh: m},
		},
	}
	var out bytes.Buffer
	if err := writeOBJ(&out, er); err != nil {
		t.Fatalf("writeOBJ: %v", err)
	}

	text := out.String()
	if n := strings.Count(text, "\nv "); n != 48 {
		t.Errorf("vertex lines = %d, want 48", n)
	}
	if n := strings.Count(text, "\nf "); n != 24 {
		t.Errorf("face lines = %d, want 24", n)
	}
	// The second group is rebased past the first group's 24 vertices.
	if !strings.Contains(text, "f 25/25/25 ") {
		t.Error("second group indices not rebased")
	}
	if !strings.Contains(text, "usemtl metal") {
		t.Error("missing material group")
	}
}
