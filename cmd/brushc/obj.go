package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/brushc/internal/compiler"
)

// writeOBJ writes every material mesh of an entity as one Wavefront OBJ
// group. Indices are rebased per group because OBJ numbers vertices
// globally from 1.
func writeOBJ(w io.Writer, er compiler.EntityResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# entity %s (%s)\n", er.Entity.Key, er.Entity.ClassName)
	fmt.Fprintf(bw, "o %s\n", er.Entity.Key)

	base := 1
	for _, mm := range er.Meshes {
		m := mm.Mesh
		fmt.Fprintf(bw, "g %s\nusemtl %s\n", mm.Material, mm.Material)
		for _, p := range m.Positions {
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		for _, uv := range m.UVs {
			fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
		}
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for t := 0; t+2 < len(m.Indices); t += 3 {
			a := base + int(m.Indices[t])
			b := base + int(m.Indices[t+1])
			c := base + int(m.Indices[t+2])
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		base += len(m.Positions)
	}
	return bw.Flush()
}
