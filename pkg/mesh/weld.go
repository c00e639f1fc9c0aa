package mesh

import (
	gomath "math"

	"github.com/Faultbox/brushc/pkg/math"
)

// DefaultWeldDelta is the default position tolerance for Weld.
const DefaultWeldDelta float32 = 0.001

type cell [3]int32

// Weld merges vertices whose positions lie within delta of each other and
// whose normals differ by at most angle degrees. Triangle indices are
// remapped to the surviving vertices; the survivor keeps its own UVs and
// takes the normalized sum of the merged normals. Triangles that collapse
// are dropped. Returns the number of vertices removed.
//
// Candidates are found through a hash grid with delta-sized cells, so only
// the 27 neighbouring cells are compared.
func Weld(m *Mesh, delta, angle float32) int {
	n := len(m.Positions)
	if n == 0 {
		return 0
	}
	if delta <= 0 {
		delta = DefaultWeldDelta
	}
	cos := float32(gomath.Cos(float64(angle) * gomath.Pi / 180))
	if angle >= 180 {
		cos = -2
	}
	hasNormals := len(m.Normals) == n

	grid := make(map[cell][]int, n)
	remap := make([]int32, n)
	sums := make([]math.Vec3, 0, n)
	kept := 0

	for i, p := range m.Positions {
		key := cellOf(p, delta)
		match := -1
	search:
		for dx := int32(-1); dx <= 1; dx++ {
			for dy := int32(-1); dy <= 1; dy++ {
				for dz := int32(-1); dz <= 1; dz++ {
					for _, j := range grid[cell{key[0] + dx, key[1] + dy, key[2] + dz}] {
						if p.DistanceSq(m.Positions[j]) > delta*delta {
							continue
						}
						if hasNormals && m.Normals[i].Dot(m.Normals[j]) < cos {
							continue
						}
						match = j
						break search
					}
				}
			}
		}

		if match >= 0 {
			remap[i] = remap[match]
			if hasNormals {
				sums[remap[match]] = sums[remap[match]].Add(m.Normals[i])
			}
			continue
		}
		grid[key] = append(grid[key], i)
		remap[i] = int32(kept)
		if hasNormals {
			sums = append(sums, m.Normals[i])
		}
		kept++
	}

	if kept == n {
		return 0
	}
	m.compact(remap, kept)
	if hasNormals {
		for i := range m.Normals {
			if sums[i].LengthSq() > 0 {
				m.Normals[i] = sums[i].Normalize()
			}
		}
	}
	m.dropDegenerate()
	return n - kept
}

func cellOf(p math.Vec3, size float32) cell {
	return cell{
		int32(gomath.Floor(float64(p.X / size))),
		int32(gomath.Floor(float64(p.Y / size))),
		int32(gomath.Floor(float64(p.Z / size))),
	}
}
