package mesh

import (
	gomath "math"

	"github.com/Faultbox/brushc/pkg/batch"
	"github.com/Faultbox/brushc/pkg/math"
)

// DefaultSmoothDelta is the squared distance under which two vertices count
// as coincident for smoothing.
const DefaultSmoothDelta float32 = 0.1

// smoothCos returns the cosine threshold for an angle in degrees, and false
// when smoothing is disabled. Negative angles and angles of 180 or more
// smooth every coincident pair.
func smoothCos(angle float32) (float32, bool) {
	switch {
	case angle == 0:
		return 0, false
	case angle < 0 || angle >= 180:
		return -2, true
	}
	return float32(gomath.Cos(float64(angle) * gomath.Pi / 180)), true
}

// SmoothNormals averages each vertex normal with the normals of every other
// vertex that lies within squared distance maxDelta of it and whose normal
// is within angle degrees. The result is a new slice; normals is not
// modified. An angle of 0 returns normals unchanged. A non-positive
// maxDelta selects DefaultSmoothDelta.
//
// The scan is quadratic in the vertex count.
func SmoothNormals(positions, normals []math.Vec3, angle, maxDelta float32) []math.Vec3 {
	cos, ok := smoothCos(angle)
	if !ok {
		return normals
	}
	if maxDelta <= 0 {
		maxDelta = DefaultSmoothDelta
	}
	out := make([]math.Vec3, len(normals))
	smoothRange(out, positions, normals, cos, maxDelta, 0, len(normals))
	return out
}

// SmoothNormalsParallel is SmoothNormals with the per-vertex scan spread
// over s. Each vertex reads the shared inputs and writes only its own slot,
// so the result is identical to the serial pass.
func SmoothNormalsParallel(s *batch.Scheduler, positions, normals []math.Vec3, angle, maxDelta float32) ([]math.Vec3, error) {
	cos, ok := smoothCos(angle)
	if !ok {
		return normals, nil
	}
	if maxDelta <= 0 {
		maxDelta = DefaultSmoothDelta
	}
	out := make([]math.Vec3, len(normals))
	err := s.Range(len(normals), func(start, end int) {
		smoothRange(out, positions, normals, cos, maxDelta, start, end)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func smoothRange(out, positions, normals []math.Vec3, cos, maxDelta float32, start, end int) {
	for i := start; i < end; i++ {
		sum := normals[i]
		for j := range positions {
			if j == i {
				continue
			}
			if positions[i].DistanceSq(positions[j]) > maxDelta {
				continue
			}
			if normals[i].Dot(normals[j]) < cos {
				continue
			}
			sum = sum.Add(normals[j])
		}
		if sum.LengthSq() == 0 {
			out[i] = normals[i]
			continue
		}
		out[i] = sum.Normalize()
	}
}
