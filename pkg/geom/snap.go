package geom

// SnapVertices welds near-coincident vertices that belong to different faces
// of the same solid. Each pair within distance moves to whichever vertex lies
// farther from the solid centroid. This is a single pass: chains that span
// three or more faces are not guaranteed to close. Returns the number of
// vertices moved.
func SnapVertices(s *Solid, distance float32) int {
	if distance <= 0 {
		return 0
	}
	center := s.Centroid()
	limit := distance * distance
	moved := 0

	for a := 0; a < len(s.Faces); a++ {
		fa := s.Faces[a]
		for b := a + 1; b < len(s.Faces); b++ {
			fb := s.Faces[b]
			for i := range fa.Vertices {
				for j := range fb.Vertices {
					va, vb := fa.Vertices[i], fb.Vertices[j]
					if va == vb || va.DistanceSq(vb) > limit {
						continue
					}
					target := va
					if vb.DistanceSq(center) > va.DistanceSq(center) {
						target = vb
					}
					if fa.Vertices[i] != target {
						fa.Vertices[i] = target
						moved++
					}
					if fb.Vertices[j] != target {
						fb.Vertices[j] = target
						moved++
					}
				}
			}
		}
	}
	return moved
}
