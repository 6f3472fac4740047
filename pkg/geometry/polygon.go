package geometry

// PointInPolygon tests if a point is inside a polygon using the even-odd
// rule (ray-casting parity).
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// TransformPolygon applies a transform to every vertex of a polygon.
func TransformPolygon(t AffineTransform, polygon []Point2D) []Point2D {
	out := make([]Point2D, len(polygon))
	for i, p := range polygon {
		out[i] = t.Apply(p)
	}
	return out
}
