package geometry

import "testing"

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	// Concave "L" shape.
	ell := []Point2D{{0, 0}, {10, 0}, {10, 4}, {4, 4}, {4, 10}, {0, 10}}

	tests := []struct {
		name string
		poly []Point2D
		p    Point2D
		want bool
	}{
		{"square center", square, Point2D{5, 5}, true},
		{"square outside", square, Point2D{15, 5}, false},
		{"square outside negative", square, Point2D{-1, -1}, false},
		{"L inside arm", ell, Point2D{2, 8}, true},
		{"L inside corner", ell, Point2D{2, 2}, true},
		{"L notch excluded", ell, Point2D{8, 8}, false},
		{"two points never inside", []Point2D{{0, 0}, {10, 10}}, Point2D{5, 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.poly); got != tt.want {
				t.Errorf("PointInPolygon(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestTransformPolygon(t *testing.T) {
	poly := []Point2D{{0, 0}, {10, 0}, {10, 10}}
	out := TransformPolygon(Translation(5, -5), poly)
	want := []Point2D{{5, -5}, {15, -5}, {15, 5}}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, out[i], want[i])
		}
	}
}
