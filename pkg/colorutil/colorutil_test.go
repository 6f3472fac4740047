package colorutil

import (
	"math"
	"testing"
)

func TestRGBToHSV(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 255, 0, 0, 0, 1, 1},
		{"green", 0, 255, 0, 120, 1, 1},
		{"blue", 0, 0, 255, 240, 1, 1},
		{"white", 255, 255, 255, 0, 0, 1},
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 128.0 / 255},
	}
	for _, tc := range cases {
		h, s, v := RGBToHSV(tc.r, tc.g, tc.b)
		if math.Abs(h-tc.h) > 0.5 || math.Abs(s-tc.s) > 0.01 || math.Abs(v-tc.v) > 0.01 {
			t.Errorf("%s: got h=%.1f s=%.2f v=%.2f, want h=%.1f s=%.2f v=%.2f",
				tc.name, h, s, v, tc.h, tc.s, tc.v)
		}
	}
}

func TestHSVRoundTrip(t *testing.T) {
	for _, rgb := range [][3]float64{
		{255, 0, 0}, {12, 200, 97}, {130, 130, 5}, {1, 2, 3},
	} {
		h, s, v := RGBToHSV(rgb[0], rgb[1], rgb[2])
		r, g, b := HSVToRGB(h, s, v)
		if math.Abs(r-rgb[0]) > 1 || math.Abs(g-rgb[1]) > 1 || math.Abs(b-rgb[2]) > 1 {
			t.Errorf("round trip %v -> (%.1f, %.1f, %.1f)", rgb, r, g, b)
		}
	}
}
