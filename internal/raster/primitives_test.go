package raster

import (
	"image/color"
	"testing"
)

func TestBlendLineTranslucent(t *testing.T) {
	img := solidRGBA(20, 20, color.RGBA{255, 255, 255, 255})

	// A half-opacity black stroke must darken the white layer, not
	// replace it with translucent pixels.
	BlendLine(img, 2, 10, 17, 10, color.RGBA{0, 0, 0, 128}, 1)

	got := img.RGBAAt(10, 10)
	if got.A != 255 {
		t.Errorf("stroke pixel alpha = %d, want 255 (opaque layer stays opaque)", got.A)
	}
	if got.R < 120 || got.R > 135 {
		t.Errorf("stroke pixel R = %d, want ~127", got.R)
	}
	if off := img.RGBAAt(10, 5); off != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel off the stroke changed: %+v", off)
	}
}

func TestBlendLineThickSinglePass(t *testing.T) {
	img := solidRGBA(30, 30, color.RGBA{255, 255, 255, 255})

	// Overlapping stamps along a thick segment must blend each pixel
	// once; the stroke interior is uniform.
	BlendLine(img, 5, 15, 25, 15, color.RGBA{0, 0, 0, 128}, 5)

	a := img.RGBAAt(10, 15)
	b := img.RGBAAt(20, 15)
	if a != b {
		t.Errorf("stroke interior not uniform: %+v vs %+v", a, b)
	}
	if a.R < 120 || a.R > 135 {
		t.Errorf("thick stroke pixel R = %d, want ~127 (blended once)", a.R)
	}
}

func TestBlendLineOpaque(t *testing.T) {
	img := solidRGBA(10, 10, color.RGBA{0, 0, 255, 255})

	BlendLine(img, 0, 5, 9, 5, color.RGBA{255, 0, 0, 255}, 1)

	if got := img.RGBAAt(4, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("opaque stroke pixel = %+v, want solid red", got)
	}
}
