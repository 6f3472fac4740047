package raster

import (
	"image"
	"image/color"
	"testing"

	"pixelpaint/pkg/geometry"
)

func TestDrawTransformedIdentity(t *testing.T) {
	src := solidRGBA(8, 8, color.RGBA{30, 60, 90, 255})
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	rect := geometry.RectInt{X: 5, Y: 5, Width: 8, Height: 8}

	DrawTransformed(dst, src, rect, rect.Center(), 1.0, 0.0)

	for y := 5; y < 13; y++ {
		for x := 5; x < 13; x++ {
			if got := dst.RGBAAt(x, y); got != (color.RGBA{30, 60, 90, 255}) {
				t.Fatalf("pixel (%d,%d) = %+v, want source color", x, y, got)
			}
		}
	}
	if got := dst.RGBAAt(0, 0).A; got != 0 {
		t.Errorf("pixel outside rect touched: alpha %d", got)
	}
	if got := dst.RGBAAt(15, 15).A; got != 0 {
		t.Errorf("pixel outside rect touched: alpha %d", got)
	}
}

func TestDrawTransformedRotation180(t *testing.T) {
	// Two-tone source: left half red, right half blue. A 180 degree
	// rotation about the center swaps the halves.
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				src.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				src.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	rect := geometry.RectInt{X: 6, Y: 6, Width: 8, Height: 8}

	DrawTransformed(dst, src, rect, rect.Center(), 1.0, 180.0)

	if got := dst.RGBAAt(7, 10); got.B != 255 || got.R != 0 {
		t.Errorf("left side after 180 rotation = %+v, want blue", got)
	}
	if got := dst.RGBAAt(12, 10); got.R != 255 || got.B != 0 {
		t.Errorf("right side after 180 rotation = %+v, want red", got)
	}
}

func TestDrawTransformedScaleOverflows(t *testing.T) {
	src := solidRGBA(10, 10, color.RGBA{0, 200, 0, 255})
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	rect := geometry.RectInt{X: 15, Y: 15, Width: 10, Height: 10}

	DrawTransformed(dst, src, rect, rect.Center(), 2.0, 0.0)

	// At 2x about the center the content spans roughly (10,10)-(30,30).
	if got := dst.RGBAAt(12, 12).A; got == 0 {
		t.Error("scaled content should overflow the original rect symmetrically")
	}
	if got := dst.RGBAAt(20, 20).A; got == 0 {
		t.Error("center pixel should be covered")
	}
	if got := dst.RGBAAt(5, 5).A; got != 0 {
		t.Error("content escaped the 2x footprint")
	}
}

func TestDrawTransformedSkipsTransparent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4)) // fully transparent
	dst := solidRGBA(10, 10, color.RGBA{9, 9, 9, 255})
	rect := geometry.RectInt{X: 2, Y: 2, Width: 4, Height: 4}

	DrawTransformed(dst, src, rect, rect.Center(), 1.0, 0.0)

	if got := dst.RGBAAt(3, 3); got != (color.RGBA{9, 9, 9, 255}) {
		t.Errorf("transparent source modified destination: %+v", got)
	}
}

func TestResample(t *testing.T) {
	src := solidRGBA(4, 4, color.RGBA{50, 50, 50, 255})

	out := Resample(src, 8, 8)
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Errorf("resample size = %v", out.Bounds())
	}
	if got := out.RGBAAt(4, 4); got.A != 255 {
		t.Errorf("resampled center alpha = %d", got.A)
	}

	// Same size returns the input unchanged.
	if same := Resample(src, 4, 4); same != src {
		t.Error("same-size resample should return the source")
	}

	// Degenerate target clamps to 1px.
	tiny := Resample(src, 0, -3)
	if tiny.Bounds().Dx() != 1 || tiny.Bounds().Dy() != 1 {
		t.Errorf("degenerate resample size = %v, want 1x1", tiny.Bounds())
	}
}
