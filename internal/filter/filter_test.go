package filter

import (
	"image"
	"image/color"
	"testing"
)

func newTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 30), 128, 255})
		}
	}
	return img
}

func TestInvertRoundTrip(t *testing.T) {
	img := newTestImage(4, 4)
	twice := Invert(Invert(img))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got, want := twice.RGBAAt(x, y), img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestGrayscaleEqualChannels(t *testing.T) {
	out := Grayscale(newTestImage(4, 4))
	c := out.RGBAAt(2, 3)
	if c.R != c.G || c.G != c.B {
		t.Errorf("grayscale channels differ: %+v", c)
	}
	if c.A != 255 {
		t.Errorf("alpha changed: %d", c.A)
	}
}

func TestMosaicUniformBlocks(t *testing.T) {
	out := Mosaic(newTestImage(16, 16), 4)
	// All pixels in a block share one color.
	base := out.RGBAAt(4, 4)
	for y := 4; y < 8; y++ {
		for x := 4; x < 8; x++ {
			if got := out.RGBAAt(x, y); got != base {
				t.Fatalf("block pixel (%d,%d) = %+v, want %+v", x, y, got, base)
			}
		}
	}
	// Neighboring blocks of a gradient image differ.
	if out.RGBAAt(4, 4) == out.RGBAAt(12, 4) {
		t.Error("distinct blocks should average to different colors")
	}
}

func TestAutoContrastStretches(t *testing.T) {
	// A low-contrast gray ramp between 100 and 150.
	img := image.NewRGBA(image.Rect(0, 0, 64, 1))
	for x := 0; x < 64; x++ {
		v := uint8(100 + x*50/63)
		img.SetRGBA(x, 0, color.RGBA{v, v, v, 255})
	}

	out := AutoContrast(img)
	lo := out.RGBAAt(1, 0).R
	hi := out.RGBAAt(62, 0).R
	if hi-lo <= 50 {
		t.Errorf("contrast not stretched: lo=%d hi=%d", lo, hi)
	}
}

func TestRotateHueFullCircle(t *testing.T) {
	img := newTestImage(4, 4)
	out := RotateHue(img, 360)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := out.RGBAAt(x, y)
			want := img.RGBAAt(x, y)
			if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 {
				t.Fatalf("pixel (%d,%d) = %+v, want ~%+v", x, y, got, want)
			}
		}
	}
}

func TestRotateHuePrimaries(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})

	out := RotateHue(img, 120)
	got := out.RGBAAt(0, 0)
	if got.G != 255 || got.R > 1 || got.B > 1 {
		t.Errorf("red rotated 120 degrees = %+v, want green", got)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
