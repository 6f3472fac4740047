package raster

import (
	"image"
	"image/color"
	"testing"
)

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyMask(t *testing.T) {
	img := solidRGBA(4, 4, color.RGBA{200, 100, 50, 255})
	mask := image.NewAlpha(image.Rect(0, 0, 4, 4))
	// Opaque left half, transparent right half.
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: 255})
		}
	}

	ApplyMask(img, mask)

	if got := img.RGBAAt(0, 0); got.A != 255 {
		t.Errorf("masked-in pixel alpha = %d, want 255", got.A)
	}
	if got := img.RGBAAt(3, 3); got.A != 0 {
		t.Errorf("masked-out pixel alpha = %d, want 0", got.A)
	}
	// RGB channels are untouched by destination-in.
	if got := img.RGBAAt(3, 3); got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("masked-out pixel RGB changed: %+v", got)
	}
}

func TestApplyMaskPartialCoverage(t *testing.T) {
	img := solidRGBA(1, 1, color.RGBA{10, 20, 30, 200})
	mask := image.NewAlpha(image.Rect(0, 0, 1, 1))
	mask.SetAlpha(0, 0, color.Alpha{A: 128})

	ApplyMask(img, mask)

	want := uint8(uint32(200) * 128 / 255)
	if got := img.RGBAAt(0, 0).A; got != want {
		t.Errorf("partial coverage alpha = %d, want %d", got, want)
	}
}

func TestEraseMask(t *testing.T) {
	img := solidRGBA(10, 10, color.RGBA{255, 0, 0, 255})
	mask := image.NewAlpha(image.Rect(0, 0, 4, 4))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}

	EraseMask(img, mask, image.Point{3, 3})

	// Stamped area is cleared.
	for y := 3; y < 7; y++ {
		for x := 3; x < 7; x++ {
			if got := img.RGBAAt(x, y).A; got != 0 {
				t.Fatalf("erased pixel (%d,%d) alpha = %d, want 0", x, y, got)
			}
		}
	}
	// Outside the stamp the layer is untouched.
	if got := img.RGBAAt(0, 0).A; got != 255 {
		t.Errorf("pixel outside stamp alpha = %d, want 255", got)
	}
	if got := img.RGBAAt(7, 7).A; got != 255 {
		t.Errorf("pixel outside stamp alpha = %d, want 255", got)
	}
}

func TestEraseMaskOffCanvas(t *testing.T) {
	img := solidRGBA(4, 4, color.RGBA{0, 255, 0, 255})
	mask := image.NewAlpha(image.Rect(0, 0, 4, 4))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}

	// Stamp partially off the top-left corner.
	EraseMask(img, mask, image.Point{-2, -2})

	if got := img.RGBAAt(1, 1).A; got != 0 {
		t.Errorf("overlapping pixel alpha = %d, want 0", got)
	}
	if got := img.RGBAAt(3, 3).A; got != 255 {
		t.Errorf("non-overlapping pixel alpha = %d, want 255", got)
	}
}

func TestBlendPixel(t *testing.T) {
	img := solidRGBA(1, 1, color.RGBA{0, 0, 255, 255})

	// Fully opaque source replaces.
	BlendPixel(img, 0, 0, color.RGBA{255, 0, 0, 255})
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("opaque blend = %+v", got)
	}

	// Fully transparent source is a no-op.
	BlendPixel(img, 0, 0, color.RGBA{0, 255, 0, 0})
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("transparent blend changed pixel: %+v", got)
	}

	// 50% blend lands between source and destination.
	BlendPixel(img, 0, 0, color.RGBA{0, 0, 0, 128})
	got := img.RGBAAt(0, 0)
	if got.R < 120 || got.R > 135 {
		t.Errorf("half blend R = %d, want ~127", got.R)
	}
}

func TestCopyRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(5, 5, color.RGBA{1, 2, 3, 4})

	dst := CopyRect(src, image.Rect(4, 4, 8, 8))
	if got := dst.Bounds(); got.Dx() != 4 || got.Dy() != 4 {
		t.Fatalf("copy size = %v", got)
	}
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("copied pixel = %+v", got)
	}

	// Mutating the copy must not touch the source.
	dst.SetRGBA(1, 1, color.RGBA{9, 9, 9, 9})
	if got := src.RGBAAt(5, 5); got != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("source aliased by copy: %+v", got)
	}
}
