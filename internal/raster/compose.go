// Package raster provides pixel-level compositing and drawing primitives
// for RGBA buffers.
package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// NewBuffer allocates a transparent RGBA buffer of the given size.
func NewBuffer(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Clone returns an independent deep copy of an RGBA buffer.
func Clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// CopyRect copies the pixels of src within rect into a new buffer of the
// same size as rect. Pixels outside src's bounds are left transparent.
func CopyRect(src *image.RGBA, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

// Over draws src onto dst at the given offset using source-over compositing.
func Over(dst *image.RGBA, src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

// ApplyMask multiplies dst's alpha channel by the mask's coverage
// (destination-in). RGB channels are unchanged. The mask must be the same
// size as dst.
func ApplyMask(dst *image.RGBA, mask *image.Alpha) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.AlphaAt(x-b.Min.X+mask.Rect.Min.X, y-b.Min.Y+mask.Rect.Min.Y).A
			if m == 0xff {
				continue
			}
			i := dst.PixOffset(x, y)
			a := dst.Pix[i+3]
			dst.Pix[i+3] = uint8(uint32(a) * uint32(m) / 0xff)
		}
	}
}

// EraseMask clears dst's alpha where the mask has coverage
// (destination-out), stamping the mask at the given offset. Pixels fully
// covered by the mask become fully transparent; partial coverage reduces
// alpha proportionally.
func EraseMask(dst *image.RGBA, mask *image.Alpha, at image.Point) {
	mb := mask.Bounds()
	db := dst.Bounds()
	for my := mb.Min.Y; my < mb.Max.Y; my++ {
		dy := at.Y + my - mb.Min.Y
		if dy < db.Min.Y || dy >= db.Max.Y {
			continue
		}
		for mx := mb.Min.X; mx < mb.Max.X; mx++ {
			dx := at.X + mx - mb.Min.X
			if dx < db.Min.X || dx >= db.Max.X {
				continue
			}
			m := mask.AlphaAt(mx, my).A
			if m == 0 {
				continue
			}
			i := dst.PixOffset(dx, dy)
			a := dst.Pix[i+3]
			dst.Pix[i+3] = uint8(uint32(a) * uint32(0xff-m) / 0xff)
		}
	}
}

// BlendPixel composites a straight-alpha source color over the destination
// pixel at (x, y).
func BlendPixel(dst *image.RGBA, x, y int, src color.RGBA) {
	if src.A == 0 {
		return
	}
	if src.A == 0xff {
		dst.SetRGBA(x, y, src)
		return
	}
	d := dst.RGBAAt(x, y)
	sa := uint32(src.A)
	inv := 0xff - sa
	out := color.RGBA{
		R: uint8((uint32(src.R)*sa + uint32(d.R)*inv) / 0xff),
		G: uint8((uint32(src.G)*sa + uint32(d.G)*inv) / 0xff),
		B: uint8((uint32(src.B)*sa + uint32(d.B)*inv) / 0xff),
		A: uint8(sa + uint32(d.A)*inv/0xff),
	}
	dst.SetRGBA(x, y, out)
}
