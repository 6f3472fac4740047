package raster

import (
	"image"
	"math"

	"pixelpaint/pkg/geometry"

	xdraw "golang.org/x/image/draw"
)

// Resample returns src scaled to w x h using bilinear interpolation.
func Resample(src *image.RGBA, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// DrawTransformed composites src over dst under a similarity transform.
// src is treated as occupying rect in dst coordinates; the transform rotates
// by rotationDeg and uniformly scales by scale about pivot. Destination
// pixels are inverse-mapped back into src and sampled bilinearly, so the
// result matches the transform used for hit-testing and handle placement.
func DrawTransformed(dst *image.RGBA, src *image.RGBA, rect geometry.RectInt, pivot geometry.Point2D, scale, rotationDeg float64) {
	inv, ok := geometry.Similarity(pivot, scale, rotationDeg).Inverse()
	if !ok {
		return
	}

	// Bounding box of the transformed rect, clipped to dst.
	fwd := geometry.Similarity(pivot, scale, rotationDeg)
	corners := rect.Corners()
	var pts []geometry.Point2D
	for _, c := range corners {
		pts = append(pts, fwd.Apply(c))
	}
	box := geometry.BoundingBoxInt(pts)

	db := dst.Bounds()
	x1 := maxInt(box.X-1, db.Min.X)
	y1 := maxInt(box.Y-1, db.Min.Y)
	x2 := minInt(box.X+box.Width+1, db.Max.X)
	y2 := minInt(box.Y+box.Height+1, db.Max.Y)

	ox := float64(rect.X)
	oy := float64(rect.Y)

	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			// Sample at the pixel center.
			q := inv.Apply(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			sx := q.X - ox - 0.5
			sy := q.Y - oy - 0.5
			c, ok := sampleBilinear(src, sx, sy)
			if !ok {
				continue
			}
			blendPremultiplied(dst, x, y, c)
		}
	}
}

// premulRGBA is a premultiplied color sample with 16-bit headroom.
type premulRGBA struct {
	r, g, b, a float64
}

// sampleBilinear samples src at a fractional position with premultiplied
// bilinear filtering. Returns ok=false when the sample is fully outside the
// source or fully transparent.
func sampleBilinear(src *image.RGBA, x, y float64) (premulRGBA, bool) {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	if x < -1 || y < -1 || x > float64(w) || y > float64(h) {
		return premulRGBA{}, false
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var out premulRGBA
	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			px := x0 + dx
			py := y0 + dy
			if px < 0 || py < 0 || px >= w || py >= h {
				continue
			}
			wx := fx
			if dx == 0 {
				wx = 1 - fx
			}
			wy := fy
			if dy == 0 {
				wy = 1 - fy
			}
			weight := wx * wy
			if weight <= 0 {
				continue
			}
			c := src.RGBAAt(b.Min.X+px, b.Min.Y+py)
			a := float64(c.A)
			out.r += float64(c.R) * a / 255 * weight
			out.g += float64(c.G) * a / 255 * weight
			out.b += float64(c.B) * a / 255 * weight
			out.a += a * weight
		}
	}
	if out.a < 0.5 {
		return premulRGBA{}, false
	}
	return out, true
}

// blendPremultiplied composites a premultiplied sample over dst at (x, y).
func blendPremultiplied(dst *image.RGBA, x, y int, s premulRGBA) {
	i := dst.PixOffset(x, y)
	da := float64(dst.Pix[i+3])
	inv := 1 - s.a/255

	dr := float64(dst.Pix[i]) * da / 255
	dg := float64(dst.Pix[i+1]) * da / 255
	db := float64(dst.Pix[i+2]) * da / 255

	or := s.r + dr*inv
	og := s.g + dg*inv
	ob := s.b + db*inv
	oa := s.a + da*inv

	if oa < 0.5 {
		dst.Pix[i] = 0
		dst.Pix[i+1] = 0
		dst.Pix[i+2] = 0
		dst.Pix[i+3] = 0
		return
	}
	dst.Pix[i] = clamp8(or * 255 / oa)
	dst.Pix[i+1] = clamp8(og * 255 / oa)
	dst.Pix[i+2] = clamp8(ob * 255 / oa)
	dst.Pix[i+3] = clamp8(oa)
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
