package raster

import (
	"image"
	"image/color"

	"pixelpaint/pkg/geometry"
)

// DrawLine draws a line between two points using Bresenham's algorithm.
func DrawLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := dst.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		// Draw thick point
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					dst.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// BlendLine draws a line like DrawLine but composites with source-over
// instead of replacing pixels, so translucent strokes blend with the
// layer underneath. Coverage is rasterized first so overlapping thick
// stamps blend each pixel only once.
func BlendLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	box := image.Rect(minInt(x1, x2), minInt(y1, y2), maxInt(x1, x2)+1, maxInt(y1, y2)+1)
	box = box.Inset(-thickness).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	mask := image.NewAlpha(box)

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				mask.SetAlpha(x1+s, y1+t, color.Alpha{A: 0xff})
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}

	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if mask.AlphaAt(x, y).A != 0 {
				BlendPixel(dst, x, y, col)
			}
		}
	}
}

// DrawDashedLine draws a 4-on/4-off dashed line between two points.
func DrawDashedLine(dst *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := dst.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	step := 0

	for {
		if step%8 < 4 && x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			dst.SetRGBA(x1, y1, col)
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// StrokeRect draws a rectangle outline.
func StrokeRect(dst *image.RGBA, r geometry.RectInt, col color.RGBA, thickness int) {
	x2 := r.X + r.Width
	y2 := r.Y + r.Height
	DrawLine(dst, r.X, r.Y, x2, r.Y, col, thickness)
	DrawLine(dst, x2, r.Y, x2, y2, col, thickness)
	DrawLine(dst, x2, y2, r.X, y2, col, thickness)
	DrawLine(dst, r.X, y2, r.X, r.Y, col, thickness)
}

// FillRect fills a rectangle with a solid color, blending by alpha.
func FillRect(dst *image.RGBA, r geometry.RectInt, col color.RGBA) {
	bounds := dst.Bounds()
	for y := r.Y; y < r.Y+r.Height; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := r.X; x < r.X+r.Width; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			BlendPixel(dst, x, y, col)
		}
	}
}

// FillEllipse fills the ellipse inscribed in r, blending by alpha.
func FillEllipse(dst *image.RGBA, r geometry.RectInt, col color.RGBA) {
	bounds := dst.Bounds()
	cx := float64(r.X) + float64(r.Width)/2
	cy := float64(r.Y) + float64(r.Height)/2
	rx := float64(r.Width) / 2
	ry := float64(r.Height) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := r.Y; y < r.Y+r.Height; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := r.X; x < r.X+r.Width; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			nx := (float64(x) + 0.5 - cx) / rx
			ny := (float64(y) + 0.5 - cy) / ry
			if nx*nx+ny*ny <= 1.0 {
				BlendPixel(dst, x, y, col)
			}
		}
	}
}

// StrokeEllipse draws the outline of the ellipse inscribed in r.
func StrokeEllipse(dst *image.RGBA, r geometry.RectInt, col color.RGBA, thickness int) {
	bounds := dst.Bounds()
	cx := float64(r.X) + float64(r.Width)/2
	cy := float64(r.Y) + float64(r.Height)/2
	rx := float64(r.Width) / 2
	ry := float64(r.Height) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	inner := float64(thickness)
	for y := r.Y - thickness; y <= r.Y+r.Height+thickness; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := r.X - thickness; x <= r.X+r.Width+thickness; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			nx := (float64(x) + 0.5 - cx) / rx
			ny := (float64(y) + 0.5 - cy) / ry
			d := nx*nx + ny*ny
			lo := (rx - inner) / rx * (ry - inner) / ry
			if d <= 1.0 && d >= lo {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}

// scanlineCrossings returns the sorted x positions where polygon edges cross
// the horizontal line at y.
func scanlineCrossings(points []geometry.Point2D, y float64) []float64 {
	var xs []float64
	n := len(points)
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		if (p1.Y <= y && p2.Y > y) || (p2.Y <= y && p1.Y > y) {
			t := (y - p1.Y) / (p2.Y - p1.Y)
			xs = append(xs, p1.X+t*(p2.X-p1.X))
		}
	}
	// Insertion sort; crossing counts are tiny.
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
	return xs
}

// FillRectAlpha sets the given coverage over the whole mask.
func FillRectAlpha(mask *image.Alpha, coverage uint8) {
	for i := range mask.Pix {
		mask.Pix[i] = coverage
	}
}

// FillEllipseAlpha rasterizes the ellipse inscribed in the mask's bounds at
// full coverage, with a one-pixel antialiased rim.
func FillEllipseAlpha(mask *image.Alpha) {
	b := mask.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w <= 0 || h <= 0 {
		return
	}
	cx := w / 2
	cy := h / 2
	rx := w / 2
	ry := h / 2
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			nx := (float64(x) + 0.5 - cx) / rx
			ny := (float64(y) + 0.5 - cy) / ry
			d := nx*nx + ny*ny
			switch {
			case d <= 0.94:
				mask.Pix[y*mask.Stride+x] = 0xff
			case d <= 1.0:
				// Linear falloff across the rim.
				cov := (1.0 - d) / 0.06
				mask.Pix[y*mask.Stride+x] = uint8(cov * 255)
			}
		}
	}
}

// FillPolygonAlpha rasterizes a polygon into the mask at full coverage using
// the even-odd rule. Points are in mask-local coordinates.
func FillPolygonAlpha(mask *image.Alpha, points []geometry.Point2D) {
	if len(points) < 3 {
		return
	}
	b := mask.Bounds()
	for y := 0; y < b.Dy(); y++ {
		xs := scanlineCrossings(points, float64(y)+0.5)
		for i := 0; i+1 < len(xs); i += 2 {
			x1 := int(xs[i])
			x2 := int(xs[i+1])
			if x1 < 0 {
				x1 = 0
			}
			if x2 >= b.Dx() {
				x2 = b.Dx() - 1
			}
			for x := x1; x <= x2; x++ {
				mask.Pix[y*mask.Stride+x] = 0xff
			}
		}
	}
}
