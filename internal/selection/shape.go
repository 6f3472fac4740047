// Package selection implements the floating-selection engine: outline
// drawing, pixel capture with an alpha mask, interactive move / scale /
// rotate with live preview, and the two-phase commit back into the
// active layer.
package selection

import (
	"image"
	"math"

	"pixelpaint/internal/raster"
	"pixelpaint/pkg/geometry"
)

// Shape supplies the geometry-variant behavior the shared engine needs:
// mask generation, the hit-test polygon, and the outline used for the
// dashed preview. All other transform and commit logic is shared.
type Shape interface {
	Kind() string

	// GenerateMask rasterizes the shape's coverage into a mask the
	// same size as rect, full opacity inside and transparent outside.
	GenerateMask(rect geometry.RectInt) *image.Alpha

	// HitPolygon returns the untransformed polygon, in layer
	// coordinates, used for interior hit-testing when the selection
	// occupies rect.
	HitPolygon(rect geometry.RectInt) []geometry.Point2D

	// OutlinePoints returns the untransformed outline polyline used
	// for the dashed preview when the selection occupies rect.
	OutlinePoints(rect geometry.RectInt) []geometry.Point2D
}

// rectCornersCW returns rect corners in clockwise winding order.
func rectCornersCW(rect geometry.RectInt) []geometry.Point2D {
	c := rect.Corners() // tl, tr, bl, br
	return []geometry.Point2D{c[0], c[1], c[3], c[2]}
}

// RectShape selects an axis-aligned rectangle.
type RectShape struct{}

func (RectShape) Kind() string { return "rectangle" }

func (RectShape) GenerateMask(rect geometry.RectInt) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, rect.Width, rect.Height))
	raster.FillRectAlpha(mask, 0xff)
	return mask
}

func (RectShape) HitPolygon(rect geometry.RectInt) []geometry.Point2D {
	return rectCornersCW(rect)
}

func (RectShape) OutlinePoints(rect geometry.RectInt) []geometry.Point2D {
	return rectCornersCW(rect)
}

// EllipseShape selects the ellipse inscribed in the dragged rectangle.
// Hit-testing uses the bounding rectangle, matching the handle layout.
type EllipseShape struct{}

func (EllipseShape) Kind() string { return "ellipse" }

func (EllipseShape) GenerateMask(rect geometry.RectInt) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, rect.Width, rect.Height))
	raster.FillEllipseAlpha(mask)
	return mask
}

func (EllipseShape) HitPolygon(rect geometry.RectInt) []geometry.Point2D {
	return rectCornersCW(rect)
}

// OutlinePoints samples the inscribed ellipse so the dashed preview
// follows the curve rather than the bounding box.
func (EllipseShape) OutlinePoints(rect geometry.RectInt) []geometry.Point2D {
	const segments = 48
	c := rect.Center()
	rx := float64(rect.Width) / 2
	ry := float64(rect.Height) / 2
	pts := make([]geometry.Point2D, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		pts[i] = geometry.Point2D{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

// PolygonShape selects a freehand polygon. Vertices are stored
// normalized to the capture rectangle so the hit polygon follows the
// selection as it is moved or resized.
type PolygonShape struct {
	normalized []geometry.Point2D
}

// NewPolygonShape builds a polygon shape from vertices in layer
// coordinates and the bounding rect they were captured against.
func NewPolygonShape(vertices []geometry.Point2D, rect geometry.RectInt) *PolygonShape {
	norm := make([]geometry.Point2D, len(vertices))
	w := float64(rect.Width)
	h := float64(rect.Height)
	for i, v := range vertices {
		norm[i] = geometry.Point2D{
			X: (v.X - float64(rect.X)) / w,
			Y: (v.Y - float64(rect.Y)) / h,
		}
	}
	return &PolygonShape{normalized: norm}
}

func (*PolygonShape) Kind() string { return "polygon" }

func (s *PolygonShape) GenerateMask(rect geometry.RectInt) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, rect.Width, rect.Height))
	local := make([]geometry.Point2D, len(s.normalized))
	for i, v := range s.normalized {
		local[i] = geometry.Point2D{X: v.X * float64(rect.Width), Y: v.Y * float64(rect.Height)}
	}
	raster.FillPolygonAlpha(mask, local)
	return mask
}

func (s *PolygonShape) HitPolygon(rect geometry.RectInt) []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.normalized))
	for i, v := range s.normalized {
		out[i] = geometry.Point2D{
			X: float64(rect.X) + v.X*float64(rect.Width),
			Y: float64(rect.Y) + v.Y*float64(rect.Height),
		}
	}
	return out
}

func (s *PolygonShape) OutlinePoints(rect geometry.RectInt) []geometry.Point2D {
	return s.HitPolygon(rect)
}
