package selection

import (
	"image"

	"pixelpaint/internal/raster"
	"pixelpaint/pkg/geometry"
)

// Host is the collaborator surface the selection engine needs from the
// document controller. It is deliberately narrow so the engine can be
// driven headless in tests.
type Host interface {
	ActiveLayerPixels(rect image.Rectangle) (*image.RGBA, error)
	DrawOnActiveLayer(fn func(*image.RGBA) error, saveHistory bool) error
	SetOverlay(img *image.RGBA)
	NotifyStatus(msg string)
	CanvasBounds() image.Rectangle
}

// Region is a floating selection: captured pixels, their mask, and the
// interactive transform applied on top.
type Region struct {
	Shape Shape

	// CaptureRect is the bounding rect at capture time. The commit's
	// erase phase always targets this footprint.
	CaptureRect geometry.RectInt

	// Rect is the current bounding rect, mutated by move and resize.
	Rect geometry.RectInt

	// Mask holds the selection coverage, same size as CaptureRect.
	Mask *image.Alpha

	// Content holds the captured pixels with the mask already applied
	// as alpha, same size as CaptureRect.
	Content *image.RGBA

	// Scale is the uniform scale factor, clamped to [0.1, 10.0].
	Scale float64

	// Rotation is the rotation angle in degrees, in [0, 360).
	Rotation float64
}

// Capture lifts the active layer's pixels under the shape into a new
// floating region. The layer itself is not modified; removal of the
// source pixels is deferred to commit so cancel leaves no trace.
func Capture(host Host, shape Shape, rect geometry.RectInt) (*Region, error) {
	pixels, err := host.ActiveLayerPixels(rect.ImageRect())
	if err != nil {
		return nil, err
	}

	mask := shape.GenerateMask(rect)
	raster.ApplyMask(pixels, mask)

	return &Region{
		Shape:       shape,
		CaptureRect: rect,
		Rect:        rect,
		Mask:        mask,
		Content:     pixels,
		Scale:       1.0,
		Rotation:    0.0,
	}, nil
}

// Pivot returns the transform pivot: the current rect's center.
func (r *Region) Pivot() geometry.Point2D {
	return r.Rect.Center()
}

// Transform returns the current similarity transform about the pivot.
func (r *Region) Transform() geometry.AffineTransform {
	return geometry.Similarity(r.Pivot(), r.Scale, r.Rotation)
}

// TransformedCorners returns the current rect's corners under the
// current transform, in clockwise order (tl, tr, br, bl).
func (r *Region) TransformedCorners() [4]geometry.Point2D {
	t := r.Transform()
	cw := rectCornersCW(r.Rect)
	return [4]geometry.Point2D{t.Apply(cw[0]), t.Apply(cw[1]), t.Apply(cw[2]), t.Apply(cw[3])}
}

// HitPolygon returns the transformed polygon used for interior
// hit-testing.
func (r *Region) HitPolygon() []geometry.Point2D {
	return geometry.TransformPolygon(r.Transform(), r.Shape.HitPolygon(r.Rect))
}

// Contains reports whether a layer-space point lies inside the
// transformed selection.
func (r *Region) Contains(p geometry.Point2D) bool {
	return geometry.PointInPolygon(p, r.HitPolygon())
}
