package selection

import (
	"image"

	"pixelpaint/internal/raster"
)

// Commit writes a floating region back into the active layer as one
// atomic draw with a single history snapshot. The paint is two-phase:
//
//  1. Erase: destination-out stamp of the original untransformed mask
//     at the capture location. The erase always targets the original
//     footprint, never the transformed one, so a moved selection
//     leaves a clean hole behind.
//  2. Paint: source-over draw of the captured content, resampled to
//     the current rect size and placed under the current
//     pivot-rotate-scale transform.
func Commit(host Host, r *Region) error {
	resampled := raster.Resample(r.Content, r.Rect.Width, r.Rect.Height)
	eraseAt := image.Point{X: r.CaptureRect.X, Y: r.CaptureRect.Y}
	rect := r.Rect
	pivot := r.Pivot()
	scale := r.Scale
	rotation := r.Rotation
	mask := r.Mask

	return host.DrawOnActiveLayer(func(img *image.RGBA) error {
		raster.EraseMask(img, mask, eraseAt)
		raster.DrawTransformed(img, resampled, rect, pivot, scale, rotation)
		return nil
	}, true)
}
