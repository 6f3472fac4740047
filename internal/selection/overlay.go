package selection

import (
	"fmt"
	"image"
	"image/color"

	"pixelpaint/internal/raster"
	"pixelpaint/pkg/colorutil"
	"pixelpaint/pkg/geometry"
)

var (
	antBlack     = colorutil.Black
	antWhite     = colorutil.White
	handleFill   = colorutil.White
	handleBorder = colorutil.Black
	scaleFill    = color.RGBA{0, 120, 215, 255}
	rotateFill   = color.RGBA{0, 180, 60, 255}
	hintColor    = colorutil.Yellow
)

// drawAnts draws a marching-ants style polygon outline: a solid black
// line with a white dash pattern on top.
func drawAnts(dst *image.RGBA, pts []geometry.Point2D, closed bool) {
	n := len(pts)
	if n < 2 {
		return
	}
	last := n
	if !closed {
		last = n - 1
	}
	for i := 0; i < last; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		raster.DrawLine(dst, int(a.X), int(a.Y), int(b.X), int(b.Y), antBlack, 1)
		raster.DrawDashedLine(dst, int(a.X), int(a.Y), int(b.X), int(b.Y), antWhite)
	}
}

// drawHandleBox draws a filled handle square centered on c.
func drawHandleBox(dst *image.RGBA, c geometry.Point2D, fill color.RGBA) {
	half := handleSize / 2
	box := geometry.RectInt{
		X:      int(c.X) - half,
		Y:      int(c.Y) - half,
		Width:  handleSize,
		Height: handleSize,
	}
	raster.FillRect(dst, box, fill)
	raster.StrokeRect(dst, box, handleBorder, 1)
}

// RenderOverlay builds the floating-selection preview: the transformed
// content, the dashed outline, handles, pivot cross and a hint line.
func (r *Region) RenderOverlay(host Host) *image.RGBA {
	b := host.CanvasBounds()
	overlay := raster.NewBuffer(b.Dx(), b.Dy())

	// Live content preview under the current transform.
	resampled := raster.Resample(r.Content, r.Rect.Width, r.Rect.Height)
	raster.DrawTransformed(overlay, resampled, r.Rect, r.Pivot(), r.Scale, r.Rotation)

	// Dashed outline following the shape.
	outline := geometry.TransformPolygon(r.Transform(), r.Shape.OutlinePoints(r.Rect))
	drawAnts(overlay, outline, true)

	// Resize handles, then the scale and rotate handles on top.
	for _, h := range allHandles {
		drawHandleBox(overlay, r.ResizeHandlePos(h), handleFill)
	}
	drawHandleBox(overlay, r.ScaleHandlePos(), scaleFill)
	rot := r.RotateHandlePos()
	raster.FillEllipse(overlay, geometry.RectInt{
		X: int(rot.X) - handleSize/2, Y: int(rot.Y) - handleSize/2,
		Width: handleSize, Height: handleSize,
	}, rotateFill)

	// Pivot cross.
	pivot := r.Pivot()
	px, py := int(pivot.X), int(pivot.Y)
	raster.DrawLine(overlay, px-4, py, px+4, py, antWhite, 1)
	raster.DrawLine(overlay, px, py-4, px, py+4, antWhite, 1)

	hint := fmt.Sprintf("SCALE %.0f%% ANGLE %.0f", r.Scale*100, r.Rotation)
	raster.DrawLabel(overlay, hint, 4, 4, hintColor, 2)
	keys := "ENTER COMMIT ESC CANCEL"
	raster.DrawLabel(overlay, keys, b.Dx()-raster.LabelWidth(keys, 2)-4, 4, hintColor, 2)

	return overlay
}

// renderDragOverlay shows the rubber-band outline while an outline drag
// is in progress.
func renderDragOverlay(host Host, shape Shape, rect geometry.RectInt) *image.RGBA {
	b := host.CanvasBounds()
	overlay := raster.NewBuffer(b.Dx(), b.Dy())
	drawAnts(overlay, shape.OutlinePoints(rect), true)
	return overlay
}

// renderPolygonOverlay shows accumulated vertices plus the rubber-band
// segment to the live cursor.
func renderPolygonOverlay(host Host, vertices []geometry.Point2D, cursor geometry.Point2D) *image.RGBA {
	b := host.CanvasBounds()
	overlay := raster.NewBuffer(b.Dx(), b.Dy())

	pts := append(append([]geometry.Point2D{}, vertices...), cursor)
	drawAnts(overlay, pts, false)

	for _, v := range vertices {
		raster.FillRect(overlay, geometry.RectInt{
			X: int(v.X) - 2, Y: int(v.Y) - 2, Width: 5, Height: 5,
		}, antWhite)
	}
	raster.DrawLabel(overlay, "RIGHT CLICK OR ENTER TO CLOSE", 4, 4, hintColor, 2)
	return overlay
}
