// Package canvas provides the zoomable document canvas: it renders the
// layer composite plus the active tool's overlay and forwards pointer
// events to the tool manager in image-space coordinates.
package canvas

import (
	"image"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/tool"
	"pixelpaint/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// recompositeDelay coalesces rapid successive draw calls into one
	// recomposite per frame interval.
	recompositeDelay = 16 * time.Millisecond

	checkerSize = 8
)

// DocumentCanvas displays the composed document with pan and zoom.
type DocumentCanvas struct {
	widget.BaseWidget

	ed    *editor.Editor
	tools *tool.Manager

	raster  *fynecanvas.Raster
	scroll  *zoomScroll
	content *paintSurface
	zoom    float64
	imgSize fyne.Size

	mu        sync.Mutex
	composite *image.RGBA
	pending   bool

	shiftDown bool
	ctrlDown  bool
	altDown   bool

	onZoomChange func(zoom float64)
}

// NewDocumentCanvas creates a canvas bound to an editor and tool
// manager. It re-renders on layer and overlay events, coalescing rapid
// layer changes into one recomposite per frame interval.
func NewDocumentCanvas(ed *editor.Editor, tools *tool.Manager) *DocumentCanvas {
	dc := &DocumentCanvas{
		ed:      ed,
		tools:   tools,
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels
	dc.raster.SetMinSize(dc.imgSize)

	dc.content = newPaintSurface(dc, dc.raster)
	dc.scroll = newZoomScroll(dc.content, dc)

	dc.recomposite()

	ed.On(editor.EventLayersChanged, func(interface{}) { dc.scheduleRecomposite() })
	ed.On(editor.EventDocumentNew, func(interface{}) { dc.scheduleRecomposite() })
	ed.On(editor.EventDocumentOpened, func(interface{}) { dc.scheduleRecomposite() })
	ed.On(editor.EventOverlayChanged, func(interface{}) { dc.Refresh() })

	dc.ExtendBaseWidget(dc)
	return dc
}

// Container returns the canvas container for embedding in layouts.
func (dc *DocumentCanvas) Container() fyne.CanvasObject {
	return dc.scroll
}

// scheduleRecomposite coalesces recomposite requests: the first request
// arms a one-frame timer, later requests within that frame are folded
// into it.
func (dc *DocumentCanvas) scheduleRecomposite() {
	dc.mu.Lock()
	if dc.pending {
		dc.mu.Unlock()
		return
	}
	dc.pending = true
	dc.mu.Unlock()

	time.AfterFunc(recompositeDelay, func() {
		dc.mu.Lock()
		dc.pending = false
		dc.mu.Unlock()
		dc.recomposite()
		dc.Refresh()
	})
}

func (dc *DocumentCanvas) recomposite() {
	out := dc.ed.Stack().Composite()
	dc.mu.Lock()
	dc.composite = out
	dc.mu.Unlock()
	dc.updateContentSize()
}

// SetZoom sets the zoom level, clamped to [0.1, 10.0].
func (dc *DocumentCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	dc.zoom = zoom
	dc.updateContentSize()

	if dc.onZoomChange != nil {
		dc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (dc *DocumentCanvas) Zoom() float64 {
	return dc.zoom
}

// ZoomIn increases the zoom level.
func (dc *DocumentCanvas) ZoomIn() {
	dc.SetZoom(dc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (dc *DocumentCanvas) ZoomOut() {
	dc.SetZoom(dc.zoom / zoomStep)
}

// OnZoomChange sets a callback for zoom changes.
func (dc *DocumentCanvas) OnZoomChange(callback func(zoom float64)) {
	dc.onZoomChange = callback
}

// SetModifiers updates the tracked modifier key state, fed from the
// window's key handlers.
func (dc *DocumentCanvas) SetModifiers(shift, ctrl, alt bool) {
	dc.shiftDown = shift
	dc.ctrlDown = ctrl
	dc.altDown = alt
}

// Refresh refreshes the canvas display.
func (dc *DocumentCanvas) Refresh() {
	dc.raster.Refresh()
}

func (dc *DocumentCanvas) updateContentSize() {
	b := dc.ed.CanvasBounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		dc.imgSize = fyne.NewSize(400, 300)
	} else {
		dc.imgSize = fyne.NewSize(
			float32(float64(b.Dx())*dc.zoom),
			float32(float64(b.Dy())*dc.zoom),
		)
	}

	dc.raster.SetMinSize(dc.imgSize)
	dc.raster.Resize(dc.imgSize)
	if dc.content != nil {
		dc.content.Resize(dc.imgSize)
		dc.content.Refresh()
	}
	dc.raster.Refresh()
	if dc.scroll != nil {
		dc.scroll.Refresh()
	}
}

// imagePos converts a widget-local position to image coordinates.
// Positions inside the scroll container arrive relative to the visible
// viewport, so the scroll offset is added back first.
func (dc *DocumentCanvas) imagePos(pos fyne.Position) geometry.Point2D {
	offset := dc.scroll.Offset()
	return geometry.Point2D{
		X: float64(pos.X+offset.X) / dc.zoom,
		Y: float64(pos.Y+offset.Y) / dc.zoom,
	}
}

func (dc *DocumentCanvas) pointerEvent(pos fyne.Position, btn tool.Button) tool.PointerEvent {
	return tool.PointerEvent{
		Pos:    dc.imagePos(pos),
		Button: btn,
		Shift:  dc.shiftDown,
		Ctrl:   dc.ctrlDown,
		Alt:    dc.altDown,
	}
}

// draw renders the checkerboard, the composite scaled by zoom, and the
// tool overlay.
func (dc *DocumentCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	dc.mu.Lock()
	composite := dc.composite
	dc.mu.Unlock()
	overlay := dc.ed.Overlay()

	light := color.RGBA{200, 200, 200, 255}
	dark := color.RGBA{160, 160, 160, 255}

	for y := 0; y < h; y++ {
		srcY := int(float64(y) / dc.zoom)
		for x := 0; x < w; x++ {
			srcX := int(float64(x) / dc.zoom)

			// Checkerboard shows through transparency.
			bg := light
			if (x/checkerSize+y/checkerSize)%2 == 1 {
				bg = dark
			}
			out := bg

			if composite != nil {
				cb := composite.Bounds()
				if srcX >= cb.Min.X && srcX < cb.Max.X && srcY >= cb.Min.Y && srcY < cb.Max.Y {
					out = blendOver(out, composite.RGBAAt(srcX, srcY))
				}
			}
			if overlay != nil {
				ob := overlay.Bounds()
				if srcX >= ob.Min.X && srcX < ob.Max.X && srcY >= ob.Min.Y && srcY < ob.Max.Y {
					out = blendOver(out, overlay.RGBAAt(srcX, srcY))
				}
			}

			output.SetRGBA(x, y, out)
		}
	}
	return output
}

// blendOver composites a straight-alpha source over an opaque
// background color.
func blendOver(bg, src color.RGBA) color.RGBA {
	if src.A == 255 {
		return src
	}
	if src.A == 0 {
		return bg
	}
	sa := uint32(src.A)
	inv := 255 - sa
	return color.RGBA{
		R: uint8((uint32(src.R)*sa + uint32(bg.R)*inv) / 255),
		G: uint8((uint32(src.G)*sa + uint32(bg.G)*inv) / 255),
		B: uint8((uint32(src.B)*sa + uint32(bg.B)*inv) / 255),
		A: 255,
	}
}

// CreateRenderer implements fyne.Widget.
func (dc *DocumentCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dc.scroll)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *DocumentCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *DocumentCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// paintSurface wraps the raster to receive raw mouse events and feed
// the tool manager.
type paintSurface struct {
	widget.BaseWidget
	canvas *DocumentCanvas
	raster *fynecanvas.Raster
}

func newPaintSurface(dc *DocumentCanvas, raster *fynecanvas.Raster) *paintSurface {
	ps := &paintSurface{canvas: dc, raster: raster}
	ps.ExtendBaseWidget(ps)
	return ps
}

func (ps *paintSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ps.raster)
}

func (ps *paintSurface) MinSize() fyne.Size {
	return ps.raster.MinSize()
}

func (ps *paintSurface) MouseDown(ev *desktop.MouseEvent) {
	btn := tool.ButtonLeft
	if ev.Button == desktop.MouseButtonSecondary {
		btn = tool.ButtonRight
	}
	ps.canvas.tools.PointerDown(ps.canvas.pointerEvent(ev.Position, btn))
	ps.canvas.Refresh()
}

func (ps *paintSurface) MouseUp(ev *desktop.MouseEvent) {
	btn := tool.ButtonLeft
	if ev.Button == desktop.MouseButtonSecondary {
		btn = tool.ButtonRight
	}
	ps.canvas.tools.PointerUp(ps.canvas.pointerEvent(ev.Position, btn))
	ps.canvas.Refresh()
}

func (ps *paintSurface) MouseIn(ev *desktop.MouseEvent) {}

func (ps *paintSurface) MouseMoved(ev *desktop.MouseEvent) {
	ps.canvas.tools.PointerMove(ps.canvas.pointerEvent(ev.Position, tool.ButtonNone))
}

func (ps *paintSurface) MouseOut() {}
