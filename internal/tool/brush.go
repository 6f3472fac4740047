package tool

import (
	"image"
	"image/color"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/raster"
	"pixelpaint/pkg/geometry"
)

// BrushTool paints freehand strokes on the active layer. The left
// button paints with the foreground color, the right button with the
// background color. The whole stroke becomes a single history entry:
// the snapshot is taken on the first press, and subsequent drag
// segments draw without one.
type BrushTool struct {
	ed         *editor.Editor
	drawing    bool
	background bool
	last       geometry.Point2D
}

// NewBrushTool creates a brush tool.
func NewBrushTool(ed *editor.Editor) *BrushTool {
	return &BrushTool{ed: ed}
}

func (t *BrushTool) Name() string { return "brush" }

func (t *BrushTool) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonNone {
		return
	}
	t.drawing = true
	t.background = ev.Button == ButtonRight
	t.last = ev.Pos
	t.stroke(ev.Pos, ev.Pos, true)
}

func (t *BrushTool) PointerMove(ev PointerEvent) {
	if !t.drawing {
		return
	}
	t.stroke(t.last, ev.Pos, false)
	t.last = ev.Pos
}

func (t *BrushTool) PointerUp(ev PointerEvent) {
	t.drawing = false
}

func (t *BrushTool) KeyDown(key string) bool { return false }

func (t *BrushTool) Deactivate() { t.drawing = false }

func (t *BrushTool) ExternalOperation(name string) { t.drawing = false }

func (t *BrushTool) stroke(from, to geometry.Point2D, saveHistory bool) {
	col := t.ed.Foreground()
	if t.background {
		col = t.ed.Background()
	}
	col.A = uint8(t.ed.Opacity() * 255)
	size := t.ed.BrushSize()
	err := t.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		raster.BlendLine(img, int(from.X), int(from.Y), int(to.X), int(to.Y), col, size)
		return nil
	}, saveHistory)
	if err != nil {
		t.ed.NotifyStatus(err.Error())
		t.drawing = false
	}
}

// EraserTool clears pixels to transparency along a freehand stroke.
type EraserTool struct {
	ed      *editor.Editor
	drawing bool
	last    geometry.Point2D
}

// NewEraserTool creates an eraser tool.
func NewEraserTool(ed *editor.Editor) *EraserTool {
	return &EraserTool{ed: ed}
}

func (t *EraserTool) Name() string { return "eraser" }

func (t *EraserTool) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	t.drawing = true
	t.last = ev.Pos
	t.erase(ev.Pos, ev.Pos, true)
}

func (t *EraserTool) PointerMove(ev PointerEvent) {
	if !t.drawing {
		return
	}
	t.erase(t.last, ev.Pos, false)
	t.last = ev.Pos
}

func (t *EraserTool) PointerUp(ev PointerEvent) {
	t.drawing = false
}

func (t *EraserTool) KeyDown(key string) bool { return false }

func (t *EraserTool) Deactivate() { t.drawing = false }

func (t *EraserTool) ExternalOperation(name string) { t.drawing = false }

func (t *EraserTool) erase(from, to geometry.Point2D, saveHistory bool) {
	size := t.ed.BrushSize()
	err := t.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		// Stamp a square of transparency along the stroke.
		raster.DrawLine(img, int(from.X), int(from.Y), int(to.X), int(to.Y), color.RGBA{}, size)
		return nil
	}, saveHistory)
	if err != nil {
		t.ed.NotifyStatus(err.Error())
		t.drawing = false
	}
}
