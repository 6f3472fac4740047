package tool

import (
	"image"
	"math"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/raster"
	"pixelpaint/pkg/geometry"
)

// ShapeKind selects which shape a ShapeTool draws.
type ShapeKind int

const (
	ShapeLine ShapeKind = iota
	ShapeRect
	ShapeEllipse
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeLine:
		return "line"
	case ShapeRect:
		return "rectangle"
	case ShapeEllipse:
		return "ellipse"
	default:
		return "shape"
	}
}

// ShapeTool draws a line, rectangle or ellipse by dragging. A live
// preview is shown on the overlay; the shape commits on release.
// Holding Shift constrains lines to 45 degree steps and rectangles and
// ellipses to squares and circles.
type ShapeTool struct {
	ed       *editor.Editor
	kind     ShapeKind
	dragging bool
	start    geometry.Point2D
	current  geometry.Point2D
	shift    bool
}

// NewShapeTool creates a shape tool of the given kind.
func NewShapeTool(ed *editor.Editor, kind ShapeKind) *ShapeTool {
	return &ShapeTool{ed: ed, kind: kind}
}

func (t *ShapeTool) Name() string { return t.kind.String() }

func (t *ShapeTool) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	t.dragging = true
	t.start = ev.Pos
	t.current = ev.Pos
	t.shift = ev.Shift
	t.updatePreview()
}

func (t *ShapeTool) PointerMove(ev PointerEvent) {
	if !t.dragging {
		return
	}
	t.current = ev.Pos
	t.shift = ev.Shift
	t.updatePreview()
}

func (t *ShapeTool) PointerUp(ev PointerEvent) {
	if !t.dragging {
		return
	}
	t.dragging = false
	t.current = ev.Pos
	t.shift = ev.Shift
	t.ed.SetOverlay(nil)

	end := t.constrainedEnd()
	col := t.ed.Foreground()
	size := t.ed.BrushSize()
	start := t.start
	kind := t.kind
	err := t.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		switch kind {
		case ShapeLine:
			raster.DrawLine(img, int(start.X), int(start.Y), int(end.X), int(end.Y), col, size)
		case ShapeRect:
			raster.StrokeRect(img, dragRect(start, end), col, size)
		case ShapeEllipse:
			raster.StrokeEllipse(img, dragRect(start, end), col, size)
		}
		return nil
	}, true)
	if err != nil {
		t.ed.NotifyStatus(err.Error())
	}
}

func (t *ShapeTool) KeyDown(key string) bool { return false }

func (t *ShapeTool) Deactivate() {
	t.dragging = false
	t.ed.SetOverlay(nil)
}

func (t *ShapeTool) ExternalOperation(name string) {
	t.dragging = false
	t.ed.SetOverlay(nil)
}

// constrainedEnd returns the drag endpoint after the Shift constraint.
func (t *ShapeTool) constrainedEnd() geometry.Point2D {
	if !t.shift {
		return t.current
	}
	dx := t.current.X - t.start.X
	dy := t.current.Y - t.start.Y
	if t.kind == ShapeLine {
		// Snap to the nearest 45 degree direction.
		angle := math.Atan2(dy, dx)
		step := math.Pi / 4
		angle = math.Round(angle/step) * step
		length := math.Hypot(dx, dy)
		return geometry.Point2D{
			X: t.start.X + length*math.Cos(angle),
			Y: t.start.Y + length*math.Sin(angle),
		}
	}
	// Square constraint: equal extents, keeping drag direction.
	side := math.Max(math.Abs(dx), math.Abs(dy))
	if dx < 0 {
		dx = -side
	} else {
		dx = side
	}
	if dy < 0 {
		dy = -side
	} else {
		dy = side
	}
	return geometry.Point2D{X: t.start.X + dx, Y: t.start.Y + dy}
}

func (t *ShapeTool) updatePreview() {
	end := t.constrainedEnd()
	overlay := raster.NewBuffer(t.ed.Stack().Width(), t.ed.Stack().Height())
	col := t.ed.Foreground()
	size := t.ed.BrushSize()
	switch t.kind {
	case ShapeLine:
		raster.DrawLine(overlay, int(t.start.X), int(t.start.Y), int(end.X), int(end.Y), col, size)
	case ShapeRect:
		raster.StrokeRect(overlay, dragRect(t.start, end), col, size)
	case ShapeEllipse:
		raster.StrokeEllipse(overlay, dragRect(t.start, end), col, size)
	}
	t.ed.SetOverlay(overlay)
}

// dragRect builds a normalized rectangle from two drag corners.
func dragRect(a, b geometry.Point2D) geometry.RectInt {
	r := geometry.RectInt{
		X:      int(a.X),
		Y:      int(a.Y),
		Width:  int(b.X) - int(a.X),
		Height: int(b.Y) - int(a.Y),
	}
	return r.Normalized()
}
