package selection

import (
	"math"

	"pixelpaint/internal/tool"
	"pixelpaint/pkg/geometry"
)

// mode is the interaction state of a selection tool. At most one mode
// is active at a time.
type mode int

const (
	modeIdle mode = iota
	modeDrawing
	modeFloating
	modeMoving
	modeScaling
	modeRotating
	modeResizing
)

// Variant selects which outline geometry a selection tool draws.
type Variant int

const (
	VariantRectangle Variant = iota
	VariantEllipse
	VariantPolygon
)

func (v Variant) String() string {
	switch v {
	case VariantRectangle:
		return "select rectangle"
	case VariantEllipse:
		return "select ellipse"
	case VariantPolygon:
		return "select polygon"
	default:
		return "select"
	}
}

// minOutlineExtent is the smallest drag, in pixels, that produces a
// selection; anything smaller is silently discarded.
const minOutlineExtent = 2

// minPolygonVertices is the smallest vertex count a polygon outline
// can close with. Only the count is checked; zero-area polygons are
// accepted.
const minPolygonVertices = 3

// passiveKeys are the keys that do not cancel a floating selection:
// modifiers and navigation. Any key outside this set (other than the
// explicitly handled Enter and Escape) dismisses the pending selection
// so tool shortcuts never leave orphaned floating state.
var passiveKeys = map[string]bool{
	"LeftShift": true, "RightShift": true,
	"LeftControl": true, "RightControl": true,
	"LeftAlt": true, "RightAlt": true,
	"LeftSuper": true, "RightSuper": true,
	"Up": true, "Down": true, "Left": true, "Right": true,
	"Home": true, "End": true,
	"Prior": true, "Next": true,
	"PageUp": true, "PageDown": true,
}

// Tool is the selection tool: one shared transform engine, specialized
// per outline variant. It implements the tool.Tool interface.
type Tool struct {
	host    Host
	variant Variant

	mode mode

	// Rectangle/ellipse drag state.
	dragStart geometry.Point2D
	dragCur   geometry.Point2D
	shift     bool

	// Polygon accumulation state.
	vertices []geometry.Point2D
	cursor   geometry.Point2D

	// Floating region and active gesture state.
	region       *Region
	origScale    float64
	startDist    float64
	origAngle    float64
	startAngle   float64
	lastPos      geometry.Point2D
	activeHandle Handle
}

// NewTool creates a selection tool of the given variant.
func NewTool(host Host, variant Variant) *Tool {
	return &Tool{host: host, variant: variant}
}

func (t *Tool) Name() string { return t.variant.String() }

// Floating reports whether a captured region is pending commit.
func (t *Tool) Floating() bool { return t.region != nil }

// Region returns the floating region, or nil.
func (t *Tool) Region() *Region { return t.region }

func (t *Tool) PointerDown(ev tool.PointerEvent) {
	switch t.mode {
	case modeIdle:
		t.beginOutline(ev)
	case modeDrawing:
		if t.variant != VariantPolygon {
			return
		}
		switch ev.Button {
		case tool.ButtonLeft:
			t.vertices = append(t.vertices, ev.Pos)
			t.cursor = ev.Pos
			t.host.SetOverlay(renderPolygonOverlay(t.host, t.vertices, t.cursor))
		case tool.ButtonRight:
			t.finalizePolygon()
		}
	case modeFloating:
		t.beginGesture(ev)
	}
}

func (t *Tool) PointerMove(ev tool.PointerEvent) {
	p := ev.Pos
	switch t.mode {
	case modeDrawing:
		if t.variant == VariantPolygon {
			t.cursor = p
			t.host.SetOverlay(renderPolygonOverlay(t.host, t.vertices, t.cursor))
			return
		}
		t.dragCur = p
		t.shift = ev.Shift
		t.host.SetOverlay(renderDragOverlay(t.host, t.outlineShape(), t.outlineRect()))
	case modeMoving:
		dx := int(math.Round(p.X - t.lastPos.X))
		dy := int(math.Round(p.Y - t.lastPos.Y))
		if dx == 0 && dy == 0 {
			return
		}
		t.region.Rect = t.region.Rect.Translated(dx, dy)
		t.lastPos.X += float64(dx)
		t.lastPos.Y += float64(dy)
		t.host.SetOverlay(t.region.RenderOverlay(t.host))
	case modeScaling:
		dist := p.Distance(t.region.Pivot())
		if t.startDist < 1e-9 {
			return
		}
		t.region.Scale = geometry.Clamp(t.origScale*dist/t.startDist, 0.1, 10.0)
		t.host.SetOverlay(t.region.RenderOverlay(t.host))
	case modeRotating:
		angle := t.region.Pivot().AngleTo(p)
		t.region.Rotation = geometry.NormalizeAngle(t.origAngle + angle - t.startAngle)
		t.host.SetOverlay(t.region.RenderOverlay(t.host))
	case modeResizing:
		dx := int(math.Round(p.X - t.lastPos.X))
		dy := int(math.Round(p.Y - t.lastPos.Y))
		if dx == 0 && dy == 0 {
			return
		}
		t.region.ApplyResize(t.activeHandle, dx, dy)
		t.lastPos.X += float64(dx)
		t.lastPos.Y += float64(dy)
		t.host.SetOverlay(t.region.RenderOverlay(t.host))
	}
}

func (t *Tool) PointerUp(ev tool.PointerEvent) {
	switch t.mode {
	case modeDrawing:
		if t.variant == VariantPolygon {
			return
		}
		t.dragCur = ev.Pos
		t.shift = ev.Shift
		t.finalizeDrag()
	case modeMoving, modeScaling, modeRotating, modeResizing:
		t.mode = modeFloating
		t.host.SetOverlay(t.region.RenderOverlay(t.host))
	}
}

// KeyDown handles Enter (commit / close polygon) and Escape (cancel).
// While floating, any key outside the passive allow-list cancels the
// selection without consuming the event, so the shortcut it maps to
// still runs.
func (t *Tool) KeyDown(key string) bool {
	switch key {
	case "Escape":
		switch t.mode {
		case modeDrawing:
			t.clearOutline()
			return true
		default:
			if t.region != nil {
				t.cancel()
				return true
			}
		}
		return false
	case "Return", "Enter":
		if t.mode == modeDrawing && t.variant == VariantPolygon {
			t.finalizePolygon()
			return true
		}
		if t.mode == modeFloating {
			t.commitRegion()
			return true
		}
		return false
	}
	if t.region != nil && !passiveKeys[key] {
		t.cancel()
	}
	return false
}

func (t *Tool) Deactivate() {
	if t.region != nil {
		t.cancel()
	}
	t.clearOutline()
}

func (t *Tool) ExternalOperation(name string) {
	t.Deactivate()
}

// beginOutline starts a new outline from idle.
func (t *Tool) beginOutline(ev tool.PointerEvent) {
	if ev.Button != tool.ButtonLeft {
		return
	}
	if t.variant == VariantPolygon {
		t.vertices = []geometry.Point2D{ev.Pos}
		t.cursor = ev.Pos
		t.mode = modeDrawing
		t.host.SetOverlay(renderPolygonOverlay(t.host, t.vertices, t.cursor))
		return
	}
	t.dragStart = ev.Pos
	t.dragCur = ev.Pos
	t.shift = ev.Shift
	t.mode = modeDrawing
}

// outlineShape returns the shape for the in-progress drag outline.
func (t *Tool) outlineShape() Shape {
	if t.variant == VariantEllipse {
		return EllipseShape{}
	}
	return RectShape{}
}

// outlineRect returns the current drag rectangle, with the Shift
// square/circle constraint applied.
func (t *Tool) outlineRect() geometry.RectInt {
	end := t.dragCur
	if t.shift {
		dx := t.dragCur.X - t.dragStart.X
		dy := t.dragCur.Y - t.dragStart.Y
		side := math.Max(math.Abs(dx), math.Abs(dy))
		end = geometry.Point2D{
			X: t.dragStart.X + math.Copysign(side, dx),
			Y: t.dragStart.Y + math.Copysign(side, dy),
		}
	}
	r := geometry.RectInt{
		X:      int(t.dragStart.X),
		Y:      int(t.dragStart.Y),
		Width:  int(end.X) - int(t.dragStart.X),
		Height: int(end.Y) - int(t.dragStart.Y),
	}
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// finalizeDrag closes a rectangle/ellipse outline drag. Drags smaller
// than the minimum extent in either dimension are discarded silently.
func (t *Tool) finalizeDrag() {
	rect := t.outlineRect()
	t.mode = modeIdle
	t.host.SetOverlay(nil)
	if rect.Width < minOutlineExtent || rect.Height < minOutlineExtent {
		return
	}
	t.capture(t.outlineShape(), rect)
}

// finalizePolygon closes the accumulated polygon outline. Fewer than
// three vertices is rejected and accumulation continues.
func (t *Tool) finalizePolygon() {
	if len(t.vertices) < minPolygonVertices {
		t.host.NotifyStatus("polygon selection needs at least 3 points")
		return
	}
	rect := geometry.BoundingBoxInt(t.vertices).Normalized()
	shape := NewPolygonShape(t.vertices, rect)
	t.vertices = nil
	t.mode = modeIdle
	t.host.SetOverlay(nil)
	t.capture(shape, rect)
}

// capture lifts the outline's pixels into a floating region and enters
// floating mode.
func (t *Tool) capture(shape Shape, rect geometry.RectInt) {
	region, err := Capture(t.host, shape, rect)
	if err != nil {
		t.host.NotifyStatus(err.Error())
		return
	}
	t.region = region
	t.mode = modeFloating
	t.host.SetOverlay(region.RenderOverlay(t.host))
}

// beginGesture resolves a pointer-down while floating into a transform
// gesture, or commits when the click lands outside everything.
func (t *Tool) beginGesture(ev tool.PointerEvent) {
	if ev.Button == tool.ButtonRight {
		return
	}
	p := ev.Pos
	action, handle := t.region.HitTest(p)
	switch action {
	case ActionScale:
		t.mode = modeScaling
		t.origScale = t.region.Scale
		t.startDist = p.Distance(t.region.Pivot())
	case ActionRotate:
		t.mode = modeRotating
		t.origAngle = t.region.Rotation
		t.startAngle = t.region.Pivot().AngleTo(p)
	case ActionResize:
		t.mode = modeResizing
		t.activeHandle = handle
		t.lastPos = p
	case ActionMove:
		t.mode = modeMoving
		t.lastPos = p
	case ActionCommit:
		t.commitRegion()
	}
}

// commitRegion writes the floating region back into the layer. A
// rejected draw (locked layer, no layer) keeps the region floating so
// the user can still cancel.
func (t *Tool) commitRegion() {
	if t.region == nil {
		return
	}
	if err := Commit(t.host, t.region); err != nil {
		t.host.NotifyStatus(err.Error())
		t.mode = modeFloating
		return
	}
	t.region = nil
	t.mode = modeIdle
	t.host.SetOverlay(nil)
	t.host.NotifyStatus("selection committed")
}

// cancel discards the floating region without touching the layer or
// the history.
func (t *Tool) cancel() {
	t.region = nil
	t.mode = modeIdle
	t.host.SetOverlay(nil)
	t.host.NotifyStatus("selection cancelled")
}

// clearOutline discards any in-progress outline state.
func (t *Tool) clearOutline() {
	if t.mode == modeDrawing {
		t.host.SetOverlay(nil)
	}
	t.vertices = nil
	if t.mode != modeFloating && t.region == nil {
		t.mode = modeIdle
	}
}
