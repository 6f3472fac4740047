package tool

import (
	"fmt"
	"image"

	"pixelpaint/internal/editor"
)

// PickerTool samples the color under the pointer from the flattened
// composite. The left button sets the foreground color, the right
// button the background color.
type PickerTool struct {
	ed *editor.Editor
}

// NewPickerTool creates an eyedropper tool.
func NewPickerTool(ed *editor.Editor) *PickerTool {
	return &PickerTool{ed: ed}
}

func (t *PickerTool) Name() string { return "picker" }

func (t *PickerTool) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonNone {
		return
	}
	x, y := int(ev.Pos.X), int(ev.Pos.Y)
	composite := t.ed.Stack().Composite()
	if !(image.Point{X: x, Y: y}.In(composite.Bounds())) {
		return
	}
	col := composite.RGBAAt(x, y)

	which := "foreground"
	if ev.Button == ButtonRight {
		t.ed.SetBackground(col)
		which = "background"
	} else {
		t.ed.SetForeground(col)
	}
	t.ed.NotifyStatus(fmt.Sprintf("Picked %s = RGBA(%d, %d, %d, %d)",
		which, col.R, col.G, col.B, col.A))
}

func (t *PickerTool) PointerMove(ev PointerEvent) {}
func (t *PickerTool) PointerUp(ev PointerEvent)   {}

func (t *PickerTool) KeyDown(key string) bool { return false }

func (t *PickerTool) Deactivate() {}

func (t *PickerTool) ExternalOperation(name string) {}
