package tool

import (
	"image"
	"image/color"
	"math"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/raster"
	"pixelpaint/pkg/geometry"
)

// commitClickDistance is how far from the edit position a click must
// land to commit the text instead of being ignored.
const commitClickDistance = 100

// TextTool places text by typing directly on the canvas. A click
// starts editing at that position; typed characters appear in a live
// preview. Enter or a click away from the text commits, Escape
// discards. Glyphs come from the bitmap label font, scaled by the
// brush size.
type TextTool struct {
	ed      *editor.Editor
	editing bool
	pos     geometry.Point2D
	text    []rune
}

// NewTextTool creates a text tool.
func NewTextTool(ed *editor.Editor) *TextTool {
	return &TextTool{ed: ed}
}

func (t *TextTool) Name() string { return "text" }

func (t *TextTool) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	if t.editing {
		if ev.Pos.Distance(t.pos) > commitClickDistance {
			t.commit()
		}
		return
	}
	t.editing = true
	t.pos = ev.Pos
	t.text = nil
	t.ed.NotifyStatus("Type text. Enter commits, Escape cancels.")
	t.updatePreview()
}

func (t *TextTool) PointerMove(ev PointerEvent) {}
func (t *TextTool) PointerUp(ev PointerEvent)   {}

func (t *TextTool) KeyDown(key string) bool {
	if !t.editing {
		return false
	}
	switch key {
	case "Return", "Enter":
		t.commit()
	case "Escape":
		t.cancel()
	case "BackSpace":
		if len(t.text) > 0 {
			t.text = t.text[:len(t.text)-1]
			t.updatePreview()
		}
	case "Space":
		t.text = append(t.text, ' ')
		t.updatePreview()
	default:
		// Printable keys arrive as their character ("A", "0", "-").
		r := []rune(key)
		if len(r) != 1 {
			return false
		}
		t.text = append(t.text, r[0])
		t.updatePreview()
	}
	return true
}

func (t *TextTool) Deactivate() { t.cancel() }

func (t *TextTool) ExternalOperation(name string) { t.cancel() }

func (t *TextTool) scale() int {
	s := t.ed.BrushSize()
	if s < 1 {
		s = 1
	}
	return s
}

func (t *TextTool) commit() {
	text := string(t.text)
	if text != "" {
		col := t.ed.Foreground()
		x, y := int(t.pos.X), int(t.pos.Y)
		scale := t.scale()
		err := t.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
			raster.DrawLabel(img, text, x, y, col, scale)
			return nil
		}, true)
		if err != nil {
			t.ed.NotifyStatus(err.Error())
		}
	}
	t.endEdit()
}

func (t *TextTool) cancel() {
	t.endEdit()
}

func (t *TextTool) endEdit() {
	if !t.editing {
		return
	}
	t.editing = false
	t.text = nil
	t.ed.SetOverlay(nil)
}

func (t *TextTool) updatePreview() {
	overlay := raster.NewBuffer(t.ed.Stack().Width(), t.ed.Stack().Height())
	scale := t.scale()
	x, y := int(t.pos.X), int(t.pos.Y)

	// Backdrop sized to the text, with room for the caret.
	w := raster.LabelWidth(string(t.text), scale) + 4*scale
	h := 5*scale + 2
	w = int(math.Max(float64(w), float64(8*scale)))
	box := geometry.RectInt{X: x - 2, Y: y - 2, Width: w + 4, Height: h + 4}
	raster.FillRect(overlay, box, color.RGBA{255, 255, 255, 100})
	raster.StrokeRect(overlay, box, color.RGBA{0, 150, 255, 255}, 1)

	raster.DrawLabel(overlay, string(t.text), x, y, t.ed.Foreground(), scale)
	t.ed.SetOverlay(overlay)
}
