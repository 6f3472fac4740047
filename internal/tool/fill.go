package tool

import (
	"image"
	"image/color"

	"pixelpaint/internal/editor"
)

// FillTool flood-fills the contiguous region under the click with the
// foreground color. Four-connected, exact color match.
type FillTool struct {
	ed *editor.Editor
}

// NewFillTool creates a flood fill tool.
func NewFillTool(ed *editor.Editor) *FillTool {
	return &FillTool{ed: ed}
}

func (t *FillTool) Name() string { return "fill" }

func (t *FillTool) PointerDown(ev PointerEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	col := t.ed.Foreground()
	x, y := int(ev.Pos.X), int(ev.Pos.Y)
	err := t.ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		floodFill(img, x, y, col)
		return nil
	}, true)
	if err != nil {
		t.ed.NotifyStatus(err.Error())
	}
}

func (t *FillTool) PointerMove(ev PointerEvent) {}
func (t *FillTool) PointerUp(ev PointerEvent)   {}

func (t *FillTool) KeyDown(key string) bool { return false }

func (t *FillTool) Deactivate() {}

func (t *FillTool) ExternalOperation(name string) {}

// floodFill replaces the 4-connected region of the seed's color with
// the given color, using an explicit stack to avoid deep recursion.
func floodFill(img *image.RGBA, x, y int, col color.RGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	target := img.RGBAAt(x, y)
	if target == col {
		return
	}

	stack := []image.Point{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X < b.Min.X || p.X >= b.Max.X || p.Y < b.Min.Y || p.Y >= b.Max.Y {
			continue
		}
		if img.RGBAAt(p.X, p.Y) != target {
			continue
		}
		img.SetRGBA(p.X, p.Y, col)
		stack = append(stack,
			image.Point{p.X + 1, p.Y},
			image.Point{p.X - 1, p.Y},
			image.Point{p.X, p.Y + 1},
			image.Point{p.X, p.Y - 1},
		)
	}
}
