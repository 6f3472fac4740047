package tool

import (
	"image"
	"image/color"
	"testing"
	"time"

	"pixelpaint/internal/editor"
	"pixelpaint/pkg/geometry"
)

func at(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func press(p geometry.Point2D, b Button) PointerEvent {
	return PointerEvent{Pos: p, Button: b}
}

func paintRect(t *testing.T, ed *editor.Editor, r image.Rectangle, c color.RGBA) {
	t.Helper()
	err := ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		return nil
	}, false)
	if err != nil {
		t.Fatalf("paint: %v", err)
	}
}

func activePixels(t *testing.T, ed *editor.Editor) *image.RGBA {
	t.Helper()
	buf, err := ed.ActiveLayerPixels(ed.CanvasBounds())
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestPickerSetsForegroundAndBackground(t *testing.T) {
	ed := editor.New(20, 20)
	red := color.RGBA{220, 40, 10, 255}
	paintRect(t, ed, image.Rect(0, 0, 20, 20), red)

	var statuses []string
	ed.On(editor.EventStatusChanged, func(data interface{}) {
		statuses = append(statuses, data.(string))
	})

	tl := NewPickerTool(ed)
	tl.PointerDown(press(at(5, 5), ButtonLeft))
	if got := ed.Foreground(); got != red {
		t.Errorf("foreground after pick = %+v, want %+v", got, red)
	}

	tl.PointerDown(press(at(5, 5), ButtonRight))
	if got := ed.Background(); got != red {
		t.Errorf("background after right-pick = %+v, want %+v", got, red)
	}

	if len(statuses) != 2 {
		t.Errorf("picks should report to the status line, got %v", statuses)
	}
	if ed.CanUndo() {
		t.Error("picking must not record history")
	}
}

func TestPickerIgnoresOutOfBounds(t *testing.T) {
	ed := editor.New(10, 10)
	fg := ed.Foreground()

	tl := NewPickerTool(ed)
	tl.PointerDown(press(at(-5, 3), ButtonLeft))
	tl.PointerDown(press(at(3, 50), ButtonLeft))

	if got := ed.Foreground(); got != fg {
		t.Errorf("out-of-bounds pick changed foreground to %+v", got)
	}
}

func TestAirbrushSpraysWithinRadius(t *testing.T) {
	ed := editor.New(50, 50)
	ed.SetBrushSize(10)
	ed.SetForeground(color.RGBA{0, 0, 0, 255})

	tl := NewAirbrushTool(ed)
	tl.interval = time.Hour // ticks driven by hand below

	center := at(25, 25)
	tl.PointerDown(press(center, ButtonLeft))
	tl.spray()
	tl.spray()
	tl.PointerUp(press(center, ButtonLeft))

	img := activePixels(t, ed)
	radius := 5.0
	sprayed := 0
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			c := img.RGBAAt(x, y)
			if c.R == 0 && c.G == 0 && c.B == 0 && c.A == 255 {
				sprayed++
				d := at(float64(x), float64(y)).Distance(center)
				if d > radius+1.5 {
					t.Errorf("dot at (%d,%d) is %.1fpx from center, outside the spray radius", x, y, d)
				}
			}
		}
	}
	if sprayed == 0 {
		t.Fatal("spray ticks should deposit dots")
	}

	// The whole press is one history entry.
	if !ed.CanUndo() {
		t.Fatal("spray should record a history entry")
	}
	ed.Undo()
	if ed.CanUndo() {
		t.Error("a single press must not record more than one entry")
	}
}

func TestAirbrushStopsOnRelease(t *testing.T) {
	ed := editor.New(50, 50)
	tl := NewAirbrushTool(ed)
	tl.interval = time.Hour

	tl.PointerDown(press(at(25, 25), ButtonLeft))
	tl.PointerUp(press(at(25, 25), ButtonLeft))

	before := activePixels(t, ed)
	tl.spray()
	if !samePix(before, activePixels(t, ed)) {
		t.Error("spray after release must not paint")
	}
}

func TestTextToolTypesAndCommits(t *testing.T) {
	ed := editor.New(60, 30)
	ed.SetBrushSize(1)
	ed.SetForeground(color.RGBA{10, 20, 30, 255})

	tl := NewTextTool(ed)
	tl.PointerDown(press(at(10, 10), ButtonLeft))
	for _, key := range []string{"H", "I"} {
		if !tl.KeyDown(key) {
			t.Fatalf("typing %q should be consumed", key)
		}
	}
	if ed.Overlay() == nil {
		t.Fatal("editing should publish a preview overlay")
	}
	if !tl.KeyDown("Return") {
		t.Fatal("Enter while editing should be consumed")
	}

	img := activePixels(t, ed)
	// Top-left font pixel of the H glyph.
	if got := img.RGBAAt(10, 10); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("committed glyph pixel = %+v, want foreground", got)
	}
	if ed.Overlay() != nil {
		t.Error("commit should clear the overlay")
	}
	if !ed.CanUndo() {
		t.Error("committed text should record a history entry")
	}
	if tl.KeyDown("H") {
		t.Error("keys after commit should not be consumed")
	}
}

func TestTextToolEscapeDiscards(t *testing.T) {
	ed := editor.New(60, 30)
	before := activePixels(t, ed)

	tl := NewTextTool(ed)
	tl.PointerDown(press(at(10, 10), ButtonLeft))
	tl.KeyDown("A")
	tl.KeyDown("BackSpace")
	tl.KeyDown("B")
	if !tl.KeyDown("Escape") {
		t.Fatal("Escape while editing should be consumed")
	}

	if !samePix(before, activePixels(t, ed)) {
		t.Error("discarded text must not touch the layer")
	}
	if ed.CanUndo() {
		t.Error("discarded text must not record history")
	}
	if ed.Overlay() != nil {
		t.Error("Escape should clear the overlay")
	}
}

func TestTextToolClickAwayCommits(t *testing.T) {
	ed := editor.New(300, 60)
	ed.SetBrushSize(1)

	tl := NewTextTool(ed)
	tl.PointerDown(press(at(10, 10), ButtonLeft))
	tl.KeyDown("X")

	// A click near the text is ignored; far away it commits.
	tl.PointerDown(press(at(30, 10), ButtonLeft))
	if ed.CanUndo() {
		t.Fatal("near click must not commit")
	}
	tl.PointerDown(press(at(250, 10), ButtonLeft))
	if !ed.CanUndo() {
		t.Error("click away from the text should commit")
	}
}

func samePix(a, b *image.RGBA) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}
