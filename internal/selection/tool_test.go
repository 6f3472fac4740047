package selection

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"pixelpaint/internal/editor"
	"pixelpaint/internal/layer"
	"pixelpaint/internal/tool"
	"pixelpaint/pkg/geometry"
)

func newEditor(t *testing.T, w, h int) *editor.Editor {
	t.Helper()
	return editor.New(w, h)
}

func fillRect(t *testing.T, ed *editor.Editor, r image.Rectangle, c color.RGBA) {
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
		t.Fatalf("fill: %v", err)
	}
	ed.SetModified(false)
}

func layerPixels(ed *editor.Editor) *image.RGBA {
	buf, _ := ed.ActiveLayerPixels(ed.CanvasBounds())
	return buf
}

func samePixels(a, b *image.RGBA) bool {
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

func at(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

func leftDown(p geometry.Point2D) tool.PointerEvent {
	return tool.PointerEvent{Pos: p, Button: tool.ButtonLeft}
}

func moveTo(p geometry.Point2D) tool.PointerEvent {
	return tool.PointerEvent{Pos: p}
}

// dragSelect draws a rectangle/ellipse outline with a single drag.
func dragSelect(tl *Tool, x1, y1, x2, y2 float64) {
	tl.PointerDown(leftDown(at(x1, y1)))
	tl.PointerMove(moveTo(at(x2, y2)))
	tl.PointerUp(leftDown(at(x2, y2)))
}

// drag performs a press-move-release gesture on a floating selection.
func drag(tl *Tool, from, to geometry.Point2D) {
	tl.PointerDown(leftDown(from))
	tl.PointerMove(moveTo(to))
	tl.PointerUp(leftDown(to))
}

func TestRoundTripIdentity(t *testing.T) {
	ed := newEditor(t, 100, 100)
	// Patterned content so a misplaced repaint would show.
	err := ed.DrawOnActiveLayer(func(img *image.RGBA) error {
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				img.SetRGBA(x, y, color.RGBA{uint8(x * 2), uint8(y * 2), 100, 255})
			}
		}
		return nil
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	before := layerPixels(ed)

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 20, 20, 60, 60)
	if !tl.Floating() {
		t.Fatal("drag should produce a floating region")
	}
	if !tl.KeyDown("Return") {
		t.Fatal("Enter while floating should be consumed")
	}
	if tl.Floating() {
		t.Fatal("commit should clear the floating region")
	}

	if !samePixels(before, layerPixels(ed)) {
		t.Error("identity commit must reproduce the original pixels exactly")
	}
	if !ed.CanUndo() {
		t.Error("commit should record one history entry")
	}
}

func TestCancelLeavesNoTrace(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{200, 30, 30, 255})
	before := layerPixels(ed)

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 10, 10, 50, 50)

	// Transform it: move, then rotate via the rotate handle.
	drag(tl, at(30, 30), at(55, 40))
	drag(tl, tl.Region().RotateHandlePos(), at(90, 10))

	if !tl.KeyDown("Escape") {
		t.Fatal("Escape while floating should be consumed")
	}
	if tl.Floating() {
		t.Fatal("cancel should discard the region")
	}
	if !samePixels(before, layerPixels(ed)) {
		t.Error("cancel must leave the layer pixel-for-pixel identical")
	}
	if ed.CanUndo() {
		t.Error("cancel must not record a history entry")
	}
}

func TestMinimumSizeRejection(t *testing.T) {
	ed := newEditor(t, 50, 50)
	var statuses []string
	ed.On(editor.EventStatusChanged, func(data interface{}) {
		statuses = append(statuses, data.(string))
	})

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 10, 10, 10, 11)

	if tl.Floating() {
		t.Error("sub-minimum drag must not create a region")
	}
	if len(statuses) != 0 {
		t.Errorf("sub-minimum drag should be silent, got %v", statuses)
	}
	if ed.CanUndo() {
		t.Error("no history entry expected")
	}
}

func TestPolygonVertexCount(t *testing.T) {
	ed := newEditor(t, 100, 100)
	var statuses []string
	ed.On(editor.EventStatusChanged, func(data interface{}) {
		statuses = append(statuses, data.(string))
	})

	tl := NewTool(ed, VariantPolygon)
	tl.PointerDown(leftDown(at(10, 10)))
	tl.PointerDown(leftDown(at(20, 10)))

	// Two vertices: rejected, accumulation continues.
	if !tl.KeyDown("Return") {
		t.Fatal("Enter during accumulation should be consumed")
	}
	if tl.Floating() {
		t.Fatal("two vertices must not finalize")
	}
	if len(statuses) == 0 {
		t.Error("rejection should emit a status message")
	}

	// Third vertex is collinear with the first two; count is all that
	// matters, so finalization succeeds.
	tl.PointerDown(leftDown(at(30, 10)))
	if !tl.KeyDown("Return") {
		t.Fatal("Enter with 3 vertices should be consumed")
	}
	if !tl.Floating() {
		t.Error("three collinear vertices should finalize")
	}
}

func TestPolygonEscapeDiscardsVertices(t *testing.T) {
	ed := newEditor(t, 100, 100)
	tl := NewTool(ed, VariantPolygon)
	tl.PointerDown(leftDown(at(10, 10)))
	tl.PointerDown(leftDown(at(40, 10)))
	tl.PointerDown(leftDown(at(40, 40)))

	if !tl.KeyDown("Escape") {
		t.Fatal("Escape during accumulation should be consumed")
	}
	if tl.Floating() {
		t.Error("Escape must discard the outline")
	}
	if ed.CanUndo() {
		t.Error("discarded outline must not touch history")
	}

	// Right-click finalization works on a fresh outline.
	tl.PointerDown(leftDown(at(10, 10)))
	tl.PointerDown(leftDown(at(40, 10)))
	tl.PointerDown(leftDown(at(25, 40)))
	tl.PointerDown(tool.PointerEvent{Pos: at(25, 40), Button: tool.ButtonRight})
	if !tl.Floating() {
		t.Error("right-click with 3 vertices should finalize")
	}
}

func TestMoveCommitScenario(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{255, 0, 0, 255})

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 20, 20, 60, 60)

	// Move the floating region by (+30, +10).
	drag(tl, at(40, 40), at(70, 50))
	got := tl.Region().Rect
	want := geometry.RectInt{X: 50, Y: 30, Width: 40, Height: 40}
	if got != want {
		t.Fatalf("moved rect = %+v, want %+v", got, want)
	}

	tl.KeyDown("Return")

	img := layerPixels(ed)
	// Original footprint outside the new location is now transparent.
	if a := img.RGBAAt(25, 25).A; a != 0 {
		t.Errorf("old footprint pixel alpha = %d, want 0", a)
	}
	// The moved content is opaque red.
	if c := img.RGBAAt(85, 65); c.R != 255 || c.A != 255 {
		t.Errorf("moved content pixel = %+v, want red", c)
	}
	// Pixels never part of the selection are untouched.
	if c := img.RGBAAt(10, 10); c.R != 255 || c.A != 255 {
		t.Errorf("untouched pixel = %+v, want red", c)
	}

	if !ed.CanUndo() {
		t.Error("commit should record one history entry")
	}
	if !ed.Modified() {
		t.Error("commit should mark the document modified")
	}
}

func TestScaleCommitOverflowsOriginalRect(t *testing.T) {
	ed := newEditor(t, 100, 100)
	// Red square on a transparent background.
	fillRect(t, ed, image.Rect(40, 40, 60, 60), color.RGBA{255, 0, 0, 255})

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 40, 40, 60, 60)

	// Double the pointer's distance from the pivot (50,50): scale 2x.
	drag(tl, tl.Region().ScaleHandlePos(), at(70, 70))
	if s := tl.Region().Scale; s < 1.9 || s > 2.1 {
		t.Fatalf("scale = %v, want ~2.0", s)
	}

	tl.KeyDown("Return")

	img := layerPixels(ed)
	// Content magnified about the center overflows symmetrically.
	if c := img.RGBAAt(35, 35); c.R != 255 || c.A == 0 {
		t.Errorf("overflow pixel = %+v, want red", c)
	}
	if c := img.RGBAAt(50, 50); c.R != 255 {
		t.Errorf("center pixel = %+v, want red", c)
	}
	// Beyond the 2x footprint stays transparent.
	if a := img.RGBAAt(25, 25).A; a != 0 {
		t.Errorf("pixel outside 2x footprint alpha = %d, want 0", a)
	}
}

func TestScaleClamp(t *testing.T) {
	ed := newEditor(t, 200, 200)
	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 50, 50, 100, 100)

	tl.PointerDown(leftDown(tl.Region().ScaleHandlePos()))
	tl.PointerMove(moveTo(at(20000, 20000)))
	if s := tl.Region().Scale; s != 10.0 {
		t.Errorf("scale after huge drag = %v, want clamp at 10.0", s)
	}
	tl.PointerMove(moveTo(at(75.2, 75.2)))
	if s := tl.Region().Scale; s != 0.1 {
		t.Errorf("scale after tiny drag = %v, want clamp at 0.1", s)
	}
	tl.PointerUp(leftDown(at(75.2, 75.2)))
	if !tl.Floating() {
		t.Error("release should return to floating")
	}
}

func TestRotationNormalized(t *testing.T) {
	ed := newEditor(t, 200, 200)
	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 50, 50, 100, 100)

	r := tl.Region()
	tl.PointerDown(leftDown(r.RotateHandlePos()))
	// Sweep the pointer through several quadrants; the angle must stay
	// normalized throughout.
	for _, p := range []geometry.Point2D{
		at(75, 0), at(0, 75), at(75, 150), at(150, 75), at(150, 0),
	} {
		tl.PointerMove(moveTo(p))
		if a := r.Rotation; a < 0 || a >= 360 {
			t.Fatalf("rotation %v outside [0, 360)", a)
		}
	}
}

func TestHitTestPriority(t *testing.T) {
	ed := newEditor(t, 100, 100)
	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 20, 20, 60, 60)
	r := tl.Region()

	tests := []struct {
		name   string
		p      geometry.Point2D
		action Action
		handle Handle
	}{
		{"scale handle wins over corner and interior", r.ScaleHandlePos(), ActionScale, 0},
		{"rotate handle", r.RotateHandlePos(), ActionRotate, 0},
		{"corner resize", at(20, 20), ActionResize, HandleTopLeft},
		{"edge midpoint resize", at(60, 40), ActionResize, HandleRight},
		{"interior moves", at(40, 40), ActionMove, 0},
		{"outside commits", at(95, 95), ActionCommit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, handle := r.HitTest(tt.p)
			if action != tt.action {
				t.Errorf("action = %v, want %v", action, tt.action)
			}
			if action == ActionResize && handle != tt.handle {
				t.Errorf("handle = %v, want %v", handle, tt.handle)
			}
		})
	}
}

func TestResizeEdge(t *testing.T) {
	ed := newEditor(t, 100, 100)
	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 20, 20, 60, 60)

	// Drag the right edge midpoint outward by 10px.
	drag(tl, at(60, 40), at(70, 40))
	got := tl.Region().Rect
	want := geometry.RectInt{X: 20, Y: 20, Width: 50, Height: 40}
	if got != want {
		t.Errorf("rect after right resize = %+v, want %+v", got, want)
	}

	// Collapsing the rect clamps to the 1px minimum, never inverts.
	drag(tl, at(70, 40), at(-500, 40))
	if r := tl.Region().Rect; r.Width < 1 || r.Height < 1 {
		t.Errorf("rect collapsed below minimum: %+v", r)
	}
}

func TestKeyboardCancelAllowList(t *testing.T) {
	ed := newEditor(t, 100, 100)
	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 10, 10, 50, 50)

	for _, key := range []string{"Left", "Right", "Up", "Down", "Home", "End", "Prior", "Next", "LeftShift", "LeftControl"} {
		if tl.KeyDown(key) {
			t.Errorf("passive key %q should not be consumed", key)
		}
		if !tl.Floating() {
			t.Fatalf("passive key %q cancelled the selection", key)
		}
	}

	// Any other key cancels without being consumed, so its shortcut
	// still dispatches.
	if tl.KeyDown("B") {
		t.Error("cancelling key should not be consumed")
	}
	if tl.Floating() {
		t.Error("non-passive key should cancel the floating selection")
	}
}

func TestLockedLayerCommitRejected(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{0, 0, 200, 255})

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 10, 10, 50, 50)
	if !tl.Floating() {
		t.Fatal("capture on an unlocked layer should succeed")
	}

	before := layerPixels(ed)
	ed.Stack().Active().Locked = true

	tl.KeyDown("Return")

	if !samePixels(before, layerPixels(ed)) {
		t.Error("locked commit must not mutate the layer")
	}
	if ed.CanUndo() {
		t.Error("locked commit must not record a history entry")
	}
	if !tl.Floating() {
		t.Error("rejected commit should keep the region floating")
	}
}

func TestClickOutsideCommits(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{255, 255, 0, 255})

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 10, 10, 40, 40)
	tl.PointerDown(leftDown(at(90, 90)))

	if tl.Floating() {
		t.Error("clicking outside should commit")
	}
	if !ed.CanUndo() {
		t.Error("implicit commit should record a history entry")
	}
}

func TestExternalOperationCancels(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{1, 2, 3, 255})
	before := layerPixels(ed)

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 10, 10, 50, 50)
	drag(tl, at(30, 30), at(60, 60))

	tl.ExternalOperation("export")

	if tl.Floating() {
		t.Error("external operation must cancel the floating region")
	}
	if !samePixels(before, layerPixels(ed)) {
		t.Error("cancelled region must not leave pixels behind")
	}
}

func TestImportLayerCancelsFloat(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{200, 30, 30, 255})
	before := layerPixels(ed)

	// Route external operations through the manager, as the UI does.
	tl := NewTool(ed, VariantRectangle)
	mgr := tool.NewManager(ed)
	mgr.Register(tl)
	mgr.Select(tl.Name())

	dragSelect(tl, 10, 10, 50, 50)
	drag(tl, at(30, 30), at(60, 60))
	if !tl.Floating() {
		t.Fatal("drag should produce a floating region")
	}

	green := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := 0; i < len(green.Pix); i += 4 {
		green.Pix[i+1] = 255
		green.Pix[i+3] = 255
	}
	path := filepath.Join(t.TempDir(), "import.png")
	if err := layer.Export(green, path); err != nil {
		t.Fatal(err)
	}
	if err := ed.ImportLayer(path); err != nil {
		t.Fatal(err)
	}

	if tl.Floating() {
		t.Error("importing a layer must cancel the floating selection")
	}
	// The capture layer keeps its pixels: a commit after the import
	// would otherwise paste the capture onto the imported layer.
	if !samePixels(before, ed.Stack().Layer(0).Image) {
		t.Error("cancelled selection must leave the capture layer untouched")
	}
	if tl.KeyDown("Return") {
		t.Error("Enter after cancellation should not be consumed")
	}
}

func TestUndoRestoresPreCommitState(t *testing.T) {
	ed := newEditor(t, 100, 100)
	fillRect(t, ed, image.Rect(0, 0, 100, 100), color.RGBA{128, 64, 32, 255})
	before := layerPixels(ed)

	tl := NewTool(ed, VariantRectangle)
	dragSelect(tl, 20, 20, 60, 60)
	drag(tl, at(40, 40), at(75, 75))
	tl.KeyDown("Return")

	if samePixels(before, layerPixels(ed)) {
		t.Fatal("moved commit should change the layer")
	}

	ed.Undo()
	if !samePixels(before, layerPixels(ed)) {
		t.Error("undo should restore the pre-commit pixels exactly")
	}
}
