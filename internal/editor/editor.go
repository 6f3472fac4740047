// Package editor holds the document state, edit history, and the event
// bus that ties tools and UI together.
package editor

import (
	"image"
	"image/color"
	"log"
	"sync"

	"pixelpaint/internal/history"
	"pixelpaint/internal/layer"
)

// EventType identifies different application events.
type EventType int

const (
	EventDocumentNew EventType = iota
	EventDocumentOpened
	EventDocumentExported
	EventLayersChanged
	EventActiveLayerChanged
	EventModified
	EventOverlayChanged
	EventStatusChanged
	EventToolChanged
	EventHistoryChanged
	EventExternalOperation
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Editor is the document controller. It owns the layer stack and undo
// history, and brokers events between tools and the UI.
type Editor struct {
	mu sync.RWMutex

	stack   *layer.Stack
	history *history.History

	// Document
	DocumentPath string
	modified     bool

	// Active drawing parameters
	foreground color.RGBA
	background color.RGBA
	brushSize  int
	opacity    float64

	// Overlay published by the active tool, drawn above the composite.
	overlay *image.RGBA

	listeners map[EventType][]EventListener
}

// New creates an editor with an empty white document of the given size.
func New(w, h int) *Editor {
	e := &Editor{
		stack:      layer.NewStack(w, h),
		history:    history.New(),
		foreground: color.RGBA{0, 0, 0, 255},
		background: color.RGBA{255, 255, 255, 255},
		brushSize:  4,
		opacity:    1.0,
		listeners:  make(map[EventType][]EventListener),
	}
	return e
}

// On registers an event listener for the specified event type.
func (e *Editor) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *Editor) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Stack returns the document's layer stack.
func (e *Editor) Stack() *layer.Stack {
	return e.stack
}

// SetModified marks the document as modified and emits an event.
func (e *Editor) SetModified(modified bool) {
	e.mu.Lock()
	e.modified = modified
	e.mu.Unlock()
	e.Emit(EventModified, modified)
}

// Modified reports whether the document has unsaved changes.
func (e *Editor) Modified() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modified
}

// Foreground returns the active foreground color.
func (e *Editor) Foreground() color.RGBA {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.foreground
}

// SetForeground sets the active foreground color.
func (e *Editor) SetForeground(c color.RGBA) {
	e.mu.Lock()
	e.foreground = c
	e.mu.Unlock()
}

// Background returns the active background color.
func (e *Editor) Background() color.RGBA {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.background
}

// SetBackground sets the active background color.
func (e *Editor) SetBackground(c color.RGBA) {
	e.mu.Lock()
	e.background = c
	e.mu.Unlock()
}

// BrushSize returns the active brush size in pixels.
func (e *Editor) BrushSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.brushSize
}

// SetBrushSize sets the active brush size in pixels.
func (e *Editor) SetBrushSize(size int) {
	if size < 1 {
		size = 1
	}
	e.mu.Lock()
	e.brushSize = size
	e.mu.Unlock()
}

// Opacity returns the active drawing opacity (0.0 - 1.0).
func (e *Editor) Opacity() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opacity
}

// SetOpacity sets the active drawing opacity.
func (e *Editor) SetOpacity(op float64) {
	if op < 0 {
		op = 0
	}
	if op > 1 {
		op = 1
	}
	e.mu.Lock()
	e.opacity = op
	e.mu.Unlock()
}

// CanvasBounds returns the document's pixel bounds.
func (e *Editor) CanvasBounds() image.Rectangle {
	return image.Rect(0, 0, e.stack.Width(), e.stack.Height())
}

// ActiveLayerPixels returns a copy of the active layer's pixels in rect.
func (e *Editor) ActiveLayerPixels(rect image.Rectangle) (*image.RGBA, error) {
	return e.stack.ActivePixels(rect)
}

// DrawOnActiveLayer applies a paint function to the active layer. When
// saveHistory is true, the pre-edit state is snapshotted for undo. The
// locked check runs before the snapshot so a rejected edit leaves the
// history untouched.
func (e *Editor) DrawOnActiveLayer(fn func(*image.RGBA) error, saveHistory bool) error {
	active := e.stack.Active()
	if active == nil {
		return layer.ErrNoActiveLayer
	}
	if active.Locked {
		return layer.ErrLayerLocked
	}
	if saveHistory {
		e.SaveToHistory()
	}
	if err := e.stack.DrawOnActive(fn); err != nil {
		return err
	}
	e.SetModified(true)
	e.Emit(EventLayersChanged, nil)
	return nil
}

// SaveToHistory snapshots the current layer stack for undo.
func (e *Editor) SaveToHistory() {
	e.history.Push(e.stack.Snapshot())
	e.Emit(EventHistoryChanged, nil)
}

// Undo restores the most recent history snapshot. Any in-progress tool
// interaction is told to stand down first.
func (e *Editor) Undo() {
	e.NotifyExternalOperation("undo")
	snap := e.history.Undo(e.stack.Snapshot())
	if snap == nil {
		return
	}
	e.stack.Restore(snap)
	e.SetModified(true)
	e.Emit(EventLayersChanged, nil)
	e.Emit(EventHistoryChanged, nil)
}

// Redo reapplies the most recently undone snapshot.
func (e *Editor) Redo() {
	e.NotifyExternalOperation("redo")
	snap := e.history.Redo(e.stack.Snapshot())
	if snap == nil {
		return
	}
	e.stack.Restore(snap)
	e.SetModified(true)
	e.Emit(EventLayersChanged, nil)
	e.Emit(EventHistoryChanged, nil)
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// SetOverlay publishes a tool overlay to be drawn above the composite,
// or clears it when img is nil.
func (e *Editor) SetOverlay(img *image.RGBA) {
	e.mu.Lock()
	e.overlay = img
	e.mu.Unlock()
	e.Emit(EventOverlayChanged, img)
}

// Overlay returns the current tool overlay, or nil.
func (e *Editor) Overlay() *image.RGBA {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.overlay
}

// NotifyStatus publishes a status bar message.
func (e *Editor) NotifyStatus(msg string) {
	e.Emit(EventStatusChanged, msg)
}

// NotifyExternalOperation tells listeners (the active tool in
// particular) that an operation outside the tool's own interaction is
// about to run, so pending state can be committed or discarded.
func (e *Editor) NotifyExternalOperation(name string) {
	e.Emit(EventExternalOperation, name)
}

// NewDocument replaces the current document with an empty one.
func (e *Editor) NewDocument(w, h int) {
	e.NotifyExternalOperation("new document")
	e.mu.Lock()
	e.stack = layer.NewStack(w, h)
	e.DocumentPath = ""
	e.overlay = nil
	e.mu.Unlock()
	e.history.Clear()
	e.SetModified(false)
	e.Emit(EventDocumentNew, nil)
	e.Emit(EventLayersChanged, nil)
}

// OpenDocument loads an image file as a new single-layer document.
func (e *Editor) OpenDocument(path string) error {
	e.NotifyExternalOperation("open document")
	l, err := layer.Load(path)
	if err != nil {
		return err
	}
	stack := layer.NewStack(l.Width(), l.Height())
	stack.Restore([]*layer.Layer{l})
	log.Printf("Opened %s (%dx%d)", path, l.Width(), l.Height())

	e.mu.Lock()
	e.stack = stack
	e.DocumentPath = path
	e.overlay = nil
	e.mu.Unlock()
	e.history.Clear()
	e.SetModified(false)
	e.Emit(EventDocumentOpened, path)
	e.Emit(EventLayersChanged, nil)
	return nil
}

// ImportLayer loads an image file as a new layer above the active one.
// Pending tool state is resolved first: the import changes the active
// layer, so a floating selection must not survive it.
func (e *Editor) ImportLayer(path string) error {
	e.NotifyExternalOperation("import layer")
	l, err := layer.Load(path)
	if err != nil {
		return err
	}
	if err := e.stack.Insert(e.stack.ActiveIndex()+1, l); err != nil {
		return err
	}
	e.SaveToHistory()
	e.SetModified(true)
	e.Emit(EventLayersChanged, nil)
	return nil
}

// ExportDocument flattens the document and writes it to path.
func (e *Editor) ExportDocument(path string) error {
	e.NotifyExternalOperation("export")
	if err := layer.Export(e.stack.Composite(), path); err != nil {
		return err
	}
	e.mu.Lock()
	e.DocumentPath = path
	e.mu.Unlock()
	e.SetModified(false)
	e.Emit(EventDocumentExported, path)
	return nil
}
