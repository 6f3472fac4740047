// Package tool defines the editing tool interface and the manager that
// routes canvas input to the active tool.
package tool

import (
	"log"
	"sync"

	"pixelpaint/internal/editor"
	"pixelpaint/pkg/geometry"
)

// Button identifies which pointer button an event refers to.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

// PointerEvent is a pointer interaction in image-space coordinates.
type PointerEvent struct {
	Pos    geometry.Point2D
	Button Button
	Shift  bool
	Ctrl   bool
	Alt    bool
}

// Tool is an interactive editing tool. Pointer positions are in image
// space; the canvas handles zoom and panning before events arrive here.
type Tool interface {
	// Name returns the tool's identifier for menus and the status bar.
	Name() string

	PointerDown(ev PointerEvent)
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)

	// KeyDown handles a key press. Returning true consumes the event.
	KeyDown(key string) bool

	// Deactivate is called when another tool is selected; pending
	// interaction state must be resolved.
	Deactivate()

	// ExternalOperation is called before an operation outside the
	// tool's interaction runs (undo, export, document switch).
	ExternalOperation(name string)
}

// Manager tracks the active tool and forwards events to it.
type Manager struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	active Tool
	ed     *editor.Editor
}

// NewManager creates an empty tool manager bound to an editor. The
// manager listens for external operations so the active tool can
// resolve pending state first.
func NewManager(ed *editor.Editor) *Manager {
	m := &Manager{
		tools: make(map[string]Tool),
		ed:    ed,
	}
	ed.On(editor.EventExternalOperation, func(data interface{}) {
		name, _ := data.(string)
		m.mu.RLock()
		active := m.active
		m.mu.RUnlock()
		if active != nil {
			active.ExternalOperation(name)
		}
	})
	return m
}

// Register adds a tool to the manager.
func (m *Manager) Register(t Tool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tools[t.Name()] = t
}

// Select makes the named tool active, deactivating the previous one.
func (m *Manager) Select(name string) {
	m.mu.Lock()
	t, ok := m.tools[name]
	prev := m.active
	if ok {
		m.active = t
	}
	m.mu.Unlock()

	if !ok {
		log.Printf("unknown tool %q", name)
		return
	}
	if prev != nil && prev != t {
		prev.Deactivate()
	}
	m.ed.Emit(editor.EventToolChanged, name)
}

// Active returns the active tool, or nil.
func (m *Manager) Active() Tool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// PointerDown forwards a pointer press to the active tool.
func (m *Manager) PointerDown(ev PointerEvent) {
	if t := m.Active(); t != nil {
		t.PointerDown(ev)
	}
}

// PointerMove forwards a pointer move to the active tool.
func (m *Manager) PointerMove(ev PointerEvent) {
	if t := m.Active(); t != nil {
		t.PointerMove(ev)
	}
}

// PointerUp forwards a pointer release to the active tool.
func (m *Manager) PointerUp(ev PointerEvent) {
	if t := m.Active(); t != nil {
		t.PointerUp(ev)
	}
}

// KeyDown forwards a key press to the active tool. Returns true if the
// tool consumed the event.
func (m *Manager) KeyDown(key string) bool {
	if t := m.Active(); t != nil {
		return t.KeyDown(key)
	}
	return false
}
