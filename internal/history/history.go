// Package history implements bounded undo/redo for the layer stack.
package history

import (
	"sync"

	"pixelpaint/internal/layer"
)

// maxDepth caps how many snapshots are retained; pushing past the cap
// drops the oldest entry.
const maxDepth = 50

// History stores deep-copied layer stack snapshots for undo and redo.
// Pushing a new snapshot clears the redo stack.
type History struct {
	mu   sync.Mutex
	undo [][]*layer.Layer
	redo [][]*layer.Layer
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Push records a snapshot of the stack state before a mutation.
func (h *History) Push(snap []*layer.Layer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = append(h.undo, snap)
	if len(h.undo) > maxDepth {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo exchanges the current state for the most recent snapshot. It
// returns the snapshot to restore, or nil if there is nothing to undo.
func (h *History) Undo(current []*layer.Layer) []*layer.Layer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undo) == 0 {
		return nil
	}
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return snap
}

// Redo exchanges the current state for the most recently undone
// snapshot, or returns nil if there is nothing to redo.
func (h *History) Redo(current []*layer.Layer) []*layer.Layer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redo) == 0 {
		return nil
	}
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return snap
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// Clear discards all recorded snapshots.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
}
