package layer

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"pixelpaint/internal/raster"
)

var (
	// ErrNoActiveLayer is returned when an edit targets a stack with no
	// active layer.
	ErrNoActiveLayer = errors.New("no active layer")

	// ErrLayerLocked is returned when an edit targets a locked layer.
	ErrLayerLocked = errors.New("layer is locked")
)

// Stack holds the ordered set of layers in a document. Index 0 is the
// bottom layer. All methods are safe for concurrent use.
type Stack struct {
	mu     sync.RWMutex
	layers []*Layer
	active int
	width  int
	height int
}

// NewStack creates a stack of the given canvas size with a single empty
// background layer.
func NewStack(w, h int) *Stack {
	s := &Stack{width: w, height: h, active: 0}
	s.layers = []*Layer{New("Background", w, h)}
	return s
}

// Width returns the canvas width in pixels.
func (s *Stack) Width() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width
}

// Height returns the canvas height in pixels.
func (s *Stack) Height() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height
}

// Count returns the number of layers.
func (s *Stack) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers)
}

// ActiveIndex returns the index of the active layer, or -1 if none.
func (s *Stack) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.layers) == 0 {
		return -1
	}
	return s.active
}

// SetActive selects the layer at index as the edit target.
func (s *Stack) SetActive(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.layers) {
		return fmt.Errorf("layer index %d out of range", index)
	}
	s.active = index
	return nil
}

// Layer returns the layer at index, or nil if out of range.
func (s *Stack) Layer(index int) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.layers) {
		return nil
	}
	return s.layers[index]
}

// Active returns the active layer, or nil if the stack is empty.
func (s *Stack) Active() *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *Stack) activeLocked() *Layer {
	if len(s.layers) == 0 || s.active < 0 || s.active >= len(s.layers) {
		return nil
	}
	return s.layers[s.active]
}

// Add appends a new empty layer above the current top and makes it active.
func (s *Stack) Add(name string) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := New(name, s.width, s.height)
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	return l
}

// Insert places a layer at index, shifting layers above it up.
func (s *Stack) Insert(index int, l *Layer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index > len(s.layers) {
		return fmt.Errorf("layer index %d out of range", index)
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[index+1:], s.layers[index:])
	s.layers[index] = l
	s.active = index
	return nil
}

// Remove deletes the layer at index. The last remaining layer cannot be
// removed.
func (s *Stack) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.layers) {
		return fmt.Errorf("layer index %d out of range", index)
	}
	if len(s.layers) == 1 {
		return errors.New("cannot remove the last layer")
	}
	s.layers = append(s.layers[:index], s.layers[index+1:]...)
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
	return nil
}

// Move reorders the layer at from to position to.
func (s *Stack) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from < 0 || from >= len(s.layers) || to < 0 || to >= len(s.layers) {
		return fmt.Errorf("layer move %d -> %d out of range", from, to)
	}
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers, nil)
	copy(s.layers[to+1:], s.layers[to:])
	s.layers[to] = l
	s.active = to
	return nil
}

// ActivePixels returns a copy of the active layer's pixels within rect.
// Pixels outside the layer are left transparent.
func (s *Stack) ActivePixels(rect image.Rectangle) (*image.RGBA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l := s.activeLocked()
	if l == nil {
		return nil, ErrNoActiveLayer
	}
	return raster.CopyRect(l.Image, rect), nil
}

// DrawOnActive runs fn against a copy of the active layer's pixels and
// swaps the result in, so a failed edit never leaves the layer half
// modified. Returns ErrLayerLocked without calling fn if the layer is
// locked.
func (s *Stack) DrawOnActive(fn func(*image.RGBA) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.activeLocked()
	if l == nil {
		return ErrNoActiveLayer
	}
	if l.Locked {
		return ErrLayerLocked
	}
	buf := raster.Clone(l.Image)
	if err := fn(buf); err != nil {
		return err
	}
	l.Image = buf
	return nil
}

// Composite flattens all visible layers bottom-up into a single RGBA
// image, honoring per-layer opacity.
func (s *Stack) Composite() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for _, l := range s.layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		compositeOver(out, l.Image, l.Opacity)
	}
	return out
}

// compositeOver blends src over dst with a global opacity factor.
func compositeOver(dst *image.RGBA, src *image.RGBA, opacity float64) {
	if opacity >= 1.0 {
		raster.Over(dst, src, image.Point{})
		return
	}
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := src.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			c.A = uint8(float64(c.A) * opacity)
			raster.BlendPixel(dst, x, y, c)
		}
	}
}

// Snapshot returns a deep copy of the whole stack for history storage.
func (s *Stack) Snapshot() []*Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		snap[i] = l.Clone()
	}
	return snap
}

// Restore replaces the stack's layers with deep copies of a snapshot.
func (s *Stack) Restore(snap []*Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = make([]*Layer, len(snap))
	for i, l := range snap {
		s.layers[i] = l.Clone()
	}
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
	if s.active < 0 {
		s.active = 0
	}
}
