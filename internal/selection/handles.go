package selection

import (
	"math"

	"pixelpaint/pkg/geometry"
)

const (
	// handleSize is the drawn size of a handle square, in pixels.
	handleSize = 12

	// hotSize is the hit-box size for the scale and rotate handles,
	// larger than the drawn handle so they are easy to grab.
	hotSize = 24

	// rotateHandleOffset is how far beyond the top-right corner the
	// rotate handle sits, before scaling by the current scale factor.
	rotateHandleOffset = 20

	// resizeHotExpand enlarges the resize handle hit-boxes beyond
	// their drawn extent.
	resizeHotExpand = 10
)

// Handle identifies one of the eight resize handles.
type Handle int

const (
	HandleTopLeft Handle = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// Action is the gesture chosen by hit-testing a pointer-down while a
// region is floating.
type Action int

const (
	ActionScale Action = iota
	ActionRotate
	ActionResize
	ActionMove
	ActionCommit
)

// ScaleHandlePos returns the uniform-scale handle position: the
// transformed bottom-right corner.
func (r *Region) ScaleHandlePos() geometry.Point2D {
	return r.TransformedCorners()[2]
}

// RotateHandlePos returns the rotate handle position: offset outward
// from the transformed top-right corner along the pivot-to-corner
// radial, proportional to the current scale.
func (r *Region) RotateHandlePos() geometry.Point2D {
	tr := r.TransformedCorners()[1]
	pivot := r.Pivot()
	d := tr.Sub(pivot)
	length := math.Hypot(d.X, d.Y)
	if length < 1e-9 {
		return tr
	}
	offset := rotateHandleOffset * r.Scale
	return tr.Add(d.Scale(offset / length))
}

// ResizeHandlePos returns the position of a resize handle: the four
// transformed corners plus the midpoints of adjacent transformed
// corners.
func (r *Region) ResizeHandlePos(h Handle) geometry.Point2D {
	c := r.TransformedCorners() // tl, tr, br, bl
	switch h {
	case HandleTopLeft:
		return c[0]
	case HandleTop:
		return geometry.Midpoint(c[0], c[1])
	case HandleTopRight:
		return c[1]
	case HandleRight:
		return geometry.Midpoint(c[1], c[2])
	case HandleBottomRight:
		return c[2]
	case HandleBottom:
		return geometry.Midpoint(c[2], c[3])
	case HandleBottomLeft:
		return c[3]
	case HandleLeft:
		return geometry.Midpoint(c[3], c[0])
	}
	return geometry.Point2D{}
}

// inBox tests whether p lies within a square of the given half-extent
// centered on c.
func inBox(p, c geometry.Point2D, half float64) bool {
	return math.Abs(p.X-c.X) <= half && math.Abs(p.Y-c.Y) <= half
}

// allHandles lists the resize handles in hit-test order. Corners come
// first so they win over the edge midpoints they touch.
var allHandles = []Handle{
	HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft,
	HandleTop, HandleRight, HandleBottom, HandleLeft,
}

// HitTest resolves a pointer-down while floating into a gesture. The
// priority contract is explicit: scale handle, then rotate handle, then
// the eight resize handles, then the transformed interior; anything
// else commits. Evaluated as an ordered (predicate, action) list.
func (r *Region) HitTest(p geometry.Point2D) (Action, Handle) {
	type candidate struct {
		hit    func() bool
		action Action
		handle Handle
	}

	tests := []candidate{
		{func() bool { return inBox(p, r.ScaleHandlePos(), hotSize/2) }, ActionScale, 0},
		{func() bool { return inBox(p, r.RotateHandlePos(), hotSize/2) }, ActionRotate, 0},
	}
	for _, h := range allHandles {
		h := h
		tests = append(tests, candidate{
			func() bool { return inBox(p, r.ResizeHandlePos(h), handleSize/2+resizeHotExpand) },
			ActionResize, h,
		})
	}
	tests = append(tests, candidate{func() bool { return r.Contains(p) }, ActionMove, 0})

	for _, c := range tests {
		if c.hit() {
			return c.action, c.handle
		}
	}
	return ActionCommit, 0
}

// ApplyResize moves the rect edges owned by handle h by the pointer
// delta, then normalizes the rect with a 1px minimum in each dimension.
func (r *Region) ApplyResize(h Handle, dx, dy int) {
	rect := r.Rect
	switch h {
	case HandleTopLeft:
		rect.X += dx
		rect.Width -= dx
		rect.Y += dy
		rect.Height -= dy
	case HandleTop:
		rect.Y += dy
		rect.Height -= dy
	case HandleTopRight:
		rect.Width += dx
		rect.Y += dy
		rect.Height -= dy
	case HandleRight:
		rect.Width += dx
	case HandleBottomRight:
		rect.Width += dx
		rect.Height += dy
	case HandleBottom:
		rect.Height += dy
	case HandleBottomLeft:
		rect.X += dx
		rect.Width -= dx
		rect.Height += dy
	case HandleLeft:
		rect.X += dx
		rect.Width -= dx
	}
	r.Rect = rect.Normalized()
}
