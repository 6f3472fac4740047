package layer

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewStackHasBackground(t *testing.T) {
	s := NewStack(32, 16)
	if s.Count() != 1 {
		t.Fatalf("layer count = %d, want 1", s.Count())
	}
	if s.Width() != 32 || s.Height() != 16 {
		t.Errorf("size = %dx%d, want 32x16", s.Width(), s.Height())
	}
	if s.Active() == nil {
		t.Fatal("new stack should have an active layer")
	}
}

func TestDrawOnActiveSwapsBuffer(t *testing.T) {
	s := NewStack(4, 4)
	before := s.Active().Image

	err := s.DrawOnActive(func(img *image.RGBA) error {
		img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
		return nil
	})
	if err != nil {
		t.Fatalf("DrawOnActive: %v", err)
	}
	if s.Active().Image == before {
		t.Error("draw should swap in a new buffer")
	}
	if got := s.Active().Image.RGBAAt(1, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("drawn pixel = %+v", got)
	}
	if got := before.RGBAAt(1, 1).A; got != 0 {
		t.Error("original buffer must not be mutated")
	}
}

func TestDrawOnActiveLocked(t *testing.T) {
	s := NewStack(4, 4)
	s.Active().Locked = true

	called := false
	err := s.DrawOnActive(func(img *image.RGBA) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrLayerLocked) {
		t.Fatalf("err = %v, want ErrLayerLocked", err)
	}
	if called {
		t.Error("paint function must not run on a locked layer")
	}
}

func TestDrawOnActiveErrorLeavesLayer(t *testing.T) {
	s := NewStack(4, 4)
	before := s.Active().Image

	fail := errors.New("paint failed")
	err := s.DrawOnActive(func(img *image.RGBA) error {
		img.SetRGBA(0, 0, color.RGBA{1, 1, 1, 255})
		return fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("err = %v, want paint error", err)
	}
	if s.Active().Image != before {
		t.Error("failed draw must not swap the buffer")
	}
}

func TestActivePixelsCopies(t *testing.T) {
	s := NewStack(8, 8)
	if err := s.DrawOnActive(func(img *image.RGBA) error {
		img.SetRGBA(2, 2, color.RGBA{10, 20, 30, 255})
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	buf, err := s.ActivePixels(image.Rect(1, 1, 5, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.RGBAAt(1, 1); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("copied pixel = %+v", got)
	}

	buf.SetRGBA(1, 1, color.RGBA{99, 99, 99, 255})
	if got := s.Active().Image.RGBAAt(2, 2); got != (color.RGBA{10, 20, 30, 255}) {
		t.Error("ActivePixels must return an independent copy")
	}
}

func TestCompositeRespectsVisibilityAndOpacity(t *testing.T) {
	s := NewStack(2, 2)
	if err := s.DrawOnActive(func(img *image.RGBA) error {
		img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	top := s.Add("top")
	top.Image.SetRGBA(0, 0, color.RGBA{0, 0, 255, 255})

	out := s.Composite()
	if got := out.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("top layer should win: %+v", got)
	}

	top.Visible = false
	out = s.Composite()
	if got := out.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("hidden layer should not composite: %+v", got)
	}

	top.Visible = true
	top.Opacity = 0.5
	out = s.Composite()
	got := out.RGBAAt(0, 0)
	if got.B == 255 || got.B == 0 {
		t.Errorf("half opacity should mix colors: %+v", got)
	}
}

func TestRemoveLastLayerRejected(t *testing.T) {
	s := NewStack(2, 2)
	if err := s.Remove(0); err == nil {
		t.Error("removing the last layer should fail")
	}
	s.Add("second")
	if err := s.Remove(0); err != nil {
		t.Errorf("removing with two layers should succeed: %v", err)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewStack(4, 4)
	if err := s.DrawOnActive(func(img *image.RGBA) error {
		img.SetRGBA(0, 0, color.RGBA{5, 6, 7, 255})
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()

	if err := s.DrawOnActive(func(img *image.RGBA) error {
		img.SetRGBA(0, 0, color.RGBA{200, 200, 200, 255})
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	s.Restore(snap)
	if got := s.Active().Image.RGBAAt(0, 0); got != (color.RGBA{5, 6, 7, 255}) {
		t.Errorf("restored pixel = %+v", got)
	}

	// Snapshot must not alias live layers.
	snap[0].Image.SetRGBA(0, 0, color.RGBA{1, 1, 1, 255})
	if got := s.Active().Image.RGBAAt(0, 0); got != (color.RGBA{5, 6, 7, 255}) {
		t.Error("restore must deep-copy the snapshot")
	}
}
