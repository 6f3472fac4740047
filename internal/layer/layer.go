// Package layer provides the document layer model and compositing stack.
package layer

import (
	"image"
	"image/draw"

	"pixelpaint/pkg/geometry"
)

// Layer represents a single raster layer in the document.
type Layer struct {
	Name    string       // Display name
	Image   *image.RGBA  // Pixel data
	Visible bool         // Layer visibility
	Opacity float64      // Layer opacity (0.0 - 1.0)
	Locked  bool         // Locked layers reject edits
	DPI     float64      // Detected or user-specified DPI
}

// New creates an empty transparent layer of the given size.
func New(name string, w, h int) *Layer {
	return &Layer{
		Name:    name,
		Image:   image.NewRGBA(image.Rect(0, 0, w, h)),
		Visible: true,
		Opacity: 1.0,
	}
}

// NewFromImage creates a layer wrapping an existing image, converting to
// RGBA if needed.
func NewFromImage(name string, img image.Image) *Layer {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds().Sub(img.Bounds().Min))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return &Layer{
		Name:    name,
		Image:   rgba,
		Visible: true,
		Opacity: 1.0,
	}
}

// Clone returns an independent deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Image = image.NewRGBA(l.Image.Bounds())
	copy(c.Image.Pix, l.Image.Pix)
	return &c
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the layer height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the layer dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// WidthInches returns the layer width in inches if DPI is known.
func (l *Layer) WidthInches() float64 {
	if l.DPI == 0 {
		return 0
	}
	return float64(l.Width()) / l.DPI
}

// HeightInches returns the layer height in inches if DPI is known.
func (l *Layer) HeightInches() float64 {
	if l.DPI == 0 {
		return 0
	}
	return float64(l.Height()) / l.DPI
}
