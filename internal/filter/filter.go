// Package filter implements whole-layer image adjustments and effects.
package filter

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"pixelpaint/pkg/colorutil"
	"pixelpaint/pkg/geometry"
)

// AdjustBrightness changes brightness by a percentage in [-100, 100].
func AdjustBrightness(img *image.RGBA, percent float64) *image.RGBA {
	return toRGBA(imaging.AdjustBrightness(img, geometry.Clamp(percent, -100, 100)))
}

// AdjustContrast changes contrast by a percentage in [-100, 100].
func AdjustContrast(img *image.RGBA, percent float64) *image.RGBA {
	return toRGBA(imaging.AdjustContrast(img, geometry.Clamp(percent, -100, 100)))
}

// AdjustSaturation changes color saturation by a percentage in [-100, 100].
func AdjustSaturation(img *image.RGBA, percent float64) *image.RGBA {
	return toRGBA(imaging.AdjustSaturation(img, geometry.Clamp(percent, -100, 100)))
}

// Grayscale converts the image to grayscale, preserving alpha.
func Grayscale(img *image.RGBA) *image.RGBA {
	return toRGBA(imaging.Grayscale(img))
}

// Invert inverts the color channels, preserving alpha.
func Invert(img *image.RGBA) *image.RGBA {
	return toRGBA(imaging.Invert(img))
}

// GaussianBlur applies a Gaussian blur with the given kernel radius.
func GaussianBlur(img *image.RGBA, radius int) (*image.RGBA, error) {
	if radius < 1 {
		radius = 1
	}
	ksize := radius*2 + 1

	mat, err := matFromRGBA(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(mat, &blurred, image.Point{ksize, ksize}, 0, 0, gocv.BorderDefault)

	return rgbaFromMat(blurred, img.Bounds())
}

// Sharpen applies an unsharp convolution kernel.
func Sharpen(img *image.RGBA) (*image.RGBA, error) {
	kernel := [9]float32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}
	return convolve3x3(img, kernel, 0)
}

// Emboss applies a directional emboss kernel with a mid-gray offset.
func Emboss(img *image.RGBA) (*image.RGBA, error) {
	kernel := [9]float32{
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	}
	return convolve3x3(img, kernel, 0)
}

// convolve3x3 filters the image with a 3x3 kernel via OpenCV.
func convolve3x3(img *image.RGBA, kernel [9]float32, delta float64) (*image.RGBA, error) {
	mat, err := matFromRGBA(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	k := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer k.Close()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k.SetFloatAt(i, j, kernel[i*3+j])
		}
	}

	out := gocv.NewMat()
	defer out.Close()
	gocv.Filter2D(mat, &out, -1, k, image.Point{-1, -1}, delta, gocv.BorderDefault)

	return rgbaFromMat(out, img.Bounds())
}

// RotateHue shifts every pixel's hue by degrees, preserving saturation,
// value and alpha.
func RotateHue(img *image.RGBA, degrees float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			h, s, v := colorutil.RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
			r, g, bl := colorutil.HSVToRGB(h+degrees, s, v)
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(geometry.Clamp(r, 0, 255) + 0.5),
				G: uint8(geometry.Clamp(g, 0, 255) + 0.5),
				B: uint8(geometry.Clamp(bl, 0, 255) + 0.5),
				A: c.A,
			})
		}
	}
	return out
}

// Mosaic pixelates the image into solid blocks of the given size, each
// block taking the average color of its pixels.
func Mosaic(img *image.RGBA, blockSize int) *image.RGBA {
	if blockSize < 2 {
		blockSize = 2
	}
	b := img.Bounds()
	out := image.NewRGBA(b)

	for by := b.Min.Y; by < b.Max.Y; by += blockSize {
		for bx := b.Min.X; bx < b.Max.X; bx += blockSize {
			var sr, sg, sb, sa, n uint32
			for y := by; y < by+blockSize && y < b.Max.Y; y++ {
				for x := bx; x < bx+blockSize && x < b.Max.X; x++ {
					c := img.RGBAAt(x, y)
					sr += uint32(c.R)
					sg += uint32(c.G)
					sb += uint32(c.B)
					sa += uint32(c.A)
					n++
				}
			}
			if n == 0 {
				continue
			}
			avg := [4]uint8{uint8(sr / n), uint8(sg / n), uint8(sb / n), uint8(sa / n)}
			for y := by; y < by+blockSize && y < b.Max.Y; y++ {
				for x := bx; x < bx+blockSize && x < b.Max.X; x++ {
					i := out.PixOffset(x, y)
					out.Pix[i] = avg[0]
					out.Pix[i+1] = avg[1]
					out.Pix[i+2] = avg[2]
					out.Pix[i+3] = avg[3]
				}
			}
		}
	}
	return out
}

// AutoContrast stretches the luminance range so that the 1st and 99th
// percentiles map to black and white. Quantiles come from the sorted
// luminance distribution of opaque pixels.
func AutoContrast(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	var lum []float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			lum = append(lum, 0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B))
		}
	}
	if len(lum) == 0 {
		return img
	}
	sort.Float64s(lum)
	lo := stat.Quantile(0.01, stat.Empirical, lum, nil)
	hi := stat.Quantile(0.99, stat.Empirical, lum, nil)
	if hi-lo < 1 {
		return img
	}

	scale := 255.0 / (hi - lo)
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			c.R = stretch(c.R, lo, scale)
			c.G = stretch(c.G, lo, scale)
			c.B = stretch(c.B, lo, scale)
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

func stretch(v uint8, lo, scale float64) uint8 {
	s := (float64(v) - lo) * scale
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// matFromRGBA wraps RGBA pixel data in an OpenCV Mat.
func matFromRGBA(img *image.RGBA) (gocv.Mat, error) {
	b := img.Bounds()
	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to wrap image in mat: %w", err)
	}
	return mat, nil
}

// rgbaFromMat copies a CV8UC4 Mat back into an RGBA image with the
// given bounds.
func rgbaFromMat(mat gocv.Mat, bounds image.Rectangle) (*image.RGBA, error) {
	data := mat.ToBytes()
	out := image.NewRGBA(bounds)
	if len(data) != len(out.Pix) {
		return nil, fmt.Errorf("mat size mismatch: got %d bytes, want %d", len(data), len(out.Pix))
	}
	copy(out.Pix, data)
	return out, nil
}

// toRGBA converts any image to RGBA without copying when possible.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds().Sub(img.Bounds().Min))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
