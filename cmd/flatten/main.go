// Command flatten composites one or more image files into a single
// flattened image, optionally applying a filter, and writes the result.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"pixelpaint/internal/filter"
	"pixelpaint/internal/layer"
)

func main() {
	output := flag.String("o", "out.png", "Output path (.png, .jpg, .tiff)")
	filterName := flag.String("filter", "", "Optional filter: grayscale, invert, blur, sharpen, emboss, mosaic, autocontrast")
	opacity := flag.Float64("opacity", 1.0, "Opacity for layers above the first (0.0 - 1.0)")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: flatten [-o out.png] [-filter name] [-opacity 0.5] <image> [image...]")
		os.Exit(1)
	}

	base, err := layer.Load(inputs[0])
	if err != nil {
		fmt.Printf("Failed to load %s: %v\n", inputs[0], err)
		os.Exit(1)
	}

	stack := layer.NewStack(base.Width(), base.Height())
	stack.Restore([]*layer.Layer{base})
	fmt.Printf("Base: %s (%dx%d, %.0f DPI)\n", inputs[0], base.Width(), base.Height(), base.DPI)

	for _, path := range inputs[1:] {
		l, err := layer.Load(path)
		if err != nil {
			fmt.Printf("Failed to load %s: %v\n", path, err)
			os.Exit(1)
		}
		l.Opacity = *opacity
		if err := stack.Insert(stack.Count(), l); err != nil {
			fmt.Printf("Failed to add layer %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Layer: %s (%dx%d)\n", path, l.Width(), l.Height())
	}

	out := stack.Composite()

	if *filterName != "" {
		filtered, err := applyFilter(out, *filterName)
		if err != nil {
			fmt.Printf("Filter %q failed: %v\n", *filterName, err)
			os.Exit(1)
		}
		out = filtered
		fmt.Printf("Applied filter: %s\n", *filterName)
	}

	if err := layer.Export(out, *output); err != nil {
		fmt.Printf("Failed to write %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *output)
}

func applyFilter(img *image.RGBA, name string) (*image.RGBA, error) {
	switch strings.ToLower(name) {
	case "grayscale":
		return filter.Grayscale(img), nil
	case "invert":
		return filter.Invert(img), nil
	case "blur":
		return filter.GaussianBlur(img, 2)
	case "sharpen":
		return filter.Sharpen(img)
	case "emboss":
		return filter.Emboss(img)
	case "mosaic":
		return filter.Mosaic(img, 8), nil
	case "autocontrast":
		return filter.AutoContrast(img), nil
	default:
		return nil, fmt.Errorf("unknown filter %q", name)
	}
}
