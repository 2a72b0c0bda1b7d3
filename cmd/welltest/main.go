// Command welltest runs plate normalization and well detection on an assay
// plate photo and prints the results.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"

	platerimage "plate-reader/internal/image"
	"plate-reader/internal/reader"
	"plate-reader/internal/wells"

	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Path to plate image (TIFF, PNG, or JPEG)")
	gridFit := flag.Bool("grid", false, "Fit the 12x8 grid and print the slot table")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: welltest -image <path> [-grid]")
		os.Exit(1)
	}

	// Load image
	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())

	// Normalize perspective first; detection runs on the rectified frame.
	fmt.Printf("\nNormalizing plate...\n")
	rect, err := reader.NormalizeAndDetectPlateFromImage(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Normalization failed (code %d): %v\n", reader.Code(err), err)
		os.Exit(reader.Code(err))
	}
	fmt.Printf("Rectified to %dx%d\n", rect.Width, rect.Height)

	params := wells.RobustParams(rect.Width, rect.Height)
	fmt.Printf("\nDetection parameters:\n")
	fmt.Printf("  Blur kernels: %v\n", params.BlurSizes)
	fmt.Printf("  Sensitivities: %v\n", params.Sensitivities)
	fmt.Printf("  Radius: %d-%d px (min dist %.1f)\n", params.MinRadius, params.MaxRadius, params.MinDist)
	fmt.Printf("  Median band: %.1fx-%.1fx, edge margin %.1fx median\n",
		params.RadiusBandLow, params.RadiusBandHigh, params.EdgeMarginFactor)

	fmt.Printf("\nDetecting wells...\n")
	circles, err := reader.DetectWellsRobust(rect.Pix, rect.Width, rect.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed (code %d): %v\n", reader.Code(err), err)
		os.Exit(reader.Code(err))
	}

	// Color-consistency check against the well palette, reported per circle.
	bgr, err := platerimage.RGBAToBGRMat(rect.Pix, rect.Width, rect.Height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		os.Exit(1)
	}
	defer bgr.Close()
	colorParams := wells.DefaultColorParams()

	fmt.Printf("\nDetected %d wells:\n", len(circles))
	fmt.Printf("%-6s %10s %10s %8s %8s\n", "ID", "X", "Y", "Radius", "Color")
	for i, c := range circles {
		colorOK := "-"
		if wells.ValidateColor(bgr, c, colorParams) {
			colorOK = "ok"
		}
		fmt.Printf("W%-5d %10.1f %10.1f %8.1f %8s\n", i+1, c.X, c.Y, c.Radius, colorOK)
	}

	if *gridFit {
		printGrid(circles, rect.Width, rect.Height)
	}

	fmt.Printf("\nTotal: %d wells detected\n", len(circles))
}

func printGrid(circles []wells.Circle, width, height int) {
	grid := wells.FitGrid(circles, width, height, medianRadius(circles))
	fmt.Printf("\nGrid fit: origin (%.1f, %.1f), step (%.1f, %.1f), %d/%d slots detected\n",
		grid.OriginX, grid.OriginY, grid.StepX, grid.StepY,
		grid.DetectedCount(), wells.GridRows*wells.GridCols)

	fmt.Printf("%-6s %10s %10s %8s %9s\n", "Slot", "X", "Y", "Radius", "Source")
	for row := 0; row < wells.GridRows; row++ {
		for col := 0; col < wells.GridCols; col++ {
			s := grid.At(row, col)
			source := "interp"
			if s.Detected {
				source = "detected"
			}
			fmt.Printf("%c%-5d %10.1f %10.1f %8.1f %9s\n",
				'A'+rune(row), col+1, s.Center.X, s.Center.Y, s.Radius, source)
		}
	}
}

func medianRadius(circles []wells.Circle) float64 {
	if len(circles) == 0 {
		return 0
	}
	radii := make([]float64, len(circles))
	for i, c := range circles {
		radii[i] = c.Radius
	}
	sort.Float64s(radii)
	return radii[len(radii)/2]
}
