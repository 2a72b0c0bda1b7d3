// Command platenorm normalizes an assay plate photo to a perspective-corrected
// frame and writes it out, optionally with a detection overlay for debugging.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	platerimage "plate-reader/internal/image"
	"plate-reader/internal/reader"
	"plate-reader/internal/wells"
	"plate-reader/pkg/colorutil"
)

func main() {
	imagePath := flag.String("image", "", "Path to plate image")
	outPath := flag.String("out", "normalized.png", "Output path for the rectified image")
	debugPath := flag.String("debug", "", "Optional output path for the detection overlay")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: platenorm -image <path> [-out normalized.png] [-debug overlay.png]")
		os.Exit(1)
	}

	src, err := imaging.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	bounds := src.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	rect, err := reader.NormalizeAndDetectPlateFromImage(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Normalization failed (code %d): %v\n", reader.Code(err), err)
		os.Exit(reader.Code(err))
	}
	fmt.Printf("Rectified to %dx%d\n", rect.Width, rect.Height)

	out, err := rect.ToImage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion failed: %v\n", err)
		os.Exit(1)
	}
	if err := imaging.Save(out, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)

	if *debugPath == "" {
		return
	}

	if err := writeOverlay(rect, *debugPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *debugPath)
}

// writeOverlay runs well detection on the rectified frame and draws the
// results over it: detected wells in green (red when the color check fails),
// interpolated grid slots in orange.
func writeOverlay(rect *reader.RectifiedImage, path string) error {
	circles, err := reader.DetectWellsRobust(rect.Pix, rect.Width, rect.Height)
	if err != nil {
		return err
	}
	fmt.Printf("Overlay: %d wells detected\n", len(circles))

	bgr, err := platerimage.RGBAToBGRMat(rect.Pix, rect.Width, rect.Height)
	if err != nil {
		return err
	}
	defer bgr.Close()

	colorParams := wells.DefaultColorParams()
	for _, c := range circles {
		tint := colorutil.Green
		if !wells.ValidateColor(bgr, c, colorParams) {
			tint = colorutil.Red
		}
		gocv.Circle(&bgr, image.Pt(int(c.X), int(c.Y)), int(c.Radius), tint, 2)
	}

	grid := wells.FitGrid(circles, rect.Width, rect.Height, medianRadius(circles))
	for row := 0; row < wells.GridRows; row++ {
		for col := 0; col < wells.GridCols; col++ {
			s := grid.At(row, col)
			if s.Detected {
				continue
			}
			center := image.Pt(int(s.Center.X), int(s.Center.Y))
			gocv.Circle(&bgr, center, int(s.Radius), colorutil.Orange, 1)
			gocv.Line(&bgr, image.Pt(center.X-4, center.Y), image.Pt(center.X+4, center.Y), colorutil.Orange, 1)
			gocv.Line(&bgr, image.Pt(center.X, center.Y-4), image.Pt(center.X, center.Y+4), colorutil.Orange, 1)
		}
	}

	overlay, err := platerimage.RGBAToImage(platerimage.BGRMatToRGBA(bgr), rect.Width, rect.Height)
	if err != nil {
		return err
	}
	return imaging.Save(overlay, path)
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
