// Package image converts between caller-supplied pixel buffers, Go images,
// and OpenCV Mats. Every conversion allocates a fresh buffer or Mat; caller
// memory is never aliased.
package image

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ValidateRGBA checks a raw RGBA buffer against the claimed dimensions.
func ValidateRGBA(pix []byte, width, height int) error {
	if pix == nil {
		return fmt.Errorf("nil pixel buffer")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(pix) < width*height*4 {
		return fmt.Errorf("buffer too small: %d bytes for %dx%d RGBA", len(pix), width, height)
	}
	return nil
}

// RGBAToBGRMat copies a raw RGBA pixel buffer into a 3-channel BGR Mat.
func RGBAToBGRMat(pix []byte, width, height int) (gocv.Mat, error) {
	if err := ValidateRGBA(pix, width, height); err != nil {
		return gocv.Mat{}, err
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	for y := 0; y < height; y++ {
		row := pix[y*width*4:]
		for x := 0; x < width; x++ {
			mat.SetUCharAt(y, x*3+0, row[x*4+2]) // B
			mat.SetUCharAt(y, x*3+1, row[x*4+1]) // G
			mat.SetUCharAt(y, x*3+2, row[x*4+0]) // R
		}
	}
	return mat, nil
}

// BGRMatToRGBA flattens a BGR Mat into a freshly allocated RGBA buffer.
func BGRMatToRGBA(m gocv.Mat) []byte {
	rows, cols := m.Rows(), m.Cols()
	pix := make([]byte, rows*cols*4)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := (y*cols + x) * 4
			pix[i+0] = m.GetUCharAt(y, x*3+2)
			pix[i+1] = m.GetUCharAt(y, x*3+1)
			pix[i+2] = m.GetUCharAt(y, x*3+0)
			pix[i+3] = 255
		}
	}
	return pix
}

// ImageToBGRMat converts a Go image.Image to a BGR Mat.
func ImageToBGRMat(src image.Image) (gocv.Mat, error) {
	if src == nil {
		return gocv.Mat{}, fmt.Errorf("nil image")
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return gocv.Mat{}, fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}

// RGBAFromImage flattens a Go image.Image into a raw RGBA buffer plus its
// dimensions, the format the pipeline entry points consume.
func RGBAFromImage(src image.Image) ([]byte, int, int) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*w + x) * 4
			pix[i+0] = uint8(r >> 8)
			pix[i+1] = uint8(g >> 8)
			pix[i+2] = uint8(b >> 8)
			pix[i+3] = uint8(a >> 8)
		}
	}
	return pix, w, h
}

// RGBAToImage wraps a raw RGBA buffer in an image.NRGBA, copying the pixels.
func RGBAToImage(pix []byte, width, height int) (*image.NRGBA, error) {
	if err := ValidateRGBA(pix, width, height); err != nil {
		return nil, err
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(out.Pix, pix[:width*height*4])
	return out, nil
}
