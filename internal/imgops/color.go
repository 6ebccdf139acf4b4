package imgops

import (
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorResult contains an average color in multiple representations.
//
// Grid UIs use the Hex form as a thumbnail placeholder while the real
// thumbnail loads; HSL is included for callers that derive a contrast
// color for overlaid selection badges.
type ColorResult struct {
	Hex string `json:"hex"` // Hex format "#RRGGBB" (no alpha)
	R   uint8  `json:"r"`   // Red component (0-255)
	G   uint8  `json:"g"`   // Green component (0-255)
	B   uint8  `json:"b"`   // Blue component (0-255)
	H   int    `json:"h"`   // Hue: 0-360 degrees
	S   int    `json:"s"`   // Saturation: 0-100 percent
	L   int    `json:"l"`   // Lightness: 0-100 percent
}

// AverageColor computes the mean color of an image.
//
// The image is sampled on a coarse grid rather than per-pixel, which is
// accurate enough for a placeholder and keeps the cost independent of
// image size.
//
// Returns an error for images with no pixels.
func AverageColor(img image.Image) (*ColorResult, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("cannot average an empty image")
	}

	const grid = 16
	stepX := bounds.Dx() / grid
	if stepX < 1 {
		stepX = 1
	}
	stepY := bounds.Dy() / grid
	if stepY < 1 {
		stepY = 1
	}

	var sumR, sumG, sumB, n uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r, g, b, _ := img.At(x, y).RGBA()
			// Convert from 16-bit to 8-bit
			sumR += uint64(r >> 8)
			sumG += uint64(g >> 8)
			sumB += uint64(b >> 8)
			n++
		}
	}

	r8 := uint8(sumR / n)
	g8 := uint8(sumG / n)
	b8 := uint8(sumB / n)

	c := colorful.Color{R: float64(r8) / 255, G: float64(g8) / 255, B: float64(b8) / 255}
	h, s, l := c.Hsl()

	return &ColorResult{
		Hex: c.Hex(),
		R:   r8,
		G:   g8,
		B:   b8,
		H:   int(h + 0.5),
		S:   int(s*100 + 0.5),
		L:   int(l*100 + 0.5),
	}, nil
}
