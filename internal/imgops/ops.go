package imgops

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"math"

	"github.com/disintegration/imaging"
)

// Decode reads and decodes an image from r.
//
// Supported formats are PNG, JPEG, and GIF.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Rotate rotates an image counterclockwise by a multiple of 90 degrees.
//
// Parameters:
//   - img: The source image.
//   - degrees: One of 0, 90, 180, 270. Other values are reduced
//     modulo 360; values that are not a multiple of 90 leave the image
//     unrotated.
//
// Returns the rotated image, or the source image unchanged for 0.
func Rotate(img image.Image, degrees int) image.Image {
	degrees = ((degrees % 360) + 360) % 360
	switch degrees {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return img
	}
}

// CropNormalized extracts the region described by a normalized
// rectangle from an image.
//
// Parameters:
//   - img: The source image.
//   - x, y, w, h: Region in [0,1]² coordinates relative to img's
//     bounds. The region is denormalized against the pixel dimensions
//     and rounded to the nearest pixel edge.
//
// Returns:
//   - *image.NRGBA: The cropped pixels.
//   - error: Non-nil if the region denormalizes to zero area or falls
//     outside the image bounds.
func CropNormalized(img image.Image, x, y, w, h float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	pw := float64(bounds.Dx())
	ph := float64(bounds.Dy())

	x1 := bounds.Min.X + int(math.Round(x*pw))
	y1 := bounds.Min.Y + int(math.Round(y*ph))
	x2 := bounds.Min.X + int(math.Round((x+w)*pw))
	y2 := bounds.Min.Y + int(math.Round((y+h)*ph))

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: normalized rect %.3fx%.3f at (%.3f,%.3f) has no pixel area", w, h, x, y)
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// ResizeLongEdge resizes an image so its longer edge equals target
// pixels, preserving aspect ratio. Lanczos resampling, matching the
// quality used for crop output elsewhere in the module.
//
// A target <= 0 returns the image unchanged.
func ResizeLongEdge(img image.Image, target int) image.Image {
	if target <= 0 {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() >= bounds.Dy() {
		return imaging.Resize(img, target, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, target, imaging.Lanczos)
}

// EncodeJPEG encodes an image as JPEG at the given quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return nil
}
