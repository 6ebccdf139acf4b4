package selection

// Rect is a rectangle in normalized [0,1]² coordinates relative to the
// source image as the user sees it, i.e. after rotation.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FullRect covers the whole image.
func FullRect() Rect {
	return Rect{X: 0, Y: 0, W: 1, H: 1}
}

// Valid reports whether the rect has positive area and lies within
// [0,1]².
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0 &&
		r.X >= 0 && r.Y >= 0 &&
		r.X+r.W <= 1 && r.Y+r.H <= 1
}

// Center returns the rect's center point.
func (r Rect) Center() (cx, cy float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Clip clamps the rect into [0,1]².
func (r Rect) Clip() Rect {
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X > 1 {
		r.X = 1
	}
	if r.Y > 1 {
		r.Y = 1
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	if r.X+r.W > 1 {
		r.W = 1 - r.X
	}
	if r.Y+r.H > 1 {
		r.H = 1 - r.Y
	}
	return r
}

// Rotation is a crop rotation in counterclockwise degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// CropParams describes how one selected asset is to be cropped on
// export.
type CropParams struct {
	// AspectRatioIndex indexes into CropConfig.AspectRatios.
	AspectRatioIndex int
	// Rect is the crop region, normalized against the rotated image.
	Rect Rect
	// Rotation is applied before the rect is interpreted.
	Rotation Rotation
	// Scale divides the preferred output size; the export long edge is
	// round(PreferredOutputSize / Scale).
	Scale float64
}

// DefaultCropParams selects the full image at the first configured
// aspect ratio.
func DefaultCropParams() CropParams {
	return CropParams{
		AspectRatioIndex: 0,
		Rect:             FullRect(),
		Rotation:         Rotate0,
		Scale:            1,
	}
}

// FitRatio re-derives a crop rect after an aspect-ratio switch: the
// largest rectangle with the new width/height ratio that fits inside
// the previous rect, centered on the previous rect's center, clipped
// to [0,1]².
func FitRatio(prev Rect, ratio float64) Rect {
	prev = prev.Clip()
	if ratio <= 0 || prev.W <= 0 || prev.H <= 0 {
		return prev
	}

	w := prev.W
	h := w / ratio
	if h > prev.H {
		h = prev.H
		w = h * ratio
	}

	cx, cy := prev.Center()
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}.Clip()
}

// CropConfig is the immutable per-session crop configuration.
type CropConfig struct {
	// PreferredOutputSize is the target long edge of exported images,
	// in pixels, before per-asset scale is applied.
	PreferredOutputSize float64
	// AspectRatios is the ordered ratio choices (width/height) offered
	// in the crop step.
	AspectRatios []float64
}

// DefaultCropConfig returns the standard configuration: 1080px output,
// ratios 1:1 and 4:5.
func DefaultCropConfig() CropConfig {
	return CropConfig{
		PreferredOutputSize: 1080,
		AspectRatios:        []float64{1.0, 0.8},
	}
}

// Ratio returns the aspect ratio at index i, falling back to the first
// configured ratio (or 1.0 with no configuration) when out of range.
func (c CropConfig) Ratio(i int) float64 {
	if i >= 0 && i < len(c.AspectRatios) {
		return c.AspectRatios[i]
	}
	if len(c.AspectRatios) > 0 {
		return c.AspectRatios[0]
	}
	return 1.0
}
