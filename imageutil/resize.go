package imageutil

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// ErrInvalidDimension is returned when scaling yields an empty image.
var ErrInvalidDimension = errors.New("invalid dimension")

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR.
	InterpolationLinear Interpolation = iota

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest, and keeps hard pixel edges.
	InterpolationNearest

	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea
)

// String returns the name accepted by ParseInterpolation.
func (i Interpolation) String() string {
	switch i {
	case InterpolationNearest:
		return "nearest"
	case InterpolationArea:
		return "area"
	default:
		return "linear"
	}
}

// ParseInterpolation resolves "linear", "nearest" or "area".
// The empty string selects InterpolationLinear.
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear", "bilinear":
		return InterpolationLinear, nil
	case "nearest", "nearest-neighbor":
		return InterpolationNearest, nil
	case "area", "catmullrom", "catmull-rom":
		return InterpolationArea, nil
	}
	return InterpolationLinear, fmt.Errorf("unknown interpolation %q", name)
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationNearest:
		return draw.NearestNeighbor
	case InterpolationArea:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *image.RGBA, width, height int, interp Interpolation) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ScaledSize returns round(width*rate) x round(height*rate).
func ScaledSize(width, height int, rate float64) (int, int) {
	return int(math.Round(float64(width) * rate)), int(math.Round(float64(height) * rate))
}

// Scale resizes img by rate. A rate of exactly 1 returns img itself.
// Any other rate produces a new image of ScaledSize, or fails with
// ErrInvalidDimension when either side rounds to zero or the rate is not
// a positive finite number.
func Scale(img *image.RGBA, rate float64, interp Interpolation) (*image.RGBA, error) {
	if rate == 1 {
		return img, nil
	}
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("scale rate %v: %w", rate, ErrInvalidDimension)
	}

	width, height := ScaledSize(img.Bounds().Dx(), img.Bounds().Dy(), rate)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scaling %dx%d by %v gives %dx%d: %w",
			img.Bounds().Dx(), img.Bounds().Dy(), rate, width, height, ErrInvalidDimension)
	}
	return Resize(img, width, height, interp), nil
}
