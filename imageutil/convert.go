package imageutil

import "math"

// Luminance returns the BT.601 luma of an RGB triple in [0, 255]:
// Y = 0.299*R + 0.587*G + 0.114*B, the weighting OpenCV's COLOR_BGR2GRAY uses.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Luminance returns the BT.601 luma of the color.
func (rgb RGB) Luminance() float64 {
	return Luminance(rgb.R, rgb.G, rgb.B)
}

// GrayLevel converts a luminance value to the gray RGB it renders as.
// Values are rounded and clamped to [0, 255].
func GrayLevel(lum float64) RGB {
	v := math.Round(lum)
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	y := uint8(v)
	return RGB{R: y, G: y, B: y}
}
