// Package imageutil provides the pixel-level helpers used by img2pixel:
// owned RGBA copies, block averaging, luminance, rate scaling and the
// decode/encode adapters for static and animated images.
package imageutil

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to an opaque color.RGBA.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Hex returns the color as "#rrggbb".
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBFromColor converts a color.Color to RGB, dropping alpha.
func RGBFromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ToRGBA returns an RGBA copy of img with its origin moved to (0, 0).
// The result never shares pixel memory with img.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// Clone creates a deep copy of an RGBA image.
func Clone(img *image.RGBA) *image.RGBA {
	clone := image.NewRGBA(img.Rect)
	copy(clone.Pix, img.Pix)
	return clone
}

// BlockStats holds the channel averages of a rectangular region. Color and
// Luminance are averaged as stored in image.RGBA, i.e. alpha-premultiplied,
// so Color together with Alpha is itself a valid premultiplied color.
// Straight and StraightLuminance are the alpha-weighted averages of the
// un-premultiplied channels: the color the visible pixels actually have.
// Both are zero for a fully transparent region.
type BlockStats struct {
	Color     RGB
	Alpha     uint8
	Luminance float64

	Straight          RGB
	StraightLuminance float64
}

// AverageBlock computes the average color, alpha and BT.601 luminance of
// the pixels of img inside rect. Pixels outside img are ignored.
func AverageBlock(img *image.RGBA, rect image.Rectangle) BlockStats {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return BlockStats{}
	}

	var sumR, sumG, sumB, sumA int
	var sumLum float64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		off := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, a := img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3]
			sumR += int(r)
			sumG += int(g)
			sumB += int(b)
			sumA += int(a)
			sumLum += Luminance(r, g, b)
			off += 4
		}
	}

	n := rect.Dx() * rect.Dy()
	stats := BlockStats{
		Color: RGB{
			R: uint8((sumR + n/2) / n),
			G: uint8((sumG + n/2) / n),
			B: uint8((sumB + n/2) / n),
		},
		Alpha:     uint8((sumA + n/2) / n),
		Luminance: sumLum / float64(n),
	}
	if sumA > 0 {
		// sum(a * c/a * 255) / sum(a) per channel.
		stats.Straight = RGB{
			R: unpremultiply(sumR, sumA),
			G: unpremultiply(sumG, sumA),
			B: unpremultiply(sumB, sumA),
		}
		stats.StraightLuminance = min(sumLum*255/float64(sumA), 255)
	}
	return stats
}

func unpremultiply(sum, sumA int) uint8 {
	return uint8(min((sum*255+sumA/2)/sumA, 255))
}

// Premultiplied returns the average as a color.RGBA.
func (s BlockStats) Premultiplied() color.RGBA {
	return color.RGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Alpha}
}

// FillRect fills rect in img with c, replacing existing pixels.
func FillRect(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}
