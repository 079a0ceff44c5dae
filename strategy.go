package img2pixel

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/wbrown/img2pixel/imageutil"
)

// Strategy renders one block of src into the same region of dst.
// Character strategies return the CharCell chosen for the block and true;
// block strategies return false. Implementations read and write only
// inside b.Rect, so blocks never interfere with each other.
type Strategy interface {
	Name() string
	Render(src, dst *image.RGBA, b Block, o *Options) (CharCell, bool)
}

// The four built-in strategies.
var (
	Gray       Strategy = grayStrategy{}
	ColorBlock Strategy = colorBlockStrategy{}
	CharGray   Strategy = charStrategy{name: "char-gray", gray: true}
	CharColor  Strategy = charStrategy{name: "char-color"}
)

// Strategies lists the built-in strategies in declaration order.
func Strategies() []Strategy {
	return []Strategy{Gray, ColorBlock, CharGray, CharColor}
}

// StrategyByName resolves "gray", "color", "char-gray" or "char-color".
// Matching ignores case, and underscores may stand in for hyphens.
func StrategyByName(name string) (Strategy, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	switch key {
	case "gray", "grey":
		return Gray, nil
	case "color", "colour", "pixel", "color-block":
		return ColorBlock, nil
	case "char-gray", "char-grey":
		return CharGray, nil
	case "char-color", "char-colour", "char", "":
		return CharColor, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// PaletteIndex maps a luminance in [0, 255] to a palette position with a
// single linear scaling, floor(lum/256*n), clamped to [0, n-1]. The
// mapping is monotonic: a darker block never gets a higher index than a
// lighter one.
func PaletteIndex(lum float64, n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Floor(lum / 256 * float64(n)))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

type grayStrategy struct{}

func (grayStrategy) Name() string { return "gray" }

func (grayStrategy) Render(src, dst *image.RGBA, b Block, _ *Options) (CharCell, bool) {
	stats := imageutil.AverageBlock(src, b.Rect)
	gray := imageutil.GrayLevel(stats.Luminance)
	// Luminance of premultiplied channels only exceeds alpha by rounding.
	c := gray.ToColor()
	c.A = stats.Alpha
	c.R, c.G, c.B = min(c.R, c.A), min(c.G, c.A), min(c.B, c.A)
	imageutil.FillRect(dst, b.Rect, c)
	return CharCell{}, false
}

type colorBlockStrategy struct{}

func (colorBlockStrategy) Name() string { return "color" }

func (colorBlockStrategy) Render(src, dst *image.RGBA, b Block, _ *Options) (CharCell, bool) {
	stats := imageutil.AverageBlock(src, b.Rect)
	imageutil.FillRect(dst, b.Rect, stats.Premultiplied())
	return CharCell{}, false
}

type charStrategy struct {
	name string
	gray bool
}

func (s charStrategy) Name() string { return s.name }

func (s charStrategy) Render(src, dst *image.RGBA, b Block, o *Options) (CharCell, bool) {
	// Glyphs and cell colors follow the visible color, not its coverage.
	stats := imageutil.AverageBlock(src, b.Rect)
	glyph := o.Palette[PaletteIndex(stats.StraightLuminance, len(o.Palette))]

	fg := stats.Straight
	if s.gray {
		fg = imageutil.GrayLevel(stats.StraightLuminance)
	}
	if o.Font != nil {
		o.Font.Draw(dst, b.Rect, glyph, fg.ToColor())
	}
	return CharCell{Glyph: glyph, Color: fg, Row: b.Row, Col: b.Col}, true
}
