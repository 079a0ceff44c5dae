package img2pixel

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// FontMetrics describes the glyph box of a GlyphFont in pixels.
type FontMetrics struct {
	// Size is the side of the square cell glyphs are placed in.
	Size int
	// Ascent and Descent are measured from the baseline, both positive.
	Ascent, Descent int
	// Baseline is the baseline offset from the top of the cell that
	// centres the ascent+descent box vertically.
	Baseline int
}

// GlyphFont rasterizes palette glyphs into square alpha masks of one cell
// size. Masks are rendered once per rune and shared by every block and
// frame, so a GlyphFont is safe for concurrent use.
type GlyphFont struct {
	name    string
	face    font.Face
	metrics FontMetrics

	mu    sync.Mutex
	masks map[rune]*image.Alpha
}

// NewGlyphFont parses TrueType data and prepares a face whose em size is
// size pixels (72 DPI, so points equal pixels).
func NewGlyphFont(ttf []byte, name string, size int) (*GlyphFont, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: glyph size %d must be at least 1", ErrInvalidOptions, size)
	}
	parsed, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}

	face := truetype.NewFace(parsed, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})

	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	return &GlyphFont{
		name: name,
		face: face,
		metrics: FontMetrics{
			Size:     size,
			Ascent:   ascent,
			Descent:  descent,
			Baseline: (size + ascent - descent) / 2,
		},
		masks: make(map[rune]*image.Alpha),
	}, nil
}

// DefaultGlyphFont returns the embedded Go Mono face at the given size.
func DefaultGlyphFont(size int) (*GlyphFont, error) {
	return NewGlyphFont(gomono.TTF, "Go Mono", size)
}

// LoadGlyphFont loads a TrueType font file.
func LoadGlyphFont(path string, size int) (*GlyphFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return NewGlyphFont(data, path, size)
}

// Name returns the font name or the path it was loaded from.
func (f *GlyphFont) Name() string {
	return f.name
}

// Metrics returns the glyph box metrics.
func (f *GlyphFont) Metrics() FontMetrics {
	return f.metrics
}

// Mask returns the coverage mask of r, Size x Size pixels with the glyph
// centred horizontally on its advance and vertically on the baseline.
// The returned image must not be modified.
func (f *GlyphFont) Mask(r rune) *image.Alpha {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.masks[r]; ok {
		return m
	}
	m := f.renderMask(r)
	f.masks[r] = m
	return m
}

// renderMask draws r into a fresh mask. Callers hold f.mu; truetype faces
// are not safe for concurrent use.
func (f *GlyphFont) renderMask(r rune) *image.Alpha {
	size := f.metrics.Size
	mask := image.NewAlpha(image.Rect(0, 0, size, size))

	x := 0
	if adv, ok := f.face.GlyphAdvance(r); ok {
		x = (size - adv.Round()) / 2
	}
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: f.face,
		Dot:  fixed.P(x, f.metrics.Baseline),
	}
	d.DrawString(string(r))
	return mask
}

// Draw paints glyph r in color c into rect of dst. Nothing outside rect
// is touched; a rect larger than the cell leaves the remainder unchanged.
func (f *GlyphFont) Draw(dst *image.RGBA, rect image.Rectangle, r rune, c color.Color) {
	mask := f.Mask(r)
	draw.DrawMask(dst, rect, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}
