package img2pixel

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/wbrown/img2pixel/imageutil"
)

// DefaultPalette orders glyphs from the densest to the lightest, so dark
// blocks pick dense glyphs under PaletteIndex.
const DefaultPalette = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\\\"^`'. "

const (
	DefaultBlockSize = 1
	DefaultRate      = 1.0
	DefaultFormat    = imageutil.FormatJPEG
)

// Options configures how a frame is rendered.
type Options struct {
	// BlockSize is the side of the square source region mapped to one
	// output unit. Must be at least 1.
	BlockSize int

	// Rate scales the source before decomposition. Must be positive.
	Rate float64

	// Palette is the ordered glyph set used by the character strategies.
	// The order is used literally: index 0 is chosen for luminance 0.
	Palette []rune

	// Strategy renders each block.
	Strategy Strategy

	// Format is the raster format tag used for static output.
	Format string

	// Font supplies glyph metrics and masks for the character strategies.
	// When nil a Go Mono face sized to BlockSize is used.
	Font *GlyphFont

	// Interpolation selects the resampling used when Rate != 1.
	Interpolation imageutil.Interpolation

	// Parallelism is the number of block rows rendered concurrently
	// within one frame. Values below 2 render sequentially.
	Parallelism int
}

// DefaultOptions returns the options a Renderer starts from.
func DefaultOptions() Options {
	return Options{
		BlockSize: DefaultBlockSize,
		Rate:      DefaultRate,
		Palette:   []rune(DefaultPalette),
		Strategy:  CharColor,
		Format:    DefaultFormat,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidOptions.
// A nil Strategy is not an options error; rendering reports
// ErrMissingStrategy for it instead.
func (o *Options) Validate() error {
	if o.BlockSize < 1 {
		return fmt.Errorf("%w: block size %d must be at least 1", ErrInvalidOptions, o.BlockSize)
	}
	if !(o.Rate > 0) || math.IsInf(o.Rate, 0) {
		return fmt.Errorf("%w: rate %v must be a positive number", ErrInvalidOptions, o.Rate)
	}
	if err := validatePalette(o.Palette); err != nil {
		return err
	}
	if imageutil.NormalizeFormat(o.Format) == "" {
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidOptions, o.Format)
	}
	if !imageutil.CanEncode(o.Format) {
		return fmt.Errorf("%w: cannot write %q images", ErrInvalidOptions, o.Format)
	}
	return nil
}

// ParsePalette converts a glyph string to a palette, rejecting empty
// palettes and glyphs that take no terminal cell (controls, combining marks).
func ParsePalette(s string) ([]rune, error) {
	p := []rune(s)
	if err := validatePalette(p); err != nil {
		return nil, err
	}
	return p, nil
}

func validatePalette(p []rune) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: palette must not be empty", ErrInvalidOptions)
	}
	for i, r := range p {
		if runewidth.RuneWidth(r) == 0 {
			return fmt.Errorf("%w: palette glyph %d (%U) has no width", ErrInvalidOptions, i, r)
		}
	}
	return nil
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer)

// WithBlockSize sets the block size in source pixels.
func WithBlockSize(size int) Option {
	return func(r *Renderer) {
		r.opts.BlockSize = size
	}
}

// WithRate sets the scale rate applied before decomposition.
func WithRate(rate float64) Option {
	return func(r *Renderer) {
		r.opts.Rate = rate
	}
}

// WithPalette sets the character palette, keeping the given order.
func WithPalette(glyphs string) Option {
	return func(r *Renderer) {
		r.opts.Palette = []rune(glyphs)
	}
}

// WithStrategy sets the block render strategy.
func WithStrategy(s Strategy) Option {
	return func(r *Renderer) {
		r.opts.Strategy = s
	}
}

// WithFormat sets the raster format tag for static output.
func WithFormat(format string) Option {
	return func(r *Renderer) {
		r.opts.Format = format
	}
}

// WithFont sets the glyph font used by the character strategies.
func WithFont(f *GlyphFont) Option {
	return func(r *Renderer) {
		r.opts.Font = f
	}
}

// WithInterpolation sets the resampling method used for Rate != 1.
func WithInterpolation(interp imageutil.Interpolation) Option {
	return func(r *Renderer) {
		r.opts.Interpolation = interp
	}
}

// WithParallelism renders up to n block rows of a frame concurrently.
func WithParallelism(n int) Option {
	return func(r *Renderer) {
		r.opts.Parallelism = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOptions replaces all render options at once.
func WithOptions(o Options) Option {
	return func(r *Renderer) {
		r.opts = o
	}
}
