package img2pixel

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wbrown/img2pixel/imageutil"
)

// Renderer turns single frames into block renderings. Its options are
// fixed at construction, so one Renderer may render many frames
// concurrently; every RenderFrame call owns its own RenderContext and
// output buffer.
type Renderer struct {
	opts   Options
	logger *log.Logger

	fontOnce sync.Once
	font     *GlyphFont
	fontErr  error
}

// NewRenderer creates a new Renderer with the given options.
// Default values: BlockSize=1, Rate=1.0, Palette=DefaultPalette,
// Strategy=CharColor, Format="jpg", linear interpolation, sequential
// block rendering, log.Default() for debug output.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		opts:   DefaultOptions(),
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Options returns a copy of the renderer's options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Logger returns the renderer's logger.
func (r *Renderer) Logger() *log.Logger {
	return r.logger
}

// glyphDrawer is implemented by strategies that draw palette glyphs and
// therefore need a GlyphFont.
type glyphDrawer interface {
	DrawsGlyphs() bool
}

func (charStrategy) DrawsGlyphs() bool { return true }

// glyphFont returns the configured font, or the default Go Mono face sized
// to the block size, built once per Renderer.
func (r *Renderer) glyphFont() (*GlyphFont, error) {
	if r.opts.Font != nil {
		return r.opts.Font, nil
	}
	r.fontOnce.Do(func() {
		r.font, r.fontErr = DefaultGlyphFont(r.opts.BlockSize)
	})
	return r.font, r.fontErr
}

// RenderFrame renders one frame: the source is copied, scaled by Rate,
// cut into whole blocks and every block is rendered by the Strategy into a
// transparent buffer of the truncated size. The frame's delay is passed
// through. On error no buffer is returned.
func (r *Renderer) RenderFrame(f Frame) (RenderedFrame, error) {
	if f.Image == nil {
		return RenderedFrame{}, fmt.Errorf("%w: nil image", ErrInvalidSource)
	}
	if size := f.Image.Bounds().Size(); size.X <= 0 || size.Y <= 0 {
		return RenderedFrame{}, fmt.Errorf("%w: image is %dx%d", ErrInvalidSource, size.X, size.Y)
	}
	if r.opts.Strategy == nil {
		return RenderedFrame{}, ErrMissingStrategy
	}
	if err := r.opts.Validate(); err != nil {
		return RenderedFrame{}, err
	}

	opts := r.opts
	if gd, ok := opts.Strategy.(glyphDrawer); ok && gd.DrawsGlyphs() {
		font, err := r.glyphFont()
		if err != nil {
			return RenderedFrame{}, err
		}
		opts.Font = font
	}

	start := time.Now()
	src, err := imageutil.Scale(imageutil.ToRGBA(f.Image), opts.Rate, opts.Interpolation)
	if err != nil {
		return RenderedFrame{}, err
	}

	grid, err := NewBlockGrid(src.Bounds().Dx(), src.Bounds().Dy(), opts.BlockSize)
	if err != nil {
		return RenderedFrame{}, err
	}
	if grid.Empty() {
		return RenderedFrame{}, fmt.Errorf("%w: %dx%d image holds no %dpx block",
			ErrInvalidDimension, grid.Width, grid.Height, grid.Size)
	}

	dst := image.NewRGBA(grid.Bounds())
	ctx := NewRenderContext(grid.Rows(), grid.Cols())
	defer ctx.Clear()

	renderBlocks(src, dst, grid, ctx, &opts)
	chars := ctx.Finish()

	r.logger.Debug("rendered frame",
		"strategy", opts.Strategy.Name(),
		"source", fmt.Sprintf("%dx%d", grid.Width, grid.Height),
		"blocks", fmt.Sprintf("%dx%d", grid.Cols(), grid.Rows()),
		"elapsed", time.Since(start).Round(time.Microsecond))

	return RenderedFrame{
		Image:    dst,
		Delay:    f.Delay,
		HasDelay: f.HasDelay,
		Chars:    chars,
	}, nil
}

// renderBlocks runs the strategy over every block of grid, one row per
// worker when o.Parallelism allows it. Each block writes its own output
// region and its own context slot, so workers share nothing mutable.
func renderBlocks(src, dst *image.RGBA, grid BlockGrid, ctx *RenderContext, o *Options) {
	if o.Parallelism < 2 || grid.Rows() < 2 {
		for b := range grid.Blocks() {
			if cell, ok := o.Strategy.Render(src, dst, b, o); ok {
				ctx.Push(cell)
			}
		}
		return
	}

	// The group only bounds concurrency; workers never fail.
	var g errgroup.Group
	g.SetLimit(o.Parallelism)
	for row := 0; row < grid.Rows(); row++ {
		g.Go(func() error {
			for b := range grid.RowBlocks(row) {
				if cell, ok := o.Strategy.Render(src, dst, b, o); ok {
					ctx.Push(cell)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Scale copies img and resizes it by rate, see imageutil.Scale.
func Scale(img image.Image, rate float64, interp imageutil.Interpolation) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrInvalidSource
	}
	return imageutil.Scale(imageutil.ToRGBA(img), rate, interp)
}
