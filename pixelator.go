package img2pixel

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/wbrown/img2pixel/imageutil"
)

// Pixelator renders one decoded Source in every output form: a still
// image, a GIF, an encoded file, or per-frame character lines.
type Pixelator struct {
	src       *Source
	renderer  *Renderer
	assembler *Assembler
}

// NewPixelator prepares src for rendering with r. A nil r uses
// NewRenderer() defaults.
func NewPixelator(src *Source, r *Renderer, opts ...AssemblerOption) *Pixelator {
	if r == nil {
		r = NewRenderer()
	}
	return &Pixelator{
		src:       src,
		renderer:  r,
		assembler: NewAssembler(r, opts...),
	}
}

// Source returns the source being rendered.
func (p *Pixelator) Source() *Source {
	return p.src
}

func (p *Pixelator) frames() ([]Frame, error) {
	if p.src == nil || len(p.src.Frames) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrInvalidSource)
	}
	return p.src.Frames, nil
}

// Image renders the first frame. For animations that is the first
// composited picture.
func (p *Pixelator) Image() (*image.RGBA, error) {
	frames, err := p.frames()
	if err != nil {
		return nil, err
	}
	rf, err := p.renderer.RenderFrame(frames[0])
	if err != nil {
		return nil, err
	}
	return rf.Image, nil
}

// WriteGIF renders every frame and writes them as a looping GIF. A still
// source becomes a one-frame GIF.
func (p *Pixelator) WriteGIF(ctx context.Context, w io.Writer) error {
	frames, err := p.frames()
	if err != nil {
		return err
	}
	return p.assembler.Encode(ctx, frames, GIFEncoder{W: w})
}

// Encode writes the rendering to w: animations as GIF, still images in
// the renderer's Format.
func (p *Pixelator) Encode(ctx context.Context, w io.Writer) error {
	format := p.renderer.Options().Format
	if p.src != nil && p.src.Animated {
		format = imageutil.FormatGIF
	}
	return p.encode(ctx, w, format)
}

func (p *Pixelator) encode(ctx context.Context, w io.Writer, format string) error {
	frames, err := p.frames()
	if err != nil {
		return err
	}
	enc, err := EncoderFor(w, format, p.src.Animated)
	if err != nil {
		return err
	}
	return p.assembler.Encode(ctx, frames, enc)
}

// WriteFile writes the rendering to path, creating parent directories.
// The file extension picks the format; without a known extension
// animations are written as GIF and still images in the renderer's
// Format. Nothing is written when rendering fails.
func (p *Pixelator) WriteFile(ctx context.Context, path string) error {
	format := imageutil.FormatFromPath(path)
	if format == "" {
		format = p.renderer.Options().Format
		if p.src != nil && p.src.Animated {
			format = imageutil.FormatGIF
		}
	}

	var buf bytes.Buffer
	if err := p.encode(ctx, &buf, format); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CharGrids returns the character grid of every frame, oldest first.
func (p *Pixelator) CharGrids(ctx context.Context) ([]FrameCharGrid, error) {
	frames, err := p.frames()
	if err != nil {
		return nil, err
	}
	return p.assembler.CharGrids(ctx, frames)
}

// Chars returns the character lines of every frame, oldest first. Block
// strategies produce no characters, so their frames hold no lines.
func (p *Pixelator) Chars(ctx context.Context) ([][]string, error) {
	grids, err := p.CharGrids(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(grids))
	for i, g := range grids {
		out[i] = g.Lines()
	}
	return out, nil
}
