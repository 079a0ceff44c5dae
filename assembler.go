package img2pixel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Assembler renders ordered frame sequences with a Renderer. Frames are
// rendered concurrently and linked in submission order afterwards, so the
// output order never depends on which frame finished first.
type Assembler struct {
	renderer *Renderer
	workers  int
	logger   *log.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithWorkers bounds the number of frames rendered at once. Values below
// one mean runtime.GOMAXPROCS(0).
func WithWorkers(n int) AssemblerOption {
	return func(a *Assembler) {
		a.workers = n
	}
}

// WithAssemblerLogger sets the assembler's logger.
func WithAssemblerLogger(l *log.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssembler creates an Assembler around r. The renderer's logger is
// used unless WithAssemblerLogger says otherwise.
func NewAssembler(r *Renderer, opts ...AssemblerOption) *Assembler {
	a := &Assembler{renderer: r, logger: r.Logger()}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	return a
}

// Render renders every frame and links the character grids in
// submission order: frame i gets Prev = i-1 and frame 0 gets NoPrev.
// The first failing frame aborts the sequence and no frames are returned.
func (a *Assembler) Render(ctx context.Context, frames []Frame) ([]RenderedFrame, error) {
	if len(frames) == 0 {
		return nil, ErrEmptySequence
	}

	start := time.Now()
	results := make([]RenderedFrame, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, f := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rf, err := a.renderer.RenderFrame(f)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			results[i] = rf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Chars.Prev = i - 1
	}

	a.logger.Debug("rendered sequence",
		"frames", len(results),
		"workers", a.workers,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return results, nil
}

// Encode renders frames and forwards the buffers, with their exact
// delays, to enc.
func (a *Assembler) Encode(ctx context.Context, frames []Frame, enc FrameEncoder) error {
	rendered, err := a.Render(ctx, frames)
	if err != nil {
		return err
	}
	if err := enc.EncodeFrames(rendered); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}
	return nil
}

// CharGrids renders frames and returns their character grids oldest
// first.
func (a *Assembler) CharGrids(ctx context.Context, frames []Frame) ([]FrameCharGrid, error) {
	rendered, err := a.Render(ctx, frames)
	if err != nil {
		return nil, err
	}
	return Flatten(rendered)
}

// Flatten walks the Prev links from the newest frame back to the first
// and returns the grids oldest first. A link that points outside the
// sequence, skips a frame or revisits one reports ErrBrokenChain.
func Flatten(rendered []RenderedFrame) ([]FrameCharGrid, error) {
	if len(rendered) == 0 {
		return nil, ErrEmptySequence
	}

	out := make([]FrameCharGrid, len(rendered))
	seen := make([]bool, len(rendered))
	pos := len(rendered) - 1
	for i := len(rendered) - 1; ; {
		if seen[i] {
			return nil, fmt.Errorf("%w: frame %d visited twice", ErrBrokenChain, i)
		}
		seen[i] = true
		out[pos] = rendered[i].Chars

		prev := rendered[i].Chars.Prev
		if prev == NoPrev {
			break
		}
		if prev < 0 || prev >= len(rendered) {
			return nil, fmt.Errorf("%w: frame %d links to %d", ErrBrokenChain, i, prev)
		}
		if pos == 0 {
			return nil, fmt.Errorf("%w: chain is longer than the sequence", ErrBrokenChain)
		}
		pos--
		i = prev
	}
	if pos != 0 {
		return nil, fmt.Errorf("%w: chain reaches %d of %d frames", ErrBrokenChain, len(rendered)-pos, len(rendered))
	}
	return out, nil
}
