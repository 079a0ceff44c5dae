package img2pixel

import (
	"fmt"
	"image"
	"io"

	"github.com/wbrown/img2pixel/imageutil"
)

// FrameEncoder consumes rendered frames in display order.
type FrameEncoder interface {
	EncodeFrames(frames []RenderedFrame) error
}

// GIFEncoder writes rendered frames as an animated GIF. Frames without a
// delay are shown for DefaultFrameDelay.
type GIFEncoder struct {
	W io.Writer
	// LoopCount follows image/gif: 0 loops forever, -1 plays once.
	LoopCount int
}

// DefaultFrameDelay is the GIF delay in milliseconds used for frames that
// carry none.
const DefaultFrameDelay = 100

func (e GIFEncoder) EncodeFrames(frames []RenderedFrame) error {
	if e.W == nil {
		return fmt.Errorf("gif encoder has no writer")
	}
	if len(frames) == 0 {
		return ErrEmptySequence
	}

	images := make([]image.Image, len(frames))
	delays := make([]int, len(frames))
	for i, f := range frames {
		images[i] = f.Image
		delays[i] = f.Delay
		if !f.HasDelay {
			delays[i] = DefaultFrameDelay
		}
	}
	return imageutil.EncodeGIF(e.W, images, delays, e.LoopCount)
}

// RasterEncoder writes a single rendered frame as png, jpg or gif.
type RasterEncoder struct {
	W      io.Writer
	Format string
}

func (e RasterEncoder) EncodeFrames(frames []RenderedFrame) error {
	if e.W == nil {
		return fmt.Errorf("%s encoder has no writer", e.Format)
	}
	switch len(frames) {
	case 0:
		return ErrEmptySequence
	case 1:
	default:
		return fmt.Errorf("%s holds one frame, got %d", e.Format, len(frames))
	}
	return imageutil.EncodeImage(e.W, frames[0].Image, imageutil.NormalizeFormat(e.Format))
}

// EncoderFor returns the encoder for a format tag: a GIFEncoder for gif
// when animated is set, a RasterEncoder otherwise.
func EncoderFor(w io.Writer, format string, animated bool) (FrameEncoder, error) {
	tag := imageutil.NormalizeFormat(format)
	switch tag {
	case imageutil.FormatGIF:
		if animated {
			return GIFEncoder{W: w}, nil
		}
		return RasterEncoder{W: w, Format: tag}, nil
	case imageutil.FormatPNG, imageutil.FormatJPEG:
		if animated {
			return nil, fmt.Errorf("%w: %s cannot hold an animation", ErrUnsupportedFormat, tag)
		}
		return RasterEncoder{W: w, Format: tag}, nil
	}
	return nil, fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, format)
}
