package img2pixel

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/wbrown/img2pixel/imageutil"
)

// Source is a decoded input image: one frame for still images, every
// composited frame with its delay for animations.
type Source struct {
	Format   string
	Animated bool
	Frames   []Frame
}

// DecodeSource reads and decodes an image from r. The format is sniffed
// from the data, never taken from a file name.
func DecodeSource(r io.Reader) (*Source, error) {
	decoded, err := imageutil.DecodeFrames(r)
	if err != nil {
		if errors.Is(err, imageutil.ErrEmptyImage) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
		}
		return nil, err
	}

	src := &Source{
		Format:   decoded.Format,
		Animated: decoded.Animated,
		Frames:   make([]Frame, len(decoded.Frames)),
	}
	for i, f := range decoded.Frames {
		if decoded.Animated {
			src.Frames[i] = AnimatedFrame(f.Image, f.Delay)
		} else {
			src.Frames[i] = StaticFrame(f.Image)
		}
	}
	if len(src.Frames) == 0 {
		return nil, fmt.Errorf("%w: no frames decoded", ErrInvalidSource)
	}
	return src, nil
}

// OpenSource decodes the image file at path.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, err := DecodeSource(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// NewSource wraps an in-memory still image.
func NewSource(img image.Image) *Source {
	return &Source{Format: DefaultFormat, Frames: []Frame{StaticFrame(img)}}
}
