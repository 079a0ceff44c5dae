package img2pixel

import (
	"errors"

	"github.com/wbrown/img2pixel/imageutil"
)

var (
	// ErrInvalidSource is returned for a nil or zero-sized frame.
	ErrInvalidSource = errors.New("invalid source image")

	// ErrInvalidDimension is returned when scaling or block truncation
	// leaves nothing to render.
	ErrInvalidDimension = imageutil.ErrInvalidDimension

	// ErrMissingStrategy is returned when no render strategy is configured.
	ErrMissingStrategy = errors.New("no render strategy configured")

	// ErrEmptySequence is returned when an animation has no frames.
	ErrEmptySequence = errors.New("empty frame sequence")

	// ErrEncodingFailure wraps errors surfaced by a FrameEncoder.
	ErrEncodingFailure = errors.New("encoding failed")

	// ErrInvalidOptions is returned by Options.Validate.
	ErrInvalidOptions = errors.New("invalid render options")

	// ErrUnknownStrategy is returned by StrategyByName.
	ErrUnknownStrategy = errors.New("unknown render strategy")

	// ErrBrokenChain is returned by Flatten when the previous-frame links
	// do not lead back to the first frame exactly once.
	ErrBrokenChain = errors.New("broken frame chain")

	// ErrUnsupportedFormat is returned for unknown raster format tags.
	ErrUnsupportedFormat = imageutil.ErrUnsupportedFormat
)
