package img2pixel

import "image"

// Frame is one input picture. Static images carry no delay; animation
// frames carry their display time in milliseconds.
type Frame struct {
	Image    image.Image
	Delay    int
	HasDelay bool
}

// StaticFrame wraps a single still image.
func StaticFrame(img image.Image) Frame {
	return Frame{Image: img}
}

// AnimatedFrame wraps one frame of an animation shown for delay ms.
func AnimatedFrame(img image.Image, delay int) Frame {
	return Frame{Image: img, Delay: delay, HasDelay: true}
}

// RenderedFrame is the output of rendering one Frame: the rendered buffer,
// the frame's delay passed through unchanged, and its character grid.
type RenderedFrame struct {
	Image    *image.RGBA
	Delay    int
	HasDelay bool
	Chars    FrameCharGrid
}
