package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

var (
	// ErrUnsupportedFormat is returned for data or format tags that are
	// not one of the known raster formats.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrEmptyImage is returned when there is nothing to decode.
	ErrEmptyImage = errors.New("empty image data")
)

// Format tags.
const (
	FormatGIF  = "gif"
	FormatPNG  = "png"
	FormatJPEG = "jpg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
)

// SniffFormat identifies an image format from the magic number at the
// start of header. It returns "" when the format is not recognised.
func SniffFormat(header []byte) string {
	switch {
	case bytes.HasPrefix(header, []byte("GIF87a")), bytes.HasPrefix(header, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(header, []byte{0xff, 0xd8, 0xff}):
		return FormatJPEG
	case bytes.HasPrefix(header, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(header, []byte("II*\x00")), bytes.HasPrefix(header, []byte("MM\x00*")):
		return FormatTIFF
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) && string(header[8:12]) == "WEBP":
		return FormatWebP
	}
	return ""
}

// NormalizeFormat maps a format tag or file extension ("JPEG", ".png")
// to one of the Format constants. It returns "" for unknown tags.
func NormalizeFormat(tag string) string {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), ".") {
	case "gif":
		return FormatGIF
	case "png":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	case "bmp":
		return FormatBMP
	case "tif", "tiff":
		return FormatTIFF
	case "webp":
		return FormatWebP
	}
	return ""
}

// FormatFromPath returns the format tag implied by a file extension.
func FormatFromPath(path string) string {
	return NormalizeFormat(filepath.Ext(path))
}

// CanEncode reports whether EncodeImage can write format. BMP, TIFF and
// WebP are decode-only.
func CanEncode(format string) bool {
	switch NormalizeFormat(format) {
	case FormatPNG, FormatJPEG, FormatGIF:
		return true
	}
	return false
}

// DecodedFrame is one fully composited frame of a decoded image.
// Delay is in milliseconds and only meaningful for animated sources.
type DecodedFrame struct {
	Image *image.RGBA
	Delay int
}

// Decoded is the result of DecodeFrames.
type Decoded struct {
	Format   string
	Animated bool
	Frames   []DecodedFrame
}

// DecodeFrames reads an image from r. GIF data is decoded as an animation:
// every frame is composited onto the logical screen honouring the disposal
// method of the previous frame, so each returned frame is a complete
// picture. Other formats decode to a single frame.
func DecodeFrames(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	format := SniffFormat(data)
	switch format {
	case "":
		return nil, fmt.Errorf("unrecognised magic number: %w", ErrUnsupportedFormat)
	case FormatGIF:
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode gif: %w", err)
		}
		return &Decoded{Format: format, Animated: true, Frames: compositeGIF(g)}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return &Decoded{
		Format: format,
		Frames: []DecodedFrame{{Image: ToRGBA(img)}},
	}, nil
}

// compositeGIF renders each GIF frame over a virtual screen.
func compositeGIF(g *gif.GIF) []DecodedFrame {
	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		for _, m := range g.Image {
			width = max(width, m.Rect.Max.X)
			height = max(height, m.Rect.Max.Y)
		}
	}

	screen := image.NewRGBA(image.Rect(0, 0, width, height))
	var saved *image.RGBA
	frames := make([]DecodedFrame, 0, len(g.Image))

	for i, m := range g.Image {
		if i > 0 {
			switch disposalAt(g, i-1) {
			case gif.DisposalBackground:
				FillRect(screen, g.Image[i-1].Rect, color.Transparent)
			case gif.DisposalPrevious:
				if saved != nil {
					copy(screen.Pix, saved.Pix)
				}
			}
		}
		if disposalAt(g, i) == gif.DisposalPrevious {
			saved = Clone(screen)
		}

		// Transparent palette entries decode with zero alpha, so Over
		// leaves the screen untouched there.
		draw.Draw(screen, m.Rect, m, m.Rect.Min, draw.Over)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i] * 10
		}
		frames = append(frames, DecodedFrame{Image: Clone(screen), Delay: delay})
	}
	return frames
}

func disposalAt(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

// EncodeImage writes img to w in the given raster format.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch NormalizeFormat(format) {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	}
	return fmt.Errorf("encode %q: %w", format, ErrUnsupportedFormat)
}

// gifPalette is the web-safe palette plus a fully transparent entry at
// index 0, so transparent pixels survive quantization.
var gifPalette = append(color.Palette{color.RGBA{}}, palette.WebSafe...)

// EncodeGIF writes an animated GIF. delays are in milliseconds and are
// rounded to the format's 1/100 s resolution. loopCount follows
// image/gif: 0 loops forever, -1 plays once.
func EncodeGIF(w io.Writer, frames []image.Image, delays []int, loopCount int) error {
	if len(frames) == 0 {
		return ErrEmptyImage
	}
	if len(delays) != len(frames) {
		return fmt.Errorf("gif: %d frames but %d delays", len(frames), len(delays))
	}

	g := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: loopCount,
	}
	for i, frame := range frames {
		bounds := frame.Bounds()
		p := image.NewPaletted(bounds, gifPalette)
		draw.Draw(p, bounds, frame, bounds.Min, draw.Src)
		g.Image[i] = p
		g.Delay[i] = int(math.Round(float64(delays[i]) / 10))
		g.Disposal[i] = gif.DisposalBackground
	}
	return gif.EncodeAll(w, g)
}

// SaveImage saves an image to the specified path, creating parent
// directories as needed. Format is determined by file extension.
func SaveImage(img image.Image, path string) error {
	format := FormatFromPath(path)
	if format == "" {
		format = FormatPNG
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := EncodeImage(f, img, format); err != nil {
		return err
	}
	return f.Close()
}
