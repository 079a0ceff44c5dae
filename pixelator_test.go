package img2pixel

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/wbrown/img2pixel/imageutil"
)

func TestPixelatorImage(t *testing.T) {
	t.Parallel()

	p := NewPixelator(NewSource(imageutil.CreateColorBarsImage(17, 9)), NewRenderer(WithBlockSize(4)))
	img, err := p.Image()
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 8) {
		t.Errorf("bounds = %v, want 16x8", img.Bounds())
	}
}

func TestPixelatorStillOutputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := NewPixelator(NewSource(imageutil.CreateGradientImage(8, 8)), NewRenderer(WithStrategy(Gray), WithBlockSize(2)))

	// Still sources encode in the renderer's format, jpg by default.
	var buf bytes.Buffer
	if err := p.Encode(ctx, &buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := jpeg.Decode(&buf); err != nil {
		t.Errorf("default output is not a JPEG: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	if err := p.WriteFile(ctx, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	src, err := OpenSource(path)
	if err != nil {
		t.Fatalf("reading back %s: %v", path, err)
	}
	if src.Format != "png" || src.Frames[0].Image.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Errorf("wrote %s %v", src.Format, src.Frames[0].Image.Bounds())
	}

	buf.Reset()
	if err := p.WriteGIF(ctx, &buf); err != nil {
		t.Fatalf("WriteGIF failed: %v", err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 1 {
		t.Errorf("still source wrote %d gif frames, want 1", len(g.Image))
	}
}

func TestPixelatorAnimatedOutputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src, err := DecodeSource(bytes.NewReader(encodeTestGIF(t, 40, 60, 50)))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPixelator(src, NewRenderer(WithStrategy(ColorBlock), WithBlockSize(2)), WithWorkers(2))

	dir := t.TempDir()
	path := filepath.Join(dir, "anim.gif")
	if err := p.WriteFile(ctx, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 3 || g.Delay[1] != 6 {
		t.Errorf("got %d frames with delays %v, want 3 with [4 6 5]", len(g.Image), g.Delay)
	}
	if g.Image[0].Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("frame bounds = %v, want 8x6", g.Image[0].Bounds())
	}

	// Animations cannot be written as still images.
	still := filepath.Join(dir, "anim.png")
	if err := p.WriteFile(ctx, still); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("png for animation: got %v, want ErrUnsupportedFormat", err)
	}
	if _, err := os.Stat(still); !os.IsNotExist(err) {
		t.Error("rejected output should not create a file")
	}

	// Without an extension animations fall back to GIF.
	if err := p.WriteFile(ctx, filepath.Join(dir, "anim")); err != nil {
		t.Errorf("extensionless output failed: %v", err)
	}
}

func TestPixelatorChars(t *testing.T) {
	t.Parallel()

	src, err := DecodeSource(bytes.NewReader(encodeTestGIF(t, 40, 60)))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPixelator(src, NewRenderer(WithStrategy(CharGray), WithBlockSize(2), WithPalette("#+. ")))
	frames, err := p.Chars(context.Background())
	if err != nil {
		t.Fatalf("Chars failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	for i, lines := range frames {
		if len(lines) != 3 {
			t.Errorf("frame %d has %d lines, want 3", i, len(lines))
		}
		for _, line := range lines {
			if len([]rune(line)) != 4 {
				t.Errorf("frame %d line %q, want 4 glyphs", i, line)
			}
		}
	}

	grids, err := p.CharGrids(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if grids[0].HasPrev() || grids[1].Prev != 0 {
		t.Errorf("links = %d, %d", grids[0].Prev, grids[1].Prev)
	}
}

func TestPixelatorWithoutFrames(t *testing.T) {
	t.Parallel()

	p := NewPixelator(&Source{}, nil)
	if _, err := p.Image(); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Image: got %v", err)
	}
	if _, err := p.Chars(context.Background()); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Chars: got %v", err)
	}
	if err := p.WriteFile(context.Background(), filepath.Join(t.TempDir(), "x.png")); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("WriteFile: got %v", err)
	}
}
