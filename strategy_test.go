package img2pixel

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/wbrown/img2pixel/imageutil"
)

func TestPaletteIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lum  float64
		n    int
		want int
	}{
		{0, 4, 0},
		{63.9, 4, 0},
		{64, 4, 1},
		{127.5, 4, 1},
		{128, 4, 2},
		{255, 4, 3},
		{-5, 4, 0},
		{300, 4, 3},
		{200, 1, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := PaletteIndex(tt.lum, tt.n); got != tt.want {
			t.Errorf("PaletteIndex(%v, %d) = %d, want %d", tt.lum, tt.n, got, tt.want)
		}
	}
}

func TestPaletteIndexMonotonic(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 4, 10, len([]rune(DefaultPalette))} {
		prev := 0
		for lum := 0.0; lum <= 255; lum += 0.25 {
			idx := PaletteIndex(lum, n)
			if idx < prev {
				t.Fatalf("n=%d: PaletteIndex(%v) = %d after %d", n, lum, idx, prev)
			}
			if idx < 0 || idx >= n {
				t.Fatalf("n=%d: PaletteIndex(%v) = %d out of range", n, lum, idx)
			}
			prev = idx
		}
		if PaletteIndex(255, n) != n-1 {
			t.Errorf("n=%d: white should map to the last glyph", n)
		}
	}
}

func TestStrategyByName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Strategy
	}{
		{"gray", Gray},
		{"GREY", Gray},
		{"color", ColorBlock},
		{"char-gray", CharGray},
		{"char_gray", CharGray},
		{"Char-Color", CharColor},
		{"", CharColor},
	}
	for _, tt := range tests {
		got, err := StrategyByName(tt.name)
		if err != nil {
			t.Errorf("StrategyByName(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StrategyByName(%q) = %s, want %s", tt.name, got.Name(), tt.want.Name())
		}
	}

	if _, err := StrategyByName("sobel"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("unknown name: got %v, want ErrUnknownStrategy", err)
	}

	for _, s := range Strategies() {
		got, err := StrategyByName(s.Name())
		if err != nil || got != s {
			t.Errorf("Name() %q does not round trip", s.Name())
		}
	}
}

func TestGrayStrategyAveragesLuminance(t *testing.T) {
	t.Parallel()

	// A 1px checkerboard averages to half luminance in every 2px block.
	src := imageutil.CreateCheckerboardImage(4, 4, 1)
	dst := image.NewRGBA(src.Bounds())
	opts := DefaultOptions()

	g, _ := NewBlockGrid(4, 4, 2)
	for b := range g.Blocks() {
		if _, ok := Gray.Render(src, dst, b, &opts); ok {
			t.Fatal("Gray should not produce a cell")
		}
	}

	want := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := dst.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestColorBlockStrategyFillsAverage(t *testing.T) {
	t.Parallel()

	c := imageutil.RGB{R: 10, G: 200, B: 30}
	src := imageutil.CreateSolidImage(4, 4, c)
	dst := image.NewRGBA(src.Bounds())
	opts := DefaultOptions()

	g, _ := NewBlockGrid(4, 4, 2)
	for b := range g.Blocks() {
		ColorBlock.Render(src, dst, b, &opts)
	}

	want := c.ToColor()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := dst.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCharStrategiesChooseGlyph(t *testing.T) {
	t.Parallel()

	c := imageutil.RGB{R: 10, G: 200, B: 30} // luminance 123.81
	src := imageutil.CreateSolidImage(4, 4, c)
	opts := DefaultOptions()
	opts.Palette = []rune("#+. ")
	b := Block{Row: 1, Col: 0, Rect: image.Rect(0, 2, 2, 4)}

	cell, ok := CharGray.Render(src, image.NewRGBA(src.Bounds()), b, &opts)
	if !ok {
		t.Fatal("CharGray should produce a cell")
	}
	if cell.Glyph != '+' || cell.Row != 1 || cell.Col != 0 {
		t.Errorf("CharGray cell = %+v, want '+' at (1,0)", cell)
	}
	if cell.Color != (imageutil.RGB{R: 124, G: 124, B: 124}) {
		t.Errorf("CharGray color = %v, want gray 124", cell.Color)
	}

	cell, ok = CharColor.Render(src, image.NewRGBA(src.Bounds()), b, &opts)
	if !ok {
		t.Fatal("CharColor should produce a cell")
	}
	if cell.Glyph != '+' || cell.Color != c {
		t.Errorf("CharColor cell = %+v, want '+' in %v", cell, c)
	}
}

func TestCharStrategiesUseVisibleColor(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:i+4], []uint8{255, 255, 255, 128})
	}

	white := imageutil.RGB{R: 255, G: 255, B: 255}
	for _, s := range []Strategy{CharColor, CharGray} {
		r := NewRenderer(WithStrategy(s), WithBlockSize(2), WithPalette("ab"))
		rf, err := r.RenderFrame(StaticFrame(src))
		if err != nil {
			t.Fatalf("%s: RenderFrame failed: %v", s.Name(), err)
		}
		cell, _ := rf.Chars.At(0, 0)
		if cell.Glyph != 'b' || cell.Color != white {
			t.Errorf("%s: half-transparent white gave %q in %v, want 'b' in %v", s.Name(), cell.Glyph, cell.Color, white)
		}
	}

	// Block fills stay premultiplied.
	rf, err := NewRenderer(WithStrategy(ColorBlock), WithBlockSize(2)).RenderFrame(StaticFrame(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := rf.Image.RGBAAt(0, 0); got != (color.RGBA{R: 128, G: 128, B: 128, A: 128}) {
		t.Errorf("ColorBlock fill = %v, want premultiplied half white", got)
	}
}

func TestCharStrategyPaletteOrderIsLiteral(t *testing.T) {
	t.Parallel()

	black := imageutil.CreateSolidImage(2, 2, imageutil.RGB{})
	white := imageutil.CreateSolidImage(2, 2, imageutil.RGB{R: 255, G: 255, B: 255})
	b := Block{Rect: image.Rect(0, 0, 2, 2)}

	opts := DefaultOptions()
	opts.Palette = []rune(" .:#") // light to dark, used as given
	dark, _ := CharGray.Render(black, image.NewRGBA(black.Bounds()), b, &opts)
	light, _ := CharGray.Render(white, image.NewRGBA(white.Bounds()), b, &opts)
	if dark.Glyph != ' ' || light.Glyph != '#' {
		t.Errorf("got dark=%q light=%q, want ' ' and '#'", dark.Glyph, light.Glyph)
	}
}

func TestStrategiesStayInsideBlock(t *testing.T) {
	t.Parallel()

	font, err := DefaultGlyphFont(4)
	if err != nil {
		t.Fatalf("DefaultGlyphFont failed: %v", err)
	}
	opts := DefaultOptions()
	opts.Palette = []rune("@")
	opts.Font = font

	src := imageutil.CreateColorBarsImage(12, 12)
	sentinel := color.RGBA{R: 1, G: 2, B: 3, A: 4}
	block := Block{Row: 1, Col: 1, Rect: image.Rect(4, 4, 8, 8)}

	for _, s := range Strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			dst := image.NewRGBA(src.Bounds())
			imageutil.FillRect(dst, dst.Bounds(), sentinel)
			before := imageutil.Clone(src)

			s.Render(src, dst, block, &opts)

			for y := 0; y < 12; y++ {
				for x := 0; x < 12; x++ {
					if image.Pt(x, y).In(block.Rect) {
						continue
					}
					if got := dst.RGBAAt(x, y); got != sentinel {
						t.Fatalf("pixel (%d,%d) outside block changed to %v", x, y, got)
					}
				}
			}
			if imageutil.CalculateMSE(before, src) != 0 {
				t.Error("strategy modified its source")
			}
		})
	}
}
