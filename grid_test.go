package img2pixel

import (
	"errors"
	"image"
	"testing"
)

func TestBlockGridTruncation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		width, height int
		size          int
		cols, rows    int
		bounds        image.Rectangle
	}{
		{"exact", 4, 4, 2, 2, 2, image.Rect(0, 0, 4, 4)},
		{"remainder dropped", 5, 5, 2, 2, 2, image.Rect(0, 0, 4, 4)},
		{"unit blocks", 3, 2, 1, 3, 2, image.Rect(0, 0, 3, 2)},
		{"block larger than image", 3, 3, 4, 0, 0, image.Rect(0, 0, 0, 0)},
		{"wide", 17, 4, 4, 4, 1, image.Rect(0, 0, 16, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewBlockGrid(tt.width, tt.height, tt.size)
			if err != nil {
				t.Fatalf("NewBlockGrid failed: %v", err)
			}
			if g.Cols() != tt.cols || g.Rows() != tt.rows {
				t.Errorf("grid = %dx%d blocks, want %dx%d", g.Cols(), g.Rows(), tt.cols, tt.rows)
			}
			if g.Bounds() != tt.bounds {
				t.Errorf("Bounds() = %v, want %v", g.Bounds(), tt.bounds)
			}
			if g.Empty() != (tt.cols == 0 || tt.rows == 0) {
				t.Errorf("Empty() = %v", g.Empty())
			}
		})
	}
}

func TestBlockGridRejectsBadSizes(t *testing.T) {
	t.Parallel()

	if _, err := NewBlockGrid(4, 4, 0); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("block size 0: got %v, want ErrInvalidOptions", err)
	}
	if _, err := NewBlockGrid(-1, 4, 2); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("negative width: got %v, want ErrInvalidDimension", err)
	}
}

func TestBlockGridRowMajorOrder(t *testing.T) {
	t.Parallel()

	g, err := NewBlockGrid(7, 5, 2)
	if err != nil {
		t.Fatal(err)
	}

	var got []Block
	for b := range g.Blocks() {
		got = append(got, b)
	}
	if len(got) != g.Rows()*g.Cols() {
		t.Fatalf("got %d blocks, want %d", len(got), g.Rows()*g.Cols())
	}

	covered := image.NewAlpha(g.Bounds())
	for i, b := range got {
		wantRow, wantCol := i/g.Cols(), i%g.Cols()
		if b.Row != wantRow || b.Col != wantCol {
			t.Errorf("block %d at (%d,%d), want (%d,%d)", i, b.Row, b.Col, wantRow, wantCol)
		}
		if !b.Rect.In(g.Bounds()) {
			t.Errorf("block %d rect %v outside %v", i, b.Rect, g.Bounds())
		}
		for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
			for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
				covered.Pix[covered.PixOffset(x, y)]++
			}
		}
	}

	// Every pixel of the working area belongs to exactly one block.
	for i, v := range covered.Pix {
		if v != 1 {
			t.Fatalf("pixel %d covered %d times", i, v)
		}
	}
}

func TestBlockGridRestartable(t *testing.T) {
	t.Parallel()

	g, _ := NewBlockGrid(6, 6, 3)
	count := func() int {
		n := 0
		for range g.Blocks() {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 4 || b != 4 {
		t.Errorf("iterations yielded %d and %d blocks, want 4 each", a, b)
	}

	// Early break must not panic.
	for range g.Blocks() {
		break
	}
}

func TestBlockGridRowBlocks(t *testing.T) {
	t.Parallel()

	g, _ := NewBlockGrid(6, 4, 2)
	var cols []int
	for b := range g.RowBlocks(1) {
		if b.Row != 1 {
			t.Errorf("RowBlocks(1) yielded row %d", b.Row)
		}
		cols = append(cols, b.Col)
	}
	if len(cols) != 3 || cols[0] != 0 || cols[2] != 2 {
		t.Errorf("RowBlocks(1) cols = %v, want [0 1 2]", cols)
	}

	for range g.RowBlocks(5) {
		t.Error("RowBlocks out of range should yield nothing")
	}
}
