package img2pixel

import (
	"fmt"
	"image"
	"iter"
)

// Block is one square cell of a BlockGrid. Rect is the same region in the
// source and in the output buffer.
type Block struct {
	Row, Col int
	Rect     image.Rectangle
}

// BlockGrid partitions a width x height image into square blocks of Size
// pixels. Rows and columns that would not fill a whole block are dropped.
type BlockGrid struct {
	Width, Height int
	Size          int
}

// NewBlockGrid returns the grid for an image of the given size.
func NewBlockGrid(width, height, size int) (BlockGrid, error) {
	if size < 1 {
		return BlockGrid{}, fmt.Errorf("%w: block size %d must be at least 1", ErrInvalidOptions, size)
	}
	if width < 0 || height < 0 {
		return BlockGrid{}, fmt.Errorf("%w: negative image size %dx%d", ErrInvalidDimension, width, height)
	}
	return BlockGrid{Width: width, Height: height, Size: size}, nil
}

// Cols returns the number of whole blocks per row.
func (g BlockGrid) Cols() int {
	if g.Size < 1 {
		return 0
	}
	return g.Width / g.Size
}

// Rows returns the number of whole block rows.
func (g BlockGrid) Rows() int {
	if g.Size < 1 {
		return 0
	}
	return g.Height / g.Size
}

// Bounds returns the truncated working area, always a whole number of
// blocks on each side.
func (g BlockGrid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Cols()*g.Size, g.Rows()*g.Size)
}

// Empty reports whether the grid holds no blocks.
func (g BlockGrid) Empty() bool {
	return g.Cols() == 0 || g.Rows() == 0
}

// Block returns the block at the given row and column.
func (g BlockGrid) Block(row, col int) Block {
	x, y := col*g.Size, row*g.Size
	return Block{Row: row, Col: col, Rect: image.Rect(x, y, x+g.Size, y+g.Size)}
}

// Blocks yields every block in row-major order: all of row 0 left to
// right, then row 1, and so on. The sequence can be ranged over any
// number of times.
func (g BlockGrid) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for row := 0; row < g.Rows(); row++ {
			for col := 0; col < g.Cols(); col++ {
				if !yield(g.Block(row, col)) {
					return
				}
			}
		}
	}
}

// RowBlocks yields the blocks of a single row left to right.
func (g BlockGrid) RowBlocks(row int) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		if row < 0 || row >= g.Rows() {
			return
		}
		for col := 0; col < g.Cols(); col++ {
			if !yield(g.Block(row, col)) {
				return
			}
		}
	}
}
