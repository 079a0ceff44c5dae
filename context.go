package img2pixel

import "github.com/wbrown/img2pixel/imageutil"

// CharCell is the glyph and color chosen for one block.
type CharCell struct {
	Glyph    rune
	Color    imageutil.RGB
	Row, Col int
}

// NoPrev marks a FrameCharGrid without a previous frame.
const NoPrev = -1

// FrameCharGrid is the character rendering of one frame. Rows and Cols are
// the block grid dimensions; Cells is row-major and nil when the strategy
// produced no characters.
type FrameCharGrid struct {
	Rows, Cols int
	Cells      [][]CharCell

	// Prev is the index of the previous frame's grid in the sequence the
	// grid belongs to, or NoPrev for the first (or only) frame. It is a
	// navigation link only and carries no rendering data.
	Prev int
}

// HasPrev reports whether the grid links to a previous frame.
func (g FrameCharGrid) HasPrev() bool {
	return g.Prev != NoPrev
}

// At returns the cell at (row, col) and whether it exists.
func (g FrameCharGrid) At(row, col int) (CharCell, bool) {
	if row < 0 || row >= len(g.Cells) || col < 0 || col >= len(g.Cells[row]) {
		return CharCell{}, false
	}
	return g.Cells[row][col], true
}

// RenderContext accumulates the CharCells of a single frame render. Cells
// are stored in slots indexed by their block coordinate, so concurrent
// workers rendering different blocks may push in any order and Finish
// still yields row-major order. Each slot must be pushed by one goroutine
// at most; distinct slots need no locking.
type RenderContext struct {
	rows, cols int
	slots      []CharCell
	filled     []bool
	dropped    int
}

// NewRenderContext returns an empty context for a rows x cols block grid.
func NewRenderContext(rows, cols int) *RenderContext {
	rows, cols = max(rows, 0), max(cols, 0)
	return &RenderContext{
		rows:   rows,
		cols:   cols,
		slots:  make([]CharCell, rows*cols),
		filled: make([]bool, rows*cols),
	}
}

// Push stores cell in the slot of its (Row, Col). Cells outside the grid
// are discarded and counted by Dropped.
func (c *RenderContext) Push(cell CharCell) {
	if cell.Row < 0 || cell.Row >= c.rows || cell.Col < 0 || cell.Col >= c.cols {
		c.dropped++
		return
	}
	c.slots[cell.Row*c.cols+cell.Col] = cell
	c.filled[cell.Row*c.cols+cell.Col] = true
}

// Dropped returns the number of cells rejected by Push.
func (c *RenderContext) Dropped() int {
	return c.dropped
}

// Len returns the number of filled slots.
func (c *RenderContext) Len() int {
	n := 0
	for _, f := range c.filled {
		if f {
			n++
		}
	}
	return n
}

// Finish freezes the accumulated cells into a FrameCharGrid. The grid owns
// its cells, so later Push or Clear calls do not affect it. Cells is nil
// when nothing was pushed.
func (c *RenderContext) Finish() FrameCharGrid {
	grid := FrameCharGrid{Rows: c.rows, Cols: c.cols, Prev: NoPrev}
	if c.Len() == 0 {
		return grid
	}

	backing := make([]CharCell, len(c.slots))
	copy(backing, c.slots)
	grid.Cells = make([][]CharCell, c.rows)
	for row := range grid.Cells {
		grid.Cells[row] = backing[row*c.cols : (row+1)*c.cols : (row+1)*c.cols]
	}
	return grid
}

// Clear releases the context's storage. The context is empty afterwards.
func (c *RenderContext) Clear() {
	c.rows, c.cols = 0, 0
	c.slots = nil
	c.filled = nil
	c.dropped = 0
}
