package img2pixel

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wbrown/img2pixel/imageutil"
)

// Lines returns one string of glyphs per grid row, top to bottom. It
// returns nil for grids without cells.
func (g FrameCharGrid) Lines() []string {
	if len(g.Cells) == 0 {
		return nil
	}
	lines := make([]string, len(g.Cells))
	var sb strings.Builder
	for i, row := range g.Cells {
		sb.Reset()
		for _, cell := range row {
			sb.WriteRune(cell.Glyph)
		}
		lines[i] = sb.String()
	}
	return lines
}

// String returns the grid's lines joined by newlines.
func (g FrameCharGrid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// ANSI returns the grid with every glyph colored by its cell color,
// downsampled to profile. Adjacent cells of one color share a single
// escape sequence. termenv.Ascii yields the plain String form.
func (g FrameCharGrid) ANSI(profile termenv.Profile) string {
	if profile == termenv.Ascii {
		return g.String()
	}

	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	var sb strings.Builder
	var run strings.Builder
	for i, row := range g.Cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j := 0; j < len(row); {
			color := row[j].Color
			run.Reset()
			for ; j < len(row) && row[j].Color == color; j++ {
				run.WriteRune(row[j].Glyph)
			}
			sb.WriteString(styleFor(r, color).Render(run.String()))
		}
	}
	return sb.String()
}

func styleFor(r *lipgloss.Renderer, c imageutil.RGB) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}
