package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wbrown/img2pixel"
)

// clearHome moves the cursor home and clears the screen between frames.
const clearHome = "\x1b[H\x1b[2J"

func newCharsCmd() *cobra.Command {
	var (
		flags pixelFlags
		color bool
		play  bool
		loop  bool
	)

	cmd := &cobra.Command{
		Use:   "chars <input>",
		Short: "Print an image or animation as character art",
		Long: `Chars renders <input> with a character strategy and prints one glyph
per block. Colors are written as ANSI escapes when stdout is a terminal,
or when --color is given. With --play animation frames are redrawn in
place using their own delays; --loop repeats until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			p, err := flags.pixelator(cmd, args[0])
			if err != nil {
				return err
			}
			grids, err := p.CharGrids(ctx)
			if err != nil {
				return err
			}
			if grids[0].Cells == nil {
				return errors.New("block strategies draw no characters, use char-gray or char-color")
			}

			if !cmd.Flags().Changed("color") {
				color = isTerminal(out)
			}
			profile := termenv.Ascii
			if color {
				profile = colorProfile()
			}

			if !play {
				for i, g := range grids {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, g.ANSI(profile))
				}
				return nil
			}
			return playFrames(ctx, out, p.Source().Frames, grids, profile, loop)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&color, "color", false, "color glyphs with ANSI escapes (default: when stdout is a terminal)")
	cmd.Flags().BoolVar(&play, "play", false, "redraw animation frames in place with their delays")
	cmd.Flags().BoolVar(&loop, "loop", false, "with --play, repeat until interrupted")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile is the terminal's profile, at least 256 colors when color
// output was asked for explicitly.
func colorProfile() termenv.Profile {
	if p := termenv.EnvColorProfile(); p != termenv.Ascii {
		return p
	}
	return termenv.ANSI256
}

// frameDelay is how long frame i stays on screen. Missing or non-positive
// delays fall back to img2pixel.DefaultFrameDelay.
func frameDelay(frames []img2pixel.Frame, i int) time.Duration {
	delay := img2pixel.DefaultFrameDelay
	if i < len(frames) && frames[i].HasDelay && frames[i].Delay > 0 {
		delay = frames[i].Delay
	}
	return time.Duration(delay) * time.Millisecond
}

// playFrames draws each grid and waits for its frame's delay.
func playFrames(ctx context.Context, w io.Writer, frames []img2pixel.Frame, grids []img2pixel.FrameCharGrid, profile termenv.Profile, loop bool) error {
	for {
		for i, g := range grids {
			if _, err := fmt.Fprint(w, clearHome+g.ANSI(profile)+"\n"); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(frameDelay(frames, i)):
			}
		}
		if !loop {
			return nil
		}
	}
}
