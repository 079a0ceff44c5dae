package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		flags  pixelFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render an image or animation to a new image file",
		Long: `Render decodes <input> (png, jpg, gif, bmp, tiff or webp), renders
every frame with the chosen strategy and writes the result to --output.
Animated GIFs keep their frame delays. The output extension picks the
format; animations must be written as .gif.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			p, err := flags.pixelator(cmd, args[0])
			if err != nil {
				return err
			}
			if err := p.WriteFile(cmd.Context(), output); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wrote %s (%d frames)", output, len(p.Source().Frames)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
