package main

import (
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wbrown/img2pixel"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "pixelify",
		Short:         "Render images as block pixel art or character art",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newCharsCmd())
	return root
}

// pixelFlags are the render options shared by every subcommand. Flags
// given on the command line override values from --config.
type pixelFlags struct {
	config        string
	blockSize     int
	rate          float64
	strategy      string
	palette       string
	font          string
	format        string
	interpolation string
	parallelism   int
	workers       int
}

func (f *pixelFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "TOML or YAML options file")
	fs.IntVarP(&f.blockSize, "block-size", "b", img2pixel.DefaultBlockSize, "block side in source pixels")
	fs.Float64VarP(&f.rate, "rate", "r", img2pixel.DefaultRate, "scale applied before blocking")
	fs.StringVarP(&f.strategy, "strategy", "s", "char-color", "gray, color, char-gray or char-color")
	fs.StringVar(&f.palette, "palette", img2pixel.DefaultPalette, "glyphs from darkest to lightest")
	fs.StringVar(&f.font, "font", "", "TrueType font for glyphs (default Go Mono)")
	fs.StringVar(&f.format, "format", img2pixel.DefaultFormat, "still image format when the output has no extension")
	fs.StringVar(&f.interpolation, "interpolation", "linear", "scaling: nearest, linear or area")
	fs.IntVar(&f.parallelism, "parallelism", 1, "block rows rendered concurrently per frame")
	fs.IntVarP(&f.workers, "workers", "w", 0, "frames rendered concurrently (0 = all CPUs)")
}

// load merges --config with the flags the user set explicitly.
func (f *pixelFlags) load(cmd *cobra.Command) (*img2pixel.Config, error) {
	cfg := &img2pixel.Config{}
	if f.config != "" {
		var err error
		if cfg, err = img2pixel.LoadConfig(f.config); err != nil {
			return nil, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("block-size") {
		cfg.BlockSize = f.blockSize
	}
	if fs.Changed("rate") {
		cfg.Rate = f.rate
	}
	if fs.Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	if fs.Changed("palette") {
		cfg.Palette = f.palette
	}
	if fs.Changed("font") {
		cfg.Font = f.font
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("interpolation") {
		cfg.Interpolation = f.interpolation
	}
	if fs.Changed("parallelism") {
		cfg.Parallelism = f.parallelism
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	return cfg, nil
}

// pixelator decodes input and prepares it for rendering with the merged
// options.
func (f *pixelFlags) pixelator(cmd *cobra.Command, input string) (*img2pixel.Pixelator, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, err := f.load(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	opts = append(opts, img2pixel.WithLogger(logger))

	src, err := img2pixel.OpenSource(input)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded source", "path", input, "format", src.Format, "frames", len(src.Frames))

	r := img2pixel.NewRenderer(opts...)
	aopts := append(cfg.AssemblerOptions(), img2pixel.WithAssemblerLogger(logger))
	return img2pixel.NewPixelator(src, r, aopts...), nil
}
