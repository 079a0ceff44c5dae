package img2pixel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/img2pixel/imageutil"
)

// Config is the file form of the render options. Zero values leave the
// corresponding default untouched.
type Config struct {
	BlockSize     int     `toml:"block_size" yaml:"block_size"`
	Rate          float64 `toml:"rate" yaml:"rate"`
	Palette       string  `toml:"palette" yaml:"palette"`
	Strategy      string  `toml:"strategy" yaml:"strategy"`
	Format        string  `toml:"format" yaml:"format"`
	Font          string  `toml:"font" yaml:"font"`
	Interpolation string  `toml:"interpolation" yaml:"interpolation"`
	Parallelism   int     `toml:"parallelism" yaml:"parallelism"`
	Workers       int     `toml:"workers" yaml:"workers"`
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// ParseConfig decodes config data in the named syntax, "toml" or "yaml".
func ParseConfig(data []byte, syntax string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(syntax) {
	case "toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown config syntax %q", ErrInvalidOptions, syntax)
	}
	return &cfg, nil
}

// Options converts the config to renderer options. Names are resolved
// here, so an unknown strategy or interpolation fails before rendering;
// numeric ranges are checked by Options.Validate at render time.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	blockSize := DefaultBlockSize
	if c.BlockSize != 0 {
		blockSize = c.BlockSize
		opts = append(opts, WithBlockSize(c.BlockSize))
	}
	if c.Rate != 0 {
		opts = append(opts, WithRate(c.Rate))
	}
	if c.Palette != "" {
		if _, err := ParsePalette(c.Palette); err != nil {
			return nil, err
		}
		opts = append(opts, WithPalette(c.Palette))
	}
	if c.Strategy != "" {
		s, err := StrategyByName(c.Strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithStrategy(s))
	}
	if c.Format != "" {
		format := imageutil.NormalizeFormat(c.Format)
		if format == "" {
			return nil, fmt.Errorf("%w: unknown output format %q", ErrInvalidOptions, c.Format)
		}
		if !imageutil.CanEncode(format) {
			return nil, fmt.Errorf("%w: cannot write %q images", ErrInvalidOptions, c.Format)
		}
		opts = append(opts, WithFormat(format))
	}
	if c.Interpolation != "" {
		interp, err := imageutil.ParseInterpolation(c.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		opts = append(opts, WithInterpolation(interp))
	}
	if c.Parallelism != 0 {
		opts = append(opts, WithParallelism(c.Parallelism))
	}
	if c.Font != "" {
		font, err := LoadGlyphFont(c.Font, max(blockSize, 1))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFont(font))
	}
	return opts, nil
}

// AssemblerOptions converts the config to assembler options.
func (c *Config) AssemblerOptions() []AssemblerOption {
	if c.Workers == 0 {
		return nil
	}
	return []AssemblerOption{WithWorkers(c.Workers)}
}
