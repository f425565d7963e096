package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the chart location, editor settings and preview render settings.
type Config struct {
	Chart     string `json:"chart" mapstructure:"chart"`
	OutputDir string `json:"output_dir" mapstructure:"output_dir"`
	LogLevel  string `json:"log_level" mapstructure:"log_level"`

	Viewport Viewport `json:"viewport" mapstructure:"viewport"`
	Preview  Preview  `json:"preview" mapstructure:"preview"`
	Editor   Editor   `json:"editor" mapstructure:"editor"`
}

// Viewport is the preview frame size in pixels.
type Viewport struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// Preview holds frame render settings.
type Preview struct {
	Supersample  int    `json:"supersample" mapstructure:"supersample"`
	Workers      int    `json:"workers" mapstructure:"workers"`
	FrameStep    int    `json:"frame_step" mapstructure:"frame_step"`
	TrackTexture string `json:"track_texture" mapstructure:"track_texture"`
}

// Editor holds interactive editor settings.
type Editor struct {
	HitRadius float64 `json:"hit_radius" mapstructure:"hit_radius"`
	TickSpan  int     `json:"tick_span" mapstructure:"tick_span"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chart", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("viewport.width", 300)
	v.SetDefault("viewport.height", 0)

	v.SetDefault("preview.supersample", 2)
	v.SetDefault("preview.workers", 0)
	v.SetDefault("preview.frame_step", 48)
	v.SetDefault("preview.track_texture", "")

	v.SetDefault("editor.hit_radius", 5.0)
	v.SetDefault("editor.tick_span", 1920)
}

// Load reads a JSON config file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies CLI flags and fills derived defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Chart != "" {
		c.Chart = flags.Chart
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Width > 0 {
		c.Viewport.Width = flags.Width
	}
	if flags.Workers > 0 {
		c.Preview.Workers = flags.Workers
	}

	// Frames go next to the chart unless told otherwise
	if c.OutputDir == "" && c.Chart != "" {
		c.OutputDir = filepath.Join(filepath.Dir(c.Chart), "camera-preview")
	} else if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) && c.Chart != "" && flags.OutputDir == "" {
		c.OutputDir = filepath.Join(filepath.Dir(c.Chart), c.OutputDir)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = 300
	}
	if c.Preview.Supersample <= 0 {
		c.Preview.Supersample = 2
	}
	if c.Preview.Workers <= 0 {
		c.Preview.Workers = runtime.NumCPU()
	}
	if c.Preview.FrameStep <= 0 {
		c.Preview.FrameStep = 48
	}
	if c.Editor.HitRadius <= 0 {
		c.Editor.HitRadius = 5
	}
	if c.Editor.TickSpan <= 0 {
		c.Editor.TickSpan = 1920
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Chart     string
	OutputDir string
	LogLevel  string
	Width     int
	Workers   int
}
