// Package config loads the pixelsort settings from the environment.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kelseyhightower/envconfig"

	"github.com/pion/pixelsort/internal/logging"
	"github.com/pion/pixelsort/pkg/segment"
)

// Prefix is prepended to every environment variable name.
const Prefix = "PIXELSORT"

var errNoInput = errors.New("no input path")

// Config holds all application configuration.
type Config struct {
	Input  string `envconfig:"INPUT"`
	Output string `envconfig:"OUTPUT" default:"output.mp4"`

	FrameRate float32 `envconfig:"FRAME_RATE" default:"24"`

	// Threads is the total thread budget, runtime.NumCPU() when 0.
	Threads   int `envconfig:"THREADS" default:"0"`
	QueueSize int `envconfig:"QUEUE_SIZE" default:"2"`

	SortConfig

	FFmpeg      string `envconfig:"FFMPEG" default:"ffmpeg"`
	FFprobe     string `envconfig:"FFPROBE" default:"ffprobe"`
	EncoderArgs string `envconfig:"ENCODER_ARGS"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Progress    bool   `envconfig:"PROGRESS" default:"true"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// SortConfig holds the transform settings. It is embedded so its variables
// share the top level prefix.
type SortConfig struct {
	Black     uint8  `envconfig:"BLACK_THRESHOLD" default:"0"`
	White     uint8  `envconfig:"WHITE_THRESHOLD" default:"255"`
	Direction string `envconfig:"ORIENTATION" default:"horizontal"`
	Grayscale bool   `envconfig:"GRAYSCALE" default:"false"`
}

// Load loads configuration from environment variables. It doesn't validate
// the result, so that command line overrides can be applied first.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Output:    "output.mp4",
		FrameRate: 24,
		QueueSize: 2,
		SortConfig: SortConfig{
			Black:     0,
			White:     255,
			Direction: "horizontal",
		},
		FFmpeg:   "ffmpeg",
		FFprobe:  "ffprobe",
		LogLevel: "info",
		Progress: true,
	}
}

// Validate reports the first setting that can't be used.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errNoInput
	}
	if c.Output == "" {
		return errors.New("no output path")
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %v", c.FrameRate)
	}
	if c.Threads < 0 {
		return fmt.Errorf("invalid thread count %d", c.Threads)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("invalid queue size %d", c.QueueSize)
	}
	if _, err := segment.ParseOrientation(c.Direction); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ThreadBudget returns Threads, or the number of CPUs when it is unset.
func (c *Config) ThreadBudget() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}

// Orientation returns the parsed sort orientation. Call Validate first.
func (c *Config) Orientation() segment.Orientation {
	o, _ := segment.ParseOrientation(c.Direction)
	return o
}

// Thresholds returns the luminance band. An inverted band selects nothing.
func (c *Config) Thresholds() segment.Thresholds {
	return segment.Thresholds{Black: c.Black, White: c.White}
}

// Inverted reports whether the black threshold lies above the white one, in
// which case no pixel is ever sorted.
func (c *Config) Inverted() bool {
	return c.Black > c.White
}
