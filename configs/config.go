package configs

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/wavesmith/pkg/presets"
	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OutputFormat string `mapstructure:"output_format"`
	DataDir      string `mapstructure:"data_dir"`

	// Editing session sizing
	Editor EditorConfig `mapstructure:"editor"`

	// Playback settings
	Audio AudioConfig `mapstructure:"audio"`

	// Export settings
	Export ExportConfig `mapstructure:"export"`

	// Persistence backend
	Store StoreConfig `mapstructure:"store"`
}

// EditorConfig contains the sizes of the live buffers
type EditorConfig struct {
	SampleCount          int     `mapstructure:"sample_count"`
	HarmonicCount        int     `mapstructure:"harmonic_count"`
	ControlPoints        int     `mapstructure:"control_points"`
	DrawRadius           int     `mapstructure:"draw_radius"`
	HistorySize          int     `mapstructure:"history_size"`
	DefaultPreset        string  `mapstructure:"default_preset"`
	FundamentalFrequency float64 `mapstructure:"fundamental_frequency"`
	Smoothing            float64 `mapstructure:"smoothing"`
}

// AudioConfig contains playback settings
type AudioConfig struct {
	SampleRate int     `mapstructure:"sample_rate"`
	Frequency  float64 `mapstructure:"frequency"`
	Volume     float64 `mapstructure:"volume"`
}

// ExportConfig contains export settings
type ExportConfig struct {
	SampleRate int           `mapstructure:"sample_rate"`
	Duration   time.Duration `mapstructure:"duration"`
	Precision  int           `mapstructure:"precision"`
	ArrayName  string        `mapstructure:"array_name"`
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Backend string   `mapstructure:"backend"`
	Path    string   `mapstructure:"path"`
	S3      S3Config `mapstructure:"s3"`
}

// S3Config contains S3 bucket settings
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// Supported store backends
const (
	StoreBackendFile = "file"
	StoreBackendS3   = "s3"
)

var outputFormats = []string{"table", "json", "yaml"}

// LoadConfig loads configuration from v, filling in defaults for anything
// left unset
func LoadConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if config.Store.Path == "" {
		config.Store.Path = config.DataDir
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if !wave.IsPowerOfTwo(config.Editor.SampleCount) {
		return fmt.Errorf("editor sample count must be a power of two, got %d", config.Editor.SampleCount)
	}

	if config.Editor.HarmonicCount <= 0 {
		return fmt.Errorf("editor harmonic count must be positive")
	}

	if config.Editor.ControlPoints <= 0 {
		return fmt.Errorf("editor control points must be positive")
	}

	if config.Editor.DrawRadius < 0 {
		return fmt.Errorf("editor draw radius cannot be negative")
	}

	if config.Editor.Smoothing < 0 || config.Editor.Smoothing > 1 {
		return fmt.Errorf("editor smoothing must be between 0 and 1")
	}

	if !slices.Contains(presets.Names(), strings.ToLower(config.Editor.DefaultPreset)) {
		return fmt.Errorf("unknown default preset %q (valid: %s)",
			config.Editor.DefaultPreset, strings.Join(presets.Names(), ", "))
	}

	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	if config.Audio.Volume < 0 || config.Audio.Volume > 1 {
		return fmt.Errorf("audio volume must be between 0 and 1")
	}

	if config.Export.SampleRate <= 0 {
		return fmt.Errorf("export sample rate must be positive")
	}

	if config.Export.Duration <= 0 {
		return fmt.Errorf("export duration must be positive")
	}

	if !slices.Contains(outputFormats, config.OutputFormat) {
		return fmt.Errorf("unsupported output format %q (valid: %s)",
			config.OutputFormat, strings.Join(outputFormats, ", "))
	}

	switch config.Store.Backend {
	case StoreBackendFile:
		if config.Store.Path == "" {
			return fmt.Errorf("file store requires a path")
		}
	case StoreBackendS3:
		if config.Store.S3.Bucket == "" {
			return fmt.Errorf("s3 store requires a bucket")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", config.Store.Backend)
	}

	return nil
}
