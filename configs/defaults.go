package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultDataDir is where the file store keeps its documents when no data
// directory is configured
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".wavesmith")
	}
	return filepath.Join(home, ".local", "share", "wavesmith")
}

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("log_format") {
		v.Set("log_format", "console")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}
	if !v.IsSet("data_dir") {
		v.Set("data_dir", DefaultDataDir())
	}

	// Editor defaults
	if !v.IsSet("editor.sample_count") {
		v.Set("editor.sample_count", 2048)
	}
	if !v.IsSet("editor.harmonic_count") {
		v.Set("editor.harmonic_count", 64)
	}
	if !v.IsSet("editor.control_points") {
		v.Set("editor.control_points", 64)
	}
	if !v.IsSet("editor.draw_radius") {
		v.Set("editor.draw_radius", 2)
	}
	if !v.IsSet("editor.history_size") {
		v.Set("editor.history_size", 50)
	}
	if !v.IsSet("editor.default_preset") {
		v.Set("editor.default_preset", "sine")
	}
	if !v.IsSet("editor.fundamental_frequency") {
		v.Set("editor.fundamental_frequency", 440.0)
	}
	if !v.IsSet("editor.smoothing") {
		v.Set("editor.smoothing", 0.5)
	}

	// Playback defaults
	if !v.IsSet("audio.sample_rate") {
		v.Set("audio.sample_rate", 44100)
	}
	if !v.IsSet("audio.frequency") {
		v.Set("audio.frequency", 440.0)
	}
	if !v.IsSet("audio.volume") {
		v.Set("audio.volume", 0.3)
	}

	// Export defaults
	if !v.IsSet("export.sample_rate") {
		v.Set("export.sample_rate", 44100)
	}
	if !v.IsSet("export.duration") {
		v.Set("export.duration", 2*time.Second)
	}
	if !v.IsSet("export.precision") {
		v.Set("export.precision", 6)
	}
	if !v.IsSet("export.array_name") {
		v.Set("export.array_name", "waveform")
	}

	// Store defaults
	if !v.IsSet("store.backend") {
		v.Set("store.backend", StoreBackendFile)
	}
	if !v.IsSet("store.s3.prefix") {
		v.Set("store.s3.prefix", "wavesmith")
	}
	if !v.IsSet("store.s3.region") {
		v.Set("store.s3.region", "us-east-1")
	}
}
