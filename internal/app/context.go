package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/wavesmith/configs"
	"github.com/RyanBlaney/wavesmith/internal/editor"
	"github.com/RyanBlaney/wavesmith/internal/playback"
	"github.com/RyanBlaney/wavesmith/internal/store"
	"github.com/RyanBlaney/wavesmith/internal/zaplog"
	"github.com/RyanBlaney/wavesmith/pkg/analysis"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	OutputFile string
	Verbose    bool
	Quiet      bool
	Playback   bool // open an audio device for the session

	// Viper instance to load configuration from, the global one when nil
	Viper *viper.Viper

	// Store overrides the configured backend when set
	Store store.Store

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// App handles the editor application lifecycle
type App struct {
	ctx     *Context
	config  *configs.Config
	logger  logging.Logger
	store   store.Store
	player  playback.Player
	session *editor.Session
}

// NewApp loads configuration and wires the session to its store and player
func NewApp(ctx context.Context, appCtx *Context) (*App, error) {
	config, err := configs.LoadConfig(appCtx.Viper)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	appCtx.Config = config

	// Set up logging
	logger := setupLogging(appCtx, config)
	appCtx.Logger = logger

	st := appCtx.Store
	if st == nil {
		st, err = newStore(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", config.Store.Backend, err)
		}
	}

	var player playback.Player
	if appCtx.Playback {
		player, err = playback.NewPlayer(config.Audio.SampleRate, config.Audio.Frequency, config.Audio.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to open audio output: %w", err)
		}
	}

	session, err := editor.NewSession(SessionConfig(config), st, player, logger)
	if err != nil {
		if player != nil {
			player.Close()
		}
		return nil, err
	}

	logger.Debug("Editor application initialized", logging.Fields{
		"store_backend":  config.Store.Backend,
		"sample_count":   config.Editor.SampleCount,
		"harmonic_count": config.Editor.HarmonicCount,
		"playback":       appCtx.Playback,
	})

	return &App{
		ctx:     appCtx,
		config:  config,
		logger:  logger,
		store:   st,
		player:  player,
		session: session,
	}, nil
}

// SessionConfig maps the editor section of the configuration onto a session.
func SessionConfig(config *configs.Config) editor.SessionConfig {
	return editor.SessionConfig{
		SampleCount:   config.Editor.SampleCount,
		HarmonicCount: config.Editor.HarmonicCount,
		ControlPoints: config.Editor.ControlPoints,
		DrawRadius:    config.Editor.DrawRadius,
		HistorySize:   config.Editor.HistorySize,
		Fundamental:   config.Editor.FundamentalFrequency,
		SampleRate:    config.Audio.SampleRate,
		DefaultPreset: config.Editor.DefaultPreset,
	}
}

// Load restores the persisted waveform into the session
func (app *App) Load(ctx context.Context) error {
	if err := app.session.Load(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	return nil
}

// Session returns the live editing session
func (app *App) Session() *editor.Session {
	return app.session
}

// Config returns the loaded configuration
func (app *App) Config() *configs.Config {
	return app.config
}

// Logger returns the application logger
func (app *App) Logger() logging.Logger {
	return app.logger
}

// Report analyzes the live waveform
func (app *App) Report() (*analysis.Report, error) {
	w := app.session.Waveform()
	if w == nil {
		return nil, fmt.Errorf("no waveform loaded")
	}
	return analysis.Analyze(w, app.config.Editor.HarmonicCount)
}

// WriteOutput writes data to the configured output file, or stdout
func (app *App) WriteOutput(data []byte) error {
	if app.ctx.OutputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

// Close releases the audio device, if any
func (app *App) Close() error {
	if app.player == nil {
		return nil
	}
	return app.player.Close()
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context, config *configs.Config) logging.Logger {
	level := config.LogLevel
	switch {
	case ctx.Verbose:
		level = "debug"
	case ctx.Quiet:
		level = "error"
	}

	var logger logging.Logger
	zl, err := zaplog.New(zaplog.Options{Level: level, Format: config.LogFormat})
	if err != nil {
		logger = logging.NewDefaultLogger()
		logger.Warn("Falling back to default logger", logging.Fields{"error": err.Error()})
	} else {
		logger = zl
	}

	// library code logging through the package functions lands in the same sink
	logging.SetGlobalLogger(logger)
	return logger
}

// newStore opens the configured persistence backend
func newStore(ctx context.Context, config *configs.Config) (store.Store, error) {
	switch config.Store.Backend {
	case configs.StoreBackendS3:
		return store.NewS3Store(ctx, store.S3Options{
			Bucket:   config.Store.S3.Bucket,
			Prefix:   config.Store.S3.Prefix,
			Region:   config.Store.S3.Region,
			Endpoint: config.Store.S3.Endpoint,
		})
	default:
		return store.NewFileStore(config.Store.Path)
	}
}
