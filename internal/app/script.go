package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/wavesmith/internal/history"
)

// Edit script operations
const (
	OpPreset    = "preset"
	OpDragPoint = "drag_point"
	OpDraw      = "draw"
	OpPress     = "press"
	OpHarmonic  = "harmonic"
	OpSmooth    = "smooth"
	OpNormalize = "normalize"
	OpBandLimit = "band_limit"
	OpUndo      = "undo"
	OpRedo      = "redo"
)

// Script is a recorded sequence of edits replayed against the session
type Script struct {
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one edit. Only the fields relevant to Op are read.
type Step struct {
	Op        string        `yaml:"op" json:"op"`
	Name      string        `yaml:"name,omitempty" json:"name,omitempty"`
	Index     int           `yaml:"index,omitempty" json:"index,omitempty"`
	Value     float32       `yaml:"value,omitempty" json:"value,omitempty"`
	Amplitude float64       `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Amount    *float32      `yaml:"amount,omitempty" json:"amount,omitempty"`
	Cutoff    int           `yaml:"cutoff,omitempty" json:"cutoff,omitempty"`
	Stroke    []StrokePoint `yaml:"stroke,omitempty" json:"stroke,omitempty"`
}

// StrokePoint is one sample of a freehand stroke
type StrokePoint struct {
	Index int     `yaml:"index" json:"index"`
	Value float32 `yaml:"value" json:"value"`
}

// ScriptResult summarizes a replayed script
type ScriptResult struct {
	Applied int            `json:"applied" yaml:"applied"`
	Skipped int            `json:"skipped" yaml:"skipped"`
	History history.Status `json:"history" yaml:"history"`
}

// LoadScript reads an edit script from a YAML or JSON file
func LoadScript(filePath string) (*Script, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("script file does not exist: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open script file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var script Script
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		if err := json.Unmarshal(data, &script); err != nil {
			return nil, fmt.Errorf("failed to parse JSON script: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &script); err != nil {
			return nil, fmt.Errorf("failed to parse YAML script: %w", err)
		}
	}

	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks every step names a known operation with its arguments.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		switch step.Op {
		case OpPreset:
			if step.Name == "" {
				return fmt.Errorf("step %d: preset requires a name", i)
			}
		case OpDraw:
			if len(step.Stroke) == 0 {
				return fmt.Errorf("step %d: draw requires a stroke", i)
			}
		case OpDragPoint, OpPress, OpHarmonic, OpSmooth, OpNormalize, OpBandLimit, OpUndo, OpRedo:
		default:
			return fmt.Errorf("step %d: unknown operation %q", i, step.Op)
		}
	}
	return nil
}

// RunScript replays script against the session. Undo and redo steps with
// nothing to step over are counted as skipped.
func (app *App) RunScript(ctx context.Context, script *Script) (*ScriptResult, error) {
	session := app.session
	result := &ScriptResult{}

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		app.logger.Debug("Applying edit", logging.Fields{"step": i, "op": step.Op})

		var (
			err     error
			applied = true
		)
		switch step.Op {
		case OpPreset:
			err = session.LoadPreset(ctx, step.Name)
		case OpDragPoint:
			if err = session.DragPoint(step.Index, step.Value); err == nil {
				err = session.CommitWaveform(ctx)
			}
		case OpPress:
			var anchor int
			if anchor, err = session.Press(step.Index, step.Value); err == nil {
				app.logger.Debug("Press resolved", logging.Fields{"sample": step.Index, "anchor": anchor})
				err = session.CommitWaveform(ctx)
			}
		case OpDraw:
			for _, p := range step.Stroke {
				if err = session.Draw(p.Index, p.Value); err != nil {
					break
				}
			}
			if err == nil {
				err = session.CommitWaveform(ctx)
			}
		case OpHarmonic:
			err = session.SetHarmonicAmplitude(ctx, step.Index, step.Amplitude)
		case OpSmooth:
			amount := float32(app.config.Editor.Smoothing)
			if step.Amount != nil {
				amount = *step.Amount
			}
			err = session.Smooth(ctx, amount)
		case OpNormalize:
			err = session.Normalize(ctx)
		case OpBandLimit:
			err = session.BandLimit(ctx, step.Cutoff)
		case OpUndo:
			applied, err = session.Undo(ctx)
		case OpRedo:
			applied, err = session.Redo(ctx)
		default:
			err = fmt.Errorf("unknown operation %q", step.Op)
		}
		if err != nil {
			return result, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}

		if applied {
			result.Applied++
		} else {
			result.Skipped++
		}
	}

	result.History = session.History()
	app.logger.Info("Edit script applied", logging.Fields{
		"applied":      result.Applied,
		"skipped":      result.Skipped,
		"history_size": result.History.HistorySize,
	})
	return result, nil
}
