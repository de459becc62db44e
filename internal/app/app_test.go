package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/wavesmith/internal/history"
	"github.com/RyanBlaney/wavesmith/internal/store"
	"github.com/RyanBlaney/wavesmith/pkg/presets"
)

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()

	v := viper.New()
	v.Set("data_dir", dir)
	v.Set("editor.sample_count", 64)
	v.Set("editor.harmonic_count", 16)
	v.Set("editor.control_points", 8)
	v.Set("editor.history_size", 10)

	app, err := NewApp(context.Background(), &Context{Viper: v, Quiet: true})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("editor.sample_count", 100)

	_, err := NewApp(context.Background(), &Context{Viper: v, Quiet: true})
	assert.Error(t, err)
}

func TestLoadUsesDefaultPresetAndPersists(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, dir)
	ctx := context.Background()

	require.NoError(t, app.Load(ctx))

	sine, _ := presets.Sine(64)
	assert.Equal(t, sine.Samples(), app.Session().Waveform().Samples())
	assert.FileExists(t, filepath.Join(dir, "waveform.json"))
	assert.FileExists(t, filepath.Join(dir, "spectrum.json"))

	report, err := app.Report()
	require.NoError(t, err)
	assert.Equal(t, 64, report.SampleCount)
	assert.InDelta(t, 1.0, report.Peak, 1e-6)
}

func TestStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := newTestApp(t, dir)
	require.NoError(t, first.Load(ctx))
	require.NoError(t, first.Session().LoadPreset(ctx, "square"))

	second := newTestApp(t, dir)
	require.NoError(t, second.Load(ctx))

	square, _ := presets.Square(64)
	assert.Equal(t, square.Samples(), second.Session().Waveform().Samples())
	assert.Equal(t, 1, second.Session().History().HistorySize)
}

func TestRunScript(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	ctx := context.Background()
	require.NoError(t, app.Load(ctx))

	path := writeScript(t, "edits.yaml", `
steps:
  - op: preset
    name: saw
  - op: drag_point
    index: 1
    value: -0.5
  - op: draw
    stroke:
      - {index: 20, value: 1}
      - {index: 21, value: 1}
  - op: harmonic
    index: 3
    amplitude: 0.25
  - op: smooth
    amount: 0.5
  - op: normalize
  - op: band_limit
    cutoff: 8
  - op: undo
  - op: undo
  - op: redo
`)
	script, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, script.Steps, 10)
	require.NotNil(t, script.Steps[4].Amount)

	result, err := app.RunScript(ctx, script)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Applied)
	assert.Zero(t, result.Skipped)
	// initial preset + 7 edits, one step back from the newest
	assert.Equal(t, history.Status{CanUndo: true, CanRedo: true, HistorySize: 8, CurrentIndex: 6}, result.History)
}

func TestRunScriptPress(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	ctx := context.Background()
	require.NoError(t, app.Load(ctx))

	// anchors every 8 samples: 17 grabs anchor 2, 12 lies between anchors
	result, err := app.RunScript(ctx, &Script{Steps: []Step{
		{Op: OpPress, Index: 17, Value: 0.25},
		{Op: OpPress, Index: 12, Value: -0.5},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 3, result.History.HistorySize)

	samples := app.Session().Waveform().Samples()
	assert.Equal(t, float32(0.25), samples[16])
	assert.Equal(t, float32(-0.5), samples[12])
}

func TestRunScriptCountsNoopUndo(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	ctx := context.Background()
	require.NoError(t, app.Load(ctx))

	result, err := app.RunScript(ctx, &Script{Steps: []Step{{Op: OpUndo}, {Op: OpRedo}}})
	require.NoError(t, err)
	assert.Zero(t, result.Applied)
	assert.Equal(t, 2, result.Skipped)
}

func TestRunScriptStopsAtFailure(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	ctx := context.Background()
	require.NoError(t, app.Load(ctx))

	_, err := app.RunScript(ctx, &Script{Steps: []Step{
		{Op: OpNormalize},
		{Op: OpPreset, Name: "noise"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (preset)")
}

func TestLoadScriptJSON(t *testing.T) {
	path := writeScript(t, "edits.json", `{"steps":[{"op":"preset","name":"triangle"},{"op":"band_limit","cutoff":4}]}`)

	script, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, script.Steps, 2)
	assert.Equal(t, "triangle", script.Steps[0].Name)
	assert.Equal(t, 4, script.Steps[1].Cutoff)
}

func TestLoadScriptErrors(t *testing.T) {
	_, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadScript(writeScript(t, "bad.yaml", "steps:\n  - op: explode\n"))
	assert.ErrorContains(t, err, "unknown operation")

	_, err = LoadScript(writeScript(t, "nameless.yaml", "steps:\n  - op: preset\n"))
	assert.ErrorContains(t, err, "requires a name")
}

func TestStoreOverride(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(filepath.Join(dir, "elsewhere"))
	require.NoError(t, err)

	v := viper.New()
	v.Set("data_dir", dir)
	v.Set("editor.sample_count", 32)
	app, err := NewApp(context.Background(), &Context{Viper: v, Quiet: true, Store: fs})
	require.NoError(t, err)
	require.NoError(t, app.Load(context.Background()))

	assert.FileExists(t, filepath.Join(dir, "elsewhere", "waveform.json"))
	assert.NoFileExists(t, filepath.Join(dir, "waveform.json"))
}

func TestWriteOutput(t *testing.T) {
	app := newTestApp(t, t.TempDir())
	out := filepath.Join(t.TempDir(), "nested", "report.json")
	app.ctx.OutputFile = out

	require.NoError(t, app.WriteOutput([]byte("{}\n")))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}
