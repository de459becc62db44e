package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/wavesmith/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored waveform",
	Long: `Export the stored waveform as source code, a WAV clip or JSON.

Examples:
  # C float array with 4 decimals
  wavesmith export code --name lead --precision 4

  # Two seconds of the cycle looped at 220 Hz
  wavesmith export wav lead.wav --frequency 220 --duration 2s

  # Raw samples
  wavesmith export json --output-file lead.json`,
}

var exportCodeCmd = &cobra.Command{
	Use:   "code",
	Short: "Export as a C float array",
	Args:  cobra.NoArgs,
	RunE:  runExportCode,
}

var exportWAVCmd = &cobra.Command{
	Use:   "wav <file>",
	Short: "Export a looped clip as 16-bit mono WAV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportWAV,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Export the samples as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExportJSON,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCodeCmd, exportWAVCmd, exportJSONCmd)

	exportCodeCmd.Flags().String("name", "waveform", "array name")
	exportCodeCmd.Flags().Int("precision", 6, "decimals per sample")
	configFlag(exportCodeCmd.Flags(), "name", "export.array_name")
	configFlag(exportCodeCmd.Flags(), "precision", "export.precision")

	exportWAVCmd.Flags().Int("sample-rate", 44100, "sample rate of the clip")
	exportWAVCmd.Flags().Float64("frequency", 440, "playback frequency of the cycle")
	exportWAVCmd.Flags().Duration("duration", 0, "length of the clip (default 2s)")
	configFlag(exportWAVCmd.Flags(), "sample-rate", "export.sample_rate")
	configFlag(exportWAVCmd.Flags(), "frequency", "audio.frequency")
	configFlag(exportWAVCmd.Flags(), "duration", "export.duration")
}

func runExportCode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Load(ctx); err != nil {
		return err
	}

	cfg := a.Config().Export
	var buf bytes.Buffer
	if err := export.WriteCode(&buf, a.Session().Waveform(), cfg.ArrayName, cfg.Precision); err != nil {
		return fmt.Errorf("failed to export code: %w", err)
	}
	return a.WriteOutput(buf.Bytes())
}

func runExportWAV(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Load(ctx); err != nil {
		return err
	}

	opts := export.WAVOptions{
		SampleRate: a.Config().Export.SampleRate,
		Frequency:  a.Config().Audio.Frequency,
		Duration:   a.Config().Export.Duration,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	if err := export.WriteWAV(f, a.Session().Waveform(), opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to export WAV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close WAV file: %w", err)
	}

	printSuccess("Wrote %v at %g Hz to %s", opts.Duration, opts.Frequency, path)
	return nil
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Load(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, a.Session().Waveform(), a.Config().Audio.SampleRate); err != nil {
		return err
	}
	return a.WriteOutput(buf.Bytes())
}
