package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/wavesmith/pkg/presets"
)

var presetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Replace the stored waveform with a preset",
	Long: fmt.Sprintf(`Generate a preset waveform, store it together with its spectrum and
print an analysis of the result.

Available presets: %s

Examples:
  # Start over from a square wave
  wavesmith preset square

  # Use a shorter cycle
  wavesmith preset saw --sample-count 256`, strings.Join(presets.Names(), ", ")),
	Args:      cobra.ExactArgs(1),
	ValidArgs: presets.Names(),
	RunE:      runPreset,
}

func init() {
	rootCmd.AddCommand(presetCmd)

	presetCmd.Flags().Int("sample-count", 2048, "samples per cycle (power of two)")
	presetCmd.Flags().Int("harmonics", 64, "number of harmonics in the spectrum")
	configFlag(presetCmd.Flags(), "sample-count", "editor.sample_count")
	configFlag(presetCmd.Flags(), "harmonics", "editor.harmonic_count")
}

func runPreset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Session().LoadPreset(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to load preset: %w", err)
	}
	printSuccess("Stored %s preset (%d samples)", strings.ToLower(args[0]), a.Config().Editor.SampleCount)

	report, err := a.Report()
	if err != nil {
		return err
	}
	return writeResult(a, "Waveform Analysis", report)
}
