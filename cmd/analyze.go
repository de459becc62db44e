package cmd

import (
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the stored waveform",
	Long: `Print level, DC offset, crest factor, harmonic distortion and the
FFT-measured harmonic amplitudes of the stored waveform. When nothing is
stored yet the default preset is analyzed.

Examples:
  wavesmith analyze
  wavesmith analyze --harmonics 16 -o json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int("harmonics", 64, "number of harmonics to report")
	configFlag(analyzeCmd.Flags(), "harmonics", "editor.harmonic_count")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Load(ctx); err != nil {
		return err
	}

	report, err := a.Report()
	if err != nil {
		return err
	}
	return writeResult(a, "Waveform Analysis", report)
}
