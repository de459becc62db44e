package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/wavesmith/internal/app"
)

var editCmd = &cobra.Command{
	Use:   "edit <script>",
	Short: "Apply a script of edits to the stored waveform",
	Long: `Replay a YAML or JSON edit script against the stored waveform. Every
step is committed, persisted and recorded in the undo history of the run.

Operations:
  preset      name
  drag_point  index, value        move one control point
  draw        stroke: [{index, value}, ...]
  harmonic    index, amplitude    set one harmonic bar
  smooth      amount (optional)
  normalize
  band_limit  cutoff              silence harmonics from cutoff up
  undo, redo

Example script:
  steps:
    - op: preset
      name: saw
    - op: band_limit
      cutoff: 12
    - op: smooth
      amount: 0.3`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().Int("history-size", 50, "undo history length")
	editCmd.Flags().Float64("smoothing", 0.5, "smoothing amount for steps without one")
	configFlag(editCmd.Flags(), "history-size", "editor.history_size")
	configFlag(editCmd.Flags(), "smoothing", "editor.smoothing")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	script, err := app.LoadScript(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Load(ctx); err != nil {
		return err
	}

	result, err := a.RunScript(ctx, script)
	if err != nil {
		return fmt.Errorf("edit script failed: %w", err)
	}
	if result.Skipped > 0 {
		printWarning("%d undo/redo steps had nothing to do", result.Skipped)
	}
	printSuccess("Applied %d edits", result.Applied)

	return writeResult(a, "Edit Summary", result)
}
