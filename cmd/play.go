package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/wavesmith/internal/playback"
)

var playDuration time.Duration

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Loop the stored waveform on the audio device",
	Long: `Loop the stored waveform at a fixed frequency until interrupted or
until --duration elapses.

Audio output needs a binary built with the playback tag:
  go build -tags playback .`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Float64("frequency", 440, "playback frequency in Hz")
	playCmd.Flags().Float64("volume", 0.3, "output gain between 0 and 1")
	playCmd.Flags().DurationVar(&playDuration, "duration", 0, "stop after this long (default: until interrupted)")
	configFlag(playCmd.Flags(), "frequency", "audio.frequency")
	configFlag(playCmd.Flags(), "volume", "audio.volume")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if !playback.Available {
		return fmt.Errorf("%w: rebuild with -tags playback", playback.ErrNoAudioDevice)
	}

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Load(ctx); err != nil {
		return err
	}

	session := a.Session()
	frequency := a.Config().Audio.Frequency
	if err := session.Play(frequency); err != nil {
		return err
	}
	defer session.Stop()
	printSuccess("Playing at %g Hz, interrupt to stop", frequency)

	var timeout <-chan time.Time
	if playDuration > 0 {
		timeout = time.After(playDuration)
	}
	select {
	case <-ctx.Done():
	case <-timeout:
	}
	return nil
}
