package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

type jsonDump struct {
	SampleRate int       `json:"sampleRate"`
	Samples    []float32 `json:"samples"`
}

// WriteJSON dumps w as {"sampleRate": ..., "samples": [...]}.
func WriteJSON(out io.Writer, w *wave.Waveform, sampleRate int) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonDump{SampleRate: sampleRate, Samples: w.Samples()}); err != nil {
		return fmt.Errorf("failed to encode waveform: %w", err)
	}
	return nil
}
