package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/RyanBlaney/wavesmith/pkg/wave"
)

const valuesPerLine = 8

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// WriteCode writes w as a C float array literal named name, one fixed
// precision decimal per sample.
func WriteCode(out io.Writer, w *wave.Waveform, name string, precision int) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("invalid array name %q", name)
	}
	if precision < 1 || precision > 9 {
		return fmt.Errorf("precision must be between 1 and 9, got %d", precision)
	}

	samples := w.Samples()
	bw := bufio.NewWriter(out)

	fmt.Fprintf(bw, "// single-cycle waveform, %d samples\n", len(samples))
	fmt.Fprintf(bw, "const float %s[%d] = {\n", name, len(samples))
	for i, v := range samples {
		if i%valuesPerLine == 0 {
			bw.WriteString("    ")
		}
		bw.WriteString(strconv.FormatFloat(float64(v), 'f', precision, 32))
		bw.WriteString("f")
		switch {
		case i == len(samples)-1:
			bw.WriteString("\n")
		case i%valuesPerLine == valuesPerLine-1:
			bw.WriteString(",\n")
		default:
			bw.WriteString(", ")
		}
	}
	bw.WriteString("};\n")

	return bw.Flush()
}
