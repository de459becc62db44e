package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/RyanBlaney/latency-benchmark-common/output"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/wavesmith/internal/app"
)

const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
)

var titleCaser = cases.Title(language.English)

func printSuccess(format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "   %s✓%s %s\n", ColorGreen, ColorReset, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "   %s⚠%s %s\n", ColorYellow, ColorReset, fmt.Sprintf(format, args...))
}

// newApp builds the application from the global flags
func newApp(ctx context.Context, withPlayback bool) (*app.App, error) {
	return app.NewApp(ctx, &app.Context{
		OutputFile: outputFile,
		Verbose:    verbose,
		Quiet:      quiet,
		Playback:   withPlayback,
	})
}

// writeResult formats data in the configured output format and writes it
func writeResult(a *app.App, title string, data any) error {
	out, err := formatOutput(data, a.Config().OutputFormat, title)
	if err != nil {
		return err
	}
	return a.WriteOutput(out)
}

// newFormatter returns the formatter for an output format
func newFormatter(format, title string) (output.Formatter, error) {
	switch format {
	case "json":
		return &output.JSONFormatter{}, nil
	case "yaml":
		return &output.YAMLFormatter{}, nil
	case "table", "":
		return &tableFormatter{title: title}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatOutput renders data as table, json or yaml
func formatOutput(data any, format, title string) ([]byte, error) {
	formatter, err := newFormatter(format, title)
	if err != nil {
		return nil, err
	}

	out, err := formatter.Format(data, true)
	if err != nil {
		return nil, fmt.Errorf("failed to format %s output: %w", format, err)
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// tableFormatter prints data as aligned key/value rows. Nested objects are
// flattened into "Parent / Child" labels.
type tableFormatter struct {
	title string
}

func (f *tableFormatter) Format(data any, prettyPrint bool) ([]byte, error) {
	// go through the JSON form so rows are keyed like the other formats
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("table output needs an object: %w", err)
	}

	flat := flattenFields(fields, "")
	keys := slices.Sorted(maps.Keys(flat))

	var buf bytes.Buffer
	if f.title != "" {
		fmt.Fprintf(&buf, "%s\n%s\n", f.title, strings.Repeat("=", len(f.title)))
	}

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%s\n", rowLabel(k), formatValue(flat[k]))
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func flattenFields(fields map[string]any, prefix string) map[string]any {
	flat := make(map[string]any, len(fields))
	for k, v := range output.ExtractFlattenedData(fields, prefix) {
		if nested, ok := v.(map[string]any); ok {
			maps.Copy(flat, flattenFields(nested, k+"/"))
			continue
		}
		flat[k] = v
	}
	return flat
}

func rowLabel(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = titleCaser.String(strings.ReplaceAll(p, "_", " "))
	}
	return strings.Join(parts, " / ")
}

func formatValue(v any) string {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return output.ConvertValueToString(i)
		}
		f, _ := v.Float64()
		return strconv.FormatFloat(f, 'g', 6, 64)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, ", ")
	case nil:
		return "-"
	default:
		return output.ConvertValueToString(v)
	}
}
