package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lexctrace/internal/presentation/tui"
)

// writeReport prints v as JSON or YAML, or markdown for the text format.
// Text is rendered with glamour when w is a terminal.
func writeReport(w io.Writer, format string, v any, markdown string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		out := markdown
		if f, ok := w.(*os.File); ok {
			rendered, err := tui.RenderFor(f, markdown)
			if err != nil {
				return err
			}
			out = rendered
		}
		_, err := io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
