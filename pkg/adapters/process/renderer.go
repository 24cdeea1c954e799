package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultBinary is the Graphviz layout command.
const DefaultBinary = "dot"

var (
	ErrBinaryNotFound    = errors.New("renderer binary not found")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Formats lists the output formats handed to the layout binary.
var Formats = []string{"pdf", "svg", "png"}

// Renderer implements ports.DocumentRenderer by piping DOT source through an
// external Graphviz binary.
// Only allow-listed formats reach the command line.
type Renderer struct {
	binary  string
	args    []string
	baseDir string
	formats map[string]bool
}

// RendererOption configures the renderer.
type RendererOption func(*Renderer)

// WithBinary sets the command run for each render (default: "dot").
func WithBinary(path string) RendererOption {
	return func(r *Renderer) {
		if path != "" {
			r.binary = path
		}
	}
}

// WithArgs appends fixed arguments after the -T flag.
func WithArgs(args ...string) RendererOption {
	return func(r *Renderer) {
		r.args = append(r.args, args...)
	}
}

// WithBaseDir sets the working directory of the render process.
func WithBaseDir(dir string) RendererOption {
	return func(r *Renderer) {
		r.baseDir = dir
	}
}

// WithFormats replaces the allow-list of output formats.
func WithFormats(formats ...string) RendererOption {
	return func(r *Renderer) {
		r.formats = make(map[string]bool, len(formats))
		for _, f := range formats {
			r.formats[strings.ToLower(f)] = true
		}
	}
}

// NewRenderer creates a renderer for the default formats.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{binary: DefaultBinary}
	WithFormats(Formats...)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supports reports whether format is allow-listed.
func (r *Renderer) Supports(format string) bool {
	return r.formats[strings.ToLower(format)]
}

// Render runs the binary with source on stdin and streams the document to w.
func (r *Renderer) Render(ctx context.Context, source string, format string, w io.Writer) error {
	format = strings.ToLower(format)
	if !r.formats[format] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	binary, err := exec.LookPath(r.binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBinaryNotFound, r.binary, err)
	}

	args := append([]string{"-T" + format}, r.args...)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = r.baseDir
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = w

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s -T%s failed: %w. Stderr: %s", r.binary, format, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
