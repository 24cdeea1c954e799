package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status prints one-line outcomes, colored when the writer supports it.
type Status struct {
	out *termenv.Output
}

// NewStatus creates a status printer writing to w.
func NewStatus(w io.Writer) *Status {
	return &Status{out: termenv.NewOutput(w)}
}

// Success prints a green check line.
func (s *Status) Success(format string, args ...any) {
	s.line("#22c55e", "✔", format, args...)
}

// Warn prints a yellow line.
func (s *Status) Warn(format string, args ...any) {
	s.line("#eab308", "!", format, args...)
}

// Failure prints a red cross line.
func (s *Status) Failure(format string, args ...any) {
	s.line("#ef4444", "✘", format, args...)
}

func (s *Status) line(color, mark, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	styled := s.out.String(mark + " " + msg).Foreground(s.out.Color(color))
	fmt.Fprintln(s.out, styled)
}
