package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Source implements ports.LexiconSource on top of a lexc file.
type Source struct {
	path string
}

// NewSource creates a source reading the file at path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name returns the file name.
func (s *Source) Name() string {
	return filepath.Base(s.path)
}

// Path returns the path the source reads from.
func (s *Source) Path() string {
	return s.path
}

// Load reads the whole file.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", s.path, err)
	}
	return data, nil
}
