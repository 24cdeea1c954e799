package memory

import "context"

// Source implements ports.LexiconSource over an in-memory string.
type Source struct {
	name string
	data []byte
}

// NewSource creates a source serving text under name.
func NewSource(name, text string) *Source {
	return &Source{name: name, data: []byte(text)}
}

// Name returns the label given at construction.
func (s *Source) Name() string {
	return s.name
}

// Load returns a copy of the text.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}
