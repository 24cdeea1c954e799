package ports

import "context"

// LexiconSource defines how the engine retrieves lexicon text.
// This allows the storage layer (file, memory) to be decoupled from parsing.
type LexiconSource interface {
	// Name is a short human readable label, such as the file name.
	Name() string

	// Load returns the raw lexicon text.
	Load(ctx context.Context) ([]byte, error)
}
