package ports

import (
	"context"
	"io"
)

// DocumentRenderer turns diagram source text into a rendered document,
// typically by handing it to an external layout engine.
type DocumentRenderer interface {
	Render(ctx context.Context, source string, format string, w io.Writer) error
}
