package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDot writes a script that echoes its flag and copies stdin to stdout.
func fakeDot(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-dot")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRenderer_Render(t *testing.T) {
	bin := fakeDot(t, `echo "flag=$1 extra=$2"; cat`)
	r := NewRenderer(WithBinary(bin), WithArgs("-Gdpi=72"))

	var buf bytes.Buffer
	err := r.Render(context.Background(), "digraph {}", "SVG", &buf)
	require.NoError(t, err)
	assert.Equal(t, "flag=-Tsvg extra=-Gdpi=72\ndigraph {}", buf.String())
}

func TestRenderer_Failure(t *testing.T) {
	bin := fakeDot(t, `echo "syntax error in line 1" >&2; exit 1`)
	r := NewRenderer(WithBinary(bin))

	err := r.Render(context.Background(), "digraph {", "pdf", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error in line 1")
}

func TestRenderer_Errors(t *testing.T) {
	t.Run("Unsupported Format", func(t *testing.T) {
		r := NewRenderer()
		err := r.Render(context.Background(), "digraph {}", "exe", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.False(t, r.Supports("exe"))
		assert.True(t, r.Supports("PDF"))
	})

	t.Run("Missing Binary", func(t *testing.T) {
		r := NewRenderer(WithBinary(filepath.Join(t.TempDir(), "no-such-dot")))
		err := r.Render(context.Background(), "digraph {}", "pdf", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrBinaryNotFound)
	})

	t.Run("Custom Allow List", func(t *testing.T) {
		r := NewRenderer(WithFormats("ps"))
		assert.True(t, r.Supports("ps"))
		assert.False(t, r.Supports("pdf"))
	})
}

func TestRenderer_Canceled(t *testing.T) {
	bin := fakeDot(t, `sleep 5`)
	r := NewRenderer(WithBinary(bin))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Render(ctx, "digraph {}", "png", &bytes.Buffer{})
	assert.Error(t, err)
}
