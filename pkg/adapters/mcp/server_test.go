package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/internal/logging"
	"github.com/aretw0/lexctrace/pkg/adapters/memory"
)

const testLexicon = `
LEXICON Root
a:b Noun ;
LEXICON Noun
# ;
LEXICON Spare
Noun ;
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := lexctrace.New(context.Background(), memory.NewSource("test.lexc", testLexicon))
	require.NoError(t, err)
	return NewServer(eng, logging.NewNop())
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func TestTraceForm(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("Found With Diagram", func(t *testing.T) {
		resp, err := s.handleTraceForm(ctx, callRequest("trace_form", nil), TraceArgs{Input: "a", Output: "b", Format: "dot"})
		require.NoError(t, err)
		assert.True(t, resp.Found)
		require.Len(t, resp.Result.Paths, 1)
		assert.Equal(t, []string{"Root", "Noun", "#"}, resp.Result.Paths[0].Classes())
		assert.Contains(t, resp.Diagram, "color=red")
	})

	t.Run("Not Found", func(t *testing.T) {
		resp, err := s.handleTraceForm(ctx, callRequest("trace_form", nil), TraceArgs{Input: "a", Output: "c"})
		require.NoError(t, err)
		assert.False(t, resp.Found)
		assert.Empty(t, resp.Diagram)
	})

	t.Run("Bad Format", func(t *testing.T) {
		_, err := s.handleTraceForm(ctx, callRequest("trace_form", nil), TraceArgs{Input: "a", Output: "b", Format: "pdf"})
		assert.Error(t, err)
	})

	t.Run("Rejected Form", func(t *testing.T) {
		_, err := s.handleTraceForm(ctx, callRequest("trace_form", nil), TraceArgs{Input: "a\x00", Output: "b"})
		assert.ErrorIs(t, err, lexctrace.ErrControlChar)
	})
}

func TestValidateLexicon(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleValidate(context.Background(), callRequest("validate_lexicon", nil), nil)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, []string{"Spare"}, resp.Report.Unreachable)
}

func TestGetGraph(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGetGraph(ctx, callRequest("get_graph", map[string]any{"format": "dot"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := res.Content[0].(mcp.TextContent).Text
	assert.True(t, strings.HasPrefix(text, "digraph"))
	assert.NotContains(t, text, "Spare")

	res, err = s.handleGetGraph(ctx, callRequest("get_graph", nil))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Content[0].(mcp.TextContent).Text, "graph TD"))

	res, err = s.handleGetGraph(ctx, callRequest("get_graph", map[string]any{"format": "svg"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
