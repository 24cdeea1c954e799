package lexctrace_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/pkg/adapters/memory"
	"github.com/aretw0/lexctrace/pkg/domain"
	"github.com/aretw0/lexctrace/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nounsLexicon = `
! English nouns
Multichar_Symbols
%<N%> %<Sg%> %<Pl%>

LEXICON Root
Nouns ;

LEXICON Nouns
cat:cat Num ;
dog:dog Num ;

LEXICON Num
%<N%>%<Sg%>:0 # ;
%<N%>%<Pl%>:s # ;

LEXICON Orphan
x:x # ;
`

func newEngine(t *testing.T, opts ...lexctrace.Option) *lexctrace.Engine {
	t.Helper()
	eng, err := lexctrace.New(context.Background(), memory.NewSource("nouns.lexc", nounsLexicon), opts...)
	require.NoError(t, err)
	return eng
}

func TestEngine_Trace(t *testing.T) {
	eng := newEngine(t)

	res, err := eng.Trace(context.Background(), "cat<N><Pl>", "cats")
	require.NoError(t, err)
	require.Len(t, res.Paths, 1)

	path := res.Paths[0]
	assert.Equal(t, []string{"Root", "Nouns", "Num", "#"}, path.Classes())
	assert.Equal(t, "cat%<N%>%<Pl%>", path.InputString())
	assert.Equal(t, "cats", path.OutputString())
	assert.Equal(t, "Root", res.Query.Root)
}

func TestEngine_Trace_NoDerivation(t *testing.T) {
	eng := newEngine(t)

	res, err := eng.Trace(context.Background(), "cat<N><Pl>", "cat")
	require.NoError(t, err)
	assert.False(t, res.Found())
}

func TestEngine_Trace_RootOverride(t *testing.T) {
	eng := newEngine(t, lexctrace.WithRoot("Num"))
	assert.Equal(t, "Num", eng.Root())

	res, err := eng.Trace(context.Background(), "<N><Sg>", "")
	require.NoError(t, err)
	require.Len(t, res.Paths, 1)
	assert.Equal(t, []string{"Num", "#"}, res.Paths[0].Classes())
}

func TestEngine_Trace_UnknownRoot(t *testing.T) {
	eng := newEngine(t, lexctrace.WithRoot("Verbs"))

	_, err := eng.Trace(context.Background(), "a", "b")
	assert.ErrorIs(t, err, domain.ErrUnknownRoot)

	_, err = eng.Trim()
	assert.ErrorIs(t, err, domain.ErrUnknownRoot)
}

func TestEngine_Trace_InvalidForm(t *testing.T) {
	eng := newEngine(t)

	_, err := eng.Trace(context.Background(), "cat\x1b[31m", "cats")
	assert.ErrorIs(t, err, lexctrace.ErrControlChar)

	_, err = eng.Trace(context.Background(), "cat", string([]byte{0xff}))
	assert.ErrorIs(t, err, lexctrace.ErrInvalidUTF8)
}

func TestEngine_Trace_FormSizeLimit(t *testing.T) {
	t.Setenv(lexctrace.EnvMaxFormSize, "4")
	eng := newEngine(t)

	_, err := eng.Trace(context.Background(), "cat<N><Pl>", "cats")
	assert.ErrorIs(t, err, lexctrace.ErrFormTooLarge)
}

func TestEngine_Trace_CacheAndMetrics(t *testing.T) {
	cache := memory.NewCache()
	metrics := observability.NewMetrics(nil)
	eng := newEngine(t, lexctrace.WithCache(cache), lexctrace.WithMetrics(metrics))
	ctx := context.Background()

	first, err := eng.Trace(ctx, "dog<N><Sg>", "dog")
	require.NoError(t, err)
	second, err := eng.Trace(ctx, "dog<N><Sg>", "dog")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Cache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Cache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Traces.WithLabelValues(observability.OutcomeFound)))
}

func TestEngine_Trace_CacheKeepsModesApart(t *testing.T) {
	src := memory.NewSource("dangling.lexc", "LEXICON Root\na:b Missing ;\na:b Noun ;\n\nLEXICON Noun\n# ;\n")
	cache := memory.NewCache()
	ctx := context.Background()

	lenient, err := lexctrace.New(ctx, src, lexctrace.WithLenient(true), lexctrace.WithCache(cache))
	require.NoError(t, err)
	res, err := lenient.Trace(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, res.Paths, 1)

	strict, err := lexctrace.New(ctx, src, lexctrace.WithCache(cache))
	require.NoError(t, err)
	_, err = strict.Trace(ctx, "a", "b")
	assert.ErrorIs(t, err, domain.ErrUnknownClass)
	assert.Equal(t, 1, cache.Len(), "failed traces are not cached")
}

func TestEngine_Guards(t *testing.T) {
	src := memory.NewSource("loop.lexc", "LEXICON Root\nA ;\n\nLEXICON A\nRoot ;\n")
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		eng, err := lexctrace.New(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, lexctrace.DefaultMaxDepth, eng.MaxDepth())
		assert.Equal(t, lexctrace.DefaultStepBudget, eng.StepBudget())
	})

	t.Run("ZeroDepthDisablesGuard", func(t *testing.T) {
		eng, err := lexctrace.New(ctx, src, lexctrace.WithMaxDepth(0), lexctrace.WithStepBudget(50))
		require.NoError(t, err)
		assert.Equal(t, 0, eng.MaxDepth())

		_, err = eng.Trace(ctx, "", "")
		assert.ErrorIs(t, err, domain.ErrStepBudgetExceeded)
	})

	t.Run("ZeroBudgetDisablesBudget", func(t *testing.T) {
		eng, err := lexctrace.New(ctx, src, lexctrace.WithMaxDepth(10), lexctrace.WithStepBudget(0))
		require.NoError(t, err)
		assert.Equal(t, 0, eng.StepBudget())

		_, err = eng.Trace(ctx, "", "")
		assert.ErrorIs(t, err, domain.ErrDepthExceeded)
	})
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var events []domain.EventType
	hooks := domain.LifecycleHooks{
		OnTraceStart: func(_ context.Context, ev *domain.TraceEvent) { events = append(events, ev.Type) },
		OnTraceEnd:   func(_ context.Context, ev *domain.TraceEvent) { events = append(events, ev.Type) },
	}
	eng := newEngine(t, lexctrace.WithLifecycleHooks(hooks), lexctrace.WithMetrics(observability.NewMetrics(nil)))

	_, err := eng.Trace(context.Background(), "cat<N><Sg>", "cat")
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{domain.EventTraceStart, domain.EventTraceEnd}, events)
}

func TestEngine_Trace_Canceled(t *testing.T) {
	src := memory.NewSource("loop.lexc", "LEXICON Root\nA ;\nLEXICON A\nRoot ;\n")
	eng, err := lexctrace.New(context.Background(), src,
		lexctrace.WithTimeout(time.Minute),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Trace(ctx, "a", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_New_ParseError(t *testing.T) {
	src := memory.NewSource("bad.lexc", "LEXICON Root\na:b:c Next ;\n")

	_, err := lexctrace.New(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Contains(t, err.Error(), "bad.lexc")
	assert.Contains(t, err.Error(), "line 2")

	eng, err := lexctrace.New(context.Background(), src, lexctrace.WithLenient(true))
	require.NoError(t, err)
	require.Len(t, eng.Diagnostics(), 1)
	assert.Equal(t, domain.SeverityWarning, eng.Diagnostics()[0].Severity)
}

func TestEngine_New_NilSource(t *testing.T) {
	_, err := lexctrace.New(context.Background(), nil)
	assert.Error(t, err)
}

func TestEngine_TrimAndValidate(t *testing.T) {
	eng := newEngine(t)

	trimmed, err := eng.Trim()
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "Nouns", "Num"}, trimmed.Names())
	assert.True(t, eng.Lexicon().Has("Orphan"))

	var report *lexctrace.Report
	report, err = eng.Validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"Orphan"}, report.Unreachable)
	assert.NoError(t, report.Err())
	assert.False(t, report.NonTerminating())
}

func TestEngine_Diagram(t *testing.T) {
	eng := newEngine(t)
	res, err := eng.Trace(context.Background(), "cat<N><Pl>", "cats")
	require.NoError(t, err)

	out, err := eng.Diagram(lexctrace.FormatMermaid, res)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph "), out)
	assert.NotContains(t, out, "Orphan")
	assert.Contains(t, out, "==>")

	bare, err := eng.Diagram(lexctrace.FormatDOT, nil)
	require.NoError(t, err)
	assert.Contains(t, bare, "digraph")
	assert.NotContains(t, bare, "color=red")
}

type fakeRenderer struct {
	source string
	format string
	err    error
}

func (f *fakeRenderer) Render(_ context.Context, source, format string, w io.Writer) error {
	f.source, f.format = source, format
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "%PDF")
	return err
}

func TestEngine_Export(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		eng := newEngine(t)
		var buf bytes.Buffer
		require.NoError(t, eng.Export(context.Background(), "DOT", nil, &buf))
		assert.Contains(t, buf.String(), "digraph")
	})

	t.Run("Renderer", func(t *testing.T) {
		r := &fakeRenderer{}
		eng := newEngine(t, lexctrace.WithRenderer(r))
		var buf bytes.Buffer
		require.NoError(t, eng.Export(context.Background(), "PDF", nil, &buf))
		assert.Equal(t, "%PDF", buf.String())
		assert.Equal(t, "pdf", r.format)
		assert.Contains(t, r.source, "digraph")
	})

	t.Run("RendererError", func(t *testing.T) {
		boom := errors.New("boom")
		eng := newEngine(t, lexctrace.WithRenderer(&fakeRenderer{err: boom}))
		err := eng.Export(context.Background(), "svg", nil, io.Discard)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("NoRenderer", func(t *testing.T) {
		eng := newEngine(t)
		err := eng.Export(context.Background(), "png", nil, io.Discard)
		assert.Error(t, err)
	})
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]lexctrace.Format{
		"mermaid": lexctrace.FormatMermaid,
		"MMD":     lexctrace.FormatMermaid,
		"dot":     lexctrace.FormatDOT,
		"gv":      lexctrace.FormatDOT,
	} {
		got, ok := lexctrace.ParseFormat(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := lexctrace.ParseFormat("pdf")
	assert.False(t, ok)
}
