package lexctrace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/lexctrace/internal/compiler"
	"github.com/aretw0/lexctrace/internal/presentation/graph"
	"github.com/aretw0/lexctrace/internal/runtime"
	"github.com/aretw0/lexctrace/internal/validator"
	"github.com/aretw0/lexctrace/pkg/domain"
	"github.com/aretw0/lexctrace/pkg/observability"
	"github.com/aretw0/lexctrace/pkg/ports"
)

// Version of the lexctrace module.
const Version = "0.4.0"

// Search guards applied unless overridden with WithMaxDepth or WithStepBudget.
const (
	DefaultMaxDepth   = runtime.DefaultMaxDepth
	DefaultStepBudget = runtime.DefaultStepBudget
)

// Engine is the high-level entry point of the library.
// It owns one parsed lexicon and answers trace, trim, validation and diagram
// requests against it. An Engine is safe for concurrent use.
type Engine struct {
	runtime    *runtime.Engine
	source     ports.LexiconSource
	lexicon    *domain.Lexicon
	raw        []byte
	root       string
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	metrics    *observability.Metrics
	cache      ports.TraceCache
	renderer   ports.DocumentRenderer
	maxDepth   int
	stepBudget int
	timeout    time.Duration
	lenient    bool
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRoot sets the class traces and trims start from (default: "Root").
func WithRoot(root string) Option {
	return func(e *Engine) {
		e.root = root
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMetrics records every trace and cache lookup on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMaxDepth bounds the length of a derivation path (default
// DefaultMaxDepth). Zero disables the guard.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithStepBudget bounds the number of rules evaluated per trace (default
// DefaultStepBudget). Zero disables the budget.
func WithStepBudget(steps int) Option {
	return func(e *Engine) {
		e.stepBudget = steps
	}
}

// WithTimeout bounds the wall time of a single trace. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithLenient parses and searches with the legacy tolerance for malformed rules.
func WithLenient(lenient bool) Option {
	return func(e *Engine) {
		e.lenient = lenient
	}
}

// WithCache stores trace results keyed by domain.Fingerprint.
func WithCache(cache ports.TraceCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithRenderer sets the renderer used by Export for document formats.
func WithRenderer(r ports.DocumentRenderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// New loads and parses the lexicon provided by source.
func New(ctx context.Context, source ports.LexiconSource, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("lexicon source is required")
	}
	eng := &Engine{
		source:     source,
		root:       domain.DefaultRoot,
		maxDepth:   DefaultMaxDepth,
		stepBudget: DefaultStepBudget,
		Name:       source.Name(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("lexicon", eng.Name)
	}

	raw, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	parser := compiler.NewParser(
		compiler.WithLenient(eng.lenient),
		compiler.WithLogger(eng.logger),
	)
	lex, err := parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", eng.Name, err)
	}
	eng.raw = raw
	eng.lexicon = lex

	hooks := eng.hooks
	if eng.metrics != nil {
		hooks = chainHooks(hooks, eng.metrics.Hooks())
	}
	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLenient(eng.lenient),
		runtime.WithMaxDepth(eng.maxDepth),
		runtime.WithStepBudget(eng.stepBudget),
	}
	eng.runtime = runtime.NewEngine(lex, runtimeOpts...)

	return eng, nil
}

// Root returns the class traces start from.
func (e *Engine) Root() string {
	return e.root
}

// MaxDepth returns the derivation length guard in effect; zero means none.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// StepBudget returns the per-trace rule budget in effect; zero means none.
func (e *Engine) StepBudget() int {
	return e.stepBudget
}

// Lexicon returns the parsed lexicon. Callers must not modify it.
func (e *Engine) Lexicon() *domain.Lexicon {
	return e.lexicon
}

// Diagnostics returns the warnings recorded while parsing.
func (e *Engine) Diagnostics() []domain.Diagnostic {
	return e.lexicon.Diagnostics
}

// Trace finds every derivation of the output form from the input form.
// Forms are given in their plain spelling; angle brackets are escaped here.
func (e *Engine) Trace(ctx context.Context, input, output string) (*domain.TraceResult, error) {
	in, err := PrepareForm(input)
	if err != nil {
		return nil, fmt.Errorf("invalid input form: %w", err)
	}
	out, err := PrepareForm(output)
	if err != nil {
		return nil, fmt.Errorf("invalid output form: %w", err)
	}
	q := domain.Query{Root: e.root, Input: in, Output: out}

	var key string
	if e.cache != nil {
		key = domain.Fingerprint(e.raw, q, e.lenient)
		cached, err := e.cache.Get(ctx, key)
		switch {
		case err == nil:
			e.observeCache(true)
			e.logger.Debug("trace cache hit", "key", key)
			return cached, nil
		case errors.Is(err, domain.ErrCacheMiss):
			e.observeCache(false)
		default:
			e.logger.Warn("trace cache lookup failed", "err", err)
		}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	result, err := e.runtime.Trace(ctx, q)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, result); err != nil {
			e.logger.Warn("trace cache store failed", "err", err)
		}
	}
	return result, nil
}

// Trim returns the subgraph reachable from the root.
func (e *Engine) Trim() (*domain.Lexicon, error) {
	return validator.Trim(e.lexicon, e.root)
}

// Validate runs the static checks over the lexicon. The parse diagnostics are
// included in the report.
func (e *Engine) Validate() (*Report, error) {
	return validator.Analyze(e.lexicon, e.root)
}

// Diagram renders the trimmed graph as Mermaid or DOT text, highlighting the
// paths of result. A nil result draws the bare graph.
func (e *Engine) Diagram(format Format, result *domain.TraceResult) (string, error) {
	trimmed, err := e.Trim()
	if err != nil {
		return "", err
	}
	var overlay *graph.Overlay
	if result != nil {
		overlay = &graph.Overlay{Paths: result.Paths}
	}
	return graph.Generate(format, trimmed, overlay)
}

// Export writes the diagram in format to w. Text formats are written as is;
// any other format is produced by the configured DocumentRenderer from DOT.
func (e *Engine) Export(ctx context.Context, format string, result *domain.TraceResult, w io.Writer) error {
	if f, ok := graph.ParseFormat(format); ok {
		diagram, err := e.Diagram(f, result)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, diagram)
		return err
	}

	if e.renderer == nil {
		return fmt.Errorf("no renderer configured for format %q", format)
	}
	diagram, err := e.Diagram(graph.FormatDOT, result)
	if err != nil {
		return err
	}
	return e.renderer.Render(ctx, diagram, strings.ToLower(format), w)
}

func (e *Engine) observeCache(hit bool) {
	if e.metrics != nil {
		e.metrics.ObserveCache(hit)
	}
}

func chainHooks(a, b domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceStart: chain(a.OnTraceStart, b.OnTraceStart),
		OnTraceEnd:   chain(a.OnTraceEnd, b.OnTraceEnd),
	}
}

func chain(a, b func(context.Context, *domain.TraceEvent)) func(context.Context, *domain.TraceEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, ev *domain.TraceEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
