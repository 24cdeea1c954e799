package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/lexctrace/pkg/domain"
)

const (
	// DefaultMaxDepth bounds the number of steps of a single derivation.
	DefaultMaxDepth = 4096
	// DefaultStepBudget bounds the number of rules evaluated per search.
	DefaultStepBudget = 1_000_000

	cancelCheckInterval = 256
)

// Engine is the trace searcher. It enumerates every derivation through the
// rule graph whose accumulated input and output equal the queried forms.
//
// The search is a depth-first backtracking walk kept on an explicit stack, so
// deep or highly ambiguous lexicons never grow the goroutine stack. A branch
// is pruned as soon as either accumulated string stops being a prefix of its
// target. Lexicons with a cycle of rules that add nothing to either string
// would loop forever; the depth guard turns that into ErrDepthExceeded.
type Engine struct {
	lexicon    *domain.Lexicon
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	maxDepth   int
	stepBudget int
	lenient    bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxDepth bounds the length of a derivation. Zero or less disables the guard.
func WithMaxDepth(depth int) EngineOption {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithStepBudget bounds the rules evaluated per search. Zero or less disables it.
func WithStepBudget(steps int) EngineOption {
	return func(e *Engine) {
		e.stepBudget = steps
	}
}

// WithLenient makes rules continuing into undefined classes a logged skip
// instead of an error.
func WithLenient(lenient bool) EngineOption {
	return func(e *Engine) {
		e.lenient = lenient
	}
}

// NewEngine creates a searcher over an immutable lexicon.
func NewEngine(lexicon *domain.Lexicon, opts ...EngineOption) *Engine {
	e := &Engine{
		lexicon:    lexicon,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth:   DefaultMaxDepth,
		stepBudget: DefaultStepBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// frame is one suspended class visit: the path that led to it, the strings
// accumulated so far and the next rule to try.
type frame struct {
	path   domain.Path
	input  string
	output string
	rule   int
}

// Trace returns every accepted derivation for q. Paths are reported in the
// order a recursive walk over the rules in declaration order finds them.
// An empty result is not an error.
func (e *Engine) Trace(ctx context.Context, q domain.Query) (*domain.TraceResult, error) {
	start := time.Now()
	if e.hooks.OnTraceStart != nil {
		e.hooks.OnTraceStart(ctx, &domain.TraceEvent{Timestamp: start, Type: domain.EventTraceStart, Query: q})
	}

	result, err := e.search(ctx, q)

	if e.hooks.OnTraceEnd != nil {
		ev := &domain.TraceEvent{
			Timestamp: time.Now(),
			Type:      domain.EventTraceEnd,
			Query:     q,
			Elapsed:   time.Since(start),
			Err:       err,
		}
		if result != nil {
			ev.Paths = len(result.Paths)
			ev.Steps = result.Stats.Steps
		}
		e.hooks.OnTraceEnd(ctx, ev)
	}
	return result, err
}

func (e *Engine) search(ctx context.Context, q domain.Query) (*domain.TraceResult, error) {
	if !e.lexicon.Has(q.Root) {
		return nil, &domain.UnknownRootError{Root: q.Root}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.TraceResult{Query: q, Paths: []domain.Path{}}
	stats := &result.Stats
	stats.MaxDepth = 1

	stack := []frame{{path: domain.Path{{Class: q.Root}}}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		class := top.path[len(top.path)-1].Class
		rules := e.lexicon.Rules(class)
		if top.rule >= len(rules) {
			stack = stack[:len(stack)-1]
			continue
		}
		rule := rules[top.rule]
		top.rule++

		stats.Steps++
		if e.stepBudget > 0 && stats.Steps > e.stepBudget {
			return nil, fmt.Errorf("%w: %d rules evaluated", domain.ErrStepBudgetExceeded, e.stepBudget)
		}
		if stats.Steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		input := top.input + rule.Input
		output := top.output + rule.Output

		if rule.IsTerminal() {
			if input == q.Input && output == q.Output {
				result.Paths = append(result.Paths, extend(top.path, domain.Step{
					Input:  rule.Input,
					Output: rule.Output,
					Class:  domain.EndOfWord,
				}))
			}
			continue
		}

		if !strings.HasPrefix(q.Input, input) || !strings.HasPrefix(q.Output, output) {
			continue
		}

		if !e.lexicon.Has(rule.Next) {
			if !e.lenient {
				return nil, fmt.Errorf("%w: %q referenced from LEXICON %s (line %d)", domain.ErrUnknownClass, rule.Next, class, rule.Line)
			}
			stats.Skipped++
			e.logger.Warn("Skipping rule into undefined class", "class", class, "next", rule.Next, "line", rule.Line)
			continue
		}

		depth := len(top.path) + 1
		if e.maxDepth > 0 && depth > e.maxDepth {
			return nil, fmt.Errorf("%w: derivation reached %d steps at LEXICON %s", domain.ErrDepthExceeded, e.maxDepth, rule.Next)
		}
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}

		stack = append(stack, frame{
			path: extend(top.path, domain.Step{
				Input:  rule.Input,
				Output: rule.Output,
				Class:  rule.Next,
			}),
			input:  input,
			output: output,
		})
	}

	e.logger.Debug("Trace finished",
		"root", q.Root,
		"input", q.Input,
		"output", q.Output,
		"paths", len(result.Paths),
		"steps", stats.Steps,
	)
	return result, nil
}

// extend copies path so sibling branches never share a backing array.
func extend(path domain.Path, step domain.Step) domain.Path {
	next := make(domain.Path, len(path)+1)
	copy(next, path)
	next[len(path)] = step
	return next
}
