package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// Reference is a rule pointing at a class that is not defined.
type Reference struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Report is the outcome of a static analysis of a lexicon from one root.
type Report struct {
	Root        string              `json:"root" yaml:"root"`
	Reachable   []string            `json:"reachable" yaml:"reachable"`
	Unreachable []string            `json:"unreachable,omitempty" yaml:"unreachable,omitempty"`
	Dangling    []Reference         `json:"dangling,omitempty" yaml:"dangling,omitempty"`
	Cycles      [][]string          `json:"zero_growth_cycles,omitempty" yaml:"zero_growth_cycles,omitempty"`
	Diagnostics []domain.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// NonTerminating reports whether the searcher may loop forever from Root.
func (r *Report) NonTerminating() bool {
	return len(r.Cycles) > 0
}

// Err collects the error-severity findings, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, d := range r.Diagnostics {
		if d.Severity == domain.SeverityError {
			errs = append(errs, fmt.Errorf("%s", d.String()))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &domain.AggregateError{Errors: errs}
}

// Analyze inspects the part of the lexicon reachable from root.
//
// It reports rules continuing into undefined classes (errors), classes that
// root can never reach (warnings) and cycles made only of rules that add
// nothing to either string (warnings). A derivation can walk such a cycle
// forever, so the searcher would not terminate without its guards.
func Analyze(lex *domain.Lexicon, root string) (*Report, error) {
	reach, err := Reachable(lex, root)
	if err != nil {
		return nil, err
	}

	report := &Report{Root: root}
	report.Diagnostics = append(report.Diagnostics, lex.Diagnostics...)

	for _, name := range lex.Names() {
		if !reach[name] {
			report.Unreachable = append(report.Unreachable, name)
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Class:    name,
				Message:  fmt.Sprintf("class is unreachable from %s", root),
			})
			continue
		}
		report.Reachable = append(report.Reachable, name)

		for _, rule := range lex.Rules(name) {
			if rule.Next == domain.EndOfWord || lex.Has(rule.Next) {
				continue
			}
			report.Dangling = append(report.Dangling, Reference{From: name, To: rule.Next, Line: rule.Line})
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityError,
				Line:     rule.Line,
				Class:    name,
				Message:  fmt.Sprintf("continuation class %q is not defined", rule.Next),
			})
		}
	}

	report.Cycles = zeroGrowthCycles(lex, report.Reachable)
	for _, cycle := range report.Cycles {
		report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Class:    cycle[0],
			Message:  fmt.Sprintf("zero-growth cycle may prevent termination: %s", strings.Join(cycle, " -> ")),
		})
	}

	return report, nil
}

// zeroGrowthCycles finds the strongly connected components of the graph made
// of rules that add nothing to either string. Only components that actually
// contain a cycle are returned, members in declaration order.
func zeroGrowthCycles(lex *domain.Lexicon, classes []string) [][]string {
	position := make(map[string]int, len(classes))
	for i, name := range classes {
		position[name] = i
	}

	adj := make(map[string][]string, len(classes))
	selfLoop := make(map[string]bool)
	for _, name := range classes {
		for _, rule := range lex.Rules(name) {
			if rule.Grows() || rule.Next == domain.EndOfWord {
				continue
			}
			if _, ok := position[rule.Next]; !ok {
				continue
			}
			if rule.Next == name {
				selfLoop[name] = true
			}
			adj[name] = append(adj[name], rule.Next)
		}
	}

	// Iterative Tarjan.
	type frame struct {
		node string
		edge int
	}
	var (
		counter int
		index   = make(map[string]int)
		low     = make(map[string]int)
		onStack = make(map[string]bool)
		stack   []string
		cycles  [][]string
	)

	visit := func(n string) {
		index[n] = counter
		low[n] = counter
		counter++
		stack = append(stack, n)
		onStack[n] = true
	}

	for _, start := range classes {
		if _, seen := index[start]; seen {
			continue
		}
		visit(start)
		call := []frame{{node: start}}

		for len(call) > 0 {
			top := &call[len(call)-1]
			succ := adj[top.node]
			if top.edge < len(succ) {
				w := succ[top.edge]
				top.edge++
				if _, seen := index[w]; !seen {
					visit(w)
					call = append(call, frame{node: w})
				} else if onStack[w] && index[w] < low[top.node] {
					low[top.node] = index[w]
				}
				continue
			}

			node := top.node
			call = call[:len(call)-1]
			if len(call) > 0 {
				parent := call[len(call)-1].node
				if low[node] < low[parent] {
					low[parent] = low[node]
				}
			}
			if low[node] != index[node] {
				continue
			}

			var component []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == node {
					break
				}
			}
			if len(component) > 1 || selfLoop[node] {
				sort.Slice(component, func(i, j int) bool {
					return position[component[i]] < position[component[j]]
				})
				cycles = append(cycles, component)
			}
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return position[cycles[i][0]] < position[cycles[j][0]]
	})
	return cycles
}
