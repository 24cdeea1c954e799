package validator

import (
	"github.com/aretw0/lexctrace/pkg/domain"
)

// Reachable returns the set of defined classes reachable from root by
// following next-class references. End-of-word and undefined classes are
// never entered; a class already marked is never revisited.
func Reachable(lex *domain.Lexicon, root string) (map[string]bool, error) {
	if !lex.Has(root) {
		return nil, &domain.UnknownRootError{Root: root}
	}

	visited := map[string]bool{root: true}
	stack := []string{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rules := lex.Rules(current)
		// Push in reverse so classes are entered in declaration order.
		for i := len(rules) - 1; i >= 0; i-- {
			next := rules[i].Next
			if next == domain.EndOfWord || visited[next] || !lex.Has(next) {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}
	return visited, nil
}

// Trim returns a new lexicon restricted to the classes reachable from root.
// The input is left untouched.
func Trim(lex *domain.Lexicon, root string) (*domain.Lexicon, error) {
	keep, err := Reachable(lex, root)
	if err != nil {
		return nil, err
	}
	return lex.Restrict(keep), nil
}
