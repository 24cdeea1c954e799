package compiler

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// Parser converts raw lexc text into a domain.Lexicon.
//
// In strict mode (the default) any structural problem is a *domain.ParseError.
// In lenient mode the parser keeps the tolerance of older tooling: offending
// rules are skipped, recorded as diagnostics and logged.
type Parser struct {
	lenient bool
	logger  *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLenient toggles legacy-compatible parsing.
func WithLenient(lenient bool) ParserOption {
	return func(p *Parser) {
		p.lenient = lenient
	}
}

// WithLogger sets the logger used to report skipped rules.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type sectionKind int

const (
	sectionSymbols sectionKind = iota
	sectionLexicon
)

type sourceLine struct {
	number int
	text   string
}

type section struct {
	kind  sectionKind
	name  string
	line  int
	lines []sourceLine
}

// rawRule is a ';'-terminated chunk of a class body.
type rawRule struct {
	text string
	line int
}

// Parse reads the whole lexicon. Parsing stops at the first error in strict mode.
func (p *Parser) Parse(data []byte) (*domain.Lexicon, error) {
	sections, diags, err := p.sections(string(data))
	if err != nil {
		return nil, err
	}

	lex := &domain.Lexicon{
		Classes: make(map[string][]domain.Rule),
	}

	symbolsSeen := false
	for _, sec := range sections {
		switch sec.kind {
		case sectionSymbols:
			if symbolsSeen {
				diags = append(diags, p.warn(sec.line, "", "ignoring repeated Multichar_Symbols section"))
				continue
			}
			symbolsSeen = true
			for _, l := range sec.lines {
				lex.Multichar = append(lex.Multichar, Fields(l.text)...)
			}

		case sectionLexicon:
			if _, ok := lex.Classes[sec.name]; !ok {
				lex.Classes[sec.name] = []domain.Rule{}
				lex.Order = append(lex.Order, sec.name)
			}
			raws, err := p.splitRules(sec, &diags)
			if err != nil {
				return nil, err
			}
			for _, raw := range raws {
				rule, ok, err := p.parseRule(sec.name, raw, &diags)
				if err != nil {
					return nil, err
				}
				if ok {
					lex.Classes[sec.name] = append(lex.Classes[sec.name], rule)
				}
			}
		}
	}

	lex.Diagnostics = diags
	return lex, nil
}

// sections strips comments and blank lines and groups what is left under the
// header that opened it.
func (p *Parser) sections(text string) ([]*section, []domain.Diagnostic, error) {
	var (
		out     []*section
		current *section
		diags   []domain.Diagnostic
	)

	for i, raw := range strings.Split(text, "\n") {
		number := i + 1
		line := TrimSpace(StripComment(raw))
		if line == "" {
			continue
		}

		switch {
		case line == domain.SymbolsHeader:
			current = &section{kind: sectionSymbols, line: number}
			out = append(out, current)

		case strings.HasPrefix(line, domain.LexiconPrefix):
			name := TrimSpace(line[len(domain.LexiconPrefix):])
			if name == "" {
				return nil, nil, &domain.ParseError{Line: number, Reason: "LEXICON header without a class name"}
			}
			current = &section{kind: sectionLexicon, name: name, line: number}
			out = append(out, current)

		case current == nil:
			if !p.lenient {
				return nil, nil, &domain.ParseError{Line: number, Rule: line, Reason: "content before any Multichar_Symbols or LEXICON header"}
			}
			diags = append(diags, p.warn(number, "", fmt.Sprintf("ignoring content outside of any section: %q", line)))

		default:
			if HasDanglingEscape(line) && !p.lenient {
				return nil, nil, &domain.ParseError{Line: number, Class: current.name, Rule: line, Reason: "line ends with a dangling escape"}
			}
			current.lines = append(current.lines, sourceLine{number: number, text: line})
		}
	}
	return out, diags, nil
}

// splitRules concatenates a class body and cuts it on unescaped ';'.
// Consecutive lines are joined by a single space.
func (p *Parser) splitRules(sec *section, diags *[]domain.Diagnostic) ([]rawRule, error) {
	var (
		rules   []rawRule
		buf     strings.Builder
		escaped bool
	)

	for li, l := range sec.lines {
		if li > 0 && buf.Len() > 0 {
			buf.WriteByte(' ')
			escaped = false
		}
		for i := 0; i < len(l.text); i++ {
			c := l.text[i]
			switch {
			case escaped:
				escaped = false
			case c == Escape:
				escaped = true
			case c == ';':
				rules = append(rules, rawRule{text: TrimSpace(buf.String()), line: l.number})
				buf.Reset()
				continue
			}
			buf.WriteByte(c)
		}
	}

	if rest := TrimSpace(buf.String()); rest != "" {
		last := sec.lines[len(sec.lines)-1].number
		if !p.lenient {
			return nil, &domain.ParseError{Line: last, Class: sec.name, Rule: rest, Reason: "rule is not terminated by ';'"}
		}
		*diags = append(*diags, p.warn(last, sec.name, fmt.Sprintf("accepting unterminated rule %q", rest)))
		rules = append(rules, rawRule{text: rest, line: last})
	}
	return rules, nil
}

// parseRule tokenizes one raw rule. ok is false when the rule was skipped.
func (p *Parser) parseRule(class string, raw rawRule, diags *[]domain.Diagnostic) (domain.Rule, bool, error) {
	tokens := Fields(raw.text)
	switch len(tokens) {
	case 0:
		return domain.Rule{}, false, nil

	case 1:
		return domain.Rule{Next: tokens[0], Line: raw.line}, true, nil

	case 2:
		input, output, err := DecodeReplacement(tokens[0])
		if err != nil {
			if !p.lenient {
				return domain.Rule{}, false, &domain.ParseError{Line: raw.line, Class: class, Rule: raw.text, Reason: "invalid replacement", Err: err}
			}
			*diags = append(*diags, p.warn(raw.line, class, fmt.Sprintf("skipping rule %q: %v", raw.text, err)))
			return domain.Rule{}, false, nil
		}
		return domain.Rule{
			Replacement: tokens[0],
			Input:       input,
			Output:      output,
			Next:        tokens[1],
			Line:        raw.line,
		}, true, nil

	default:
		reason := fmt.Sprintf("rule has %d tokens, want 1 or 2", len(tokens))
		if !p.lenient {
			return domain.Rule{}, false, &domain.ParseError{Line: raw.line, Class: class, Rule: raw.text, Reason: reason}
		}
		*diags = append(*diags, p.warn(raw.line, class, fmt.Sprintf("skipping rule %q: %s", raw.text, reason)))
		return domain.Rule{}, false, nil
	}
}

func (p *Parser) warn(line int, class, msg string) domain.Diagnostic {
	p.logger.Warn(msg, "line", line, "class", class)
	return domain.Diagnostic{
		Severity: domain.SeverityWarning,
		Line:     line,
		Class:    class,
		Message:  msg,
	}
}
