// Package extract turns a backend's top-level statement nodes into symbol
// records with absolute byte offsets, and owns the backend selection and
// fallback policy. The extractor is backend-agnostic: it sees only the
// ports.Backend contract and never branches on which adapter produced a node.
package extract

import (
	"github.com/corey/pysym/internal/ports"
	"github.com/corey/pysym/internal/textindex"
)

// ParserAuto selects the primary backend when available, falling back to the
// secondary on non-syntax failures.
const ParserAuto = "auto"

// ErrorKind is the classified failure surfaced to the caller. Values appear
// verbatim in the response payload.
type ErrorKind string

const (
	ErrUnsupportedParser ErrorKind = "unsupported_parser"
	ErrParserUnavailable ErrorKind = "parser_unavailable"
	ErrSyntax            ErrorKind = "syntax_error"
	ErrParse             ErrorKind = "parse_error"
)

// Error is a classified extraction failure. Parser names the backend that
// produced it, when one was reached.
type Error struct {
	Kind   ErrorKind
	Parser string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return string(e.Kind) + ": " + e.Detail
	}
	return string(e.Kind)
}

// Symbol is one extracted top-level declaration. Start and End are absolute
// byte offsets into the request's source text; Body is the exact literal
// substring between them.
type Symbol struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Body  string `json:"body"`
}

// Result is a successful extraction: the symbols in source order and the
// backend that actually ran.
type Result struct {
	Parser  string
	Symbols []Symbol
}

// Extractor runs a preference-selected backend over source text. The primary
// backend may be nil when the capability is absent from the build; its name
// is still needed so explicit requests for it can be answered with
// parser_unavailable. The fallback backend must be present.
type Extractor struct {
	primaryName string
	primary     ports.Backend
	fallback    ports.Backend
}

// New creates an extractor. primary may be nil; fallback must not be.
func New(primaryName string, primary, fallback ports.Backend) *Extractor {
	return &Extractor{
		primaryName: primaryName,
		primary:     primary,
		fallback:    fallback,
	}
}

// PrimaryAvailable reports whether the primary backend is present.
func (x *Extractor) PrimaryAvailable() bool {
	return x.primary != nil
}

// Extract parses src with the backend named by pref (already lower-cased)
// and returns the extracted symbols, or a classified failure.
//
// Fallback policy: only the auto preference falls back, and only on a
// non-syntax primary failure. Syntax errors are about the source text, not
// the backend, so retrying another backend would just mask them. An explicit
// backend request is never silently substituted.
func (x *Extractor) Extract(src []byte, pref string) (*Result, *Error) {
	switch pref {
	case ParserAuto:
		if x.primary != nil {
			nodes, fail := x.primary.Parse(src)
			if fail == nil {
				return x.emit(src, x.primary.Name(), nodes), nil
			}
			if fail.Kind == ports.FailureSyntax {
				return nil, &Error{Kind: ErrSyntax, Parser: x.primary.Name(), Detail: fail.Detail}
			}
		}
		return x.runTerminal(src, x.fallback)
	case x.primaryName:
		if x.primary == nil {
			return nil, &Error{Kind: ErrParserUnavailable, Parser: x.primaryName}
		}
		return x.runTerminal(src, x.primary)
	case x.fallback.Name():
		return x.runTerminal(src, x.fallback)
	default:
		return nil, &Error{Kind: ErrUnsupportedParser}
	}
}

// runTerminal parses with a single backend; any failure is final.
func (x *Extractor) runTerminal(src []byte, b ports.Backend) (*Result, *Error) {
	nodes, fail := b.Parse(src)
	if fail != nil {
		kind := ErrParse
		if fail.Kind == ports.FailureSyntax {
			kind = ErrSyntax
		}
		return nil, &Error{Kind: kind, Parser: b.Name(), Detail: fail.Detail}
	}
	return x.emit(src, b.Name(), nodes), nil
}

// emit converts top-level nodes into symbol records. Nodes that are not
// function/class declarations, have no name, or carry no resolvable position
// contribute nothing.
func (x *Extractor) emit(src []byte, parser string, nodes []ports.TopLevelNode) *Result {
	idx := textindex.New(src)
	symbols := make([]Symbol, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != ports.KindFunction && n.Kind != ports.KindClass {
			continue
		}
		if n.Name == "" || n.Span == nil {
			continue
		}

		start := n.Span.Start
		if len(n.Decorators) > 0 {
			// Widen the span to the first decorator. Its column is reported
			// one past the marker glyph, so step back one column (clamped at
			// zero) to land on the marker itself.
			first := n.Decorators[0]
			start = ports.Pos{Line: first.Line, Col: first.Col - 1}
			if start.Col < 0 {
				start.Col = 0
			}
		}

		s := clampOffset(idx.Offset(start.Line, start.Col), len(src))
		e := clampOffset(idx.Offset(n.Span.End.Line, n.Span.End.Col), len(src))
		if e < s {
			e = s
		}

		symbols = append(symbols, Symbol{
			Kind:  n.Kind,
			Name:  n.Name,
			Start: s,
			End:   e,
			Body:  string(src[s:e]),
		})
	}
	return &Result{Parser: parser, Symbols: symbols}
}

// clampOffset keeps an offset sliceable even if a backend reports a column
// past the end of its line.
func clampOffset(off, total int) int {
	if off > total {
		return total
	}
	return off
}
