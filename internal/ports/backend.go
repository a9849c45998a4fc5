// Package ports defines the boundary types and interfaces between the
// extraction core and its adapters. The two parsing backends (tree-sitter,
// pyscan) implement Backend; the core never branches on which adapter
// produced a node.
package ports

// Canonical backend identifiers, used as parser preference values on the
// wire and as the "parser" tag in responses.
const (
	BackendTreeSitter = "treesitter"
	BackendPyscan     = "pyscan"
)

// Symbol kinds emitted for top-level declarations. Backends may report any
// other kind string for statements that are not declarations; the extractor
// skips those.
const (
	KindFunction = "function"
	KindClass    = "class"
)

// Pos is a source position as reported by a backend.
// Line is 1-based, Col is a 0-based byte column within the line.
type Pos struct {
	Line int
	Col  int
}

// Span is a half-open source range from Start to End.
type Span struct {
	Start Pos
	End   Pos
}

// TopLevelNode describes one statement in the module body as reported by a
// backend. Span is nil when the backend could not resolve a position for the
// node; such nodes are dropped silently downstream.
//
// Decorator positions use the marker-exclusive convention: Col points one
// column past the decorator's marker glyph. Backends that anchor decorators
// at the marker itself report Col+1, so the extractor's uniform column
// adjustment lands exactly on the marker.
type TopLevelNode struct {
	Kind       string
	Name       string
	Span       *Span
	Decorators []Pos
}

// FailureKind classifies a backend parse failure. The classification is
// decided at the adapter boundary, not by inspecting opaque errors later.
type FailureKind int

const (
	// FailureSyntax means the source text itself is invalid. Terminal:
	// never triggers fallback to another backend.
	FailureSyntax FailureKind = iota
	// FailureOther covers internal backend errors and unsupported
	// constructs. Triggers fallback under the auto preference.
	FailureOther
)

// ParseFailure is the discriminated failure result of a backend invocation.
type ParseFailure struct {
	Kind   FailureKind
	Detail string
}

// Error implements the error interface for logging paths.
func (f *ParseFailure) Error() string {
	return f.Detail
}

// Backend parses Python source text into its top-level statement nodes.
// A backend either returns the full node list or a classified failure,
// never both.
type Backend interface {
	// Name returns the canonical backend identifier.
	Name() string

	// Parse returns the module's top-level statements in source order.
	Parse(src []byte) ([]TopLevelNode, *ParseFailure)
}
