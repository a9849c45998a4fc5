//go:build cgo

package treesitter

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/pysym/internal/ports"
)

// Backend implements ports.Backend using a resolved python grammar.
type Backend struct {
	lang *tree_sitter.Language
}

// New resolves the python grammar and returns the backend, or nil when no
// grammar is available (lean build with no shared library installed). The
// probe happens exactly once; callers treat a nil return as the capability
// being absent for the life of the process.
func New(grammarPaths []string) *Backend {
	if lang := builtinLanguage(); lang != nil {
		return &Backend{lang: lang}
	}
	if len(grammarPaths) > 0 {
		dl := NewDynamicLoader(grammarPaths)
		if lang, err := dl.LoadGrammar("python"); err == nil {
			return &Backend{lang: lang}
		}
	}
	return nil
}

// Name returns the canonical backend identifier.
func (b *Backend) Name() string {
	return ports.BackendTreeSitter
}

// Parse parses src and returns the module's top-level statements. A tree
// containing error or missing nodes is reported as a syntax failure; the
// source itself is at fault, so the caller must not retry another backend.
func (b *Backend) Parse(src []byte) ([]ports.TopLevelNode, *ports.ParseFailure) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(b.lang); err != nil {
		return nil, &ports.ParseFailure{
			Kind:   ports.FailureOther,
			Detail: fmt.Sprintf("set language: %v", err),
		}
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, &ports.ParseFailure{
			Kind:   ports.FailureOther,
			Detail: "parser produced no tree",
		}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ports.ParseFailure{
			Kind:   ports.FailureSyntax,
			Detail: syntaxDetail(root),
		}
	}
	return topLevelNodes(root, src), nil
}

// topLevelNodes walks only the direct children of the module node; bodies
// are never descended into.
func topLevelNodes(root *tree_sitter.Node, src []byte) []ports.TopLevelNode {
	count := root.NamedChildCount()
	nodes := make([]ports.TopLevelNode, 0, count)
	for i := uint(0); i < count; i++ {
		nodes = append(nodes, convertStatement(root.NamedChild(i), src))
	}
	return nodes
}

func convertStatement(n *tree_sitter.Node, src []byte) ports.TopLevelNode {
	switch n.Kind() {
	case "function_definition":
		return definitionNode(n, src, ports.KindFunction, nil)
	case "class_definition":
		return definitionNode(n, src, ports.KindClass, nil)
	case "decorated_definition":
		return decoratedNode(n, src)
	default:
		// Passed through for the extractor to skip.
		return ports.TopLevelNode{Kind: n.Kind(), Span: nodeSpan(n)}
	}
}

func definitionNode(n *tree_sitter.Node, src []byte, kind string, decorators []ports.Pos) ports.TopLevelNode {
	name := ""
	if id := childByKind(n, "identifier"); id != nil {
		name = nodeText(id, src)
	}
	return ports.TopLevelNode{
		Kind:       kind,
		Name:       name,
		Span:       nodeSpan(n),
		Decorators: decorators,
	}
}

// decoratedNode unwraps a decorated_definition: the node's span and name
// come from the inner definition, while the decorator children contribute
// their positions. Tree-sitter anchors a decorator at its @ glyph, so the
// reported column is shifted one past it per the marker-exclusive
// convention.
func decoratedNode(n *tree_sitter.Node, src []byte) ports.TopLevelNode {
	var decorators []ports.Pos
	count := n.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "decorator":
			pt := child.StartPosition()
			decorators = append(decorators, ports.Pos{
				Line: int(pt.Row) + 1,
				Col:  int(pt.Column) + 1,
			})
		case "function_definition":
			return definitionNode(child, src, ports.KindFunction, decorators)
		case "class_definition":
			return definitionNode(child, src, ports.KindClass, decorators)
		}
	}
	// No inner definition; surface the wrapper for the extractor to skip.
	return ports.TopLevelNode{Kind: n.Kind(), Span: nodeSpan(n)}
}

func nodeSpan(n *tree_sitter.Node) *ports.Span {
	start := n.StartPosition()
	end := n.EndPosition()
	return &ports.Span{
		Start: ports.Pos{Line: int(start.Row) + 1, Col: int(start.Column)},
		End:   ports.Pos{Line: int(end.Row) + 1, Col: int(end.Column)},
	}
}

// nodeText returns the source text for a node.
func nodeText(n *tree_sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}

// childByKind finds the first child with the given kind.
func childByKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// syntaxDetail locates the first error or missing node for the failure
// detail string.
func syntaxDetail(root *tree_sitter.Node) string {
	if n := findErrorNode(root); n != nil {
		pt := n.StartPosition()
		return fmt.Sprintf("syntax error near line %d, column %d", pt.Row+1, pt.Column)
	}
	return "syntax error"
}

func findErrorNode(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if e := findErrorNode(n.Child(i)); e != nil {
			return e
		}
	}
	return n
}
