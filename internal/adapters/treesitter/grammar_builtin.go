//go:build cgo && !lean

package treesitter

// The python grammar compiles into the binary via CGo in the default build.
// Building with -tags lean drops it; grammar resolution then goes through
// the dynamic loader.

import (
	forest_python "github.com/alexaandru/go-sitter-forest/python"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// builtinLanguage returns the compiled-in python grammar.
func builtinLanguage() *tree_sitter.Language {
	return tree_sitter.NewLanguage(forest_python.GetLanguage())
}
