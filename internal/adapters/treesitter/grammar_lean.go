//go:build cgo && lean

package treesitter

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// builtinLanguage is a no-op in lean builds; the grammar must come from a
// shared library via the DynamicLoader.
func builtinLanguage() *tree_sitter.Language {
	return nil
}
