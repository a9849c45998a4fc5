// Package treesitter is the rich, strict parsing backend: a whole-tree
// parse of Python source using the tree-sitter runtime. The grammar is
// compiled in by default; lean builds resolve it from a shared library via
// the dynamic loader. Availability is probed once at construction.
//
// The whole package requires CGo. Pure Go builds get no files here and must
// not import it; the cmd layer selects the backend with its own build tags.
package treesitter
