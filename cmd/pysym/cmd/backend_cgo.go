//go:build cgo

package cmd

import (
	"github.com/corey/pysym/internal/adapters/treesitter"
	"github.com/corey/pysym/internal/ports"
)

// newPrimaryBackend returns the tree-sitter backend when CGo is available
// and a Python grammar can be resolved (compiled in, or found on the given
// search paths). Returns nil otherwise; auto requests then use the scanner.
func newPrimaryBackend(grammarPaths []string) ports.Backend {
	b := treesitter.New(grammarPaths)
	if b == nil {
		return nil
	}
	return b
}
