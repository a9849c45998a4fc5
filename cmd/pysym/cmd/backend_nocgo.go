//go:build !cgo

package cmd

import "github.com/corey/pysym/internal/ports"

// newPrimaryBackend returns nil when CGo is unavailable (pure Go build).
// Extraction still works: the scanner backend handles every request.
func newPrimaryBackend(_ []string) ports.Backend {
	return nil
}
