// pysym extracts top-level symbols from Python source.
// Single binary — one-shot parsing on stdin, or a Unix-socket daemon.
package main

import (
	"os"

	"github.com/corey/pysym/cmd/pysym/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
