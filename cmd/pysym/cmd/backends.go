package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/pysym/internal/ports"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Report parsing backend availability",
	RunE:  runBackends,
}

func runBackends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if newPrimaryBackend(cfg.GrammarPaths) != nil {
		fmt.Printf("%-12s available\n", ports.BackendTreeSitter)
	} else {
		fmt.Printf("%-12s unavailable (no grammar in this build; requests fall back under auto)\n", ports.BackendTreeSitter)
	}
	fmt.Printf("%-12s available\n", ports.BackendPyscan)
	return nil
}
