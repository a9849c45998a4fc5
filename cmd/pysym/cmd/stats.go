package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corey/pysym/internal/adapters/socket"
	"github.com/corey/pysym/internal/ports"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daemon request counters",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := socket.NewClient(daemonSocket(cfg))
	if !client.Ping() {
		return fmt.Errorf("daemon not running. Start with: pysym daemon start")
	}

	result, err := client.Stats()
	if err != nil {
		return err
	}

	fmt.Print(formatStats(result))
	return nil
}

func formatStats(s *ports.UsageStats) string {
	var b []byte
	b = fmt.Appendf(b, "requests: %d\n", s.Requests)
	b = fmt.Appendf(b, "ok:       %d\n", s.OK)

	if len(s.Errors) > 0 {
		b = fmt.Appendf(b, "errors:\n")
		for _, k := range sortedKeys(s.Errors) {
			b = fmt.Appendf(b, "  %-20s %d\n", k, s.Errors[k])
		}
	}
	if len(s.Parsers) > 0 {
		b = fmt.Appendf(b, "parsers:\n")
		for _, k := range sortedKeys(s.Parsers) {
			b = fmt.Appendf(b, "  %-20s %d\n", k, s.Parsers[k])
		}
	}
	return string(b)
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
