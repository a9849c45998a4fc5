package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/pysym/internal/adapters/socket"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon status",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := socket.NewClient(daemonSocket(cfg))
	if !client.Ping() {
		fmt.Println("pysym daemon is not running")
		return nil
	}

	health, err := client.Health()
	if err != nil {
		return err
	}

	fmt.Printf("status:   %s\n", health.Status)
	fmt.Printf("backends: %s\n", strings.Join(health.Backends, ", "))
	fmt.Printf("uptime:   %s\n", health.Uptime)
	return nil
}
