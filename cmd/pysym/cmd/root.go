package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/pysym/internal/adapters/socket"
	"github.com/corey/pysym/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pysym",
	Short: "pysym — Python top-level symbol extraction",
	Long:  "Extracts top-level function and class declarations from Python source,\nwith byte-exact spans and bodies.",
}

// loadConfig loads the config honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

// daemonSocket resolves the daemon socket path from config.
func daemonSocket(cfg *config.Config) string {
	if cfg.SocketPath != "" {
		return cfg.SocketPath
	}
	return socket.SocketPath(config.StateDir())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.pysym/config.yml)")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
}
