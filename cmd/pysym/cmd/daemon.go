package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/pysym/internal/adapters/socket"
	"github.com/corey/pysym/internal/app"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the pysym daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sockPath := daemonSocket(cfg)
	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Println("daemon already running")
		return nil
	}

	a, err := app.New(cfg, newPrimaryBackend(cfg.GrammarPaths))
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		return err
	}

	fmt.Printf("pysym daemon started at %s\n", a.SocketPath())

	// Wait for a signal or a remote shutdown request
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		fmt.Println("\nshutting down...")
	case <-a.ShutdownCh():
		fmt.Println("shutdown requested, stopping...")
	}

	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := socket.NewClient(daemonSocket(cfg))
	if !client.Ping() {
		fmt.Println("daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}

	fmt.Println("daemon stopped")
	return nil
}
