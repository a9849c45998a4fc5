package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fsw "github.com/corey/pysym/internal/adapters/fsnotify"
)

var watchParser string

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-extract symbols whenever a Python file changes",
	Long: "Parses the file immediately, then again on every save. Each result\n" +
		"is printed as one JSON line on stdout. Ctrl-C stops watching.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchParser, "parser", "", "parser preference: auto, treesitter, or pyscan")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	handler := newPipeline(cfg)
	path := args[0]

	emit := func(p string) {
		if err := writeResponse(parseFile(cfg, handler, p, watchParser)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	emit(path)

	w, err := fsw.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Watch(path, emit); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}
