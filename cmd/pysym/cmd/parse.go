package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/pysym/internal/adapters/pyscan"
	"github.com/corey/pysym/internal/config"
	"github.com/corey/pysym/internal/extract"
	"github.com/corey/pysym/internal/ports"
	"github.com/corey/pysym/internal/protocol"
)

var parseParser string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract top-level symbols from Python source",
	Long: "With a file argument, parses that file. Without one, reads a JSON\n" +
		"request object from stdin. The response is a single JSON object on\n" +
		"stdout; pipeline failures are reported in-band with ok=false.",
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseParser, "parser", "", "parser preference: auto, treesitter, or pyscan")
}

// newPipeline builds the local extraction pipeline from config.
func newPipeline(cfg *config.Config) *protocol.Handler {
	primary := newPrimaryBackend(cfg.GrammarPaths)
	return protocol.NewHandler(extract.New(ports.BackendTreeSitter, primary, pyscan.New()))
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	handler := newPipeline(cfg)

	var resp protocol.Response
	if len(args) == 1 {
		resp = parseFile(cfg, handler, args[0], parseParser)
	} else {
		resp = parseStdin(cfg, handler)
	}
	return writeResponse(resp)
}

func parseFile(cfg *config.Config, handler *protocol.Handler, path, parser string) protocol.Response {
	content, err := os.ReadFile(path)
	if err != nil {
		return protocol.Response{
			OK:     false,
			Error:  protocol.ErrInvalidInput,
			Detail: err.Error(),
		}
	}

	if parser == "" {
		parser = cfg.Parser
	}
	return handler.HandleRequest(protocol.Request{
		Action:  protocol.ActionParseTopLevel,
		Content: string(content),
		Parser:  strings.ToLower(parser),
	})
}

func parseStdin(cfg *config.Config, handler *protocol.Handler) protocol.Response {
	raw, err := io.ReadAll(io.LimitReader(os.Stdin, int64(cfg.MaxRequestBytes)+1))
	if err != nil {
		return protocol.Response{
			OK:     false,
			Error:  protocol.ErrInvalidInput,
			Detail: err.Error(),
		}
	}
	if len(raw) > cfg.MaxRequestBytes {
		return protocol.Response{
			OK:     false,
			Error:  protocol.ErrInvalidInput,
			Detail: fmt.Sprintf("request exceeds %d bytes", cfg.MaxRequestBytes),
		}
	}
	return handler.Handle(raw)
}

func writeResponse(resp protocol.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = os.Stdout.Write(data)
	return err
}
