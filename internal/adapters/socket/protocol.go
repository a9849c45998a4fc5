// Package socket implements a JSON-over-Unix-socket protocol for the pysym
// daemon. The protocol uses newline-delimited JSON: each message is one JSON
// object + \n. The parse method wraps the same request/response payloads as
// the one-shot CLI mode, so a client sees identical semantics either way.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
)

// SocketPath returns the Unix socket path for a given state directory.
// Format: /tmp/pysym-{first12hex}.sock
func SocketPath(stateDir string) string {
	abs, err := filepath.Abs(stateDir)
	if err != nil {
		abs = stateDir
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/pysym-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodParse    = "parse"
	MethodHealth   = "health"
	MethodStats    = "stats"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages. Error is set
// only for transport-level problems; a parse request that fails inside the
// pipeline still produces a Result with ok=false.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status   string   `json:"status"`
	Backends []string `json:"backends"`
	Uptime   string   `json:"uptime"`
}
