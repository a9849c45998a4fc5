// Package protocol defines the request/response payloads of the extraction
// service and the handler that composes decode, extraction, and encode.
// One request in, one well-formed response out — nothing escapes as an
// unhandled fault.
package protocol

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/corey/pysym/internal/extract"
)

// ActionParseTopLevel is the only recognized request action.
const ActionParseTopLevel = "parse_top_level"

// Error kinds produced by the framing layer. Extraction failures carry the
// kinds defined in the extract package.
const (
	ErrInvalidInput      = "invalid_input"
	ErrUnsupportedAction = "unsupported_action"
)

// Request is the decoded request payload.
type Request struct {
	Action  string `json:"action"`
	Content string `json:"content"`
	Parser  string `json:"parser"`
}

// Response is the single response payload. Symbols is non-nil (possibly
// empty) exactly when OK is true; omitzero keeps it off error responses.
type Response struct {
	OK      bool             `json:"ok"`
	Parser  string           `json:"parser,omitempty"`
	Symbols []extract.Symbol `json:"symbols,omitzero"`
	Error   string           `json:"error,omitempty"`
	Detail  string           `json:"detail,omitempty"`
}

// DecodeRequest decodes a raw request payload leniently: a blank payload is
// an empty request, non-string fields fall back to their defaults, and only
// unparsable JSON is an error. The parser preference is lower-cased here so
// downstream comparison is exact.
func DecodeRequest(raw []byte) (Request, error) {
	req := Request{Parser: extract.ParserAuto}
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Request{}, err
	}

	if s, ok := payload["action"].(string); ok {
		req.Action = s
	}
	if s, ok := payload["content"].(string); ok {
		req.Content = s
	}
	if s, ok := payload["parser"].(string); ok {
		req.Parser = s
	}
	req.Parser = strings.ToLower(req.Parser)
	return req, nil
}
