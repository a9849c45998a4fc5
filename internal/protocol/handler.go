package protocol

import (
	"github.com/corey/pysym/internal/extract"
	"github.com/corey/pysym/internal/ports"
)

// Handler services parse requests. It holds no per-request state; every
// invocation allocates its pipeline fresh and discards it with the response.
type Handler struct {
	extractor *extract.Extractor
}

// NewHandler creates a handler backed by the given extractor.
func NewHandler(x *extract.Extractor) *Handler {
	return &Handler{extractor: x}
}

// Handle decodes one raw request payload and produces its response.
func (h *Handler) Handle(raw []byte) Response {
	req, err := DecodeRequest(raw)
	if err != nil {
		return Response{OK: false, Error: ErrInvalidInput, Detail: err.Error()}
	}
	return h.HandleRequest(req)
}

// HandleRequest services an already-decoded request.
func (h *Handler) HandleRequest(req Request) Response {
	if req.Action != ActionParseTopLevel {
		return Response{OK: false, Error: ErrUnsupportedAction}
	}

	res, xerr := h.extractor.Extract([]byte(req.Content), req.Parser)
	if xerr != nil {
		return Response{
			OK:     false,
			Error:  string(xerr.Kind),
			Parser: xerr.Parser,
			Detail: xerr.Detail,
		}
	}
	return Response{OK: true, Parser: res.Parser, Symbols: res.Symbols}
}

// Outcome summarizes a response for the daemon's usage counters.
func Outcome(resp Response) ports.RequestOutcome {
	return ports.RequestOutcome{
		OK:        resp.OK,
		ErrorKind: resp.Error,
		Parser:    resp.Parser,
	}
}
