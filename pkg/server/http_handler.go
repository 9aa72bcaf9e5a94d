package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/everlight/aetherius/pkg/logging"
	"github.com/everlight/aetherius/pkg/observability"
	"github.com/everlight/aetherius/pkg/protocol"
)

// maxRequestBody bounds the size of a single JSON-RPC request
const maxRequestBody = 4 << 20

// HTTPHandler is a thin HTTP binding over a request handler: it decodes
// one JSON-RPC request per POST body and writes the JSON response. All
// protocol semantics live behind the Handler.
type HTTPHandler struct {
	handler observability.Handler
	logger  logging.Logger
}

// NewHTTPHandler creates an HTTP binding for the given handler
func NewHTTPHandler(handler observability.Handler, logger logging.Logger) *HTTPHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HTTPHandler{handler: handler, logger: logger}
}

// ServeHTTP implements http.Handler
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.writeResponse(w, protocol.NewErrorResponse(nil, protocol.ParseError,
			"failed to read request body", nil))
		return
	}

	var req protocol.Request
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeResponse(w, protocol.NewErrorResponse(nil, protocol.ParseError,
			"failed to parse request", nil))
		return
	}

	if req.Method == "" {
		h.writeResponse(w, protocol.NewErrorResponse(req.ID, protocol.InvalidRequest,
			"missing method", nil))
		return
	}

	resp := h.handler.HandleRequest(r.Context(), &req)
	h.writeResponse(w, resp)
}

func (h *HTTPHandler) writeResponse(w http.ResponseWriter, resp *protocol.Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.WithError(err).Error("failed to write response")
	}
}
