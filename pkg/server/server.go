// Package server implements the MCP dispatcher for the Aetherius Archive:
// it routes decoded JSON-RPC requests to registered tool, resource, and
// context handlers and packages their results into protocol responses.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	archerrors "github.com/everlight/aetherius/pkg/errors"
	"github.com/everlight/aetherius/pkg/logging"
	"github.com/everlight/aetherius/pkg/observability"
	"github.com/everlight/aetherius/pkg/pagination"
	"github.com/everlight/aetherius/pkg/protocol"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Server dispatches MCP requests. It is stateless per call; the
// registries it routes into are safe for concurrent use, so the
// surrounding transport may invoke HandleRequest from any number of
// goroutines.
type Server struct {
	name    string
	version string

	tools     *ToolRegistry
	resources *ResourceRegistry
	contexts  *ContextAggregator

	logger  logging.Logger
	metrics *observability.Metrics
}

// Option configures a Server
type Option func(*Server)

// WithName sets the server name advertised by initialize
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the server version advertised by initialize
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithLogger sets the server logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables request metrics recording
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// New creates a server with empty registries
func New(opts ...Option) *Server {
	s := &Server{
		name:      "aetherius-archive",
		version:   "0.1.0",
		tools:     NewToolRegistry(),
		resources: NewResourceRegistry(),
		contexts:  NewContextAggregator(),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTool adds or replaces a tool
func (s *Server) RegisterTool(name, description string, schema json.RawMessage, handler ToolHandler) {
	s.tools.Register(name, description, schema, handler)
	s.logger.Debug("tool registered", logging.String("tool", name))
}

// RegisterResource adds or replaces a resource
func (s *Server) RegisterResource(uri, name, description string, handler ResourceHandler) {
	s.resources.Register(uri, name, description, handler)
	s.logger.Debug("resource registered", logging.String("uri", uri))
}

// RegisterContextHandler appends a context callback
func (s *Server) RegisterContextHandler(handler ContextHandler) {
	s.contexts.Register(handler)
}

// HandleRequest routes one request to its handler and packages the
// outcome. It never panics outward: a panicking handler produces an
// internal-error response carrying the panic message.
func (s *Server) HandleRequest(ctx context.Context, req *protocol.Request) (resp *protocol.Response) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panicked",
				logging.String("method", req.Method),
				logging.Any("panic", r),
			)
			resp = protocol.NewErrorResponse(req.ID, protocol.InternalError,
				fmt.Sprintf("internal error: %v", r), nil)
		}
		if s.metrics != nil {
			status := statusSuccess
			if resp != nil && resp.Error != nil {
				status = statusError
			}
			s.metrics.RecordRequest(req.Method, status, time.Since(start))
		}
	}()

	s.logger.WithContext(ctx).Debug("dispatching request",
		logging.String("method", req.Method),
	)

	switch req.Method {
	case protocol.MethodInitialize:
		resp = s.handleInitialize(req)
	case protocol.MethodListTools:
		resp = s.handleListTools(req)
	case protocol.MethodCallTool:
		resp = s.handleCallTool(ctx, req)
	case protocol.MethodListResources:
		resp = s.handleListResources(req)
	case protocol.MethodReadResource:
		resp = s.handleReadResource(ctx, req)
	case protocol.MethodGetContext:
		resp = s.handleGetContext(ctx, req)
	default:
		resp = protocol.NewErrorResponse(req.ID, protocol.MethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil)
	}
	return resp
}

func (s *Server) handleInitialize(req *protocol.Request) *protocol.Response {
	var params protocol.InitializeParams
	if len(req.Params) > 0 {
		// Params are advisory; a client that sends none still initializes
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.logger.Warn("ignoring malformed initialize params", logging.ErrorField(err))
		}
	}

	if params.ClientInfo != nil {
		s.logger.Info("client connected",
			logging.String("client_name", params.ClientInfo.Name),
			logging.String("client_version", params.ClientInfo.Version),
		)
	}

	result := protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		ServerInfo: protocol.ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		Capabilities: map[string]protocol.Capability{
			string(protocol.CapabilityTools):     {Enabled: true},
			string(protocol.CapabilityResources): {Enabled: true},
			string(protocol.CapabilityContext):   {Enabled: true},
		},
	}
	return s.successResponse(req.ID, result)
}

func (s *Server) handleListTools(req *protocol.Request) *protocol.Response {
	var params protocol.ListToolsParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.errorResponse(req.ID, archerrors.Internal("parse tools/list params", err))
		}
	}

	tools := s.tools.List()
	start, end, page, err := pagination.Page(len(tools), &params.PaginationParams)
	if err != nil {
		return s.errorResponse(req.ID, err)
	}

	return s.successResponse(req.ID, protocol.ListToolsResult{
		Tools:            tools[start:end],
		PaginationResult: page,
	})
}

func (s *Server) handleCallTool(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.errorResponse(req.ID, archerrors.Internal("parse tools/call params", err))
		}
	}

	start := time.Now()
	result, err := s.tools.Invoke(ctx, params.Name, params.Arguments)

	if s.metrics != nil {
		status := statusSuccess
		if err != nil {
			status = statusError
		}
		s.metrics.RecordToolCall(params.Name, status, time.Since(start))
	}

	if err != nil {
		s.logger.WithError(err).Warn("tool invocation failed",
			logging.String("tool", params.Name),
		)
		return s.errorResponse(req.ID, err)
	}

	// The handler's return value becomes a single text content item
	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return s.errorResponse(req.ID, archerrors.Internal("encode tool result", err))
	}

	return s.successResponse(req.ID, protocol.CallToolResult{
		Content: []protocol.ContentItem{
			{Type: "text", Text: string(text)},
		},
	})
}

func (s *Server) handleListResources(req *protocol.Request) *protocol.Response {
	var params protocol.ListResourcesParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.errorResponse(req.ID, archerrors.Internal("parse resources/list params", err))
		}
	}

	resources := s.resources.List()
	start, end, page, err := pagination.Page(len(resources), &params.PaginationParams)
	if err != nil {
		return s.errorResponse(req.ID, err)
	}

	return s.successResponse(req.ID, protocol.ListResourcesResult{
		Resources:        resources[start:end],
		PaginationResult: page,
	})
}

func (s *Server) handleReadResource(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.ReadResourceParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.errorResponse(req.ID, archerrors.Internal("parse resources/read params", err))
		}
	}

	start := time.Now()
	content, err := s.resources.Read(ctx, params.URI)

	if s.metrics != nil {
		status := statusSuccess
		if err != nil {
			status = statusError
		}
		s.metrics.RecordResourceRead(status, time.Since(start))
	}

	if err != nil {
		s.logger.WithError(err).Warn("resource read failed",
			logging.String("uri", params.URI),
		)
		return s.errorResponse(req.ID, err)
	}

	return s.successResponse(req.ID, protocol.ReadResourceResult{
		Contents: []protocol.ResourceContents{
			{URI: params.URI, MimeType: "text/plain", Text: content},
		},
	})
}

func (s *Server) handleGetContext(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.GetContextParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.errorResponse(req.ID, archerrors.Internal("parse context/get params", err))
		}
	}

	merged, err := s.contexts.Aggregate(ctx, params)
	if err != nil {
		return s.errorResponse(req.ID, err)
	}
	return s.successResponse(req.ID, merged)
}

func (s *Server) successResponse(id interface{}, result interface{}) *protocol.Response {
	resp, err := protocol.NewResponse(id, result)
	if err != nil {
		return protocol.NewErrorResponse(id, protocol.InternalError,
			fmt.Sprintf("failed to encode result: %v", err), nil)
	}
	return resp
}

// errorResponse maps a handler error to a protocol error response.
// Protocol-category errors keep their JSON-RPC code; every failure from
// inside a tool, resource, or context callback surfaces uniformly as
// InternalError so existing clients see the codes they expect.
func (s *Server) errorResponse(id interface{}, err error) *protocol.Response {
	code := protocol.InternalError
	if archErr, ok := archerrors.AsArchiveError(err); ok {
		if archErr.Category() == archerrors.CategoryProtocol {
			code = protocol.ErrorCode(archErr.Code())
		}
		if s.metrics != nil {
			s.metrics.RecordError(string(archErr.Category()))
		}
	}
	return protocol.NewErrorResponse(id, code, err.Error(), nil)
}
