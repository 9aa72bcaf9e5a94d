package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/everlight/aetherius/pkg/protocol"
)

// Handler processes one decoded MCP request into a response. The server
// dispatcher implements this; wrappers in this package layer tracing on
// top of any implementation.
type Handler interface {
	HandleRequest(ctx context.Context, req *protocol.Request) *protocol.Response
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, req *protocol.Request) *protocol.Response

// HandleRequest calls f
func (f HandlerFunc) HandleRequest(ctx context.Context, req *protocol.Request) *protocol.Response {
	return f(ctx, req)
}

// TraceHandler wraps a Handler so every dispatched request runs inside
// a server span carrying the method name and outcome.
func TraceHandler(tracing *TracingProvider, next Handler) Handler {
	if tracing == nil {
		return next
	}

	return HandlerFunc(func(ctx context.Context, req *protocol.Request) *protocol.Response {
		ctx, span := tracing.StartMethodSpan(ctx, req.Method)
		defer span.End()

		resp := next.HandleRequest(ctx, req)

		if resp != nil && resp.Error != nil {
			span.SetStatus(codes.Error, resp.Error.Message)
			span.SetAttributes(attribute.Int("rpc.error_code", int(resp.Error.Code)))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return resp
	})
}
