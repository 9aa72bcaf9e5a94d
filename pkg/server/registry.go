package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	archerrors "github.com/everlight/aetherius/pkg/errors"
	"github.com/everlight/aetherius/pkg/protocol"
)

var (
	// ErrToolNotFound is returned when invoking a tool that was never registered
	ErrToolNotFound = fmt.Errorf("tool not found")

	// ErrResourceNotFound is returned when reading a resource that was never registered
	ErrResourceNotFound = fmt.Errorf("resource not found")
)

// ToolHandler executes a tool invocation. Handlers may block on I/O; the
// dispatcher passes through the request context for cancellation by the
// surrounding transport.
type ToolHandler func(ctx context.Context, arguments map[string]interface{}) (interface{}, error)

// ResourceHandler produces resource content on demand. Content is not
// cached at this layer; every read invokes the handler.
type ResourceHandler func(ctx context.Context) (string, error)

// ContextHandler contributes a map of key/value pairs to an aggregated
// context response.
type ContextHandler func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error)

type toolEntry struct {
	tool    protocol.Tool
	handler ToolHandler
}

// ToolRegistry maps tool names to handlers plus descriptor metadata.
// Registration is an unconditional upsert; re-registering a name replaces
// the entry but keeps its original position in listing order.
type ToolRegistry struct {
	mu      sync.RWMutex
	entries map[string]*toolEntry
	order   []string
}

// NewToolRegistry creates an empty tool registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		entries: make(map[string]*toolEntry),
	}
}

// Register adds or replaces the tool under name
func (r *ToolRegistry) Register(name, description string, schema json.RawMessage, handler ToolHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = &toolEntry{
		tool: protocol.Tool{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		handler: handler,
	}
}

// List returns tool descriptors in registration order
func (r *ToolRegistry) List() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]protocol.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.entries[name].tool)
	}
	return tools
}

// Invoke looks up the tool by exact name and calls its handler
func (r *ToolRegistry) Invoke(ctx context.Context, name string, arguments map[string]interface{}) (interface{}, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return entry.handler(ctx, arguments)
}

// Len returns the number of registered tools
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

type resourceEntry struct {
	resource protocol.Resource
	handler  ResourceHandler
}

// ResourceRegistry maps resource URIs to handlers plus descriptor
// metadata, with the same upsert and ordering semantics as ToolRegistry.
type ResourceRegistry struct {
	mu      sync.RWMutex
	entries map[string]*resourceEntry
	order   []string
}

// NewResourceRegistry creates an empty resource registry
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		entries: make(map[string]*resourceEntry),
	}
}

// Register adds or replaces the resource under uri
func (r *ResourceRegistry) Register(uri, name, description string, handler ResourceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[uri]; !exists {
		r.order = append(r.order, uri)
	}
	r.entries[uri] = &resourceEntry{
		resource: protocol.Resource{
			URI:         uri,
			Name:        name,
			Description: description,
		},
		handler: handler,
	}
}

// List returns resource descriptors in registration order
func (r *ResourceRegistry) List() []protocol.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resources := make([]protocol.Resource, 0, len(r.order))
	for _, uri := range r.order {
		resources = append(resources, r.entries[uri].resource)
	}
	return resources
}

// Read looks up the resource by exact URI and invokes its handler
func (r *ResourceRegistry) Read(ctx context.Context, uri string) (string, error) {
	r.mu.RLock()
	entry, ok := r.entries[uri]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, uri)
	}
	return entry.handler(ctx)
}

// Len returns the number of registered resources
func (r *ResourceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ContextAggregator invokes registered context callbacks in registration
// order and merges their maps into one. On key conflicts the later
// callback wins.
type ContextAggregator struct {
	mu       sync.RWMutex
	handlers []ContextHandler
}

// NewContextAggregator creates an empty aggregator
func NewContextAggregator() *ContextAggregator {
	return &ContextAggregator{}
}

// Register appends a context callback
func (a *ContextAggregator) Register(handler ContextHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers = append(a.handlers, handler)
}

// Aggregate runs every callback and merges the results. The first
// callback error aborts aggregation.
func (a *ContextAggregator) Aggregate(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	a.mu.RLock()
	handlers := make([]ContextHandler, len(a.handlers))
	copy(handlers, a.handlers)
	a.mu.RUnlock()

	merged := make(map[string]interface{})
	for _, handler := range handlers {
		result, err := handler(ctx, params)
		if err != nil {
			return nil, archerrors.Internal("context aggregation", err)
		}
		for k, v := range result {
			merged[k] = v
		}
	}
	return merged, nil
}

// Len returns the number of registered context callbacks
func (a *ContextAggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.handlers)
}
