package protocol

import (
	"encoding/json"
)

// Tool represents a tool descriptor in the MCP protocol. InputSchema is a
// JSON-Schema-shaped blob the server treats as opaque documentation; argument
// validation, if any, is the handler's responsibility.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListToolsParams defines parameters for listing tools
type ListToolsParams struct {
	PaginationParams
}

// ListToolsResult defines the response for listing tools
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
	PaginationResult
}

// CallToolParams defines parameters for calling a tool
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// ContentItem is one element of a tool call result
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult defines the response for tool calls. The handler's return
// value is serialized into a single text content item.
type CallToolResult struct {
	Content []ContentItem `json:"content"`
}
