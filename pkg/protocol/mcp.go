package protocol

const (
	// ProtocolVersion is the protocol revision advertised by initialize
	ProtocolVersion = "1.0"

	// Methods for lifecycle management
	MethodInitialize = "initialize"

	// Methods for server features
	MethodListTools     = "tools/list"
	MethodCallTool      = "tools/call"
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"
	MethodGetContext    = "context/get"
)

// CapabilityType defines the types of capabilities the server advertises
type CapabilityType string

const (
	// CapabilityTools indicates the server supports tool invocation
	CapabilityTools CapabilityType = "tools"

	// CapabilityResources indicates the server supports resource reads
	CapabilityResources CapabilityType = "resources"

	// CapabilityContext indicates the server supports context aggregation
	CapabilityContext CapabilityType = "context"
)

// Capability reports whether a single capability is enabled
type Capability struct {
	Enabled bool `json:"enabled"`
}

// InitializeParams defines the parameters for the initialize request
type InitializeParams struct {
	ProtocolVersion string      `json:"protocolVersion,omitempty"`
	ClientInfo      *ClientInfo `json:"clientInfo,omitempty"`
}

// ClientInfo provides additional information about the client
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult defines the response for the initialize request
type InitializeResult struct {
	ProtocolVersion string                `json:"protocolVersion"`
	ServerInfo      ServerInfo            `json:"serverInfo"`
	Capabilities    map[string]Capability `json:"capabilities"`
}

// ServerInfo provides additional information about the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// GetContextParams carries the opaque parameter map forwarded to every
// registered context callback.
type GetContextParams map[string]interface{}

// PaginationParams for requests that support pagination. Both fields are
// optional; a zero Limit means "return everything".
type PaginationParams struct {
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// PaginationResult for responses that support pagination
type PaginationResult struct {
	TotalCount int    `json:"totalCount,omitempty"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore,omitempty"`
}
