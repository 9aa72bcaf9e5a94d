// Package aetherius is the root of the Aetherius Archive server module,
// providing convenient exports of the core components from the
// sub-packages.
package aetherius

import (
	"github.com/everlight/aetherius/pkg/archive"
	"github.com/everlight/aetherius/pkg/embedding"
	"github.com/everlight/aetherius/pkg/protocol"
	"github.com/everlight/aetherius/pkg/server"
)

// Version is the current version of the archive server
const Version = "0.1.0"

// These exports provide direct access to the core components
var (
	// NewServer creates a new MCP dispatcher with empty registries
	NewServer = server.New

	// NewHTTPHandler creates an HTTP binding for a request handler
	NewHTTPHandler = server.NewHTTPHandler

	// NewIndex creates an empty document index
	NewIndex = archive.NewIndex

	// NewHandlers creates the archive tool/resource/context handlers
	NewHandlers = archive.NewHandlers

	// NewHashProvider creates the deterministic placeholder embedding provider
	NewHashProvider = embedding.NewHashProvider
)

// Server options
var (
	WithServerName    = server.WithName
	WithServerVersion = server.WithVersion
	WithServerLogger  = server.WithLogger
	WithServerMetrics = server.WithMetrics
)

// Index options
var (
	WithProvider      = archive.WithProvider
	WithSummaryLength = archive.WithSummaryLength
	WithIndexLogger   = archive.WithIndexLogger
)

// Protocol constants for capabilities
const (
	CapabilityTools     = protocol.CapabilityTools
	CapabilityResources = protocol.CapabilityResources
	CapabilityContext   = protocol.CapabilityContext
)
