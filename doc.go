// Package aetherius implements the Aetherius Archive MCP server: a
// document repository exposed to AI-assistant clients over the Model
// Context Protocol.
//
// Clients discover and invoke named tools, read URI-addressed resources,
// and fetch aggregated context through a JSON-RPC dispatcher. Behind the
// dispatcher, a document index derives bounded summaries and embedding
// vectors from the archive's documents and ranks them by cosine
// similarity for search.
//
// # Sub-packages
//
//   - pkg/protocol: JSON-RPC and MCP message types
//   - pkg/server: the request dispatcher, registries, and HTTP binding
//   - pkg/archive: document index, summarization, search, and handlers
//   - pkg/embedding: the embedding provider interface and placeholder
//   - pkg/errors: structured errors mapped to JSON-RPC codes
//   - pkg/logging: structured logging and HTTP request logging
//   - pkg/observability: Prometheus metrics and OpenTelemetry tracing
//   - pkg/config: YAML configuration with defaults
//   - pkg/pagination: opaque-cursor pagination for list methods
//
// # Running a server
//
//	import (
//	    "github.com/everlight/aetherius"
//	    "github.com/everlight/aetherius/pkg/archive"
//	)
//
//	func main() {
//	    provider, _ := aetherius.NewHashProvider(384)
//	    index := aetherius.NewIndex(aetherius.WithProvider(provider))
//
//	    srv := aetherius.NewServer(
//	        aetherius.WithServerName("my-archive"),
//	        aetherius.WithServerVersion(aetherius.Version),
//	    )
//
//	    handlers := aetherius.NewHandlers("documents", index, nil)
//	    if err := handlers.Register(srv); err != nil {
//	        // Handle error
//	    }
//
//	    http.ListenAndServe(":8765", aetherius.NewHTTPHandler(srv, nil))
//	}
//
// The cmd/aetherius-server command wires all of this together with
// configuration, logging, metrics, tracing, and a directory watcher.
package aetherius
