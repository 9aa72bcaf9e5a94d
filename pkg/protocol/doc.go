// Package protocol defines the wire types of the Aetherius Archive MCP
// interface: the JSON-RPC 2.0 envelope, the method names the server routes,
// and the descriptor types for tools, resources and context payloads.
//
// The package is transport-agnostic. It performs no I/O; the server package
// consumes already-decoded Request values and produces Response values for
// whatever transport carries them.
package protocol
