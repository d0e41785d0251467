// Package mcp provides an MCP (Model Context Protocol) server adapter for cadbook.
// It lets AI assistants discover assemblies, build handbooks and inspect
// past batch runs.
package mcp

import "errors"

// ErrMissingDiscoveryService is returned when the discovery service is not provided.
var ErrMissingDiscoveryService = errors.New("mcp: discovery service is required")
