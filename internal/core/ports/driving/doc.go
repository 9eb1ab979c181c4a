// Package driving lists what the CLI, TUI, HTTP API and MCP server may ask
// of the core: search, the document library and settings. The services
// package provides the implementations.
package driving
