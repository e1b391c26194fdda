// Package api implements the REST endpoints of the analytics server:
// traffic, pages, sources, and health. Payload shapes live in pkg/types
// so the agent decodes exactly what the server encodes.
package api
