// Package types defines the JSON payload shapes shared by the webpulse
// server and agent: site-wide traffic, top pages, and traffic sources.
// The server serializes them; the agent's source client decodes them and
// the analyzer consumes them.
package types
