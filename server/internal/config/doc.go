// Package config loads and validates the server's YAML configuration:
// listen port, dataset file, stream cadence, and API authentication.
// The expected API key is resolved from an environment variable named in
// the file, never stored in it.
package config
