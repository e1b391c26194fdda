// Package config loads and validates the agent's YAML configuration:
// the Metrics Source endpoint and auth, fetch timeout, optional interval
// mode, fallback behaviour, report format, and the self-metrics probe.
// Secrets are never stored in the file; *_env fields name environment
// variables that hold the actual values. Watch provides fsnotify-based
// hot reload.
package config
