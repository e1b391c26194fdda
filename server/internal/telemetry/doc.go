// Package telemetry registers the server's Prometheus instruments on a
// private registry and serves them on /metrics. The agent's probe reads
// this exposition for its report footer.
package telemetry
