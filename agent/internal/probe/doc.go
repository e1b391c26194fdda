// Package probe reads the analytics server's own Prometheus exposition and
// summarizes its operational counters for the report footer. Probing is
// best-effort: the report renders fine without it.
package probe
