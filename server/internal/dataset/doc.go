// Package dataset holds the analytics document the server serves from:
// a built-in default or a YAML file with fsnotify hot reload. Report
// totals are derived from the document on every read, so a reload never
// leaves them inconsistent.
package dataset
