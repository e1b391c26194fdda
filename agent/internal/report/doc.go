// Package report turns an analysis result into its final output form:
// a plain-text summary for the terminal or indented JSON for tooling.
package report
