// Package output renders resolved variables, poll summaries and recorded
// history.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
package output
