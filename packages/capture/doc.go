// Package capture extracts named variables from response payloads using
// regular expressions.
//
// A Registry is compiled once from a set of Definitions and is read-only
// afterwards. Each call to Extract scans a payload with every pattern:
//   - Patterns without capture groups contribute each full match
//   - Patterns with groups contribute every group of every match, in order
//
// All fragments for a variable are joined with Separator. A variable whose
// pattern matched nothing is absent, which is distinct from an empty value:
// absent values let callers fall back to other sources.
package capture
