// Package http provides the HTTP transport respvars polls with.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts and redirect handling
//   - Default headers and per-request IDs
//   - Responses whose full payload is available as a string
package http
