// Package cmd implements the respvars CLI commands using Cobra.
//
// Available commands:
//   - extract: Extract variables from a response payload
//   - render: Substitute ${name} placeholders in a template
//   - poll: Poll an endpoint, chaining extracted values into each request
//   - history: Show recorded extraction passes
//   - validate: Check a configuration file and compile its patterns
//   - init: Create a starter configuration
//   - version: Show respvars version information
package cmd
