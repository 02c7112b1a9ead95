// Package config handles configuration loading and management for respvars.
//
// It provides functionality for:
//   - Loading configuration from respvars.yaml or .respvars.yaml files
//   - Structural validation against an embedded JSON schema
//   - Default values for polling, history and logging
//   - Converting declared variables into capture definitions
package config
