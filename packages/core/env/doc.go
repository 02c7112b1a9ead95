// Package env provides the value sources respvars falls back to and the
// ${name} substitution used to render request templates.
//
// It provides functionality for:
//   - Loading environment files (.env, .env.local, etc.)
//   - Looking up values in configuration overrides and the process environment
//   - Chaining sources so the first one holding a value wins
//   - Substituting ${name} placeholders from any source
package env
