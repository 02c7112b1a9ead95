package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "variables": {
      "type": "object",
      "additionalProperties": {
        "oneOf": [
          {"type": "null"},
          {"type": "string"},
          {
            "type": "object",
            "additionalProperties": false,
            "properties": {
              "name":  {"type": "string"},
              "regex": {"type": "string"},
              "path":  {"type": "string"}
            }
          }
        ]
      }
    },
    "overrides": {
      "type": "object",
      "additionalProperties": {"type": ["string", "number", "boolean"]}
    },
    "env": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "prefix": {"type": "string"},
        "files": {"type": "array", "items": {"type": "string"}},
        "ignoreMissing": {"type": "boolean"}
      }
    },
    "poll": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "url": {"type": "string"},
        "method": {"type": "string", "pattern": "^(?i)(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)$"},
        "headers": {"type": "object", "additionalProperties": {"type": "string"}},
        "query": {"type": "object", "additionalProperties": {"type": "string"}},
        "body": {"type": "string"},
        "interval": {"type": "string"},
        "rate": {"type": "number", "minimum": 0},
        "timeout": {"type": "string"},
        "maxIterations": {"type": "integer", "minimum": 0},
        "followRedirects": {"type": "boolean"},
        "maxRedirects": {"type": "integer", "minimum": 0},
        "validateSSL": {"type": "boolean"}
      }
    },
    "history": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "path": {"type": "string"}
      }
    },
    "log": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "warning", "error"]},
        "development": {"type": "boolean"}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(configSchema))
	})
	return schema, schemaErr
}

// SchemaError lists every structural problem found in a config document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

func validateSchema(doc any) error {
	s, err := loadSchema()
	if err != nil {
		return fmt.Errorf("loading config schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &SchemaError{Problems: problems}
}
