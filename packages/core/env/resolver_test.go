package env

import (
	"fmt"
	"testing"
)

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   MapSource
		expected string
	}{
		{
			name:     "no placeholders",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "simple placeholder",
			input:    "hello ${name}",
			values:   MapSource{"name": "world"},
			expected: "hello world",
		},
		{
			name:     "multiple placeholders",
			input:    "${greeting} ${name}!",
			values:   MapSource{"greeting": "Hello", "name": "World"},
			expected: "Hello World!",
		},
		{
			name:     "whitespace inside braces",
			input:    "id=${ id }",
			values:   MapSource{"id": "7"},
			expected: "id=7",
		},
		{
			name:     "empty value still substitutes",
			input:    "[${blank}]",
			values:   MapSource{"blank": ""},
			expected: "[]",
		},
		{
			name:     "unresolved stays as-is",
			input:    "hello ${unknown}",
			expected: "hello ${unknown}",
		},
		{
			name:     "handlebars syntax is not a placeholder",
			input:    "{{name}}",
			values:   MapSource{"name": "x"},
			expected: "{{name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.values)
			got := r.Resolve(tt.input)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolverWarnsOnUnresolved(t *testing.T) {
	var warnings []string
	r := NewResolver(MapSource{"a": "1"}, WithWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}))

	r.Resolve("${a} ${b} ${c}")

	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	if warnings[0] != "unresolved variable: b" {
		t.Errorf("warnings[0] = %q", warnings[0])
	}
}

func TestResolverNilSource(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Resolve("${x}"); got != "${x}" {
		t.Errorf("Resolve() = %q, want placeholder kept", got)
	}
}

func TestResolverGetUnresolvedVariables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   MapSource
		expected []string
	}{
		{
			name:     "no placeholders",
			input:    "hello world",
			expected: nil,
		},
		{
			name:     "resolved placeholder",
			input:    "${foo}",
			values:   MapSource{"foo": "bar"},
			expected: nil,
		},
		{
			name:     "multiple unresolved",
			input:    "${foo} and ${bar}",
			expected: []string{"foo", "bar"},
		},
		{
			name:     "mixed resolved and unresolved",
			input:    "${foo} and ${bar} and ${baz}",
			values:   MapSource{"bar": "middle"},
			expected: []string{"foo", "baz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.values)
			got := r.GetUnresolvedVariables(tt.input)

			if len(got) != len(tt.expected) {
				t.Fatalf("GetUnresolvedVariables(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i, v := range tt.expected {
				if got[i] != v {
					t.Errorf("GetUnresolvedVariables(%q)[%d] = %q, want %q", tt.input, i, got[i], v)
				}
			}
			if r.HasUnresolvedVariables(tt.input) != (len(tt.expected) > 0) {
				t.Errorf("HasUnresolvedVariables(%q) disagrees with GetUnresolvedVariables", tt.input)
			}
		})
	}
}

func TestResolverResolveAll(t *testing.T) {
	r := NewResolver(MapSource{"token": "abc"})
	got := r.ResolveAll(map[string]string{
		"Authorization": "Bearer ${token}",
		"Accept":        "application/json",
	})

	if got["Authorization"] != "Bearer abc" {
		t.Errorf("Authorization = %q", got["Authorization"])
	}
	if got["Accept"] != "application/json" {
		t.Errorf("Accept = %q", got["Accept"])
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${a}/x/${ b }")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Placeholders() = %v", got)
	}
}
