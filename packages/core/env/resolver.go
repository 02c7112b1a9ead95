package env

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver substitutes ${name} placeholders with values from a Source.
// Placeholders whose name cannot be resolved are left as they are.
type Resolver struct {
	source   Source
	warnFunc WarnFunc
}

type ResolverOption func(*Resolver)

// WithWarnFunc sets a function to be called for every unresolved placeholder.
func WithWarnFunc(fn WarnFunc) ResolverOption {
	return func(r *Resolver) {
		r.warnFunc = fn
	}
}

func NewResolver(source Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{source: source}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) lookup(name string) (string, bool) {
	if r.source == nil {
		return "", false
	}
	return r.source.Lookup(name)
}

func (r *Resolver) Resolve(input string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := r.lookup(name); ok {
			return val
		}
		if r.warnFunc != nil {
			r.warnFunc("unresolved variable: %s", name)
		}
		return match
	})
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

// HasUnresolvedVariables reports whether input holds a placeholder the
// source cannot resolve.
func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}

// GetUnresolvedVariables returns the names of unresolvable placeholders in
// order of appearance, or nil when there are none.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var unresolved []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(input, -1) {
		name := strings.TrimSpace(m[1])
		if _, ok := r.lookup(name); !ok {
			unresolved = append(unresolved, name)
		}
	}
	return unresolved
}

// Placeholders returns every placeholder name in input in order of appearance.
func Placeholders(input string) []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(input, -1) {
		names = append(names, strings.TrimSpace(m[1]))
	}
	return names
}
