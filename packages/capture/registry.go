package capture

import (
	"regexp"
	"sort"
)

// Definition declares one variable and the pattern that produces it.
type Definition struct {
	Name  string
	Regex string
	// Path optionally narrows the payload to a JSON value (gjson syntax)
	// before the pattern is applied.
	Path string
}

// Pattern is a compiled regular expression bound to one variable.
type Pattern struct {
	Name string
	Path string
	re   *regexp.Regexp
}

// Groups returns the number of capturing groups in the pattern.
func (p *Pattern) Groups() int {
	return p.re.NumSubexp()
}

func (p *Pattern) String() string {
	return p.re.String()
}

// Registry maps variable names to compiled patterns. It is immutable once
// returned by Compile and safe for concurrent use.
type Registry struct {
	patterns []*Pattern
	byName   map[string]*Pattern
}

// Compile builds a Registry from defs. Every definition is checked and
// compiled before the registry is returned; the first failure aborts the
// whole set and no registry is produced.
func Compile(defs []Definition) (*Registry, error) {
	patterns := make([]*Pattern, 0, len(defs))
	byName := make(map[string]*Pattern, len(defs))

	for _, def := range defs {
		if def.Regex == "" {
			return nil, &ConfigError{Kind: ErrMissingPattern, Name: def.Name}
		}
		if _, dup := byName[def.Name]; dup {
			return nil, &ConfigError{Kind: ErrDuplicateName, Name: def.Name}
		}

		re, err := regexp.Compile(def.Regex)
		if err != nil {
			return nil, &ConfigError{Kind: ErrInvalidPattern, Name: def.Name, Err: err}
		}

		p := &Pattern{Name: def.Name, Path: def.Path, re: re}
		patterns = append(patterns, p)
		byName[def.Name] = p
	}

	return &Registry{patterns: patterns, byName: byName}, nil
}

// Pattern returns the pattern registered for name.
func (r *Registry) Pattern(name string) (*Pattern, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered variable names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.patterns)
}
